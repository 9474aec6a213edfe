package modwrap

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/modwrap/modwrap/internal/srcinfo"
)

// DefaultMaxBytes is the size guard applied to module files unless
// Options.AllowLarge is set. Interpreted modules are expected to be
// small plugin-style files; anything past this is more likely a mistake
// than a plugin.
const DefaultMaxBytes int64 = 1 << 20

// Options tunes module loading.
type Options struct {
	// AllowLarge disables the file size guard.
	AllowLarge bool
	// MaxBytes overrides DefaultMaxBytes when positive.
	MaxBytes int64
}

// Module is a loaded, executable handle to a Go source file. Each Module
// owns a private interpreter instance, so two Modules never share state
// even when loaded from files with the same base name.
type Module struct {
	path string
	name string
	src  *srcinfo.File
	itp  *interp.Interpreter
}

// Load loads and executes the Go source file at path with default options.
func Load(path string) (*Module, error) {
	return LoadWithOptions(path, Options{})
}

// LoadWithOptions loads and executes the Go source file at path.
//
// The file is validated (exists, regular file, .go suffix, parseable
// Go, within the size guard) before any of its code runs. Execution
// covers package-level variable initializers and init functions; those
// run exactly once, here. Every failure mode is returned as *LoadError.
func LoadWithOptions(path string, opts Options) (*Module, error) {
	if path == "" {
		return nil, newLoadError(path, "empty module path", nil)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, newLoadError(path, "cannot resolve path", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, newLoadError(abs, "file not found", err)
	}
	if info.IsDir() {
		return nil, newLoadError(abs, "path is a directory, not a file", nil)
	}
	if !info.Mode().IsRegular() {
		return nil, newLoadError(abs, "not a regular file", nil)
	}
	if filepath.Ext(abs) != ".go" {
		return nil, newLoadError(abs, "not a .go source file", nil)
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if !opts.AllowLarge && info.Size() > maxBytes {
		return nil, newLoadError(abs, fmt.Sprintf("file exceeds %d bytes (use AllowLarge to override)", maxBytes), nil)
	}

	src, err := srcinfo.Parse(abs)
	if err != nil {
		return nil, newLoadError(abs, "invalid Go source", err)
	}

	itp := interp.New(interp.Options{})
	if err := itp.Use(stdlib.Symbols); err != nil {
		return nil, newLoadError(abs, "interpreter setup failed", err)
	}

	if err := evalPath(itp, abs); err != nil {
		return nil, newLoadError(abs, "module execution failed", err)
	}

	name := strings.TrimSuffix(filepath.Base(abs), ".go")
	return &Module{path: abs, name: name, src: src, itp: itp}, nil
}

// Path returns the absolute path the module was loaded from.
func (m *Module) Path() string { return m.path }

// Name returns the module name derived from the file's base name.
func (m *Module) Name() string { return m.name }

// symbol resolves a top-level identifier of the loaded file to its
// runtime value. Identifiers of a named package are qualified with the
// package name; a main package is evaluated in its own scope and needs
// no qualifier.
func (m *Module) symbol(name string) (reflect.Value, error) {
	expr := name
	if m.src.Package != "main" {
		expr = m.src.Package + "." + name
	}
	return eval(m.itp, expr)
}

// The interpreter reports some failures by panicking rather than
// returning an error; both evalPath and eval flatten that into a plain
// error so callers see a single failure channel.

func evalPath(itp *interp.Interpreter, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	_, err = itp.EvalPath(path)
	return err
}

func eval(itp *interp.Interpreter, expr string) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return itp.Eval(expr)
}
