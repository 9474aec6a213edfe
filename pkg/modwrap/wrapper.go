// Package modwrap loads a Go source file at runtime as an isolated
// module, enumerates its top-level functions, validates caller-asserted
// parameter types against the declared ones, and hands out directly
// invocable references to the functions.
//
// Loaded code runs in an embedded interpreter with the standard library
// available; there is no sandboxing. Loading a module executes its
// package-level initializers, exactly once, with whatever side effects
// they have.
package modwrap

import (
	"sort"

	"github.com/modwrap/modwrap/internal/srcinfo"
)

// Param is one parameter of a callable's signature. A parameter declared
// as any (or interface{}) carries no usable type constraint and is
// treated as untyped by validation.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Untyped reports whether the parameter is declared any / interface{}.
func (p Param) Untyped() bool {
	return p.Type == "any"
}

// Signature is the ordered parameter list of one top-level function.
type Signature struct {
	Name    string   `json:"name"`
	Params  []Param  `json:"params"`
	Returns []string `json:"returns,omitempty"`
}

// TypeAssertion is one caller-supplied expectation about a parameter:
// the named parameter must exist and, if typed, must be declared with
// exactly this type.
type TypeAssertion struct {
	Param string
	Type  string
}

// Wrapper owns exactly one successfully loaded module. Construction
// loads the module; if loading fails no Wrapper is returned. All methods
// are read-only queries over the immutable loaded module.
type Wrapper struct {
	mod *Module
}

// New loads the Go source file at path and wraps it.
func New(path string) (*Wrapper, error) {
	return NewWithOptions(path, Options{})
}

// NewWithOptions loads the Go source file at path with explicit options.
func NewWithOptions(path string, opts Options) (*Wrapper, error) {
	mod, err := LoadWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	return &Wrapper{mod: mod}, nil
}

// Name returns the module name (file base name without extension).
func (w *Wrapper) Name() string { return w.mod.Name() }

// Path returns the absolute path of the loaded file.
func (w *Wrapper) Path() string { return w.mod.Path() }

// ListCallables returns the signature of every top-level function
// declared in the module file, in declaration order. Methods and
// imported names are excluded. The result is rebuilt on every call.
func (w *Wrapper) ListCallables() []Signature {
	sigs := make([]Signature, 0, len(w.mod.src.Funcs))
	for _, fn := range w.mod.src.Funcs {
		sigs = append(sigs, signatureOf(fn))
	}
	return sigs
}

// HasCallable reports whether the module declares a top-level function
// with the given name.
func (w *Wrapper) HasCallable(name string) bool {
	_, ok := w.mod.src.Func(name)
	return ok
}

// GetCallable returns an invocable reference to the named top-level
// function. It returns *CallableNotFoundError when no top-level
// declaration has that name and *NotCallableError when the name refers
// to a var, const or type. The reference is not validated against
// anything; validation is a separate, explicit step.
func (w *Wrapper) GetCallable(name string) (*Callable, error) {
	fn, ok := w.mod.src.Func(name)
	if !ok {
		if kind, exists := w.mod.src.DeclKind(name); exists {
			return nil, &NotCallableError{Name: name, Kind: kind}
		}
		return nil, &CallableNotFoundError{Name: name}
	}

	v, err := w.mod.symbol(name)
	if err != nil {
		return nil, &CallableNotFoundError{Name: name}
	}

	return &Callable{Name: name, fn: v, decl: fn}, nil
}

// ValidateSignature checks the named function against the given
// assertions, in the order supplied. For each assertion the parameter
// must exist; if the parameter is typed, the types must be identical
// (after normalization, no subtype compatibility). Untyped (any)
// parameters pass regardless of the asserted type, and parameters the
// caller does not mention are never checked. The first violation is
// returned as *SignatureError; lookup failures surface as in GetCallable.
func (w *Wrapper) ValidateSignature(name string, expected []TypeAssertion) error {
	fn, err := w.declOf(name)
	if err != nil {
		return err
	}

	for _, want := range expected {
		param, ok := findParam(fn.Params, want.Param)
		if !ok {
			return &SignatureError{Callable: name, Param: want.Param, Missing: true}
		}
		if param.Untyped() {
			continue
		}
		if srcinfo.NormalizeType(want.Type) != param.Type {
			return &SignatureError{
				Callable: name,
				Param:    want.Param,
				Expected: want.Type,
				Actual:   param.Type,
			}
		}
	}
	return nil
}

// ValidateSignatureMap is ValidateSignature for callers holding a plain
// map. Go maps have no order, so assertions are checked in sorted key
// order; which violation of several is reported first is not something
// to rely on.
func (w *Wrapper) ValidateSignatureMap(name string, expected map[string]string) error {
	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	asserts := make([]TypeAssertion, 0, len(keys))
	for _, k := range keys {
		asserts = append(asserts, TypeAssertion{Param: k, Type: expected[k]})
	}
	return w.ValidateSignature(name, asserts)
}

// IsSignatureValid reports whether ValidateSignature would pass.
func (w *Wrapper) IsSignatureValid(name string, expected []TypeAssertion) bool {
	return w.ValidateSignature(name, expected) == nil
}

func (w *Wrapper) declOf(name string) (srcinfo.Func, error) {
	fn, ok := w.mod.src.Func(name)
	if ok {
		return fn, nil
	}
	if kind, exists := w.mod.src.DeclKind(name); exists {
		return srcinfo.Func{}, &NotCallableError{Name: name, Kind: kind}
	}
	return srcinfo.Func{}, &CallableNotFoundError{Name: name}
}

func findParam(params []srcinfo.Param, name string) (srcinfo.Param, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return srcinfo.Param{}, false
}

func signatureOf(fn srcinfo.Func) Signature {
	sig := Signature{Name: fn.Name}
	for _, p := range fn.Params {
		sig.Params = append(sig.Params, Param{Name: p.Name, Type: p.Type})
	}
	sig.Returns = append(sig.Returns, fn.Results...)
	return sig
}
