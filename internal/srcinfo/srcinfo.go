// Package srcinfo reads the top-level declarations of a single Go source
// file without executing it. It is the introspection half of the module
// wrapper: function enumeration, parameter signatures, and imports all
// come from here, while execution is handled by the interpreter.
package srcinfo

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"strconv"
	"strings"
)

// Param is a single declared function parameter.
type Param struct {
	Name string
	Type string
}

// Untyped reports whether the parameter carries no usable type
// constraint (declared as any / interface{}).
func (p Param) Untyped() bool {
	return p.Type == "any"
}

// Func describes a top-level function declaration.
type Func struct {
	Name     string
	Params   []Param
	Results  []string
	Variadic bool
}

// File holds the declarations of one parsed source file.
type File struct {
	Package string
	Funcs   []Func
	Imports []string

	kinds map[string]string // top-level name -> "func" | "var" | "const" | "type"
}

// Parse reads and parses the file at path.
func Parse(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSource(src, path)
}

// ParseSource parses Go source held in memory. The filename is only used
// in error positions.
func ParseSource(src []byte, filename string) (*File, error) {
	fset := token.NewFileSet()
	astFile, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	f := &File{
		Package: astFile.Name.Name,
		kinds:   make(map[string]string),
	}

	for _, imp := range astFile.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		f.Imports = append(f.Imports, path)
	}

	for _, decl := range astFile.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil {
				continue // methods are not top-level callables
			}
			fn := buildFunc(fset, d)
			f.Funcs = append(f.Funcs, fn)
			f.kinds[fn.Name] = "func"
		case *ast.GenDecl:
			kind := ""
			switch d.Tok {
			case token.VAR:
				kind = "var"
			case token.CONST:
				kind = "const"
			case token.TYPE:
				kind = "type"
			default:
				continue
			}
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, name := range s.Names {
						f.kinds[name.Name] = kind
					}
				case *ast.TypeSpec:
					f.kinds[s.Name.Name] = kind
				}
			}
		}
	}

	return f, nil
}

// Func returns the declaration of the named top-level function.
func (f *File) Func(name string) (Func, bool) {
	for _, fn := range f.Funcs {
		if fn.Name == name {
			return fn, true
		}
	}
	return Func{}, false
}

// DeclKind returns what kind of top-level declaration owns the name.
func (f *File) DeclKind(name string) (string, bool) {
	kind, ok := f.kinds[name]
	return kind, ok
}

func buildFunc(fset *token.FileSet, d *ast.FuncDecl) Func {
	fn := Func{Name: d.Name.Name}

	if d.Type.Params != nil {
		for _, field := range d.Type.Params.List {
			typ := TypeString(fset, field.Type)
			if _, variadic := field.Type.(*ast.Ellipsis); variadic {
				fn.Variadic = true
			}
			if len(field.Names) == 0 {
				fn.Params = append(fn.Params, Param{Name: "_", Type: typ})
				continue
			}
			for _, name := range field.Names {
				fn.Params = append(fn.Params, Param{Name: name.Name, Type: typ})
			}
		}
	}

	if d.Type.Results != nil {
		for _, field := range d.Type.Results.List {
			typ := TypeString(fset, field.Type)
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				fn.Results = append(fn.Results, typ)
			}
		}
	}

	return fn
}

// TypeString renders a type expression the way gofmt would, with
// interface{} normalized to any so that the two spellings compare equal.
func TypeString(fset *token.FileSet, expr ast.Expr) string {
	var sb strings.Builder
	if err := printer.Fprint(&sb, fset, expr); err != nil {
		return ""
	}
	return normalize(sb.String())
}

// NormalizeType canonicalizes a type written as a string, so that caller
// input like "interface{}" or "[]  byte" matches the rendered form of a
// declaration. Unparseable input is returned trimmed, not rejected:
// comparison against a real type will simply fail.
func NormalizeType(s string) string {
	s = strings.TrimSpace(s)
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return s
	}
	return TypeString(token.NewFileSet(), expr)
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "interface{}", "any")
}
