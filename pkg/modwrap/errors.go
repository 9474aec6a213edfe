package modwrap

import "fmt"

// LoadError reports a failure to turn a file path into a loaded module.
// It covers path problems, unparseable source, and errors raised by the
// module's own top-level code. The underlying cause, when there is one,
// is available through Unwrap.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements error interface
func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
}

// Unwrap implements error unwrapping
func (e *LoadError) Unwrap() error {
	return e.Err
}

func newLoadError(path, reason string, err error) *LoadError {
	return &LoadError{Path: path, Reason: reason, Err: err}
}

// CallableNotFoundError reports that a module has no top-level
// declaration with the requested name.
type CallableNotFoundError struct {
	Name string
}

func (e *CallableNotFoundError) Error() string {
	return fmt.Sprintf("callable %q not found in module", e.Name)
}

// NotCallableError reports that the requested name exists in the module
// but is not a function.
type NotCallableError struct {
	Name string
	Kind string // "var", "const" or "type"
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("%q is not callable (declared as %s)", e.Name, e.Kind)
}

// SignatureError reports the first violated assertion of a signature
// check: either the parameter does not exist on the target function, or
// its declared type differs from the asserted one.
type SignatureError struct {
	Callable string
	Param    string
	Expected string
	Actual   string
	Missing  bool
}

func (e *SignatureError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s: missing expected parameter %q", e.Callable, e.Param)
	}
	return fmt.Sprintf("%s: parameter %q has type %s, expected %s", e.Callable, e.Param, e.Actual, e.Expected)
}
