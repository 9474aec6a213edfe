package modwrap

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/modwrap/modwrap/internal/srcinfo"
)

// Callable is a direct, invocable reference to one top-level function of
// a loaded module. The underlying function is a real function value; it
// can be extracted with Value or Interface and called like any other Go
// function. Invoke and InvokeKwargs exist for callers whose arguments
// arrive as strings or JSON, the way a command line delivers them.
type Callable struct {
	Name string

	fn   reflect.Value
	decl srcinfo.Func
}

// Value returns the function as a reflect.Value.
func (c *Callable) Value() reflect.Value { return c.fn }

// Interface returns the function as an untyped value, suitable for a
// type assertion to its concrete func type.
func (c *Callable) Interface() any { return c.fn.Interface() }

// Signature returns the callable's declared signature.
func (c *Callable) Signature() Signature { return signatureOf(c.decl) }

// Invoke calls the function with positional string arguments. Each
// argument is converted to the corresponding parameter's type: strings
// pass through, bool/int/uint/float parameters are parsed, and an any
// parameter receives the raw string. Parameters of other types cannot be
// supplied positionally and are an argument error.
//
// If the function's last return value is a non-nil error, that error is
// returned and the remaining values are dropped. A panic inside the
// function is recovered and returned as an error.
func (c *Callable) Invoke(args []string) ([]any, error) {
	t := c.fn.Type()

	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%s expects at least %d argument(s), got %d", c.Name, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", c.Name, fixed, len(args))
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if i < fixed {
			pt = t.In(i)
		} else {
			pt = t.In(t.NumIn() - 1).Elem()
		}
		v, err := convertString(arg, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i+1, c.paramName(i), err)
		}
		in = append(in, v)
	}

	return c.call(in, false)
}

// InvokeKwargs calls the function with keyword arguments. Names are
// mapped to positions through the declared signature: every parameter
// must be supplied exactly once, unknown names are rejected, and each
// value is unmarshalled from JSON into the parameter's type. A variadic
// final parameter takes a JSON array.
func (c *Callable) InvokeKwargs(kwargs map[string]json.RawMessage) ([]any, error) {
	t := c.fn.Type()

	if len(c.decl.Params) != t.NumIn() {
		return nil, fmt.Errorf("%s: declared and runtime parameter counts disagree", c.Name)
	}

	seen := make(map[string]bool, len(kwargs))
	in := make([]reflect.Value, 0, t.NumIn())
	for i, p := range c.decl.Params {
		raw, ok := kwargs[p.Name]
		if !ok {
			return nil, fmt.Errorf("%s: missing keyword argument %q", c.Name, p.Name)
		}
		seen[p.Name] = true

		pv := reflect.New(t.In(i))
		if err := json.Unmarshal(raw, pv.Interface()); err != nil {
			return nil, fmt.Errorf("keyword argument %q: %w", p.Name, err)
		}
		in = append(in, pv.Elem())
	}

	for name := range kwargs {
		if !seen[name] {
			return nil, fmt.Errorf("%s has no parameter %q", c.Name, name)
		}
	}

	return c.call(in, t.IsVariadic())
}

func (c *Callable) call(in []reflect.Value, slice bool) (results []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("%s panicked: %v", c.Name, r)
		}
	}()

	var out []reflect.Value
	if slice {
		out = c.fn.CallSlice(in)
	} else {
		out = c.fn.Call(in)
	}

	t := c.fn.Type()
	n := t.NumOut()
	if n > 0 && t.Out(n-1) == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}

	results = make([]any, 0, len(out))
	for _, v := range out {
		results = append(results, v.Interface())
	}
	return results, nil
}

func (c *Callable) paramName(i int) string {
	if i < len(c.decl.Params) {
		return c.decl.Params[i].Name
	}
	return c.decl.Params[len(c.decl.Params)-1].Name
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func convertString(s string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return reflect.ValueOf(s), nil
		}
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot parse %q as bool", s)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot parse %q as %s", s, t.Kind())
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot parse %q as %s", s, t.Kind())
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot parse %q as %s", s, t.Kind())
		}
		return reflect.ValueOf(f).Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("parameter type %s cannot be supplied positionally, use keyword arguments", t)
}
