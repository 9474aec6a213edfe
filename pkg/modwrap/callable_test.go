package modwrap

import (
	"encoding/json"
	"strings"
	"testing"
)

func getCallable(t *testing.T, w *Wrapper, name string) *Callable {
	t.Helper()
	c, err := w.GetCallable(name)
	if err != nil {
		t.Fatalf("GetCallable(%s) failed: %v", name, err)
	}
	return c
}

func TestInvoke(t *testing.T) {
	w := loadPlugin(t)

	results, err := getCallable(t, w, "Execute").Invoke([]string{"whoami"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if len(results) != 1 || results[0] != "ran whoami" {
		t.Errorf("results = %v, want [ran whoami]", results)
	}
}

func TestInvokeConvertsArguments(t *testing.T) {
	w := loadPlugin(t)

	results, err := getCallable(t, w, "Repeat").Invoke([]string{"ab", "3"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if results[0] != "ababab" {
		t.Errorf("results = %v, want [ababab]", results)
	}
}

func TestInvokeAnyParameter(t *testing.T) {
	w := loadPlugin(t)

	// An any parameter receives the raw string.
	results, err := getCallable(t, w, "Describe").Invoke([]string{"x"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if results[0] != "value=x" {
		t.Errorf("results = %v, want [value=x]", results)
	}
}

func TestInvokeVariadic(t *testing.T) {
	w := loadPlugin(t)

	join := getCallable(t, w, "Join")

	results, err := join.Invoke([]string{"-", "a", "b", "c"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if results[0] != "a-b-c" {
		t.Errorf("results = %v, want [a-b-c]", results)
	}

	// Zero variadic arguments is fine
	if _, err := join.Invoke([]string{"-"}); err != nil {
		t.Errorf("variadic call with no trailing args should work: %v", err)
	}

	if _, err := join.Invoke(nil); err == nil {
		t.Error("missing fixed argument should fail")
	}
}

func TestInvokeArgumentErrors(t *testing.T) {
	w := loadPlugin(t)

	if _, err := getCallable(t, w, "Execute").Invoke(nil); err == nil {
		t.Error("too few arguments should fail")
	}
	if _, err := getCallable(t, w, "Execute").Invoke([]string{"a", "b"}); err == nil {
		t.Error("too many arguments should fail")
	}

	_, err := getCallable(t, w, "Repeat").Invoke([]string{"ab", "lots"})
	if err == nil || !strings.Contains(err.Error(), "count") {
		t.Errorf("unparseable int should fail naming the parameter, got %v", err)
	}
}

func TestInvokeErrorReturn(t *testing.T) {
	w := loadPlugin(t)

	results, err := getCallable(t, w, "Fail").Invoke([]string{"it broke"})
	if err == nil || err.Error() != "it broke" {
		t.Fatalf("err = %v, want the function's own error", err)
	}
	if results != nil {
		t.Errorf("results should be nil on error, got %v", results)
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	w := loadPlugin(t)

	_, err := getCallable(t, w, "Explode").Invoke([]string{"rm"})
	if err == nil || !strings.Contains(err.Error(), "exploded on rm") {
		t.Errorf("panic should surface as an error, got %v", err)
	}
}

func TestInvokeKwargs(t *testing.T) {
	w := loadPlugin(t)

	kwargs := map[string]json.RawMessage{
		"word":  json.RawMessage(`"xy"`),
		"count": json.RawMessage(`2`),
	}
	results, err := getCallable(t, w, "Repeat").InvokeKwargs(kwargs)
	if err != nil {
		t.Fatalf("InvokeKwargs failed: %v", err)
	}
	if results[0] != "xyxy" {
		t.Errorf("results = %v, want [xyxy]", results)
	}
}

func TestInvokeKwargsErrors(t *testing.T) {
	w := loadPlugin(t)

	repeat := getCallable(t, w, "Repeat")

	// Missing parameter
	_, err := repeat.InvokeKwargs(map[string]json.RawMessage{"word": json.RawMessage(`"x"`)})
	if err == nil || !strings.Contains(err.Error(), "count") {
		t.Errorf("missing kwarg should fail naming it, got %v", err)
	}

	// Unknown parameter
	_, err = repeat.InvokeKwargs(map[string]json.RawMessage{
		"word":    json.RawMessage(`"x"`),
		"count":   json.RawMessage(`1`),
		"dry_run": json.RawMessage(`true`),
	})
	if err == nil || !strings.Contains(err.Error(), "dry_run") {
		t.Errorf("unknown kwarg should be rejected, got %v", err)
	}

	// Value of the wrong JSON type
	_, err = repeat.InvokeKwargs(map[string]json.RawMessage{
		"word":  json.RawMessage(`"x"`),
		"count": json.RawMessage(`"two"`),
	})
	if err == nil {
		t.Error("non-numeric JSON for an int parameter should fail")
	}
}

func TestInvokeKwargsVariadic(t *testing.T) {
	w := loadPlugin(t)

	kwargs := map[string]json.RawMessage{
		"sep":   json.RawMessage(`"+"`),
		"parts": json.RawMessage(`["a","b"]`),
	}
	results, err := getCallable(t, w, "Join").InvokeKwargs(kwargs)
	if err != nil {
		t.Fatalf("InvokeKwargs failed: %v", err)
	}
	if results[0] != "a+b" {
		t.Errorf("results = %v, want [a+b]", results)
	}
}

func TestCallableSignature(t *testing.T) {
	w := loadPlugin(t)

	sig := getCallable(t, w, "Repeat").Signature()
	if sig.Name != "Repeat" || len(sig.Params) != 2 {
		t.Errorf("Signature = %+v, want Repeat with two params", sig)
	}
}
