package modwrap

import (
	"errors"
	"reflect"
	"testing"
)

func TestDependencies(t *testing.T) {
	path := writeModule(t, "plugin.go", `package plug

import (
	"fmt"
	"net/http"
	"strings"

	"example.com/somelib"
	"github.com/other/thing/sub"
)

func Noop() {
	fmt.Println(strings.ToUpper("x"), http.MethodGet, somelib.V, sub.V)
}
`)

	report, err := Dependencies(path)
	if err != nil {
		t.Fatalf("Dependencies failed: %v", err)
	}

	wantStd := []string{"fmt", "net/http", "strings"}
	if !reflect.DeepEqual(report.Stdlib, wantStd) {
		t.Errorf("Stdlib = %v, want %v", report.Stdlib, wantStd)
	}

	wantThird := []string{"example.com/somelib", "github.com/other/thing/sub"}
	if !reflect.DeepEqual(report.ThirdParty, wantThird) {
		t.Errorf("ThirdParty = %v, want %v", report.ThirdParty, wantThird)
	}
}

func TestDependenciesDoesNotExecute(t *testing.T) {
	// Classification is parse-only: a module whose init would panic can
	// still be inspected.
	path := writeModule(t, "angry.go", `package plug

func init() { panic("boom") }

func Noop() {}
`)

	if _, err := Dependencies(path); err != nil {
		t.Errorf("Dependencies should not execute the module: %v", err)
	}
}

func TestDependenciesInvalidSource(t *testing.T) {
	path := writeModule(t, "broken.go", "package plug\nfunc broken(")

	_, err := Dependencies(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("expected *LoadError, got %T: %v", err, err)
	}
}

func TestWrapperDependencies(t *testing.T) {
	w := loadPlugin(t)

	report, err := w.Dependencies()
	if err != nil {
		t.Fatalf("Dependencies failed: %v", err)
	}
	if len(report.Stdlib) == 0 {
		t.Error("plugin imports stdlib packages, report should list them")
	}
	if len(report.ThirdParty) != 0 {
		t.Errorf("plugin has no third-party imports, got %v", report.ThirdParty)
	}
}
