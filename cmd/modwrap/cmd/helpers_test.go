package cmd

import (
	"testing"

	"github.com/modwrap/modwrap/pkg/modwrap"
)

func TestSignatureString(t *testing.T) {
	sig := modwrap.Signature{
		Name: "Execute",
		Params: []modwrap.Param{
			{Name: "command", Type: "string"},
			{Name: "payload", Type: "any"},
		},
	}

	got := signatureString(sig)
	want := "command:string, payload:untyped"
	if got != want {
		t.Errorf("signatureString = %q, want %q", got, want)
	}

	if got := signatureString(modwrap.Signature{Name: "Noop"}); got != "()" {
		t.Errorf("empty signature = %q, want ()", got)
	}
}

func TestParseTypeAssertions(t *testing.T) {
	asserts, err := parseTypeAssertions(`{"command": "string", "count": "int"}`)
	if err != nil {
		t.Fatalf("parseTypeAssertions failed: %v", err)
	}
	if len(asserts) != 2 {
		t.Fatalf("got %d assertions, want 2", len(asserts))
	}

	// Document order is preserved
	if asserts[0].Param != "command" || asserts[0].Type != "string" {
		t.Errorf("asserts[0] = %+v, want command:string", asserts[0])
	}
	if asserts[1].Param != "count" || asserts[1].Type != "int" {
		t.Errorf("asserts[1] = %+v, want count:int", asserts[1])
	}
}

func TestParseTypeAssertionsErrors(t *testing.T) {
	cases := []string{
		`not json`,
		`["command"]`,
		`{"command": 3}`,
		`{"command": "string"`,
	}
	for _, in := range cases {
		if _, err := parseTypeAssertions(in); err == nil {
			t.Errorf("parseTypeAssertions(%q) should fail", in)
		}
	}
}

func TestFormatResult(t *testing.T) {
	if got := formatResult("ran whoami"); got != "ran whoami" {
		t.Errorf("strings should print bare, got %q", got)
	}
	if got := formatResult(42); got != "42" {
		t.Errorf("formatResult(42) = %q, want 42", got)
	}
	if got := formatResult(nil); got != "<nil>" {
		t.Errorf("formatResult(nil) = %q, want <nil>", got)
	}
	if got := formatResult([]int{1, 2}); got != "[1,2]" {
		t.Errorf("slices should render as JSON, got %q", got)
	}
}
