package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew_RegisteredCode(t *testing.T) {
	err := New("E121")
	if err.Code != "E121" {
		t.Fatalf("Code = %q, want %q", err.Code, "E121")
	}
	if err.Category != CategoryStartup {
		t.Fatalf("Category = %q, want %q", err.Category, CategoryStartup)
	}
	if !strings.Contains(err.Error(), "E121") {
		t.Fatalf("Error() = %q, want code prefix", err.Error())
	}
}

func TestNew_UnknownCode(t *testing.T) {
	err := New("E999")
	if err == nil {
		t.Fatal("New returned nil for unknown code")
	}
	if err.Code != "E999" {
		t.Fatalf("Code = %q, want %q", err.Code, "E999")
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("E141").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("errors.Is did not find wrapped cause")
	}
}

func TestFormat_IncludesDetailAndSuggestion(t *testing.T) {
	err := New("E121").
		WithDetail("dist not found at /srv/app/dist").
		WithSuggestion("Run 'lumen build' first")

	out := Format(err)
	for _, want := range []string{"E121", "dist not found", "hint: Run 'lumen build' first"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Format output %q missing %q", out, want)
		}
	}
}

func TestFormat_PlainError(t *testing.T) {
	if got := Format(stderrors.New("plain")); got != "plain" {
		t.Fatalf("Format(plain) = %q", got)
	}
}
