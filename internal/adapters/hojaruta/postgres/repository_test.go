package postgres

import (
	"testing"

	"sedeges/ms_hojas_ruta/internal/core/hojaruta"
)

// Queries against a live database are exercised by the integration suite;
// these tests cover the pure helpers.

func TestRepositoryImplementsInterface(t *testing.T) {
	var _ hojaruta.Repository = (*Repository)(nil)
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"HR-2026", "HR-2026"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\tmp`, `c:\\tmp`},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.expected {
			t.Errorf("escapeLike(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestMarshalObject(t *testing.T) {
	b, err := marshalObject(nil)
	if err != nil || b != nil {
		t.Errorf("expected nil JSON for empty object, got %s, %v", b, err)
	}

	b, err = marshalObject(map[string]any{"secciones_adicionales": []any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"secciones_adicionales":[]}` {
		t.Errorf("unexpected JSON %s", b)
	}
}

func TestNonNil(t *testing.T) {
	if got := nonNil(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
