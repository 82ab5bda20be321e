package context

import (
	"context"
	"testing"
)

func TestCorrelationID(t *testing.T) {
	tests := []struct {
		name          string
		correlationID string
	}{
		{name: "stores correlation ID", correlationID: "req-123"},
		{name: "stores empty correlation ID", correlationID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithCorrelationID(context.Background(), tt.correlationID)
			if got := GetCorrelationID(ctx); got != tt.correlationID {
				t.Errorf("expected %q, got %q", tt.correlationID, got)
			}
		})
	}
}

func TestGetCorrelationID_Missing(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Errorf("expected empty correlation ID, got %q", got)
	}
}

func TestUsuario(t *testing.T) {
	if _, ok := GetUsuario(context.Background()); ok {
		t.Fatal("expected no usuario in empty context")
	}

	want := Usuario{ID: "u-1", Nombre: "Ana", Rol: "admin", Unidad: "Secretaría"}
	ctx := WithUsuario(context.Background(), want)

	got, ok := GetUsuario(ctx)
	if !ok {
		t.Fatal("expected usuario in context")
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
