package hojaruta

import (
	"errors"
	"testing"
)

func TestParseEstado_BothVocabularies(t *testing.T) {
	tests := map[string]Estado{
		"pendiente":  EstadoPendiente,
		"enviada":    EstadoEnviada,
		"enviado":    EstadoEnviada,
		"en_proceso": EstadoEnProceso,
		"recibido":   EstadoRecibida,
		"respondido": EstadoRespondida,
		"redirigido": EstadoRedirigida,
		"finalizada": EstadoFinalizada,
		"archivada":  EstadoArchivada,
		"completado": EstadoFinalizada,
		" Enviado ":  EstadoEnviada,
		"EN PROCESO": EstadoEnProceso,
	}

	for raw, want := range tests {
		got, err := ParseEstado(raw)
		if err != nil {
			t.Errorf("ParseEstado(%q) unexpected error: %v", raw, err)
			continue
		}
		if got != want {
			t.Errorf("ParseEstado(%q) = %q, want %q", raw, got, want)
		}
		if !got.Valid() {
			t.Errorf("ParseEstado(%q) returned non-canonical %q", raw, got)
		}
	}
}

func TestParseEstado_Unknown(t *testing.T) {
	_, err := ParseEstado("extraviado")
	if !errors.Is(err, ErrEstadoInvalido) {
		t.Fatalf("expected ErrEstadoInvalido, got %v", err)
	}
}

func TestEstado_Vista(t *testing.T) {
	if EstadoFinalizada.Vista() != "completado" || EstadoArchivada.Vista() != "completado" {
		t.Error("expected closed states to display as completado")
	}
	if EstadoEnviada.Vista() != "enviada" {
		t.Errorf("expected enviada label, got %q", EstadoEnviada.Vista())
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Estado
		want     bool
	}{
		{EstadoPendiente, EstadoEnviada, true},
		{EstadoEnviada, EstadoRecibida, true},
		{EstadoRecibida, EstadoRespondida, true},
		{EstadoRespondida, EstadoFinalizada, true},
		{EstadoFinalizada, EstadoArchivada, true},
		{EstadoArchivada, EstadoPendiente, false},
		{EstadoFinalizada, EstadoEnviada, false},
		{EstadoPendiente, EstadoRespondida, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
