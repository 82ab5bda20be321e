package hojaruta

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreSecciones(t *testing.T) {
	tests := []struct {
		name       string
		secciones  []Seccion
		wantNested bool
	}{
		{
			name:       "contiguous sections use the nested format",
			secciones:  []Seccion{{ID: "a", Destino: "A"}, {ID: "b", Destino: "B"}, {}},
			wantNested: true,
		},
		{
			name:       "empty section between two others stays flat",
			secciones:  []Seccion{{ID: "a", Destino: "A"}, {}, {ID: "c", Destino: "C", Destinos: []string{"Archivar"}}},
			wantNested: false,
		},
		{
			name:       "note-only section counts as a gap",
			secciones:  []Seccion{{ID: "a", Destino: "A"}, {InstruccionesAdicionales: "nota"}, {ID: "c", FechaEnviado: "2026-03-01"}},
			wantNested: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detalles := map[string]any{"observaciones": "sin cambios", "destino_2": "viejo"}
			extras := map[string]any{"destino_1": "viejo", "prioridad": "alta"}

			gotDetalles, gotExtras, err := StoreSecciones(detalles, extras, tt.secciones)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if _, ok := gotDetalles["secciones_adicionales"]; ok != tt.wantNested {
				t.Errorf("expected nested format %v, got %v", tt.wantNested, ok)
			}
			if gotDetalles["observaciones"] != "sin cambios" || gotExtras["prioridad"] != "alta" {
				t.Error("expected unrelated keys kept")
			}
			if _, ok := gotExtras["destino_1"]; ok {
				t.Error("expected old flat keys cleared from extras")
			}
			if _, ok := detalles["secciones_adicionales"]; ok {
				t.Error("expected input detalles left untouched")
			}

			r := Registro{"detalles": gotDetalles}
			for k, v := range gotExtras {
				r[k] = v
			}
			want := make([]Seccion, 0, MinSecciones)
			want = append(want, trimPadding(tt.secciones)...)
			for len(want) < MinSecciones {
				want = append(want, Seccion{})
			}
			if diff := cmp.Diff(want, Reconcile(r)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreSecciones_TooManyForFlatFormat(t *testing.T) {
	secciones := make([]Seccion, MaxSeccionesLegado+1)
	secciones[0] = Seccion{Destino: "A"}
	secciones[MaxSeccionesLegado] = Seccion{Destino: "K"}

	_, _, err := StoreSecciones(nil, nil, secciones)
	if !errors.Is(err, ErrSeccionesLegado) {
		t.Fatalf("expected ErrSeccionesLegado, got %v", err)
	}
}

func TestHasGaps(t *testing.T) {
	tests := []struct {
		name      string
		secciones []Seccion
		want      bool
	}{
		{name: "none", secciones: nil, want: false},
		{name: "trailing padding", secciones: []Seccion{{Destino: "A"}, {}, {}}, want: false},
		{name: "interior empty", secciones: []Seccion{{Destino: "A"}, {}, {Destino: "C"}}, want: true},
		{name: "leading empty", secciones: []Seccion{{}, {Destino: "B"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasGaps(tt.secciones); got != tt.want {
				t.Errorf("HasGaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
