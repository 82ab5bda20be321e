package hojaruta

import "testing"

func TestBuildPreview(t *testing.T) {
	var entries []any
	for i := 1; i <= 5; i++ {
		entries = append(entries, Seccion{
			FechaEnviado: "2026-04-0" + string(rune('0'+i)) + "T09:00:00",
			Destino:      "Unidad " + string(rune('A'+i-1)),
		}.Payload(i))
	}
	r := Registro{
		"numero_hr":     "HR-2026-0042",
		"estado":        "archivado",
		"fecha_ingreso": "2026-04-01",
		"fecha_limite":  "2026-04-15T00:00:00",
		"destinos":      []any{"Dar curso"},
		"detalles":      map[string]any{"secciones_adicionales": entries},
	}
	respuestas := []RespuestaUnidad{
		{Seccion: 4, FechaRecepcion: strPtr("2026-04-06"), Respuesta: "Atendido"},
	}

	v := BuildPreview(r, respuestas)

	if v.Encabezado.NumeroHR != "HR-2026-0042" {
		t.Errorf("unexpected numero_hr %q", v.Encabezado.NumeroHR)
	}
	if v.Encabezado.Estado != "completado" {
		t.Errorf("expected estado label completado, got %q", v.Encabezado.Estado)
	}
	if v.Encabezado.FechaLimite != "15/04/2026" {
		t.Errorf("expected formatted fecha_limite, got %q", v.Encabezado.FechaLimite)
	}
	if v.TotalPaginas != 2 {
		t.Fatalf("expected 2 pages, got %d", v.TotalPaginas)
	}
	if len(v.Paginas.Primera) != 3 {
		t.Fatalf("expected 3 sections on first page, got %d", len(v.Paginas.Primera))
	}
	if v.Paginas.Primera[0].FechaEnviado != "01/04/2026" {
		t.Errorf("expected formatted section date, got %q", v.Paginas.Primera[0].FechaEnviado)
	}

	segunda := v.Paginas.Continuaciones[0]
	if len(segunda.Secciones) != 2 {
		t.Fatalf("expected 2 sections on page 2, got %d", len(segunda.Secciones))
	}
	cuarta := segunda.Secciones[0]
	if cuarta.Numero != 4 || cuarta.Anotacion == nil {
		t.Fatalf("expected section 4 annotated, got %+v", cuarta)
	}
	if cuarta.FechaRecepcion != "06/04/2026" {
		t.Errorf("expected overlaid and formatted fecha_recepcion, got %q", cuarta.FechaRecepcion)
	}
}

func TestFromRegistro_KeepsLegacyKeys(t *testing.T) {
	r := Registro{
		"numero_hr": "HR-7",
		"estado":    "enviado",
		"destino_1": "Legal",
		"destinos":  "Archivar, Coordinar",
	}

	h, err := FromRegistro(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Estado != EstadoEnviada {
		t.Errorf("expected estado enviada, got %q", h.Estado)
	}
	if len(h.Destinos) != 2 {
		t.Errorf("expected 2 destinos, got %v", h.Destinos)
	}
	if h.Extras["destino_1"] != "Legal" {
		t.Errorf("expected legacy key in extras, got %v", h.Extras)
	}

	secciones := Reconcile(h.Registro())
	if secciones[0].Destino != "Legal" {
		t.Errorf("expected legacy section to survive round trip, got %q", secciones[0].Destino)
	}
}

func TestFromRegistro_InvalidEstado(t *testing.T) {
	if _, err := FromRegistro(Registro{"estado": "perdido"}); err == nil {
		t.Fatal("expected error for unknown estado")
	}
}
