package hojaruta

const (
	// MinSecciones is the number of sections every reconciled slip shows,
	// empty or not.
	MinSecciones = 3
	// MaxSeccionesLegado is the highest index scanned in the flat-key format.
	MaxSeccionesLegado = 10
)

// Reconcile produces the normalized section list of a record.
//
// When detalles.secciones_adicionales holds at least one valid entry, those
// entries are used exclusively and padded with empty sections up to
// MinSecciones. Otherwise the legacy flat keys fecha_enviado_{i},
// fecha_recepcion_{i}, destino_{i}, destinos_{i} and
// instrucciones_adicionales_{i} are scanned for i in 1..MaxSeccionesLegado,
// preferring the detalles-scoped value of each field over the top-level one.
// A seccion_id_{i} key carries the stable ID of a flat-format section.
// The two formats are never merged.
func Reconcile(r Registro) []Seccion {
	detalles := r.Detalles()

	if secciones := seccionesAdicionales(detalles); len(secciones) > 0 {
		for len(secciones) < MinSecciones {
			secciones = append(secciones, Seccion{})
		}
		return secciones
	}

	secciones := make([]Seccion, 0, MinSecciones)
	for i := 1; i <= MaxSeccionesLegado; i++ {
		s := Seccion{
			ID:                       legacyString(r, detalles, indexedKey("seccion_id", i)),
			FechaEnviado:             legacyString(r, detalles, indexedKey("fecha_enviado", i)),
			FechaRecepcion:           legacyString(r, detalles, indexedKey("fecha_recepcion", i)),
			Destino:                  legacyString(r, detalles, indexedKey("destino", i)),
			Destinos:                 legacyStrings(r, detalles, indexedKey("destinos", i)),
			InstruccionesAdicionales: legacyString(r, detalles, indexedKey("instrucciones_adicionales", i)),
		}
		if !s.Empty() || i <= MinSecciones {
			secciones = append(secciones, s)
		}
	}
	return secciones
}

// seccionesAdicionales returns the valid new-format entries in order. An entry
// is valid when it is an object carrying a seccion field and at least one of
// fecha_enviado, destino or a non-empty destinos.
func seccionesAdicionales(detalles Registro) []Seccion {
	var out []Seccion
	for _, item := range detalles.List("secciones_adicionales") {
		entry, ok := asRegistro(item)
		if !ok || !entry.Has("seccion") {
			continue
		}
		if s := SeccionFromPayload(entry); s.Visible() {
			out = append(out, s)
		}
	}
	return out
}

func asRegistro(v any) (Registro, bool) {
	switch m := v.(type) {
	case map[string]any:
		return Registro(m), true
	case Registro:
		return m, true
	}
	return nil, false
}

func legacyString(r, detalles Registro, key string) string {
	if v := detalles.String(key); v != "" {
		return v
	}
	return r.String(key)
}

func legacyStrings(r, detalles Registro, key string) []string {
	if v := detalles.Strings(key); len(v) > 0 {
		return v
	}
	return r.Strings(key)
}

// Visible reports whether a new-format entry with this content survives
// reconciliation: it needs a fecha_enviado, a destino or some destinos.
func (s Seccion) Visible() bool {
	return s.FechaEnviado != "" || s.Destino != "" || len(s.Destinos) > 0
}

// SeccionesPayload renders sections as a secciones_adicionales list. Sections
// that would not survive reconciliation are dropped, so the stored position
// of every kept section equals its ordinal.
func SeccionesPayload(secciones []Seccion) []any {
	out := make([]any, 0, len(secciones))
	for _, s := range secciones {
		if !s.Visible() {
			continue
		}
		out = append(out, s.Payload(len(out)+1))
	}
	return out
}
