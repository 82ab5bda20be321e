package hojaruta

import (
	"errors"
	"fmt"
	"maps"
)

// ErrSeccionesLegado is returned when sections that must stay in the flat
// format do not fit in MaxSeccionesLegado slots.
var ErrSeccionesLegado = errors.New("too many sections for the flat format")

var legacyFields = []string{
	"fecha_enviado", "fecha_recepcion", "destino", "destinos",
	"instrucciones_adicionales", "seccion_id",
}

// StoreSecciones renders secciones into copies of a slip's detalles and
// extras. Empty sections after the last one with data are dropped.
//
// The nested secciones_adicionales format cannot hold an empty section between
// sections with data, so such lists are written as flat detalles keys,
// keeping every ordinal. Any other list is written in the nested format. Flat
// keys of the previous layout are cleared from both objects either way.
func StoreSecciones(detalles, extras map[string]any, secciones []Seccion) (map[string]any, map[string]any, error) {
	secciones = trimPadding(secciones)

	outDetalles := withoutLegacyKeys(detalles)
	outExtras := withoutLegacyKeys(extras)

	if !HasGaps(secciones) {
		outDetalles["secciones_adicionales"] = SeccionesPayload(secciones)
		return outDetalles, outExtras, nil
	}

	if len(secciones) > MaxSeccionesLegado {
		return nil, nil, fmt.Errorf("%w: %d", ErrSeccionesLegado, len(secciones))
	}
	delete(outDetalles, "secciones_adicionales")
	for idx, s := range secciones {
		maps.Copy(outDetalles, s.legacyPayload(Numero(idx)))
	}
	return outDetalles, outExtras, nil
}

// HasGaps reports whether a section without data sits before one with data.
func HasGaps(secciones []Seccion) bool {
	hueco := false
	for _, s := range secciones {
		switch {
		case !s.Visible():
			hueco = true
		case hueco:
			return true
		}
	}
	return false
}

func trimPadding(secciones []Seccion) []Seccion {
	end := len(secciones)
	for end > 0 && !secciones[end-1].Visible() {
		end--
	}
	return secciones[:end]
}

func withoutLegacyKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	maps.Copy(out, m)
	for i := 1; i <= MaxSeccionesLegado; i++ {
		for _, field := range legacyFields {
			delete(out, indexedKey(field, i))
		}
	}
	return out
}

// legacyPayload renders the non-empty fields of the section as flat keys for
// ordinal numero.
func (s Seccion) legacyPayload(numero int) map[string]any {
	p := map[string]any{}
	set := func(field, v string) {
		if v != "" {
			p[indexedKey(field, numero)] = v
		}
	}
	set("fecha_enviado", s.FechaEnviado)
	set("fecha_recepcion", s.FechaRecepcion)
	set("destino", s.Destino)
	set("instrucciones_adicionales", s.InstruccionesAdicionales)
	set("seccion_id", s.ID)
	if len(s.Destinos) > 0 {
		p[indexedKey("destinos", numero)] = toAnySlice(s.Destinos)
	}
	return p
}
