package hojaruta

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InstruccionesEstandar is the fixed vocabulary of destination instructions a
// section may select.
var InstruccionesEstandar = []string{
	"Para su conocimiento",
	"Para su atención",
	"Preparar respuesta",
	"Analizar y emitir opinión",
	"Dar curso",
	"Elaborar informe",
	"Archivar",
	"Coordinar",
}

// HojaRuta is a tracked paper-document routing slip.
type HojaRuta struct {
	ID                       string         `json:"id"`
	NumeroHR                 string         `json:"numero_hr"`
	Referencia               string         `json:"referencia"`
	Prioridad                string         `json:"prioridad"`
	Estado                   Estado         `json:"estado"`
	SolicitanteNombre        string         `json:"nombre_solicitante"`
	SolicitanteTelefono      string         `json:"telefono_celular"`
	Procedencia              string         `json:"procedencia"`
	FechaDocumento           string         `json:"fecha_documento"`
	FechaIngreso             string         `json:"fecha_ingreso"`
	FechaLimite              string         `json:"fecha_limite"`
	Destino                  string         `json:"destino"`
	Destinos                 []string       `json:"destinos"`
	InstruccionesAdicionales string         `json:"instrucciones_adicionales"`
	CreadoPor                string         `json:"creado_por"`
	Detalles                 map[string]any `json:"detalles,omitempty"`
	// Extras keeps flat keys received with the record that have no typed
	// column, such as the legacy fecha_enviado_{i} family.
	Extras    map[string]any `json:"extras,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Registro returns the raw record view of the slip: typed fields and extras at
// top level, detalles nested under "detalles".
func (h HojaRuta) Registro() Registro {
	r := Registro{}
	for k, v := range h.Extras {
		r[k] = v
	}
	r["id"] = h.ID
	r["numero_hr"] = h.NumeroHR
	r["referencia"] = h.Referencia
	r["prioridad"] = h.Prioridad
	r["estado"] = string(h.Estado)
	r["nombre_solicitante"] = h.SolicitanteNombre
	r["telefono_celular"] = h.SolicitanteTelefono
	r["procedencia"] = h.Procedencia
	r["fecha_documento"] = h.FechaDocumento
	r["fecha_ingreso"] = h.FechaIngreso
	r["fecha_limite"] = h.FechaLimite
	r["destino"] = h.Destino
	r["destinos"] = toAnySlice(h.Destinos)
	r["instrucciones_adicionales"] = h.InstruccionesAdicionales
	r["creado_por"] = h.CreadoPor
	if h.Detalles != nil {
		r["detalles"] = map[string]any(h.Detalles)
	}
	return r
}

// typedKeys are the record keys mapped onto HojaRuta fields by FromRegistro.
var typedKeys = map[string]struct{}{
	"id": {}, "numero_hr": {}, "referencia": {}, "prioridad": {}, "estado": {},
	"nombre_solicitante": {}, "telefono_celular": {}, "procedencia": {},
	"fecha_documento": {}, "fecha_ingreso": {}, "fecha_limite": {}, "destino": {},
	"destinos": {}, "instrucciones_adicionales": {}, "creado_por": {}, "detalles": {},
	"created_at": {}, "updated_at": {},
}

// FromRegistro builds a HojaRuta from a raw record. Unknown keys are kept in
// Extras. The estado is parsed leniently: an empty value yields pendiente.
func FromRegistro(r Registro) (HojaRuta, error) {
	h := HojaRuta{
		ID:                       r.String("id"),
		NumeroHR:                 r.String("numero_hr"),
		Referencia:               r.String("referencia"),
		Prioridad:                r.String("prioridad"),
		SolicitanteNombre:        r.String("nombre_solicitante"),
		SolicitanteTelefono:      r.String("telefono_celular"),
		Procedencia:              r.String("procedencia"),
		FechaDocumento:           r.String("fecha_documento"),
		FechaIngreso:             r.String("fecha_ingreso"),
		FechaLimite:              r.String("fecha_limite"),
		Destino:                  r.String("destino"),
		Destinos:                 r.Strings("destinos"),
		InstruccionesAdicionales: r.String("instrucciones_adicionales"),
		CreadoPor:                r.String("creado_por"),
		Estado:                   EstadoPendiente,
	}

	if raw := r.String("estado"); raw != "" {
		estado, err := ParseEstado(raw)
		if err != nil {
			return HojaRuta{}, err
		}
		h.Estado = estado
	}

	if d := r.Detalles(); len(d) > 0 {
		h.Detalles = map[string]any(d)
	}

	for k, v := range r {
		if _, ok := typedKeys[k]; ok {
			continue
		}
		if h.Extras == nil {
			h.Extras = make(map[string]any)
		}
		h.Extras[k] = v
	}

	return h, nil
}

// Seccion is one forwarding leg of a routing slip. Its ordinal is its position
// in the reconciled list and is never stored; ID, when set, is a stable handle
// other records use to refer to the section.
type Seccion struct {
	ID                       string   `json:"id,omitempty" yaml:"id,omitempty"`
	FechaEnviado             string   `json:"fecha_enviado" yaml:"fecha_enviado"`
	FechaRecepcion           string   `json:"fecha_recepcion" yaml:"fecha_recepcion"`
	Destino                  string   `json:"destino" yaml:"destino"`
	Destinos                 []string `json:"destinos" yaml:"destinos"`
	InstruccionesAdicionales string   `json:"instrucciones_adicionales" yaml:"instrucciones_adicionales"`
}

// Empty reports whether the section carries no data at all.
func (s Seccion) Empty() bool {
	return s.FechaEnviado == "" && s.FechaRecepcion == "" && s.Destino == "" &&
		len(s.Destinos) == 0 && s.InstruccionesAdicionales == ""
}

// Payload renders the section in the nested secciones_adicionales format.
// numero is the 1-based position the section will occupy.
func (s Seccion) Payload(numero int) map[string]any {
	p := map[string]any{
		"seccion":                   numero,
		"fecha_enviado":             s.FechaEnviado,
		"fecha_recepcion":           s.FechaRecepcion,
		"destino":                   s.Destino,
		"destinos":                  toAnySlice(s.Destinos),
		"instrucciones_adicionales": s.InstruccionesAdicionales,
	}
	if s.ID != "" {
		p["id"] = s.ID
	}
	return p
}

// SeccionFromPayload reads a section from a secciones_adicionales entry.
func SeccionFromPayload(p Registro) Seccion {
	return Seccion{
		ID:                       p.String("id"),
		FechaEnviado:             p.String("fecha_enviado"),
		FechaRecepcion:           p.String("fecha_recepcion"),
		Destino:                  p.String("destino"),
		Destinos:                 p.Strings("destinos"),
		InstruccionesAdicionales: p.String("instrucciones_adicionales"),
	}
}

// Numero returns the display ordinal of the section at index idx.
func Numero(idx int) int {
	return idx + 1
}

// NumeroDe returns the ordinal of the section with the given ID, or 0 when no
// section carries it.
func NumeroDe(secciones []Seccion, id string) int {
	if id == "" {
		return 0
	}
	for idx, s := range secciones {
		if s.ID == id {
			return Numero(idx)
		}
	}
	return 0
}

// RespuestaUnidad is a unit's response to the section at ordinal Seccion.
// Pointer fields distinguish "not provided" from "provided empty".
type RespuestaUnidad struct {
	Seccion        int     `json:"seccion"`
	Destino        *string `json:"destino,omitempty"`
	FechaEnviado   *string `json:"fecha_enviado,omitempty"`
	FechaRecepcion *string `json:"fecha_recepcion,omitempty"`
	Instrucciones  *string `json:"instrucciones,omitempty"`
	Respuesta      string  `json:"respuesta"`
	Accion         string  `json:"accion"`
	Responsable    string  `json:"responsable"`
}

// Registro is a raw routing-slip record as decoded from JSON. Accessors are
// permissive: missing or mistyped values read as empty.
type Registro map[string]any

// String returns the value at key as a string. Numbers are formatted without
// exponent; anything else non-string reads as "".
func (r Registro) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Strings returns the value at key as a list of non-empty strings. A plain
// string is split on commas.
func (r Registro) Strings(key string) []string {
	var out []string
	switch v := r[key].(type) {
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Has reports whether key is present with a non-nil value.
func (r Registro) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Detalles returns the nested detalles object. A JSON-encoded string is decoded;
// anything unreadable yields an empty record.
func (r Registro) Detalles() Registro {
	switch v := r["detalles"].(type) {
	case map[string]any:
		return Registro(v)
	case Registro:
		return v
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err == nil {
			return Registro(m)
		}
	}
	return Registro{}
}

// List returns the value at key as a list of raw items.
func (r Registro) List(key string) []any {
	switch v := r[key].(type) {
	case []any:
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	}
	return nil
}

func indexedKey(base string, i int) string {
	return fmt.Sprintf("%s_%d", base, i)
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
