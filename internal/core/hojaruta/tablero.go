package hojaruta

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// DeadlineKeys are the record fields that may carry the response deadline, in
// lookup order.
var DeadlineKeys = []string{"fecha_limite", "fecha_vencimiento", "fecha_limite_respuesta"}

const (
	// CriticoMaxDias is the last day count still considered critical.
	CriticoMaxDias = 2
	// NormalMaxDias is the last day count considered normal.
	NormalMaxDias = 7
)

// Entrada is a dashboard row: the record and its signed days to deadline.
type Entrada struct {
	Registro      Registro `json:"registro"`
	DiasRestantes int      `json:"dias_restantes"`
}

// ConteoPrioridades counts records per priority family.
type ConteoPrioridades struct {
	Urgente     int `json:"urgente"`
	Prioritario int `json:"prioritario"`
	Rutinario   int `json:"rutinario"`
}

// Tablero is the dashboard summary. Every list is derived from the same signed
// day count:
//
//	Criticos   d <= 2 (overdue included)
//	Normales   3 <= d <= 7
//	EnProceso  d > 7
//	Vencidos   d < 0
//	Activos    0 <= d
type Tablero struct {
	Criticos    []Entrada         `json:"criticos"`
	Normales    []Entrada         `json:"normales"`
	EnProceso   []Entrada         `json:"en_proceso"`
	Vencidos    []Entrada         `json:"vencidos"`
	Activos     []Entrada         `json:"activos"`
	SinFecha    []Registro        `json:"sin_fecha"`
	Prioridades ConteoPrioridades `json:"prioridades"`
}

func esCritico(d int) bool   { return d <= CriticoMaxDias }
func esNormal(d int) bool    { return d > CriticoMaxDias && d <= NormalMaxDias }
func esEnProceso(d int) bool { return d > NormalMaxDias }
func esVencido(d int) bool   { return d < 0 }
func esActivo(d int) bool    { return d >= 0 }

// Bucketize classifies records by days to deadline relative to today and
// counts them by priority. Records without a resolvable deadline land only in
// SinFecha but still count toward priorities.
func Bucketize(registros []Registro, today time.Time) Tablero {
	t := Tablero{
		Criticos:  []Entrada{},
		Normales:  []Entrada{},
		EnProceso: []Entrada{},
		Vencidos:  []Entrada{},
		Activos:   []Entrada{},
		SinFecha:  []Registro{},
	}

	for _, r := range registros {
		countPrioridad(&t.Prioridades, r.String("prioridad"))

		d, ok := DiasRestantes(r, today)
		if !ok {
			t.SinFecha = append(t.SinFecha, r)
			continue
		}
		e := Entrada{Registro: r, DiasRestantes: d}

		switch {
		case esCritico(d):
			t.Criticos = append(t.Criticos, e)
		case esNormal(d):
			t.Normales = append(t.Normales, e)
		case esEnProceso(d):
			t.EnProceso = append(t.EnProceso, e)
		}
		if esVencido(d) {
			t.Vencidos = append(t.Vencidos, e)
		}
		if esActivo(d) {
			t.Activos = append(t.Activos, e)
		}
	}
	return t
}

// DiasRestantes returns the signed whole days from today to the record's
// deadline. A numeric dias_restantes field wins; otherwise the first non-empty
// DeadlineKeys value is used, comparing both dates at midnight.
func DiasRestantes(r Registro, today time.Time) (int, bool) {
	switch v := r["dias_restantes"].(type) {
	case float64:
		return int(math.Ceil(v)), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return int(math.Ceil(f)), true
		}
	}

	var raw string
	for _, key := range DeadlineKeys {
		if raw = r.String(key); raw != "" {
			break
		}
	}
	deadline, ok := ParseDay(raw)
	if !ok {
		return 0, false
	}

	hoy := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(deadline.Sub(hoy).Hours() / 24)), true
}

// ClasificarPrioridad returns the priority family of a free-text label, or ""
// when it matches none.
func ClasificarPrioridad(prioridad string) string {
	p := strings.ToLower(prioridad)
	switch {
	case strings.Contains(p, "urg"):
		return "urgente"
	case strings.Contains(p, "prior"), strings.Contains(p, "media"):
		return "prioritario"
	case strings.Contains(p, "ruti"), strings.Contains(p, "baja"):
		return "rutinario"
	default:
		return ""
	}
}

func countPrioridad(c *ConteoPrioridades, prioridad string) {
	switch ClasificarPrioridad(prioridad) {
	case "urgente":
		c.Urgente++
	case "prioritario":
		c.Prioritario++
	case "rutinario":
		c.Rutinario++
	}
}
