package envio

import (
	"time"

	coreenvio "sedeges/ms_hojas_ruta/internal/core/envio"
)

// Fallo records a unit the slip could not be sent to.
type Fallo struct {
	Unidad string `json:"unidad"`
	Error  string `json:"error"`
}

// Resultado is the outcome of a multi-unit send.
type Resultado struct {
	Enviados []coreenvio.Envio `json:"envios"`
	Fallidos []Fallo           `json:"fallidos"`
}

// Estado of a multi-unit send.
type Estado int

const (
	Completo Estado = iota
	Parcial
	Fallido
)

// Estado classifies the result: every unit reached, some, or none.
func (r Resultado) Estado() Estado {
	switch {
	case len(r.Fallidos) == 0:
		return Completo
	case len(r.Enviados) == 0:
		return Fallido
	default:
		return Parcial
	}
}

// Errores returns one line per failed unit.
func (r Resultado) Errores() []string {
	out := make([]string, len(r.Fallidos))
	for i, f := range r.Fallidos {
		out[i] = f.Unidad + ": " + f.Error
	}
	return out
}

// ResultAggregator collects per-unit outcomes of a multi-unit send.
type ResultAggregator struct {
	enviados  []coreenvio.Envio
	fallidos  []Fallo
	startTime time.Time
	total     int
}

// NewResultAggregator creates an aggregator expecting total units.
func NewResultAggregator(total int) *ResultAggregator {
	return &ResultAggregator{
		enviados:  make([]coreenvio.Envio, 0, total),
		fallidos:  make([]Fallo, 0),
		startTime: time.Now(),
		total:     total,
	}
}

// AddEnviado records a successful send.
func (a *ResultAggregator) AddEnviado(e coreenvio.Envio) {
	a.enviados = append(a.enviados, e)
}

// AddFallido records a failed send.
func (a *ResultAggregator) AddFallido(unidad string, err error) {
	a.fallidos = append(a.fallidos, Fallo{Unidad: unidad, Error: err.Error()})
}

// Resultado returns the collected outcomes.
func (a *ResultAggregator) Resultado() Resultado {
	return Resultado{Enviados: a.enviados, Fallidos: a.fallidos}
}

// Stats contains send statistics.
type Stats struct {
	Total    int
	Enviados int
	Fallidos int
	Duration time.Duration
}

// Stats returns counts and elapsed time since the aggregator was created.
func (a *ResultAggregator) Stats() Stats {
	return Stats{
		Total:    a.total,
		Enviados: len(a.enviados),
		Fallidos: len(a.fallidos),
		Duration: time.Since(a.startTime),
	}
}
