package envio

import (
	"context"
	"errors"
	"time"

	"sedeges/ms_hojas_ruta/internal/core/hojaruta"
)

// ErrNotFound is returned when an envio does not exist.
var ErrNotFound = errors.New("envio not found")

// Envio is one delivery of a routing slip to an organizational unit. Each envio
// backs the section of the slip whose ID is SeccionID; the section's ordinal is
// looked up when needed, never stored.
type Envio struct {
	ID             string          `json:"id"`
	HojaRutaID     string          `json:"hoja_ruta_id"`
	SeccionID      string          `json:"seccion_id"`
	UnidadOrigen   string          `json:"unidad_origen"`
	UnidadDestino  string          `json:"unidad_destino"`
	Estado         hojaruta.Estado `json:"estado"`
	FechaEnviado   time.Time       `json:"fecha_enviado"`
	FechaRecepcion *time.Time      `json:"fecha_recepcion,omitempty"`
	Instrucciones  string          `json:"instrucciones"`
	Respuesta      string          `json:"respuesta"`
	Accion         string          `json:"accion"`
	Responsable    string          `json:"responsable"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RespuestaUnidad projects the envio onto the response overlaid on the section
// at ordinal numero. Only envios the unit received carry a response; sent and
// redirected ones are still in transit.
func (e Envio) RespuestaUnidad(numero int) (hojaruta.RespuestaUnidad, bool) {
	if e.Estado != hojaruta.EstadoRecibida && e.Estado != hojaruta.EstadoRespondida {
		return hojaruta.RespuestaUnidad{}, false
	}

	destino := e.UnidadDestino
	enviado := e.FechaEnviado.Format(time.DateOnly)
	r := hojaruta.RespuestaUnidad{
		Seccion:      numero,
		Destino:      &destino,
		FechaEnviado: &enviado,
		Respuesta:    e.Respuesta,
		Accion:       e.Accion,
		Responsable:  e.Responsable,
	}
	if e.FechaRecepcion != nil {
		recibido := e.FechaRecepcion.Format(time.DateOnly)
		r.FechaRecepcion = &recibido
	}
	if e.Instrucciones != "" {
		instrucciones := e.Instrucciones
		r.Instrucciones = &instrucciones
	}
	return r, true
}

// Respuestas collects the responses of a slip's envios, resolving each envio's
// section ordinal against the reconciled sections. Envios whose section is no
// longer present are skipped.
func Respuestas(envios []Envio, secciones []hojaruta.Seccion) []hojaruta.RespuestaUnidad {
	var out []hojaruta.RespuestaUnidad
	for _, e := range envios {
		numero := hojaruta.NumeroDe(secciones, e.SeccionID)
		if numero == 0 {
			continue
		}
		if r, ok := e.RespuestaUnidad(numero); ok {
			out = append(out, r)
		}
	}
	return out
}

// Repository defines the persistence operations for envios.
type Repository interface {
	Create(ctx context.Context, e Envio) error

	// FindByID returns ErrNotFound when the envio does not exist.
	FindByID(ctx context.Context, id string) (*Envio, error)

	// ListByHojaRuta returns the envios of a slip ordered by fecha_enviado.
	ListByHojaRuta(ctx context.Context, hojaRutaID string) ([]Envio, error)

	// Update persists estado, reception and response fields.
	Update(ctx context.Context, e Envio) error
}
