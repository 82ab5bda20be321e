package audit

import (
	"context"
	"time"
)

// Accion names what happened to a routing slip.
type Accion string

const (
	AccionCreada             Accion = "creada"
	AccionEstado             Accion = "estado"
	AccionSeccionAgregada    Accion = "seccion_agregada"
	AccionSeccionActualizada Accion = "seccion_actualizada"
	AccionSeccionEliminada   Accion = "seccion_eliminada"
)

// Entry is one line of a routing slip's history.
type Entry struct {
	ID            string         `json:"id"`
	HojaRutaID    string         `json:"hoja_ruta_id"`
	Accion        Accion         `json:"accion"`
	UsuarioID     string         `json:"usuario_id"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Detalle       map[string]any `json:"detalle,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Repository defines the contract for persisting and retrieving history entries.
type Repository interface {
	// Save persists an entry.
	Save(ctx context.Context, e Entry) error

	// ListByHojaRuta returns the history of a slip, oldest first.
	ListByHojaRuta(ctx context.Context, hojaRutaID string) ([]Entry, error)
}
