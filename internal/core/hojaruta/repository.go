package hojaruta

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a routing slip does not exist.
var ErrNotFound = errors.New("hoja de ruta not found")

// Filter narrows a listing. Empty fields do not filter.
type Filter struct {
	Estado Estado
	// Buscar matches numero_hr, referencia, procedencia or solicitante,
	// case-insensitively.
	Buscar string
}

// Repository defines the persistence operations for routing slips.
type Repository interface {
	// Create persists a new slip. The ID must already be set.
	Create(ctx context.Context, h HojaRuta) error

	// FindByID returns ErrNotFound when the slip does not exist.
	FindByID(ctx context.Context, id string) (*HojaRuta, error)

	// List returns slips ordered by creation date, newest first.
	List(ctx context.Context, f Filter) ([]HojaRuta, error)

	// UpdateEstado changes the lifecycle state only.
	UpdateEstado(ctx context.Context, id string, estado Estado) error

	// UpdateSecciones replaces the detalles and extras objects together, which
	// between them hold the sections.
	UpdateSecciones(ctx context.Context, id string, detalles, extras map[string]any) error
}
