package notificacion

import (
	"context"
	"errors"
	"time"
)

// Window bounds how far back notifications are listed.
const Window = 7 * 24 * time.Hour

// ErrNotFound is returned when a notification does not exist for the user.
var ErrNotFound = errors.New("notificacion not found")

// Notificacion tells a user that a routing slip changed. Leida is owned by the
// server; clients never keep their own read state.
type Notificacion struct {
	ID         string    `json:"id"`
	UsuarioID  string    `json:"usuario_id"`
	HojaRutaID string    `json:"hoja_ruta_id"`
	Tipo       string    `json:"tipo"`
	Mensaje    string    `json:"mensaje"`
	Leida      bool      `json:"leida"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository defines the persistence operations for notifications.
type Repository interface {
	Create(ctx context.Context, n Notificacion) error

	// ListSince returns the user's notifications created at or after since,
	// newest first.
	ListSince(ctx context.Context, usuarioID string, since time.Time) ([]Notificacion, error)

	// MarkRead returns ErrNotFound when the notification is not the user's.
	MarkRead(ctx context.Context, id, usuarioID string) error

	// MarkAllRead returns the number of notifications changed.
	MarkAllRead(ctx context.Context, usuarioID string) (int64, error)

	CountUnread(ctx context.Context, usuarioID string, since time.Time) (int, error)
}
