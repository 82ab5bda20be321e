package notificacion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	corenotificacion "sedeges/ms_hojas_ruta/internal/core/notificacion"
)

// Resumen is the notification list of a user with its unread count.
type Resumen struct {
	Notificaciones []corenotificacion.Notificacion `json:"notificaciones"`
	NoLeidas       int                             `json:"no_leidas"`
}

// Service orchestrates notification use cases. Read state lives only here.
type Service struct {
	repo corenotificacion.Repository
	now  func() time.Time
	log  *slog.Logger
}

// NewService creates a new notification service.
func NewService(repo corenotificacion.Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, now: time.Now, log: log}
}

// Notify stores a new unread notification for the user.
func (s *Service) Notify(ctx context.Context, usuarioID, hojaRutaID, tipo, mensaje string) error {
	n := corenotificacion.Notificacion{
		ID:         uuid.NewString(),
		UsuarioID:  usuarioID,
		HojaRutaID: hojaRutaID,
		Tipo:       tipo,
		Mensaje:    mensaje,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notificacion: %w", err)
	}
	return nil
}

// List returns the user's notifications from the last Window, newest first.
func (s *Service) List(ctx context.Context, usuarioID string) (Resumen, error) {
	since := s.since()
	items, err := s.repo.ListSince(ctx, usuarioID, since)
	if err != nil {
		return Resumen{}, fmt.Errorf("list notificaciones: %w", err)
	}
	if items == nil {
		items = []corenotificacion.Notificacion{}
	}

	noLeidas := 0
	for _, n := range items {
		if !n.Leida {
			noLeidas++
		}
	}
	return Resumen{Notificaciones: items, NoLeidas: noLeidas}, nil
}

// Unread counts the user's unread notifications within the Window.
func (s *Service) Unread(ctx context.Context, usuarioID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, usuarioID, s.since())
	if err != nil {
		return 0, fmt.Errorf("count notificaciones: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read.
func (s *Service) MarkRead(ctx context.Context, id, usuarioID string) error {
	if err := s.repo.MarkRead(ctx, id, usuarioID); err != nil {
		return fmt.Errorf("mark notificacion %s read: %w", id, err)
	}
	return nil
}

// MarkAllRead flags every notification of the user as read and returns how
// many changed.
func (s *Service) MarkAllRead(ctx context.Context, usuarioID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, usuarioID)
	if err != nil {
		return 0, fmt.Errorf("mark notificaciones read: %w", err)
	}
	return n, nil
}

func (s *Service) since() time.Time {
	return s.now().UTC().Add(-corenotificacion.Window)
}
