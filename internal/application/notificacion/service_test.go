package notificacion

import (
	"context"
	"errors"
	"testing"
	"time"

	corenotificacion "sedeges/ms_hojas_ruta/internal/core/notificacion"
	"sedeges/ms_hojas_ruta/internal/testutil"
)

var ahora = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(items ...corenotificacion.Notificacion) (*Service, *testutil.MemoryNotificacionRepository) {
	repo := testutil.NewMemoryNotificacionRepository(items...)
	s := NewService(repo, testutil.NewNullLogger())
	s.now = func() time.Time { return ahora }
	return s, repo
}

func TestService_Notify(t *testing.T) {
	s, repo := newTestService()

	if err := s.Notify(context.Background(), "u-1", "hr-1", "enviada", "Hoja de ruta enviada"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := repo.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(all))
	}
	n := all[0]
	if n.ID == "" || n.Leida || !n.CreatedAt.Equal(ahora) {
		t.Errorf("expected new unread notification stamped now, got %+v", n)
	}
}

func TestService_Notify_RepositoryError(t *testing.T) {
	s, repo := newTestService()
	repo.CreateFunc = func(context.Context, corenotificacion.Notificacion) error {
		return errors.New("insert failed")
	}

	if err := s.Notify(context.Background(), "u-1", "hr-1", "enviada", "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_List(t *testing.T) {
	s, _ := newTestService(
		corenotificacion.Notificacion{ID: "old", UsuarioID: "u-1", CreatedAt: ahora.Add(-8 * 24 * time.Hour)},
		corenotificacion.Notificacion{ID: "a", UsuarioID: "u-1", CreatedAt: ahora.Add(-2 * time.Hour), Leida: true},
		corenotificacion.Notificacion{ID: "b", UsuarioID: "u-1", CreatedAt: ahora.Add(-time.Hour)},
		corenotificacion.Notificacion{ID: "other", UsuarioID: "u-2", CreatedAt: ahora},
	)

	res, err := s.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Notificaciones) != 2 {
		t.Fatalf("expected 2 notifications within the window, got %d", len(res.Notificaciones))
	}
	if res.Notificaciones[0].ID != "b" {
		t.Errorf("expected newest first, got %q", res.Notificaciones[0].ID)
	}
	if res.NoLeidas != 1 {
		t.Errorf("expected 1 unread, got %d", res.NoLeidas)
	}

	empty, err := s.List(context.Background(), "nadie")
	if err != nil || empty.Notificaciones == nil {
		t.Errorf("expected empty non-nil list, got %+v, %v", empty, err)
	}
}

func TestService_MarkRead(t *testing.T) {
	s, _ := newTestService(
		corenotificacion.Notificacion{ID: "a", UsuarioID: "u-1", CreatedAt: ahora},
		corenotificacion.Notificacion{ID: "b", UsuarioID: "u-1", CreatedAt: ahora},
		corenotificacion.Notificacion{ID: "c", UsuarioID: "u-2", CreatedAt: ahora},
	)
	ctx := context.Background()

	if err := s.MarkRead(ctx, "c", "u-1"); !errors.Is(err, corenotificacion.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's notification, got %v", err)
	}
	if err := s.MarkRead(ctx, "a", "u-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unread, _ := s.Unread(ctx, "u-1")
	if unread != 1 {
		t.Errorf("expected 1 unread after marking one, got %d", unread)
	}

	changed, err := s.MarkAllRead(ctx, "u-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed != 1 {
		t.Errorf("expected 1 changed, got %d", changed)
	}
	if unread, _ := s.Unread(ctx, "u-1"); unread != 0 {
		t.Errorf("expected no unread left, got %d", unread)
	}
	if unread, _ := s.Unread(ctx, "u-2"); unread != 1 {
		t.Errorf("expected other user untouched, got %d", unread)
	}
}
