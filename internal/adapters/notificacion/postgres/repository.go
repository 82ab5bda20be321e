package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sedeges/ms_hojas_ruta/internal/core/notificacion"
)

// Repository implements the notificacion.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a new PostgreSQL notification repository.
func NewRepository(pool *pgxpool.Pool, log *slog.Logger) notificacion.Repository {
	return &Repository{pool: pool, log: log}
}

// Create persists a new notification.
func (r *Repository) Create(ctx context.Context, n notificacion.Notificacion) error {
	var hojaRutaID any
	if n.HojaRutaID != "" {
		hojaRutaID = n.HojaRutaID
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO notificaciones (id, usuario_id, hoja_ruta_id, tipo, mensaje, leida, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.UsuarioID, hojaRutaID, n.Tipo, n.Mensaje, n.Leida, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notificacion: %w", err)
	}
	return nil
}

// ListSince returns the user's notifications created at or after since.
func (r *Repository) ListSince(ctx context.Context, usuarioID string, since time.Time) ([]notificacion.Notificacion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, usuario_id, COALESCE(hoja_ruta_id::text, ''), tipo, mensaje, leida, created_at
		FROM notificaciones
		WHERE usuario_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`, usuarioID, since)
	if err != nil {
		return nil, fmt.Errorf("query notificaciones: %w", err)
	}
	defer rows.Close()

	var result []notificacion.Notificacion
	for rows.Next() {
		var n notificacion.Notificacion
		if err := rows.Scan(&n.ID, &n.UsuarioID, &n.HojaRutaID, &n.Tipo, &n.Mensaje, &n.Leida, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notificacion: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notificaciones: %w", err)
	}
	return result, nil
}

// MarkRead flags one of the user's notifications as read.
func (r *Repository) MarkRead(ctx context.Context, id, usuarioID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificacion.ErrNotFound
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE notificaciones SET leida = TRUE WHERE id = $1 AND usuario_id = $2`,
		id, usuarioID)
	if err != nil {
		return fmt.Errorf("mark notificacion read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notificacion.ErrNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of the user as read.
func (r *Repository) MarkAllRead(ctx context.Context, usuarioID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notificaciones SET leida = TRUE WHERE usuario_id = $1 AND NOT leida`,
		usuarioID)
	if err != nil {
		return 0, fmt.Errorf("mark notificaciones read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountUnread counts the user's unread notifications created at or after since.
func (r *Repository) CountUnread(ctx context.Context, usuarioID string, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notificaciones WHERE usuario_id = $1 AND NOT leida AND created_at >= $2`,
		usuarioID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count notificaciones: %w", err)
	}
	return count, nil
}
