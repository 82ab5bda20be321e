package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sedeges/ms_hojas_ruta/internal/core/audit"
)

// Repository implements the audit.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a new PostgreSQL history repository.
func NewRepository(pool *pgxpool.Pool, log *slog.Logger) audit.Repository {
	return &Repository{pool: pool, log: log}
}

// Save persists a history entry.
func (r *Repository) Save(ctx context.Context, e audit.Entry) error {
	detalle, err := marshalDetalle(e.Detalle)
	if err != nil {
		return err
	}

	var correlationID any
	if e.CorrelationID != "" {
		correlationID = e.CorrelationID
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO historial_hojas_ruta (id, hoja_ruta_id, accion, usuario_id, correlation_id, detalle, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.HojaRutaID, string(e.Accion), e.UsuarioID, correlationID, detalle, e.CreatedAt)
	if err != nil {
		r.log.Error("Failed to insert history entry",
			"hoja_ruta_id", e.HojaRutaID,
			"accion", e.Accion,
			"correlation_id", e.CorrelationID,
			"error", err,
		)
		return fmt.Errorf("insert historial: %w", err)
	}
	return nil
}

// ListByHojaRuta retrieves the history of a slip, oldest first.
func (r *Repository) ListByHojaRuta(ctx context.Context, hojaRutaID string) ([]audit.Entry, error) {
	if _, err := uuid.Parse(hojaRutaID); err != nil {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, hoja_ruta_id, accion, usuario_id, COALESCE(correlation_id, ''), detalle, created_at
		FROM historial_hojas_ruta
		WHERE hoja_ruta_id = $1
		ORDER BY created_at ASC
	`, hojaRutaID)
	if err != nil {
		return nil, fmt.Errorf("query historial: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e       audit.Entry
			accion  string
			detalle []byte
		)
		if err := rows.Scan(&e.ID, &e.HojaRutaID, &accion, &e.UsuarioID, &e.CorrelationID, &detalle, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan historial: %w", err)
		}
		e.Accion = audit.Accion(accion)
		if len(detalle) > 0 {
			if err := json.Unmarshal(detalle, &e.Detalle); err != nil {
				return nil, fmt.Errorf("unmarshal detalle: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate historial: %w", err)
	}
	return entries, nil
}

func marshalDetalle(detalle map[string]any) ([]byte, error) {
	if len(detalle) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(detalle)
	if err != nil {
		return nil, fmt.Errorf("marshal detalle: %w", err)
	}
	return b, nil
}
