package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sedeges/ms_hojas_ruta/internal/core/envio"
	"sedeges/ms_hojas_ruta/internal/core/hojaruta"
)

// Repository implements the envio.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a new PostgreSQL envio repository.
func NewRepository(pool *pgxpool.Pool, log *slog.Logger) envio.Repository {
	return &Repository{pool: pool, log: log}
}

const selectColumns = `
	id, hoja_ruta_id, seccion_id, unidad_origen, unidad_destino, estado, fecha_enviado,
	fecha_recepcion, instrucciones, respuesta, accion, responsable, created_at, updated_at`

// Create persists a new envio.
func (r *Repository) Create(ctx context.Context, e envio.Envio) error {
	query := `
		INSERT INTO envios (
			id, hoja_ruta_id, seccion_id, unidad_origen, unidad_destino, estado, fecha_enviado,
			fecha_recepcion, instrucciones, respuesta, accion, responsable, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		e.ID,
		e.HojaRutaID,
		e.SeccionID,
		e.UnidadOrigen,
		e.UnidadDestino,
		string(e.Estado),
		e.FechaEnviado,
		e.FechaRecepcion,
		e.Instrucciones,
		e.Respuesta,
		e.Accion,
		e.Responsable,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert envio: %w", err)
	}
	return nil
}

// FindByID returns the envio with the given ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*envio.Envio, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, envio.ErrNotFound
	}

	e, err := scanEnvio(r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM envios WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, envio.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select envio: %w", err)
	}
	return e, nil
}

// ListByHojaRuta returns the envios of a routing slip ordered by fecha_enviado.
func (r *Repository) ListByHojaRuta(ctx context.Context, hojaRutaID string) ([]envio.Envio, error) {
	if _, err := uuid.Parse(hojaRutaID); err != nil {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM envios WHERE hoja_ruta_id = $1 ORDER BY fecha_enviado, created_at`,
		hojaRutaID)
	if err != nil {
		return nil, fmt.Errorf("query envios: %w", err)
	}
	defer rows.Close()

	var result []envio.Envio
	for rows.Next() {
		e, err := scanEnvio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan envio: %w", err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate envios: %w", err)
	}
	return result, nil
}

// Update persists the estado, reception and response fields of an envio.
func (r *Repository) Update(ctx context.Context, e envio.Envio) error {
	query := `
		UPDATE envios SET
			estado = $2,
			fecha_recepcion = $3,
			respuesta = $4,
			accion = $5,
			responsable = $6,
			updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		e.ID,
		string(e.Estado),
		e.FechaRecepcion,
		e.Respuesta,
		e.Accion,
		e.Responsable,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update envio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return envio.ErrNotFound
	}
	return nil
}

func scanEnvio(row pgx.Row) (*envio.Envio, error) {
	var e envio.Envio
	var estado string

	err := row.Scan(
		&e.ID,
		&e.HojaRutaID,
		&e.SeccionID,
		&e.UnidadOrigen,
		&e.UnidadDestino,
		&estado,
		&e.FechaEnviado,
		&e.FechaRecepcion,
		&e.Instrucciones,
		&e.Respuesta,
		&e.Accion,
		&e.Responsable,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Estado = hojaruta.Estado(estado)
	return &e, nil
}
