package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sedeges/ms_hojas_ruta/internal/core/hojaruta"
)

// Repository implements the hojaruta.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a new PostgreSQL routing-slip repository.
func NewRepository(pool *pgxpool.Pool, log *slog.Logger) hojaruta.Repository {
	return &Repository{pool: pool, log: log}
}

const selectColumns = `
	id, numero_hr, referencia, prioridad, estado, nombre_solicitante, telefono_celular,
	procedencia, fecha_documento, fecha_ingreso, fecha_limite, destino, destinos,
	instrucciones_adicionales, creado_por, detalles, extras, created_at, updated_at`

// Create persists a new routing slip.
func (r *Repository) Create(ctx context.Context, h hojaruta.HojaRuta) error {
	destinosJSON, err := json.Marshal(nonNil(h.Destinos))
	if err != nil {
		return fmt.Errorf("marshal destinos: %w", err)
	}
	detallesJSON, err := marshalObject(h.Detalles)
	if err != nil {
		return fmt.Errorf("marshal detalles: %w", err)
	}
	extrasJSON, err := marshalObject(h.Extras)
	if err != nil {
		return fmt.Errorf("marshal extras: %w", err)
	}

	query := `
		INSERT INTO hojas_ruta (
			id, numero_hr, referencia, prioridad, estado, nombre_solicitante, telefono_celular,
			procedencia, fecha_documento, fecha_ingreso, fecha_limite, destino, destinos,
			instrucciones_adicionales, creado_por, detalles, extras, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`

	_, err = r.pool.Exec(ctx, query,
		h.ID,
		h.NumeroHR,
		h.Referencia,
		h.Prioridad,
		string(h.Estado),
		h.SolicitanteNombre,
		h.SolicitanteTelefono,
		h.Procedencia,
		h.FechaDocumento,
		h.FechaIngreso,
		h.FechaLimite,
		h.Destino,
		destinosJSON,
		h.InstruccionesAdicionales,
		h.CreadoPor,
		detallesJSON,
		extrasJSON,
		h.CreatedAt,
		h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert hoja de ruta: %w", err)
	}
	return nil
}

// FindByID returns the routing slip with the given ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*hojaruta.HojaRuta, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, hojaruta.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM hojas_ruta WHERE id = $1`, id)
	h, err := scanHojaRuta(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, hojaruta.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select hoja de ruta: %w", err)
	}
	return h, nil
}

// List returns the routing slips matching f, newest first.
func (r *Repository) List(ctx context.Context, f hojaruta.Filter) ([]hojaruta.HojaRuta, error) {
	var (
		conditions []string
		args       []any
	)
	if f.Estado != "" {
		args = append(args, string(f.Estado))
		conditions = append(conditions, fmt.Sprintf("estado = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Buscar); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(numero_hr ILIKE $%d OR referencia ILIKE $%d OR procedencia ILIKE $%d OR nombre_solicitante ILIKE $%d)",
			n, n, n, n))
	}

	query := `SELECT ` + selectColumns + ` FROM hojas_ruta`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hojas de ruta: %w", err)
	}
	defer rows.Close()

	var result []hojaruta.HojaRuta
	for rows.Next() {
		h, err := scanHojaRuta(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hoja de ruta: %w", err)
		}
		result = append(result, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hojas de ruta: %w", err)
	}
	return result, nil
}

// UpdateEstado changes the lifecycle state of a routing slip.
func (r *Repository) UpdateEstado(ctx context.Context, id string, estado hojaruta.Estado) error {
	if _, err := uuid.Parse(id); err != nil {
		return hojaruta.ErrNotFound
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE hojas_ruta SET estado = $2, updated_at = $3 WHERE id = $1`,
		id, string(estado), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return hojaruta.ErrNotFound
	}
	return nil
}

// UpdateSecciones replaces the detalles and extras objects of a routing slip.
func (r *Repository) UpdateSecciones(ctx context.Context, id string, detalles, extras map[string]any) error {
	if _, err := uuid.Parse(id); err != nil {
		return hojaruta.ErrNotFound
	}

	detallesJSON, err := marshalObject(detalles)
	if err != nil {
		return fmt.Errorf("marshal detalles: %w", err)
	}
	extrasJSON, err := marshalObject(extras)
	if err != nil {
		return fmt.Errorf("marshal extras: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE hojas_ruta SET detalles = $2, extras = $3, updated_at = $4 WHERE id = $1`,
		id, detallesJSON, extrasJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update secciones: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return hojaruta.ErrNotFound
	}
	return nil
}

func scanHojaRuta(row pgx.Row) (*hojaruta.HojaRuta, error) {
	var h hojaruta.HojaRuta
	var estado string
	var destinosJSON, detallesJSON, extrasJSON []byte

	err := row.Scan(
		&h.ID,
		&h.NumeroHR,
		&h.Referencia,
		&h.Prioridad,
		&estado,
		&h.SolicitanteNombre,
		&h.SolicitanteTelefono,
		&h.Procedencia,
		&h.FechaDocumento,
		&h.FechaIngreso,
		&h.FechaLimite,
		&h.Destino,
		&destinosJSON,
		&h.InstruccionesAdicionales,
		&h.CreadoPor,
		&detallesJSON,
		&extrasJSON,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	h.Estado = hojaruta.Estado(estado)
	if len(destinosJSON) > 0 {
		if err := json.Unmarshal(destinosJSON, &h.Destinos); err != nil {
			return nil, fmt.Errorf("unmarshal destinos: %w", err)
		}
	}
	if len(detallesJSON) > 0 {
		if err := json.Unmarshal(detallesJSON, &h.Detalles); err != nil {
			return nil, fmt.Errorf("unmarshal detalles: %w", err)
		}
	}
	if len(extrasJSON) > 0 {
		if err := json.Unmarshal(extrasJSON, &h.Extras); err != nil {
			return nil, fmt.Errorf("unmarshal extras: %w", err)
		}
	}
	return &h, nil
}

// marshalObject encodes m as JSONB, mapping an empty object to NULL.
func marshalObject(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
