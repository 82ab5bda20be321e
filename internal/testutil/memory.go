package testutil

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"sedeges/ms_hojas_ruta/internal/core/audit"
	"sedeges/ms_hojas_ruta/internal/core/envio"
	"sedeges/ms_hojas_ruta/internal/core/hojaruta"
	"sedeges/ms_hojas_ruta/internal/core/notificacion"
)

// MemoryHojaRutaRepository is an in-memory hojaruta.Repository. Setting a Func
// field overrides the matching method.
type MemoryHojaRutaRepository struct {
	mu    sync.Mutex
	items map[string]hojaruta.HojaRuta
	order []string

	ListCalls int

	CreateFunc          func(ctx context.Context, h hojaruta.HojaRuta) error
	UpdateSeccionesFunc func(ctx context.Context, id string, detalles, extras map[string]any) error
}

// NewMemoryHojaRutaRepository creates a repository preloaded with hojas.
func NewMemoryHojaRutaRepository(hojas ...hojaruta.HojaRuta) *MemoryHojaRutaRepository {
	r := &MemoryHojaRutaRepository{items: make(map[string]hojaruta.HojaRuta)}
	for _, h := range hojas {
		r.items[h.ID] = h
		r.order = append(r.order, h.ID)
	}
	return r
}

func (r *MemoryHojaRutaRepository) Create(ctx context.Context, h hojaruta.HojaRuta) error {
	if r.CreateFunc != nil {
		if err := r.CreateFunc(ctx, h); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[h.ID] = h
	r.order = append(r.order, h.ID)
	return nil
}

func (r *MemoryHojaRutaRepository) FindByID(ctx context.Context, id string) (*hojaruta.HojaRuta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.items[id]
	if !ok {
		return nil, hojaruta.ErrNotFound
	}
	return &h, nil
}

// List returns matches newest first, i.e. in reverse insertion order.
func (r *MemoryHojaRutaRepository) List(ctx context.Context, f hojaruta.Filter) ([]hojaruta.HojaRuta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ListCalls++

	var out []hojaruta.HojaRuta
	for i := len(r.order) - 1; i >= 0; i-- {
		id := r.order[i]
		h := r.items[id]
		if f.Estado != "" && h.Estado != f.Estado {
			continue
		}
		if q := strings.ToLower(f.Buscar); q != "" &&
			!strings.Contains(strings.ToLower(h.NumeroHR+" "+h.Referencia+" "+h.Procedencia+" "+h.SolicitanteNombre), q) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (r *MemoryHojaRutaRepository) UpdateEstado(ctx context.Context, id string, estado hojaruta.Estado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.items[id]
	if !ok {
		return hojaruta.ErrNotFound
	}
	h.Estado = estado
	h.UpdatedAt = time.Now().UTC()
	r.items[id] = h
	return nil
}

func (r *MemoryHojaRutaRepository) UpdateSecciones(ctx context.Context, id string, detalles, extras map[string]any) error {
	if r.UpdateSeccionesFunc != nil {
		if err := r.UpdateSeccionesFunc(ctx, id, detalles, extras); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.items[id]
	if !ok {
		return hojaruta.ErrNotFound
	}
	h.Detalles = detalles
	h.Extras = extras
	h.UpdatedAt = time.Now().UTC()
	r.items[id] = h
	return nil
}

var _ hojaruta.Repository = (*MemoryHojaRutaRepository)(nil)

// MemoryEnvioRepository is an in-memory envio.Repository.
type MemoryEnvioRepository struct {
	mu    sync.Mutex
	items map[string]envio.Envio
	order []string

	CreateFunc func(ctx context.Context, e envio.Envio) error
}

// NewMemoryEnvioRepository creates a repository preloaded with envios.
func NewMemoryEnvioRepository(envios ...envio.Envio) *MemoryEnvioRepository {
	r := &MemoryEnvioRepository{items: make(map[string]envio.Envio)}
	for _, e := range envios {
		r.items[e.ID] = e
		r.order = append(r.order, e.ID)
	}
	return r
}

func (r *MemoryEnvioRepository) Create(ctx context.Context, e envio.Envio) error {
	if r.CreateFunc != nil {
		if err := r.CreateFunc(ctx, e); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[e.ID] = e
	r.order = append(r.order, e.ID)
	return nil
}

func (r *MemoryEnvioRepository) FindByID(ctx context.Context, id string) (*envio.Envio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, envio.ErrNotFound
	}
	return &e, nil
}

// ListByHojaRuta returns envios in insertion order, which tests use as send order.
func (r *MemoryEnvioRepository) ListByHojaRuta(ctx context.Context, hojaRutaID string) ([]envio.Envio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []envio.Envio
	for _, id := range r.order {
		if e := r.items[id]; e.HojaRutaID == hojaRutaID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemoryEnvioRepository) Update(ctx context.Context, e envio.Envio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.ID]; !ok {
		return envio.ErrNotFound
	}
	r.items[e.ID] = e
	return nil
}

var _ envio.Repository = (*MemoryEnvioRepository)(nil)

// MemoryNotificacionRepository is an in-memory notificacion.Repository.
type MemoryNotificacionRepository struct {
	mu    sync.Mutex
	items []notificacion.Notificacion

	CreateFunc func(ctx context.Context, n notificacion.Notificacion) error
}

// NewMemoryNotificacionRepository creates a repository preloaded with items.
func NewMemoryNotificacionRepository(items ...notificacion.Notificacion) *MemoryNotificacionRepository {
	return &MemoryNotificacionRepository{items: items}
}

// All returns every stored notification in insertion order.
func (r *MemoryNotificacionRepository) All() []notificacion.Notificacion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

func (r *MemoryNotificacionRepository) Create(ctx context.Context, n notificacion.Notificacion) error {
	if r.CreateFunc != nil {
		if err := r.CreateFunc(ctx, n); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

func (r *MemoryNotificacionRepository) ListSince(ctx context.Context, usuarioID string, since time.Time) ([]notificacion.Notificacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notificacion.Notificacion
	for i := len(r.items) - 1; i >= 0; i-- {
		n := r.items[i]
		if n.UsuarioID == usuarioID && !n.CreatedAt.Before(since) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *MemoryNotificacionRepository) MarkRead(ctx context.Context, id, usuarioID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UsuarioID == usuarioID {
			r.items[i].Leida = true
			return nil
		}
	}
	return notificacion.ErrNotFound
}

func (r *MemoryNotificacionRepository) MarkAllRead(ctx context.Context, usuarioID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.items {
		if r.items[i].UsuarioID == usuarioID && !r.items[i].Leida {
			r.items[i].Leida = true
			n++
		}
	}
	return n, nil
}

func (r *MemoryNotificacionRepository) CountUnread(ctx context.Context, usuarioID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.UsuarioID == usuarioID && !n.Leida && !n.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

var _ notificacion.Repository = (*MemoryNotificacionRepository)(nil)

// MemoryAuditRepository is an in-memory audit.Repository.
type MemoryAuditRepository struct {
	mu      sync.Mutex
	entries []audit.Entry

	SaveFunc func(ctx context.Context, e audit.Entry) error
}

// NewMemoryAuditRepository creates an empty history repository.
func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Save(ctx context.Context, e audit.Entry) error {
	if r.SaveFunc != nil {
		if err := r.SaveFunc(ctx, e); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *MemoryAuditRepository) ListByHojaRuta(ctx context.Context, hojaRutaID string) ([]audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []audit.Entry
	for _, e := range r.entries {
		if e.HojaRutaID == hojaRutaID {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ audit.Repository = (*MemoryAuditRepository)(nil)
