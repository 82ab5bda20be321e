package hojaruta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"sedeges/ms_hojas_ruta/internal/core/audit"
	"sedeges/ms_hojas_ruta/internal/core/envio"
	corehojaruta "sedeges/ms_hojas_ruta/internal/core/hojaruta"
	"sedeges/ms_hojas_ruta/internal/infrastructure/cache"
	ctxutil "sedeges/ms_hojas_ruta/internal/infrastructure/context"
	"sedeges/ms_hojas_ruta/internal/infrastructure/logger"
)

// Options tunes the routing-slip service.
type Options struct {
	// DashboardTTL is how long a computed dashboard is served from memory.
	DashboardTTL time.Duration
	// Location decides which calendar day "today" is. Defaults to UTC.
	Location *time.Location
	// Historial records every change to a slip. Nil disables the history.
	Historial audit.Repository
}

// Service orchestrates routing-slip use cases.
type Service struct {
	repo      corehojaruta.Repository
	envios    envio.Repository
	historial audit.Repository
	tablero   *cache.ValueCache[corehojaruta.Tablero]
	location  *time.Location
	now       func() time.Time
	log       *slog.Logger
}

// NewService creates a new routing-slip service.
func NewService(repo corehojaruta.Repository, envios envio.Repository, opts Options, log *slog.Logger) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      repo,
		envios:    envios,
		historial: opts.Historial,
		tablero:   cache.NewValueCache[corehojaruta.Tablero](opts.DashboardTTL),
		location:  loc,
		now:       time.Now,
		log:       log,
	}
}

// Today returns the current date in the service's location as YYYY-MM-DD.
func (s *Service) Today() string {
	return s.now().In(s.location).Format(time.DateOnly)
}

// Create registers a new routing slip from a raw record. numero_hr and
// referencia are required; the slip always starts pendiente, and fecha_ingreso
// defaults to today.
func (s *Service) Create(ctx context.Context, r corehojaruta.Registro) (*corehojaruta.HojaRuta, error) {
	delete(r, "estado")
	h, err := corehojaruta.FromRegistro(r)
	if err != nil {
		return nil, &ValidationError{Errors: []string{err.Error()}}
	}

	verr := &ValidationError{}
	h.NumeroHR = strings.TrimSpace(h.NumeroHR)
	h.Referencia = strings.TrimSpace(h.Referencia)
	if h.NumeroHR == "" {
		verr.add("El campo numero_hr es requerido")
	}
	if h.Referencia == "" {
		verr.add("El campo referencia es requerido")
	}
	for _, d := range h.Destinos {
		if !slices.Contains(corehojaruta.InstruccionesEstandar, d) {
			verr.add(fmt.Sprintf("Instrucción desconocida: %s", d))
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	h.ID = uuid.NewString()
	h.Estado = corehojaruta.EstadoPendiente
	if h.FechaIngreso == "" {
		h.FechaIngreso = s.Today()
	}
	h.CreadoPor = ""
	if usuario, ok := ctxutil.GetUsuario(ctx); ok {
		h.CreadoPor = usuario.ID
	}
	h.CreatedAt = now
	h.UpdatedAt = now

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("create hoja de ruta: %w", err)
	}
	s.tablero.Clear()
	s.record(ctx, h.ID, audit.AccionCreada, map[string]any{"numero_hr": h.NumeroHR})

	logger.FromContext(ctx, s.log).Info("hoja de ruta created", "id", h.ID, "numero_hr", h.NumeroHR)
	return &h, nil
}

// Get returns a routing slip by ID.
func (s *Service) Get(ctx context.Context, id string) (*corehojaruta.HojaRuta, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find hoja de ruta %s: %w", id, err)
	}
	return h, nil
}

// List returns the routing slips matching the filter. estado accepts either
// vocabulary; "completado" selects finalizada.
func (s *Service) List(ctx context.Context, estado, buscar string) ([]corehojaruta.HojaRuta, error) {
	f := corehojaruta.Filter{Buscar: strings.TrimSpace(buscar)}
	if estado != "" {
		e, err := corehojaruta.ParseEstado(estado)
		if err != nil {
			return nil, &ValidationError{Errors: []string{fmt.Sprintf("Estado desconocido: %s", estado)}}
		}
		f.Estado = e
	}

	hojas, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list hojas de ruta: %w", err)
	}
	if hojas == nil {
		hojas = []corehojaruta.HojaRuta{}
	}
	return hojas, nil
}

// Transition moves a slip to the state named by estado, which may come from
// either vocabulary.
func (s *Service) Transition(ctx context.Context, id, estado string) (*corehojaruta.HojaRuta, error) {
	to, err := corehojaruta.ParseEstado(estado)
	if err != nil {
		return nil, &ValidationError{Errors: []string{fmt.Sprintf("Estado desconocido: %s", estado)}}
	}

	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.Estado == to {
		return h, nil
	}
	if !corehojaruta.CanTransition(h.Estado, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, h.Estado, to)
	}

	if err := s.repo.UpdateEstado(ctx, id, to); err != nil {
		return nil, fmt.Errorf("update estado: %w", err)
	}
	s.tablero.Clear()
	s.record(ctx, id, audit.AccionEstado, map[string]any{"de": string(h.Estado), "a": string(to)})

	logger.FromContext(ctx, s.log).Info("hoja de ruta transitioned", "id", id, "from", h.Estado, "to", to)
	h.Estado = to
	h.UpdatedAt = s.now().UTC()
	return h, nil
}

// Secciones returns the reconciled section list of a slip.
func (s *Service) Secciones(ctx context.Context, id string) ([]corehojaruta.Seccion, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return corehojaruta.Reconcile(h.Registro()), nil
}

// AppendSeccion adds a section after the last one that carries data and
// returns it with its stable ID and ordinal. Sections read from the legacy flat
// format get IDs on the way, and an empty section between two others keeps
// its ordinal.
func (s *Service) AppendSeccion(ctx context.Context, id string, sec corehojaruta.Seccion) (corehojaruta.Seccion, int, error) {
	if err := validateSeccion(sec); err != nil {
		return corehojaruta.Seccion{}, 0, err
	}

	h, err := s.Get(ctx, id)
	if err != nil {
		return corehojaruta.Seccion{}, 0, err
	}

	secciones := ocupadas(corehojaruta.Reconcile(h.Registro()))
	if sec.ID == "" {
		sec.ID = uuid.NewString()
	}
	secciones = append(secciones, sec)

	if err := s.saveSecciones(ctx, h, secciones); err != nil {
		return corehojaruta.Seccion{}, 0, err
	}
	s.record(ctx, id, audit.AccionSeccionAgregada, seccionDetalle(sec, len(secciones)))
	return sec, len(secciones), nil
}

// UpdateSeccion replaces the content of the section at ordinal numero, keeping
// its ID. Ordinals pointing at the empty padding after the last data-bearing
// section fill the next free position, whose ordinal is returned.
func (s *Service) UpdateSeccion(ctx context.Context, id string, numero int, sec corehojaruta.Seccion) (corehojaruta.Seccion, int, error) {
	if err := validateSeccion(sec); err != nil {
		return corehojaruta.Seccion{}, 0, err
	}

	h, err := s.Get(ctx, id)
	if err != nil {
		return corehojaruta.Seccion{}, 0, err
	}

	todas := corehojaruta.Reconcile(h.Registro())
	if numero < 1 || numero > len(todas) {
		return corehojaruta.Seccion{}, 0, fmt.Errorf("%w: %d", ErrSeccionNotFound, numero)
	}

	secciones := ocupadas(todas)
	idx := numero - 1
	if idx < len(secciones) {
		sec.ID = secciones[idx].ID
		if sec.ID == "" {
			sec.ID = uuid.NewString()
		}
		secciones[idx] = sec
	} else {
		sec.ID = uuid.NewString()
		secciones = append(secciones, sec)
		idx = len(secciones) - 1
	}

	if err := s.saveSecciones(ctx, h, secciones); err != nil {
		return corehojaruta.Seccion{}, 0, err
	}
	s.record(ctx, id, audit.AccionSeccionActualizada, seccionDetalle(sec, corehojaruta.Numero(idx)))
	return sec, corehojaruta.Numero(idx), nil
}

// RemoveSeccion drops the section with the given stable ID. It undoes an
// append whose follow-up step failed.
func (s *Service) RemoveSeccion(ctx context.Context, id, seccionID string) error {
	h, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	secciones := ocupadas(corehojaruta.Reconcile(h.Registro()))
	numero := corehojaruta.NumeroDe(secciones, seccionID)
	if numero == 0 {
		return nil
	}
	kept := slices.DeleteFunc(secciones, func(sec corehojaruta.Seccion) bool { return sec.ID == seccionID })
	if err := s.saveSecciones(ctx, h, kept); err != nil {
		return err
	}
	s.record(ctx, id, audit.AccionSeccionEliminada, map[string]any{"seccion_id": seccionID, "numero": numero})
	return nil
}

// Historial returns the recorded changes of a slip, oldest first.
func (s *Service) Historial(ctx context.Context, id string) ([]audit.Entry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.historial == nil {
		return []audit.Entry{}, nil
	}

	entries, err := s.historial.ListByHojaRuta(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list historial: %w", err)
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return entries, nil
}

// Preview builds the print layout of a slip, overlaying the responses of its
// envios.
func (s *Service) Preview(ctx context.Context, id string) (corehojaruta.Vista, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return corehojaruta.Vista{}, err
	}

	envios, err := s.envios.ListByHojaRuta(ctx, id)
	if err != nil {
		return corehojaruta.Vista{}, fmt.Errorf("list envios: %w", err)
	}

	registro := h.Registro()
	respuestas := envio.Respuestas(envios, corehojaruta.Reconcile(registro))
	return corehojaruta.BuildPreview(registro, respuestas), nil
}

// Dashboard buckets the open slips by days to deadline. Results are served
// from memory for the configured TTL.
func (s *Service) Dashboard(ctx context.Context) (corehojaruta.Tablero, error) {
	if t, ok := s.tablero.Get(); ok {
		return t, nil
	}

	hojas, err := s.repo.List(ctx, corehojaruta.Filter{})
	if err != nil {
		return corehojaruta.Tablero{}, fmt.Errorf("list hojas de ruta: %w", err)
	}

	registros := make([]corehojaruta.Registro, 0, len(hojas))
	for _, h := range hojas {
		if h.Estado.Cerrada() {
			continue
		}
		registros = append(registros, h.Registro())
	}

	t := corehojaruta.Bucketize(registros, s.now().In(s.location))
	s.tablero.Set(t)
	return t, nil
}

func (s *Service) saveSecciones(ctx context.Context, h *corehojaruta.HojaRuta, secciones []corehojaruta.Seccion) error {
	detalles, extras, err := corehojaruta.StoreSecciones(h.Detalles, h.Extras, secciones)
	if errors.Is(err, corehojaruta.ErrSeccionesLegado) {
		return &ValidationError{Errors: []string{
			fmt.Sprintf("La hoja de ruta admite hasta %d secciones mientras tenga secciones vacías intermedias", corehojaruta.MaxSeccionesLegado),
		}}
	}
	if err != nil {
		return err
	}

	if err := s.repo.UpdateSecciones(ctx, h.ID, detalles, extras); err != nil {
		return fmt.Errorf("update secciones: %w", err)
	}
	s.tablero.Clear()
	return nil
}

// record appends a history entry. A failure is logged and never fails the
// change that triggered it.
func (s *Service) record(ctx context.Context, hojaID string, accion audit.Accion, detalle map[string]any) {
	if s.historial == nil {
		return
	}

	e := audit.Entry{
		ID:            uuid.NewString(),
		HojaRutaID:    hojaID,
		Accion:        accion,
		CorrelationID: ctxutil.GetCorrelationID(ctx),
		Detalle:       detalle,
		CreatedAt:     s.now().UTC(),
	}
	if usuario, ok := ctxutil.GetUsuario(ctx); ok {
		e.UsuarioID = usuario.ID
	}

	if err := s.historial.Save(ctx, e); err != nil {
		logger.FromContext(ctx, s.log).Warn("failed to record historial", "id", hojaID, "accion", accion, "error", err)
	}
}

func seccionDetalle(sec corehojaruta.Seccion, numero int) map[string]any {
	return map[string]any{
		"seccion_id": sec.ID,
		"numero":     numero,
		"destino":    sec.Destino,
	}
}

// ocupadas keeps every section up to the last one that carries data, so empty
// sections in between hold their ordinals. Data-bearing sections read from
// the legacy format get an ID.
func ocupadas(secciones []corehojaruta.Seccion) []corehojaruta.Seccion {
	out := make([]corehojaruta.Seccion, 0, len(secciones))
	end := 0
	for _, sec := range secciones {
		if sec.Visible() && sec.ID == "" {
			sec.ID = uuid.NewString()
		}
		out = append(out, sec)
		if sec.Visible() {
			end = len(out)
		}
	}
	return out[:end]
}

func validateSeccion(sec corehojaruta.Seccion) error {
	verr := &ValidationError{}
	if !sec.Visible() {
		verr.add("La sección requiere destino, destinos o fecha_enviado")
	}
	for _, d := range sec.Destinos {
		if !slices.Contains(corehojaruta.InstruccionesEstandar, d) {
			verr.add(fmt.Sprintf("Instrucción desconocida: %s", d))
		}
	}
	return verr.orNil()
}
