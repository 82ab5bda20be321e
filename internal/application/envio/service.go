package envio

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	apphojaruta "sedeges/ms_hojas_ruta/internal/application/hojaruta"
	coreenvio "sedeges/ms_hojas_ruta/internal/core/envio"
	corehojaruta "sedeges/ms_hojas_ruta/internal/core/hojaruta"
	ctxutil "sedeges/ms_hojas_ruta/internal/infrastructure/context"
	"sedeges/ms_hojas_ruta/internal/infrastructure/logger"
)

// Hojas is the part of the routing-slip service envios drive.
type Hojas interface {
	Get(ctx context.Context, id string) (*corehojaruta.HojaRuta, error)
	Today() string
	AppendSeccion(ctx context.Context, id string, sec corehojaruta.Seccion) (corehojaruta.Seccion, int, error)
	RemoveSeccion(ctx context.Context, id, seccionID string) error
	Transition(ctx context.Context, id, estado string) (*corehojaruta.HojaRuta, error)
}

// Notifier tells a user that one of their slips changed.
type Notifier interface {
	Notify(ctx context.Context, usuarioID, hojaRutaID, tipo, mensaje string) error
}

// EnvioInput describes a send to one or more units.
type EnvioInput struct {
	Unidades      []string `json:"unidades"`
	Destinos      []string `json:"destinos"`
	Instrucciones string   `json:"instrucciones"`
}

// RespuestaInput is a unit's answer to a received slip.
type RespuestaInput struct {
	Respuesta   string `json:"respuesta"`
	Accion      string `json:"accion"`
	Responsable string `json:"responsable"`
}

// Service orchestrates the movement of routing slips between units.
type Service struct {
	envios   coreenvio.Repository
	hojas    Hojas
	notifier Notifier
	now      func() time.Time
	log      *slog.Logger
}

// NewService creates a new envio service.
func NewService(envios coreenvio.Repository, hojas Hojas, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		envios:   envios,
		hojas:    hojas,
		notifier: notifier,
		now:      time.Now,
		log:      log,
	}
}

// Send delivers the slip to every unit in the input, one after the other.
func (s *Service) Send(ctx context.Context, hojaID string, in EnvioInput) (Resultado, error) {
	return s.distribute(ctx, hojaID, in, corehojaruta.EstadoEnviada)
}

// Redirect forwards the slip to other units; it behaves like Send but leaves
// the slip and its new envios redirigida.
func (s *Service) Redirect(ctx context.Context, hojaID string, in EnvioInput) (Resultado, error) {
	return s.distribute(ctx, hojaID, in, corehojaruta.EstadoRedirigida)
}

// distribute runs one send per unit sequentially. A unit that fails does not
// stop the others and is not retried; the outcome lists both groups.
func (s *Service) distribute(ctx context.Context, hojaID string, in EnvioInput, target corehojaruta.Estado) (Resultado, error) {
	unidades := normalizeUnidades(in.Unidades)
	if err := validateInput(unidades, in.Destinos); err != nil {
		return Resultado{}, err
	}

	h, err := s.hojas.Get(ctx, hojaID)
	if err != nil {
		return Resultado{}, err
	}
	if h.Estado != target && !corehojaruta.CanTransition(h.Estado, target) {
		return Resultado{}, fmt.Errorf("%w: %s -> %s", apphojaruta.ErrInvalidTransition, h.Estado, target)
	}

	var origen string
	if usuario, ok := ctxutil.GetUsuario(ctx); ok {
		origen = usuario.Unidad
	}

	log := logger.FromContext(ctx, s.log)
	agg := NewResultAggregator(len(unidades))
	for _, unidad := range unidades {
		if err := ctx.Err(); err != nil {
			agg.AddFallido(unidad, err)
			continue
		}
		e, err := s.sendOne(ctx, h, origen, unidad, in, target)
		if err != nil {
			log.Warn("envio failed", "hoja_ruta_id", hojaID, "unidad", unidad, "error", err)
			agg.AddFallido(unidad, err)
			continue
		}
		agg.AddEnviado(e)
	}

	res := agg.Resultado()
	stats := agg.Stats()
	log.Info("envio completed",
		"hoja_ruta_id", hojaID,
		"estado", target,
		"total", stats.Total,
		"enviados", stats.Enviados,
		"fallidos", stats.Fallidos,
		"duration_ms", stats.Duration.Milliseconds(),
	)

	if len(res.Enviados) > 0 {
		if h.Estado != target {
			if _, err := s.hojas.Transition(ctx, hojaID, string(target)); err != nil {
				log.Error("failed to update hoja de ruta estado", "hoja_ruta_id", hojaID, "error", err)
			}
		}
		destinos := make([]string, len(res.Enviados))
		for i, e := range res.Enviados {
			destinos[i] = e.UnidadDestino
		}
		s.notify(ctx, h, string(target), fmt.Sprintf("Hoja de ruta %s %s a %s", h.NumeroHR, target, strings.Join(destinos, ", ")))
	}

	return res, nil
}

func (s *Service) sendOne(ctx context.Context, h *corehojaruta.HojaRuta, origen, unidad string, in EnvioInput, target corehojaruta.Estado) (coreenvio.Envio, error) {
	sec, _, err := s.hojas.AppendSeccion(ctx, h.ID, corehojaruta.Seccion{
		FechaEnviado:             s.hojas.Today(),
		Destino:                  unidad,
		Destinos:                 in.Destinos,
		InstruccionesAdicionales: in.Instrucciones,
	})
	if err != nil {
		return coreenvio.Envio{}, fmt.Errorf("append seccion: %w", err)
	}

	now := s.now().UTC()
	e := coreenvio.Envio{
		ID:            uuid.NewString(),
		HojaRutaID:    h.ID,
		SeccionID:     sec.ID,
		UnidadOrigen:  origen,
		UnidadDestino: unidad,
		Estado:        target,
		FechaEnviado:  now,
		Instrucciones: in.Instrucciones,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.envios.Create(ctx, e); err != nil {
		if rerr := s.hojas.RemoveSeccion(ctx, h.ID, sec.ID); rerr != nil {
			logger.FromContext(ctx, s.log).Error("failed to remove orphan seccion",
				"hoja_ruta_id", h.ID, "seccion_id", sec.ID, "error", rerr)
		}
		return coreenvio.Envio{}, fmt.Errorf("create envio: %w", err)
	}
	return e, nil
}

// Receive acknowledges that the destination unit got the slip.
func (s *Service) Receive(ctx context.Context, envioID string) (*coreenvio.Envio, error) {
	e, err := s.envios.FindByID(ctx, envioID)
	if err != nil {
		return nil, fmt.Errorf("find envio %s: %w", envioID, err)
	}
	if e.Estado != corehojaruta.EstadoEnviada && e.Estado != corehojaruta.EstadoRedirigida {
		return nil, fmt.Errorf("%w: envio %s -> %s", apphojaruta.ErrInvalidTransition, e.Estado, corehojaruta.EstadoRecibida)
	}

	now := s.now().UTC()
	e.Estado = corehojaruta.EstadoRecibida
	e.FechaRecepcion = &now
	e.UpdatedAt = now
	if err := s.envios.Update(ctx, *e); err != nil {
		return nil, fmt.Errorf("update envio: %w", err)
	}

	s.advance(ctx, e, fmt.Sprintf("%s recibió la hoja de ruta", e.UnidadDestino))
	return e, nil
}

// Respond records the unit's answer to a received slip.
func (s *Service) Respond(ctx context.Context, envioID string, in RespuestaInput) (*coreenvio.Envio, error) {
	in.Respuesta = strings.TrimSpace(in.Respuesta)
	if in.Respuesta == "" {
		return nil, &apphojaruta.ValidationError{Errors: []string{"El campo respuesta es requerido"}}
	}

	e, err := s.envios.FindByID(ctx, envioID)
	if err != nil {
		return nil, fmt.Errorf("find envio %s: %w", envioID, err)
	}
	if e.Estado != corehojaruta.EstadoRecibida {
		return nil, fmt.Errorf("%w: envio %s -> %s", apphojaruta.ErrInvalidTransition, e.Estado, corehojaruta.EstadoRespondida)
	}

	if in.Responsable == "" {
		if usuario, ok := ctxutil.GetUsuario(ctx); ok {
			in.Responsable = usuario.Nombre
		}
	}

	now := s.now().UTC()
	e.Estado = corehojaruta.EstadoRespondida
	e.Respuesta = in.Respuesta
	e.Accion = strings.TrimSpace(in.Accion)
	e.Responsable = strings.TrimSpace(in.Responsable)
	e.UpdatedAt = now
	if err := s.envios.Update(ctx, *e); err != nil {
		return nil, fmt.Errorf("update envio: %w", err)
	}

	s.advance(ctx, e, fmt.Sprintf("%s respondió la hoja de ruta", e.UnidadDestino))
	return e, nil
}

// ListByHoja returns the envios of a slip in send order.
func (s *Service) ListByHoja(ctx context.Context, hojaID string) ([]coreenvio.Envio, error) {
	if _, err := s.hojas.Get(ctx, hojaID); err != nil {
		return nil, err
	}

	envios, err := s.envios.ListByHojaRuta(ctx, hojaID)
	if err != nil {
		return nil, fmt.Errorf("list envios: %w", err)
	}
	if envios == nil {
		envios = []coreenvio.Envio{}
	}
	return envios, nil
}

// advance moves the slip to the envio's state when the lifecycle allows it and
// notifies the slip's creator. Failures here are logged; the envio itself has
// already been saved.
func (s *Service) advance(ctx context.Context, e *coreenvio.Envio, mensaje string) {
	log := logger.FromContext(ctx, s.log)

	h, err := s.hojas.Get(ctx, e.HojaRutaID)
	if err != nil {
		log.Error("failed to load hoja de ruta", "hoja_ruta_id", e.HojaRutaID, "error", err)
		return
	}
	if h.Estado != e.Estado && corehojaruta.CanTransition(h.Estado, e.Estado) {
		if _, err := s.hojas.Transition(ctx, h.ID, string(e.Estado)); err != nil {
			log.Error("failed to update hoja de ruta estado", "hoja_ruta_id", h.ID, "error", err)
		}
	}
	s.notify(ctx, h, string(e.Estado), fmt.Sprintf("Hoja de ruta %s: %s", h.NumeroHR, mensaje))
}

func (s *Service) notify(ctx context.Context, h *corehojaruta.HojaRuta, tipo, mensaje string) {
	if s.notifier == nil || h.CreadoPor == "" {
		return
	}
	if err := s.notifier.Notify(ctx, h.CreadoPor, h.ID, tipo, mensaje); err != nil {
		logger.FromContext(ctx, s.log).Warn("failed to create notificacion", "hoja_ruta_id", h.ID, "error", err)
	}
}

func normalizeUnidades(unidades []string) []string {
	out := make([]string, 0, len(unidades))
	for _, u := range unidades {
		u = strings.TrimSpace(u)
		if u != "" && !slices.Contains(out, u) {
			out = append(out, u)
		}
	}
	return out
}

func validateInput(unidades, destinos []string) error {
	var errs []string
	if len(unidades) == 0 {
		errs = append(errs, "Debe indicar al menos una unidad de destino")
	}
	for _, d := range destinos {
		if !slices.Contains(corehojaruta.InstruccionesEstandar, d) {
			errs = append(errs, fmt.Sprintf("Instrucción desconocida: %s", d))
		}
	}
	if len(errs) > 0 {
		return &apphojaruta.ValidationError{Errors: errs}
	}
	return nil
}
