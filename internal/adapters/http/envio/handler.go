package envio

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appenvio "sedeges/ms_hojas_ruta/internal/application/envio"
	apphojaruta "sedeges/ms_hojas_ruta/internal/application/hojaruta"
	coreenvio "sedeges/ms_hojas_ruta/internal/core/envio"
	corehojaruta "sedeges/ms_hojas_ruta/internal/core/hojaruta"
	httperrors "sedeges/ms_hojas_ruta/internal/infrastructure/http"
	"sedeges/ms_hojas_ruta/internal/infrastructure/logger"
)

// Handler bridges HTTP traffic with the envio application service.
type Handler struct {
	service *appenvio.Service
	log     *slog.Logger
}

// NewHandler creates a new envio HTTP handler.
func NewHandler(service *appenvio.Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Routes registers the envio endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/hojas-ruta/{id}/envios", h.List)
	r.Post("/hojas-ruta/{id}/envios", h.Send)
	r.Post("/hojas-ruta/{id}/redirigir", h.Redirect)
	r.Put("/envios/{id}/recibir", h.Receive)
	r.Put("/envios/{id}/responder", h.Respond)
}

// EnvioResponse summarizes a multi-unit send.
type EnvioResponse struct {
	Enviados int               `json:"enviados"`
	Fallidos int               `json:"fallidos"`
	Errores  []string          `json:"errores"`
	Envios   []coreenvio.Envio `json:"envios"`
}

// List handles GET /hojas-ruta/{id}/envios requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	envios, err := h.service.ListByHoja(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, map[string]any{"envios": envios}, h.log)
}

// Send handles POST /hojas-ruta/{id}/envios requests.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var in appenvio.EnvioInput
	if !h.decode(w, r, &in) {
		return
	}

	res, err := h.service.Send(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeResultado(w, res)
}

// Redirect handles POST /hojas-ruta/{id}/redirigir requests.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	var in appenvio.EnvioInput
	if !h.decode(w, r, &in) {
		return
	}

	res, err := h.service.Redirect(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeResultado(w, res)
}

// Receive handles PUT /envios/{id}/recibir requests.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Receive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, e, h.log)
}

// Respond handles PUT /envios/{id}/responder requests.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	var in appenvio.RespuestaInput
	if !h.decode(w, r, &in) {
		return
	}

	e, err := h.service.Respond(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, e, h.log)
}

// writeResultado answers 201 when every unit was reached, 207 when only some
// were, and 502 when none was.
func (h *Handler) writeResultado(w http.ResponseWriter, res appenvio.Resultado) {
	resp := EnvioResponse{
		Enviados: len(res.Enviados),
		Fallidos: len(res.Fallidos),
		Errores:  res.Errores(),
		Envios:   res.Enviados,
	}

	switch res.Estado() {
	case appenvio.Completo:
		httperrors.WriteJSON(w, http.StatusCreated, resp, h.log)
	case appenvio.Parcial:
		httperrors.WriteJSON(w, http.StatusMultiStatus, resp, h.log)
	default:
		httperrors.WriteError(w, http.StatusBadGateway, "Error de Envío", resp.Errores, h.log)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El cuerpo de la solicitud no es un JSON válido"}, h.log)
		return false
	}
	return true
}

// handleError maps domain errors to appropriate HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apphojaruta.ValidationError
	switch {
	case errors.As(err, &verr):
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", verr.Errors, h.log)
	case errors.Is(err, corehojaruta.ErrNotFound):
		httperrors.WriteError(w, http.StatusNotFound, "Recurso No Encontrado", []string{"La hoja de ruta no existe"}, h.log)
	case errors.Is(err, coreenvio.ErrNotFound):
		httperrors.WriteError(w, http.StatusNotFound, "Recurso No Encontrado", []string{"El envío no existe"}, h.log)
	case errors.Is(err, apphojaruta.ErrInvalidTransition):
		httperrors.WriteError(w, http.StatusConflict, "Transición No Permitida", []string{err.Error()}, h.log)
	default:
		logger.FromContext(r.Context(), h.log).Error("envio request failed", "path", r.URL.Path, "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{"Ha ocurrido un error interno"}, h.log)
	}
}
