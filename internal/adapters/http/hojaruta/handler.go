package hojaruta

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apphojaruta "sedeges/ms_hojas_ruta/internal/application/hojaruta"
	corehojaruta "sedeges/ms_hojas_ruta/internal/core/hojaruta"
	httperrors "sedeges/ms_hojas_ruta/internal/infrastructure/http"
	"sedeges/ms_hojas_ruta/internal/infrastructure/logger"
)

// Handler bridges HTTP traffic with the routing-slip application service.
type Handler struct {
	service *apphojaruta.Service
	log     *slog.Logger
}

// NewHandler creates a new routing-slip HTTP handler.
func NewHandler(service *apphojaruta.Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Routes registers the routing-slip endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/hojas-ruta", h.List)
	r.Post("/hojas-ruta", h.Create)
	r.Get("/hojas-ruta/{id}", h.Get)
	r.Put("/hojas-ruta/{id}/estado", h.UpdateEstado)
	r.Get("/hojas-ruta/{id}/secciones", h.ListSecciones)
	r.Post("/hojas-ruta/{id}/secciones", h.AppendSeccion)
	r.Put("/hojas-ruta/{id}/secciones/{numero}", h.UpdateSeccion)
	r.Get("/hojas-ruta/{id}/vista-previa", h.Preview)
	r.Get("/hojas-ruta/{id}/historial", h.Historial)
	r.Get("/dashboard", h.Dashboard)
}

type listResponse struct {
	HojasRuta []corehojaruta.HojaRuta `json:"hojas_ruta"`
	Total     int                     `json:"total"`
}

type estadoRequest struct {
	Estado string `json:"estado"`
}

type seccionResponse struct {
	Numero int `json:"numero"`
	corehojaruta.Seccion
}

// List handles GET /hojas-ruta?estado=&q= requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	buscar := query.Get("q")
	if buscar == "" {
		buscar = query.Get("buscar")
	}

	hojas, err := h.service.List(r.Context(), query.Get("estado"), buscar)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, listResponse{HojasRuta: hojas, Total: len(hojas)}, h.log)
}

// Create handles POST /hojas-ruta requests. The body is a raw record; keys
// without a typed column are kept as extras.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var registro corehojaruta.Registro
	if !h.decode(w, r, &registro) {
		return
	}

	hoja, err := h.service.Create(r.Context(), registro)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusCreated, hoja, h.log)
}

// Get handles GET /hojas-ruta/{id} requests.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	hoja, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, hoja, h.log)
}

// UpdateEstado handles PUT /hojas-ruta/{id}/estado requests.
func (h *Handler) UpdateEstado(w http.ResponseWriter, r *http.Request) {
	var req estadoRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Estado == "" {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El campo estado es requerido"}, h.log)
		return
	}

	hoja, err := h.service.Transition(r.Context(), chi.URLParam(r, "id"), req.Estado)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, hoja, h.log)
}

// ListSecciones handles GET /hojas-ruta/{id}/secciones requests.
func (h *Handler) ListSecciones(w http.ResponseWriter, r *http.Request) {
	secciones, err := h.service.Secciones(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]seccionResponse, len(secciones))
	for idx, s := range secciones {
		out[idx] = seccionResponse{Numero: corehojaruta.Numero(idx), Seccion: s}
	}
	httperrors.WriteJSON(w, http.StatusOK, out, h.log)
}

// AppendSeccion handles POST /hojas-ruta/{id}/secciones requests.
func (h *Handler) AppendSeccion(w http.ResponseWriter, r *http.Request) {
	var sec corehojaruta.Seccion
	if !h.decode(w, r, &sec) {
		return
	}
	sec.ID = ""

	created, numero, err := h.service.AppendSeccion(r.Context(), chi.URLParam(r, "id"), sec)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusCreated, seccionResponse{Numero: numero, Seccion: created}, h.log)
}

// UpdateSeccion handles PUT /hojas-ruta/{id}/secciones/{numero} requests.
func (h *Handler) UpdateSeccion(w http.ResponseWriter, r *http.Request) {
	numero, err := strconv.Atoi(chi.URLParam(r, "numero"))
	if err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El número de sección debe ser un entero"}, h.log)
		return
	}

	var sec corehojaruta.Seccion
	if !h.decode(w, r, &sec) {
		return
	}

	updated, numero, err := h.service.UpdateSeccion(r.Context(), chi.URLParam(r, "id"), numero, sec)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, seccionResponse{Numero: numero, Seccion: updated}, h.log)
}

// Preview handles GET /hojas-ruta/{id}/vista-previa requests.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	vista, err := h.service.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, vista, h.log)
}

// Historial handles GET /hojas-ruta/{id}/historial requests.
func (h *Handler) Historial(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Historial(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, map[string]any{"historial": entries}, h.log)
}

// Dashboard handles GET /dashboard requests.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	tablero, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, tablero, h.log)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
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
	case errors.Is(err, apphojaruta.ErrSeccionNotFound):
		httperrors.WriteError(w, http.StatusNotFound, "Recurso No Encontrado", []string{"La sección no existe"}, h.log)
	case errors.Is(err, apphojaruta.ErrInvalidTransition):
		httperrors.WriteError(w, http.StatusConflict, "Transición No Permitida", []string{err.Error()}, h.log)
	default:
		logger.FromContext(r.Context(), h.log).Error("hoja de ruta request failed", "path", r.URL.Path, "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{"Ha ocurrido un error interno"}, h.log)
	}
}
