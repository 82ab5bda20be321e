package notificacion

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appnotificacion "sedeges/ms_hojas_ruta/internal/application/notificacion"
	corenotificacion "sedeges/ms_hojas_ruta/internal/core/notificacion"
	ctxutil "sedeges/ms_hojas_ruta/internal/infrastructure/context"
	httperrors "sedeges/ms_hojas_ruta/internal/infrastructure/http"
	"sedeges/ms_hojas_ruta/internal/infrastructure/logger"
)

// Handler bridges HTTP traffic with the notification application service.
// Every endpoint acts on the authenticated user's notifications.
type Handler struct {
	service *appnotificacion.Service
	log     *slog.Logger
}

// NewHandler creates a new notification HTTP handler.
func NewHandler(service *appnotificacion.Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Routes registers the notification endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/notificaciones", h.List)
	r.Get("/notificaciones/no-leidas", h.Unread)
	r.Put("/notificaciones/leidas", h.MarkAllRead)
	r.Put("/notificaciones/{id}/leida", h.MarkRead)
}

// List handles GET /notificaciones requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	usuario, ok := h.usuario(w, r)
	if !ok {
		return
	}

	resumen, err := h.service.List(r.Context(), usuario.ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resumen, h.log)
}

// Unread handles GET /notificaciones/no-leidas requests.
func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	usuario, ok := h.usuario(w, r)
	if !ok {
		return
	}

	count, err := h.service.Unread(r.Context(), usuario.ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, map[string]int{"no_leidas": count}, h.log)
}

// MarkRead handles PUT /notificaciones/{id}/leida requests.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	usuario, ok := h.usuario(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.MarkRead(r.Context(), id, usuario.ID); err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "leida": true}, h.log)
}

// MarkAllRead handles PUT /notificaciones/leidas requests.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	usuario, ok := h.usuario(w, r)
	if !ok {
		return
	}

	n, err := h.service.MarkAllRead(r.Context(), usuario.ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, map[string]int64{"actualizadas": n}, h.log)
}

func (h *Handler) usuario(w http.ResponseWriter, r *http.Request) (ctxutil.Usuario, bool) {
	usuario, ok := ctxutil.GetUsuario(r.Context())
	if !ok || usuario.ID == "" {
		httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"Usuario no identificado"}, h.log)
		return ctxutil.Usuario{}, false
	}
	return usuario, true
}

// handleError maps domain errors to appropriate HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, corenotificacion.ErrNotFound):
		httperrors.WriteError(w, http.StatusNotFound, "Recurso No Encontrado", []string{"La notificación no existe"}, h.log)
	default:
		logger.FromContext(r.Context(), h.log).Error("notificacion request failed", "path", r.URL.Path, "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{"Ha ocurrido un error interno"}, h.log)
	}
}
