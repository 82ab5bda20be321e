package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appbackup "sedeges/ms_hojas_ruta/internal/application/backup"
	corebackup "sedeges/ms_hojas_ruta/internal/core/backup"
	httperrors "sedeges/ms_hojas_ruta/internal/infrastructure/http"
	"sedeges/ms_hojas_ruta/internal/infrastructure/logger"
)

// Handler exposes database backup and restore to administrators.
type Handler struct {
	service       *appbackup.Service
	maxUploadSize int64
	log           *slog.Logger
}

// NewHandler creates a new admin HTTP handler. maxUploadSize bounds restore
// uploads in bytes.
func NewHandler(service *appbackup.Service, maxUploadSize int64, log *slog.Logger) *Handler {
	return &Handler{service: service, maxUploadSize: maxUploadSize, log: log}
}

// Routes registers the admin endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/admin/backup", h.Backup)
	r.Post("/admin/restore", h.Restore)
}

// Backup handles POST /admin/backup requests. With archive storage the dump
// is uploaded and a temporary link returned; otherwise the dump is streamed
// back as an attachment.
func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	if h.service.StorageEnabled() {
		archivo, err := h.service.Backup(r.Context())
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		httperrors.WriteJSON(w, http.StatusCreated, archivo, h.log)
		return
	}

	w.Header().Set("Content-Type", "application/sql")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.service.FileName()+`"`)
	w.WriteHeader(http.StatusOK)
	if err := h.service.Stream(r.Context(), w); err != nil {
		// Headers are gone; the truncated body is the only signal left.
		logger.FromContext(r.Context(), h.log).Error("backup stream failed", "error", err)
	}
}

// Restore handles POST /admin/restore requests carrying the dump in the
// multipart field "archivo".
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.WriteError(w, http.StatusRequestEntityTooLarge, "Error de Validación", []string{"El archivo excede el tamaño máximo permitido"}, h.log)
			return
		}
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Se esperaba un formulario multipart"}, h.log)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("archivo")
	if err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El campo archivo es requerido"}, h.log)
		return
	}
	defer file.Close()

	if err := h.service.Restore(r.Context(), file); err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, map[string]bool{"restaurado": true}, h.log)
}

// handleError maps backup errors to appropriate HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, corebackup.ErrInvalidDump):
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El archivo no es un respaldo válido"}, h.log)
	case errors.Is(err, appbackup.ErrStorageDisabled):
		httperrors.WriteError(w, http.StatusServiceUnavailable, "Servicio No Disponible", []string{"El almacenamiento de respaldos no está configurado"}, h.log)
	default:
		logger.FromContext(r.Context(), h.log).Error("admin request failed", "path", r.URL.Path, "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{"Ha ocurrido un error interno"}, h.log)
	}
}
