package health

import (
	"net/http"

	apphealth "sedeges/ms_hojas_ruta/internal/application/health"
	httperrors "sedeges/ms_hojas_ruta/internal/infrastructure/http"
)

// Handler bridges HTTP traffic with the health application service.
type Handler struct {
	service *apphealth.Service
}

func NewHandler(service *apphealth.Service) *Handler {
	return &Handler{service: service}
}

// Status answers 200 while every dependency is reachable and 503 otherwise.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	response := h.service.Status(r.Context())

	code := http.StatusOK
	if response.Status != "UP" {
		code = http.StatusServiceUnavailable
	}
	httperrors.WriteJSON(w, code, response, nil)
}
