package notificacion

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	appnotificacion "sedeges/ms_hojas_ruta/internal/application/notificacion"
	corenotificacion "sedeges/ms_hojas_ruta/internal/core/notificacion"
	ctxutil "sedeges/ms_hojas_ruta/internal/infrastructure/context"
	"sedeges/ms_hojas_ruta/internal/testutil"
)

func newTestRouter(items ...corenotificacion.Notificacion) http.Handler {
	log := testutil.NewNullLogger()
	service := appnotificacion.NewService(testutil.NewMemoryNotificacionRepository(items...), log)

	r := chi.NewRouter()
	NewHandler(service, log).Routes(r)
	return r
}

func asUser(req *http.Request, id string) *http.Request {
	return req.WithContext(ctxutil.WithUsuario(req.Context(), ctxutil.Usuario{ID: id}))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_RequiresUser(t *testing.T) {
	router := newTestRouter()

	w := serve(router, httptest.NewRequest(http.MethodGet, "/notificaciones", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 without user, got %d", w.Code)
	}
}

func TestHandler_ListAndMarkRead(t *testing.T) {
	now := time.Now().UTC()
	router := newTestRouter(
		corenotificacion.Notificacion{ID: "n-1", UsuarioID: "u-1", Mensaje: "uno", CreatedAt: now.Add(-time.Hour)},
		corenotificacion.Notificacion{ID: "n-2", UsuarioID: "u-1", Mensaje: "dos", CreatedAt: now},
		corenotificacion.Notificacion{ID: "n-3", UsuarioID: "u-2", Mensaje: "ajena", CreatedAt: now},
	)

	var resumen appnotificacion.Resumen
	w := serve(router, asUser(httptest.NewRequest(http.MethodGet, "/notificaciones", nil), "u-1"))
	testutil.ReadJSONResponse(t, w, http.StatusOK, &resumen)
	if len(resumen.Notificaciones) != 2 || resumen.NoLeidas != 2 {
		t.Fatalf("expected 2 unread notifications, got %+v", resumen)
	}

	w = serve(router, asUser(httptest.NewRequest(http.MethodPut, "/notificaciones/n-3/leida", nil), "u-1"))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for another user's notification, got %d", w.Code)
	}

	w = serve(router, asUser(httptest.NewRequest(http.MethodPut, "/notificaciones/n-1/leida", nil), "u-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var count map[string]int
	w = serve(router, asUser(httptest.NewRequest(http.MethodGet, "/notificaciones/no-leidas", nil), "u-1"))
	testutil.ReadJSONResponse(t, w, http.StatusOK, &count)
	if count["no_leidas"] != 1 {
		t.Errorf("expected 1 unread, got %v", count)
	}

	var changed map[string]int64
	w = serve(router, asUser(httptest.NewRequest(http.MethodPut, "/notificaciones/leidas", nil), "u-1"))
	testutil.ReadJSONResponse(t, w, http.StatusOK, &changed)
	if changed["actualizadas"] != 1 {
		t.Errorf("expected 1 updated, got %v", changed)
	}
}
