package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	ctxutil "sedeges/ms_hojas_ruta/internal/infrastructure/context"
)

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

type requestTraceKey struct{}

// requestTrace collects facts resolved by inner middleware so the access
// log line can report them once the request is done.
type requestTrace struct {
	usuario ctxutil.Usuario
	auth    bool
}

// traceUsuario records the authenticated caller on the request's access log
// entry. It is a no-op outside RequestLogger.
func traceUsuario(ctx context.Context, u ctxutil.Usuario) {
	if tr, ok := ctx.Value(requestTraceKey{}).(*requestTrace); ok {
		tr.usuario = u
		tr.auth = true
	}
}

// RequestLogger writes one access log line per request. The chi request ID is
// stored as the correlation ID for downstream logs and history entries. The
// line carries the matched route pattern and, on authenticated routes, the
// caller's usuario and rol. 5xx responses log at Error and 4xx at Warn.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chimw.GetReqID(r.Context())
			tr := &requestTrace{}
			ctx := ctxutil.WithCorrelationID(r.Context(), requestID)
			ctx = context.WithValue(ctx, requestTraceKey{}, tr)

			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r.WithContext(ctx))

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"duration_ms", float64(time.Since(start).Microseconds()) / 1e3,
				"bytes", rw.bytes,
				"remote_addr", r.RemoteAddr,
			}
			if rctx := chi.RouteContext(ctx); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					attrs = append(attrs, "route", pattern)
				}
			}
			if requestID != "" {
				attrs = append(attrs, "correlation_id", requestID)
			}
			if tr.auth {
				attrs = append(attrs, "usuario", tr.usuario.ID, "rol", tr.usuario.Rol)
			}
			if ua := r.UserAgent(); ua != "" {
				attrs = append(attrs, "user_agent", ua)
			}

			level := slog.LevelInfo
			switch {
			case rw.status >= 500:
				level = slog.LevelError
			case rw.status >= 400:
				level = slog.LevelWarn
			}
			log.Log(ctx, level, "HTTP request", attrs...)
		})
	}
}
