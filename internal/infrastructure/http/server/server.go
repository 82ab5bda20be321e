package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sedeges/ms_hojas_ruta/internal/infrastructure/config"
	httperrors "sedeges/ms_hojas_ruta/internal/infrastructure/http"
	"sedeges/ms_hojas_ruta/internal/infrastructure/http/middleware"
)

// APIPrefix is the path every authenticated endpoint lives under.
const APIPrefix = "/api/v1"

// Routes is implemented by handlers that register their own endpoints.
type Routes interface {
	Routes(r chi.Router)
}

// Options configures the HTTP server.
type Options struct {
	Config        config.AppConfig
	Logger        *slog.Logger
	HealthHandler http.Handler
	// API handlers are mounted under APIPrefix behind authentication.
	API []Routes
	// Admin handlers additionally require the configured admin role and get
	// the extended write timeout. A nil Admin answers 503.
	Admin Routes
}

// Server wraps the HTTP server and its authenticator.
type Server struct {
	cfg        config.AppConfig
	log        *slog.Logger
	httpServer *http.Server
	auth       *middleware.JWTAuthenticator
}

// New builds the router and the underlying http.Server.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.HealthHandler == nil {
		return nil, errors.New("health handler is required")
	}

	auth, err := middleware.NewJWTAuthenticator(opts.Config.Auth, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("create authenticator: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)

	r.Method(http.MethodGet, "/health", opts.HealthHandler)

	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(auth.Middleware)
		for _, h := range opts.API {
			h.Routes(api)
		}

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(opts.Config.Auth.AdminRole, opts.Logger))
			admin.Use(middleware.ExtendedTimeout(opts.Config.HTTP.WriteTimeoutAdmin))
			if opts.Admin != nil {
				opts.Admin.Routes(admin)
				return
			}
			admin.HandleFunc("/admin/*", unavailable(opts.Logger))
		})
	})

	return &Server{
		cfg:  opts.Config,
		log:  opts.Logger,
		auth: auth,
		httpServer: &http.Server{
			Addr:         opts.Config.HTTP.Address(),
			Handler:      r,
			ReadTimeout:  opts.Config.HTTP.ReadTimeout,
			WriteTimeout: opts.Config.HTTP.WriteTimeout,
			IdleTimeout:  opts.Config.HTTP.IdleTimeout,
		},
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	s.log.Info("shutting down http server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the authenticator's background JWKS refresh.
func (s *Server) Close() {
	s.auth.Close()
}

func unavailable(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, http.StatusServiceUnavailable, "Servicio No Disponible", []string{"El servicio no está configurado"}, log)
	}
}
