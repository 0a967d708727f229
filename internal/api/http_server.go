package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dogmeet/internal/config"
	"dogmeet/internal/domain"
	"dogmeet/internal/ratelimit"
	"dogmeet/internal/render"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPServer serves the appointment form endpoints and the static site.
type HTTPServer struct {
	cfg     *config.Config
	store   domain.AppointmentStore
	limiter ratelimit.Limiter
	server  *http.Server
	log     zerolog.Logger

	writeWorkbook func(w io.Writer, rows [][]string, sheetName string) error
}

// NewHTTPServer wires routes and middleware. limiter may be nil to
// disable rate limiting of submissions.
func NewHTTPServer(
	cfg *config.Config,
	store domain.AppointmentStore,
	limiter ratelimit.Limiter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:     cfg,
		store:   store,
		limiter: limiter,
		log:     zerolog.Nop(),

		writeWorkbook: render.WriteWorkbook,
	}
	if logger != nil {
		srv.log = logger.With().Str("component", "http").Logger()
	}

	mux := http.NewServeMux()
	mux.Handle("POST /submit", srv.rateLimitMiddleware(http.HandlerFunc(srv.handleSubmit)))
	mux.HandleFunc("GET /appointments", srv.handleAppointments)
	mux.HandleFunc("GET /appointments/export.xlsx", srv.handleExport)
	mux.HandleFunc("GET /healthz", srv.handleHealthz)
	mux.HandleFunc("GET /readyz", srv.handleReadyz)
	mux.Handle("/", http.FileServer(http.Dir(cfg.HTTP.StaticDir)))

	var handler http.Handler = mux
	handler = srv.metricsMiddleware(handler)
	handler = srv.loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = otelhttp.NewHandler(handler, cfg.App.Name)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return srv
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
