package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dogmeet/internal/api"
	"dogmeet/internal/config"
	"dogmeet/internal/google"
	"dogmeet/internal/logging"
	"dogmeet/internal/metrics"
	"dogmeet/internal/ratelimit"
	"dogmeet/internal/tracing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, cfg.App.Name)
	if err != nil {
		logger.Error().Err(err).Msg("init tracing")
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	store, err := initSheets(ctx, cfg, &logger)
	if err != nil {
		return err
	}

	limiter, closeLimiter := initRateLimiter(ctx, cfg, &logger)
	defer closeLimiter()

	httpServer := api.NewHTTPServer(cfg, store, limiter, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.Component(baseLogger, "main")

	return cfg, logger, closer, nil
}

func initSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*google.SheetsStore, error) {
	store, err := google.NewSheetsStore(ctx, cfg.Google)
	if err != nil {
		logger.Error().Err(err).Str("credentials_file", cfg.Google.CredentialsFile).Msg("google sheets init failed")
		return nil, err
	}

	email, err := google.ServiceAccountEmail(cfg.Google.CredentialsFile)
	if err != nil {
		logger.Warn().Err(err).Msg("read service account email")
	}
	logger.Info().
		Str("spreadsheet_id", cfg.Google.SpreadsheetID).
		Str("sheet", cfg.Google.SheetName).
		Str("service_account", email).
		Msg("google sheets configured")
	return store, nil
}

// initRateLimiter returns nil when submissions are not rate limited.
func initRateLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (ratelimit.Limiter, func()) {
	noop := func() {}
	if !cfg.RateLimit.Enabled {
		return nil, noop
	}

	memory := ratelimit.NewMemory(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	if cfg.Redis.Address == "" {
		logger.Info().Float64("rps", cfg.RateLimit.RPS).Int("burst", cfg.RateLimit.Burst).Msg("in-memory rate limiting enabled")
		return memory, noop
	}

	client := ratelimit.NewRedisClient(cfg.Redis)
	if err := ratelimit.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory rate limiting")
		_ = client.Close()
		return memory, noop
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	redisLimiter := ratelimit.NewRedis(client, cfg.RateLimit.Limit, window)
	return ratelimit.NewFailover(redisLimiter, memory, logger), func() { _ = client.Close() }
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	metrics.Register()
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Str("addr", httpServer.Addr()).Msg("server started")

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	logger.Info().Int("port", port).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
