package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/okian/roundup/internal/adapters/http/api"
	"github.com/okian/roundup/internal/adapters/store"
	service "github.com/okian/roundup/internal/app"
	"github.com/okian/roundup/internal/config"
	"github.com/okian/roundup/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(ctx, "failed to load config", logger.Error(err))
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Build the record store. A missing or broken backend is survivable:
	// reads fall back to the static dataset and persistence is skipped.
	recordStore := buildStore(ctx, cfg, log)

	svc := service.New(
		service.WithStore(recordStore),
		service.WithTenant(cfg.TenantID),
		service.WithDataDir(cfg.DataDir),
		service.WithLogger(log),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.Info(c.Request().Context(), "request",
					logger.String("method", c.Request().Method),
					logger.String("uri", v.URI),
					logger.Int("status", v.Status))
			} else {
				log.Error(c.Request().Context(), "request error",
					logger.String("method", c.Request().Method),
					logger.String("uri", v.URI),
					logger.Int("status", v.Status),
					logger.Error(v.Error))
			}
			return nil
		},
	}))

	api.NewServer(svc).Register(e)

	go func() {
		log.Info(ctx, "server listening", logger.String("addr", cfg.Addr))
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(ctx, "server start failed", logger.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown error", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildStore wires the Firestore adapter when a project is configured, and an
// explicit unconfigured store otherwise. Construction failures degrade the
// same way: the service keeps answering from the static dataset.
func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) store.Store {
	if cfg.ProjectID == "" {
		log.Warn(ctx, "no record store configured; serving from static dataset only")
		return store.Unconfigured{}
	}

	fs, err := store.NewFirestore(ctx,
		store.WithProjectID(cfg.ProjectID),
		store.WithCredentialsFile(cfg.CredentialsFile),
		store.WithCredentialsBase64(cfg.CredentialsBase64),
	)
	if err != nil {
		log.Warn(ctx, "record store unavailable; serving from static dataset only",
			logger.Error(err))
		return store.Unconfigured{}
	}

	log.Info(ctx, "record store connected",
		logger.String("project_id", cfg.ProjectID),
		logger.String("tenant", cfg.TenantID))
	return fs
}
