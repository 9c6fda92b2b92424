package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/electroride/configurator/internal/api"
	"github.com/electroride/configurator/internal/catalog"
	"github.com/electroride/configurator/internal/config"
	"github.com/electroride/configurator/internal/observability"
	"github.com/electroride/configurator/internal/session"
	"github.com/electroride/configurator/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "configurator: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	configPath := filepath.Join(filepath.Dir(exePath), "ElectroRide.config")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Advanced.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := catalog.Verify(); err != nil {
		return fmt.Errorf("option catalog is inconsistent: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionMgr := session.NewManager(logger, cfg.Sessions.MaxSessions)
	go sessionMgr.Run(ctx, cfg.CleanupInterval(), cfg.SessionTimeout())

	e := newServer(cfg, logger, sessionMgr)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	logger.Info("configurator starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("config", configPath),
		zap.String("listen", "http://"+cfg.GetServerAddr()),
		zap.Bool("embedded_frontend", web.HasEmbeddedFiles()),
		zap.Bool("reject_unknown_options", cfg.Configurator.RejectUnknownOptions))

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.StartServer(s)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Int("sessions", sessionMgr.Count()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newServer wires middleware, API routes and the embedded front end.
func newServer(cfg *config.AppConfig, logger *zap.Logger, sessionMgr *session.Manager) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(observability.RequestLogger(logger, func(c echo.Context) bool {
		return !cfg.Advanced.EnableRequestLogging || api.IsQuietPath(c)
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))

	// Compression middleware
	if cfg.Configurator.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Configurator.CompressionLevel,
			Skipper: func(c echo.Context) bool {
				return c.IsWebSocket()
			},
		}))
	}

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.GetAllowOrigins(),
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Sessions:                sessionMgr,
		Logger:                  logger,
		Version:                 Version,
		RejectUnknownOptions:    cfg.Configurator.RejectUnknownOptions,
		WebSocketMaxMessageSize: int64(cfg.Advanced.WebSocketMaxMessageSize) * 1024,
	}))

	if web.HasEmbeddedFiles() {
		if err := web.RegisterStaticRoutes(e); err != nil {
			logger.Warn("failed to register static routes", zap.Error(err))
		}
	}

	return e
}
