package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godilite/a11y-check/internal/config"
	"github.com/godilite/a11y-check/internal/rest"
	"github.com/godilite/a11y-check/internal/service"
	grpcsrv "github.com/godilite/a11y-check/pkg/grpc/server"
	httpsrv "github.com/godilite/a11y-check/pkg/http/server"
	"github.com/godilite/a11y-check/pkg/pagespeed"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	appName           = "a11y-check"
	healthServiceName = "accessibility-check"
	shutdownTimeout   = 10 * time.Second
)

type App struct {
	logger     *zap.Logger
	httpServer *httpsrv.Server
	grpcServer *grpcsrv.Server
}

func NewApp(ctx context.Context, cfg *config.Config, rules config.SecurityRules, logger *zap.Logger) (*App, error) {
	client, err := pagespeed.New(
		pagespeed.WithBaseURL(cfg.PageSpeedURL),
		pagespeed.WithAPIKey(cfg.PageSpeedAPIKey),
		pagespeed.WithTimeout(cfg.HTTPTimeout),
		pagespeed.WithLogger(logger),
		pagespeed.WithURLLogging(cfg.LogURLs),
	)
	if err != nil {
		return nil, fmt.Errorf("pagespeed client init failed: %w", err)
	}
	logger.Info("PageSpeed client initialized",
		zap.Duration("timeout", cfg.HTTPTimeout),
		zap.Bool("api_key_set", cfg.PageSpeedAPIKey != ""))

	accessibilityService := service.NewAccessibilityService(client, logger)

	handlers := rest.NewHandlers(accessibilityService, logger)

	httpServer, err := httpsrv.New(
		httpsrv.WithPort(cfg.HTTPPort),
		httpsrv.WithAppName(appName),
		httpsrv.WithTimeouts(cfg.HTTPReadTimeout, cfg.HTTPWriteTimeout),
		httpsrv.WithLogger(logger),
		httpsrv.WithLogging(true),
		httpsrv.WithTrustProxy(cfg.TrustProxy),
		httpsrv.WithErrorHandler(rest.NewErrorHandler(cfg.IsDevelopment(), logger)),
		httpsrv.WithMiddleware(rest.CORS(cfg.CORSAllowedOrigins, cfg.CORSDomainSuffix)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	var guards []fiber.Handler
	if !cfg.IsDevelopment() {
		guards = append(guards, rest.UserAgentFilter(rules.BotUserAgents))
	}
	if len(rules.AllowedIPs) > 0 {
		guards = append(guards, rest.IPFilter(rules.AllowedIPs))
	}

	router := httpServer.App()
	handlers.Register(router.Group(cfg.BasePath), cfg.Variant == config.VariantDiagnostics, guards...)

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		router.Static("/", cfg.StaticDir)
		logger.Info("Serving static files", zap.String("dir", cfg.StaticDir))
	}

	logger.Info("Routes registered",
		zap.String("base_path", cfg.BasePath),
		zap.String("variant", cfg.Variant),
		zap.Int("guards", len(guards)))

	var grpcServer *grpcsrv.Server
	if cfg.GRPCHealthPort > 0 {
		grpcServer, err = grpcsrv.New(
			grpcsrv.WithPort(cfg.GRPCHealthPort),
			grpcsrv.WithLogger(logger),
			grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
			grpcsrv.WithHealthServices(healthServiceName),
		)
		if err != nil {
			_ = httpServer.Shutdown(ctx)
			return nil, fmt.Errorf("failed to create gRPC health server: %w", err)
		}
	}

	return &App{
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
	}, nil
}

// Start launches both servers and marks the check service healthy.
func (a *App) Start() {
	a.logger.Info("application starting")

	a.httpServer.Start()
	if a.grpcServer != nil {
		a.grpcServer.Start()
		a.grpcServer.MarkServing()
	}
}

// HTTPAddr is the address the HTTP server listens on.
func (a *App) HTTPAddr() net.Addr {
	return a.httpServer.Addr()
}

// HealthAddr is the gRPC health address, or nil when the side port is disabled.
func (a *App) HealthAddr() net.Addr {
	if a.grpcServer == nil {
		return nil
	}
	return a.grpcServer.Addr()
}

// Shutdown reports NOT_SERVING first so probes drain traffic, then stops both servers.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("application shutting down")

	if a.grpcServer != nil {
		a.grpcServer.MarkNotServing()
	}

	var errs []error
	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if a.grpcServer != nil {
		if err := a.grpcServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("grpc shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.Shutdown(ctx)
	if err != nil {
		a.logger.Error("shutdown error", zap.Error(err))
	}

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			a.logger.Warn("shutdown completed but deadline exceeded")
		}
	default:
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return err
}
