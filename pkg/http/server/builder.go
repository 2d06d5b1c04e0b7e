package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	port          int
	appName       string
	logger        *zap.Logger
	errorHandler  fiber.ErrorHandler
	trustProxy    bool
	readTimeout   time.Duration
	writeTimeout  time.Duration
	enableLogging bool
	middleware    []fiber.Handler
}

func WithPort(port int) Option {
	return func(o *Options) {
		o.port = port
	}
}

func WithAppName(name string) Option {
	return func(o *Options) {
		o.appName = name
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func WithErrorHandler(h fiber.ErrorHandler) Option {
	return func(o *Options) {
		o.errorHandler = h
	}
}

// WithTrustProxy makes c.IP() read X-Forwarded-For.
func WithTrustProxy(enabled bool) Option {
	return func(o *Options) {
		o.trustProxy = enabled
	}
}

func WithTimeouts(read, write time.Duration) Option {
	return func(o *Options) {
		o.readTimeout = read
		o.writeTimeout = write
	}
}

func WithLogging(enabled bool) Option {
	return func(o *Options) {
		o.enableLogging = enabled
	}
}

// WithMiddleware appends handlers that run after request id, logging and recover.
func WithMiddleware(handlers ...fiber.Handler) Option {
	return func(o *Options) {
		o.middleware = append(o.middleware, handlers...)
	}
}

type Server struct {
	app    *fiber.App
	lis    net.Listener
	logger *zap.Logger
}

// New creates a new Fiber server using the builder options. Port 0 picks a free port.
func New(opts ...Option) (*Server, error) {
	options := &Options{
		port:         8080,
		appName:      "a11y-check",
		logger:       zap.NewNop(),
		readTimeout:  10 * time.Second,
		writeTimeout: 2 * time.Minute,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.port < 0 || options.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 0 and 65535", options.port)
	}

	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := fiber.Config{
		AppName:               options.appName,
		DisableStartupMessage: true,
		ReadTimeout:           options.readTimeout,
		WriteTimeout:          options.writeTimeout,
	}
	if options.errorHandler != nil {
		cfg.ErrorHandler = options.errorHandler
	}
	if options.trustProxy {
		cfg.ProxyHeader = fiber.HeaderXForwardedFor
	}

	app := fiber.New(cfg)

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	if options.enableLogging {
		app.Use(RequestLogger(logger))
	}
	app.Use(recover.New())
	for _, h := range options.middleware {
		app.Use(h)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", options.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", options.port, err)
	}

	return &Server{
		app:    app,
		lis:    lis,
		logger: logger.Named("http-server"),
	}, nil
}

// App exposes the Fiber app so handlers can register routes.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the server in a goroutine and returns immediately.
func (s *Server) Start() {
	s.logger.Info("HTTP server starting", zap.String("addr", s.lis.Addr().String()))

	go func() {
		if err := s.app.Listener(s.lis); err != nil {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
}

// Shutdown gracefully shuts down the server with a timeout context.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		s.logger.Warn("forced shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}
