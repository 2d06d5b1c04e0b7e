package rest

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/godilite/a11y-check/internal/service"
	"github.com/godilite/a11y-check/pkg/pagespeed"
	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	welcomeMessage      = "Welcome to Arc Accessilibty API"
	fetchFailedMessage  = "Failed to fetch PageSpeed Insights."
	accessibilityPrefix = "/accessibility-check"
)

type messageResponse struct {
	Message string `json:"message"`
}

type failureResponse struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type checkResponse[T any] struct {
	URL    string                   `json:"url"`
	Result service.DeviceResults[T] `json:"result"`
}

type Handlers struct {
	svc    AccessibilityService
	logger *zap.Logger
}

// NewHandlers initializes the HTTP handlers.
func NewHandlers(svc AccessibilityService, logger *zap.Logger) *Handlers {
	if svc == nil {
		panic("nil AccessibilityService provided to NewHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		svc:    svc,
		logger: logger.Named("http-handler"),
	}
}

// Register mounts the welcome route and the accessibility routes. With
// diagnostics set only the flat audit list is served, unversioned.
// guards run before every accessibility route.
func (h *Handlers) Register(router fiber.Router, diagnostics bool, guards ...fiber.Handler) {
	router.Get("/", h.Welcome)

	check := router.Group(accessibilityPrefix, guards...)
	if diagnostics {
		check.Get("/", h.GetDiagnostics)
		return
	}
	check.Get("/", h.GetRaw)
	check.Get("/v1", h.GetGrouped)
	check.Get("/v2", h.GetSeverity)
}

func (h *Handlers) Welcome(c *fiber.Ctx) error {
	return c.SendString(welcomeMessage)
}

func (h *Handlers) parseRequest(c *fiber.Ctx) (service.CheckRequest, error) {
	args := c.Context().QueryArgs()
	return service.NewCheckRequest(
		c.Query("url"),
		c.Query("device"),
		args.Has("device"),
		c.Query("detailed") == "true",
	)
}

// GetRaw passes the upstream reports through per device.
func (h *Handlers) GetRaw(c *fiber.Ctx) error {
	return serve(h, c, "GetRaw", h.svc.Raw)
}

// GetGrouped returns audits grouped into passed, failed and not applicable.
func (h *Handlers) GetGrouped(c *fiber.Ctx) error {
	return serve(h, c, "GetGrouped", h.svc.Grouped)
}

// GetSeverity returns failed audits by severity.
func (h *Handlers) GetSeverity(c *fiber.Ctx) error {
	return serve(h, c, "GetSeverity", h.svc.Severity)
}

// GetDiagnostics returns the flat list of accessibility audits.
func (h *Handlers) GetDiagnostics(c *fiber.Ctx) error {
	return serve(h, c, "GetDiagnostics", h.svc.Diagnostics)
}

func serve[T any](h *Handlers, c *fiber.Ctx, op string, fn func(context.Context, service.CheckRequest) (service.DeviceResults[T], error)) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return h.handleError(c, op, err)
	}

	result, err := fn(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, op, err)
	}

	return c.Status(fiber.StatusOK).JSON(checkResponse[T]{
		URL:    req.URL,
		Result: result,
	})
}

func (h *Handlers) handleError(c *fiber.Ctx, op string, err error) error {
	var validationErr *service.ValidationError
	var upstreamErr *pagespeed.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		h.logger.Debug("invalid request", zap.String("op", op), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(messageResponse{Message: validationErr.Message})

	case errors.As(err, &upstreamErr):
		h.logger.Error("PageSpeed Insights error",
			zap.String("op", op),
			zap.String("strategy", string(upstreamErr.Strategy)),
			zap.Int("upstream_status", upstreamErr.StatusCode),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(failureResponse{
			Message: fetchFailedMessage,
			Error:   upstreamErr.Body,
		})

	case errors.Is(err, service.ErrMalformedReport),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		h.logger.Error("PageSpeed Insights error", zap.String("op", op), zap.Error(err))
		msg, _ := json.Marshal(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(failureResponse{
			Message: fetchFailedMessage,
			Error:   msg,
		})

	default:
		return pkgerrors.WithStack(err)
	}
}
