package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger creates a Fiber middleware for request/response logging.
// Errors are rendered through the app's error handler first so the logged
// status is the one the client receives.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			if chainErr != nil {
				fields = append(fields, zap.Error(chainErr))
			}
			logger.Error("HTTP request failed", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("HTTP request rejected", fields...)
		default:
			logger.Info("HTTP request completed", fields...)
		}

		return nil
	}
}
