package rest

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

const genericFailureMessage = "Something went wrong!"

// AppError is an error with an HTTP status. Operational errors are expected
// conditions whose message is safe to show outside development.
type AppError struct {
	StatusCode    int
	Status        string
	Message       string
	IsOperational bool
	err           error
}

// NewAppError returns an operational error carrying a stack trace.
func NewAppError(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode:    statusCode,
		Status:        "error",
		Message:       message,
		IsOperational: true,
		err:           pkgerrors.New(message),
	}
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.err }

// Format delegates %+v to the wrapped error so the stack is printed.
func (e *AppError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.err != nil {
		fmt.Fprintf(s, "%+v", e.err)
		return
	}
	fmt.Fprint(s, e.Message)
}

func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &AppError{
			StatusCode:    fiberErr.Code,
			Status:        "error",
			Message:       fiberErr.Message,
			IsOperational: true,
			err:           err,
		}
	}
	return &AppError{
		StatusCode: fiber.StatusInternalServerError,
		Status:     "error",
		Message:    err.Error(),
		err:        err,
	}
}

type errorDetail struct {
	StatusCode    int    `json:"statusCode"`
	Status        string `json:"status"`
	IsOperational bool   `json:"isOperational"`
}

type devErrorResponse struct {
	Status  string      `json:"status"`
	Error   errorDetail `json:"error"`
	Message string      `json:"message"`
	Stack   string      `json:"stack"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewErrorHandler renders errors that escape the handlers. Development
// responses include the error and its stack; otherwise only operational
// errors keep their message.
func NewErrorHandler(development bool, logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("error-handler")

	return func(c *fiber.Ctx, err error) error {
		appErr := toAppError(err)

		if development {
			return c.Status(appErr.StatusCode).JSON(devErrorResponse{
				Status: appErr.Status,
				Error: errorDetail{
					StatusCode:    appErr.StatusCode,
					Status:        appErr.Status,
					IsOperational: appErr.IsOperational,
				},
				Message: appErr.Message,
				Stack:   fmt.Sprintf("%+v", err),
			})
		}

		if appErr.IsOperational {
			return c.Status(appErr.StatusCode).JSON(statusResponse{
				Status:  appErr.Status,
				Message: appErr.Message,
			})
		}

		logger.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(statusResponse{
			Status:  "error",
			Message: genericFailureMessage,
		})
	}
}
