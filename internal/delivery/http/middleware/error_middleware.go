package middleware

import (
	"log/slog"
	"net/http"

	"accountsvc/internal/delivery/http/response"
	domainerrors "accountsvc/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Business failures carry their own status, message, and cause.
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="account-service"`)
		}

		if appErr.Cause() != "" {
			_ = response.JSON(c, appErr.HTTPCode(), response.FailureResponse{
				Message: appErr.Message(),
				Cause:   appErr.Cause(),
			})

			return
		}

		_ = response.JSON(c, appErr.HTTPCode(), response.MessageResponse{Message: appErr.Message()})

		return
	}

	// Echo's own errors (method not allowed, body limit, route misses).
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if s, ok := httpErr.Message.(string); ok {
			message = s
		}
		_ = response.JSON(c, httpErr.Code, response.MessageResponse{Message: message})

		return
	}

	// Everything else is fatal to the request.
	m.logger.Error("Unhandled error",
		"error", err.Error(),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
	)

	_ = response.JSON(c, http.StatusInternalServerError, response.MessageResponse{
		Message: http.StatusText(http.StatusInternalServerError),
	})
}
