package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/product-catalog/internal/api/respond"
	"github.com/99minutos/product-catalog/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes and renders them in the response envelope. Errors
// it does not recognise are logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)

		var renderErr error
		if c.Request().Method == http.MethodHead {
			renderErr = c.NoContent(code)
		} else {
			renderErr = respond.Fail(c, code, msg)
		}
		if renderErr != nil {
			log.Error().Err(renderErr).Msg("failed to write error response")
		}
	}
}

// StatusFor returns the HTTP status for a domain error, or 0 when err is not
// one.
func StatusFor(err error) int {
	switch {
	case domain.IsValidation(err),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrMissingToken),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateCode),
		errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	}
	return 0
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Router 404/405, bind failures and middleware errors.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", he.Code).Msg("request rejected")
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	if code := StatusFor(err); code != 0 {
		return code, err.Error()
	}

	event := log.Error()
	code, msg := http.StatusInternalServerError, "internal server error"
	if errors.Is(err, context.DeadlineExceeded) {
		event = log.Warn()
		code, msg = http.StatusServiceUnavailable, "service temporarily unavailable"
	}
	event.
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return code, msg
}
