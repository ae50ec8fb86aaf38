package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/product-catalog/internal/api/metrics"
	"github.com/99minutos/product-catalog/internal/core/domain"
	"github.com/99minutos/product-catalog/internal/core/ports"
)

// Context keys set by Auth.
const (
	KeyClaims   = "claims"
	KeyUsername = "username"
)

// Auth verifies the bearer token and stores the claims in the context. It
// returns domain errors so the central error handler renders the envelope.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return reject(domain.ErrMissingToken)
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				if errors.Is(err, domain.ErrExpiredToken) {
					return reject(domain.ErrExpiredToken)
				}
				return reject(domain.ErrInvalidToken)
			}

			c.Set(KeyClaims, claims)
			c.Set(KeyUsername, claims.Subject)

			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Auth, if any.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(KeyClaims).(*domain.Claims)
	return claims, ok && claims != nil
}

// bearerToken extracts the token from "Bearer <token>". Any other scheme
// counts as no token at all.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(err error) error {
	metrics.AccessRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
	return err
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, domain.ErrInsufficientRole):
		return "insufficient_role"
	default:
		return "invalid_token"
	}
}
