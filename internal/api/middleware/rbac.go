package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/product-catalog/internal/core/domain"
)

// RequireRole admits the request when the verified claims hold at least one
// of accepted. It must run after Auth; without claims the request is treated
// as unauthenticated.
func RequireRole(accepted ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return reject(domain.ErrMissingToken)
			}
			if !claims.HasAnyRole(accepted...) {
				return reject(domain.ErrInsufficientRole)
			}
			return next(c)
		}
	}
}
