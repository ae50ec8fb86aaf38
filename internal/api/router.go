package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/99minutos/product-catalog/internal/api/handler"
	"github.com/99minutos/product-catalog/internal/api/metrics"
	"github.com/99minutos/product-catalog/internal/api/middleware"
	"github.com/99minutos/product-catalog/internal/core/domain"
	"github.com/99minutos/product-catalog/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs. Checks may be nil.
type Deps struct {
	Auth     ports.AuthService
	Products ports.ProductService
	Verifier ports.TokenVerifier
	Checks   map[string]handler.CheckFunc
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(metrics.Middleware())
	e.Use(requestLogger(d.Log))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Product routes (bearer token required) ---
	products := handler.NewProductHandler(d.Products)
	requireUser := middleware.RequireRole(domain.RoleUser)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	g := e.Group("/product", middleware.Auth(d.Verifier))
	g.GET("/list", products.List, requireUser)
	g.POST("/add", products.Add, requireAdmin)
	g.PUT("/change", products.Change, requireAdmin)
	g.GET("/:code", products.Get, requireUser)
	g.DELETE("/:code", products.Remove, requireAdmin)
	g.PATCH("/:code/update", products.Update, requireAdmin)
	g.PUT("/:code/change/:price", products.ChangePrice, requireAdmin)

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Checks, d.Log)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// requestLogger writes one zerolog line per request. Errors are handed to the
// error handler first so the logged status is the one the client received.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		HandleError:  true,
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			switch {
			case v.Status >= 500:
				event = log.Error()
			case v.Status >= 400:
				event = log.Warn()
			}
			if username, ok := c.Get(middleware.KeyUsername).(string); ok {
				event = event.Str("username", username)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				AnErr("error", v.Error).
				Msg("request")
			return nil
		},
	})
}
