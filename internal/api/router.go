package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/storefront/backoffice/docs"
	"github.com/storefront/backoffice/internal/api/handler"
	"github.com/storefront/backoffice/internal/api/middleware"
	"github.com/storefront/backoffice/internal/core/guard"
	"github.com/storefront/backoffice/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth     ports.AuthService
	Identity ports.IdentityService
	Guard    *guard.Guard
	Log      zerolog.Logger

	// Health maps dependency names to readiness probes.
	Health     map[string]handler.HealthCheck
	// Registerer receives the HTTP request metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "backoffice_http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	// Every route passes through the guard; public ones are declared in the table.
	e.Use(middleware.Authenticate(d.Auth))
	e.Use(middleware.Guard(d.Guard))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	credentialsHandler := handler.NewCredentialsHandler(d.Identity)
	userHandler := handler.NewUserHandler(d.Identity)
	routesHandler := handler.NewRoutesHandler(d.Guard)
	healthHandler := handler.NewHealthHandler(d.Health)

	// --- Auth routes ---
	e.POST("/staff/login", authHandler.StaffLogin)
	e.POST("/admin/login", authHandler.AdminLogin)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)
	e.GET("/auth/routes", routesHandler.List)

	// --- Credential issuance ---
	e.POST("/admin/credentials", credentialsHandler.CreateAdmin)
	e.POST("/staff/credentials", credentialsHandler.CreateStaff)

	// --- User directory ---
	e.GET("/users", userHandler.List)
	e.GET("/users/:id", userHandler.Get)
	e.DELETE("/users/:id", userHandler.Delete)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
