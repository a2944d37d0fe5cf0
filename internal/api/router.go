package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/buildtrack/procurement-api/docs"
	"github.com/buildtrack/procurement-api/internal/api/handler"
	"github.com/buildtrack/procurement-api/internal/api/middleware"
	"github.com/buildtrack/procurement-api/internal/core/domain"
	"github.com/buildtrack/procurement-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Log        zerolog.Logger
	Production bool
	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string

	Auth     ports.AuthService
	Users    ports.UserService
	Projects ports.ProjectService
	Rotator  ports.SecretRotator

	Verifier   ports.TokenVerifier
	Identities ports.IdentityLookup
	Ownership  ports.OwnershipChecker

	// Health names the dependencies checked by the readiness probe.
	Health map[string]handler.Pinger
	// Registry receives the HTTP metrics; nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Production)

	// --- Global middleware ---
	promCfg := echoprometheus.MiddlewareConfig{
		Namespace:                 "procurement",
		Subsystem:                 "http",
		DoNotUseRequestPathFor404: true,
	}
	metricsHandler := echoprometheus.NewHandler()
	if d.Registry != nil {
		promCfg.Registerer = d.Registry
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))
	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		LogErrorFunc: recoverLogError,
	}))
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(securityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Dependencies ---
	authn := middleware.Authenticate(d.Verifier, d.Identities)
	authHandler := handler.NewAuthHandler(d.Auth, d.Rotator)
	userHandler := handler.NewUserHandler(d.Users)
	projectHandler := handler.NewProjectHandler(d.Projects)
	reportHandler := handler.NewReportHandler()
	healthHandler := handler.NewHealthHandler(d.Health)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authn)
	auth.PUT("/profile", authHandler.UpdateProfile, authn)
	auth.PUT("/change-password", authHandler.ChangePassword, authn)
	auth.POST("/refresh", authHandler.Refresh, authn)
	auth.POST("/logout", authHandler.Logout, authn)
	auth.POST("/rotate-secret", authHandler.RotateSecret, authn, middleware.RequireAdmin())

	// --- Identity administration ---
	users := api.Group("/users", authn, middleware.RequireSupervisor())
	users.GET("", userHandler.List)
	users.PUT("/:id/role", userHandler.ChangeRole, middleware.RequireAdmin())
	users.PUT("/:id/status", userHandler.ChangeStatus, middleware.RequireAdmin())

	// --- Projects ---
	projects := api.Group("/projects", authn)
	projects.POST("", projectHandler.Create, middleware.RequireRole(domain.RoleAdmin, domain.RoleManager))
	projects.GET("/:"+middleware.ProjectIDParam, projectHandler.Get, middleware.RequireProjectAccess(d.Ownership))

	// --- Reports ---
	api.GET("/reports/summary", reportHandler.Summary, authn, middleware.RequireAccountant())

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", metricsHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// bodyLimit matches middleware.MaxBodyBytes.
const bodyLimit = "10M"

const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"script-src 'self'; img-src 'self' data: https:"

// securityHeaders sets the standard hardening headers. The swagger UI is
// skipped because it relies on inline scripts.
func securityHeaders() echo.MiddlewareFunc {
	return echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/swagger/")
		},
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            15552000,
		ContentSecurityPolicy: contentSecurityPolicy,
		ReferrerPolicy:        "no-referrer",
	})
}

// requestLogger writes one access line per request to log.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
