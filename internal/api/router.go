package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/quillpress/blog-api/docs"
	"github.com/quillpress/blog-api/internal/api/handler"
	"github.com/quillpress/blog-api/internal/api/middleware"
	"github.com/quillpress/blog-api/internal/core/authz"
	"github.com/quillpress/blog-api/internal/core/ports"
	"github.com/quillpress/blog-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything NewRouter wires into the Echo instance.
type Dependencies struct {
	Logger   zerolog.Logger
	Resolver middleware.PrincipalResolver
	RoleGate authz.RoleGate

	AuthService ports.AuthService
	UserService ports.UserService
	PostService ports.PostService

	// HealthChecks back /health/ready, keyed by dependency name.
	HealthChecks map[string]handlers.Check

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.RoleGate == (authz.RoleGate{}) {
		deps.RoleGate = authz.DefaultRoleGate
	}

	// --- Pre-routing ---
	// API paths are served in their trailing-slash form.
	e.Pre(echomiddleware.AddTrailingSlashWithConfig(echomiddleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
	}))

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "blog",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Identity(deps.Resolver, deps.Logger))
	e.Use(middleware.RoleGate(deps.RoleGate))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	postHandler := handler.NewPostHandler(deps.PostService)

	// --- Auth routes ---
	e.POST("/api/register/", authHandler.Register)
	e.POST("/api/token/", authHandler.Token)

	// --- User management (admin only, enforced by the role gate) ---
	users := e.Group("/api/users")
	users.GET("/", userHandler.List)
	users.DELETE("/:id/", userHandler.Delete)

	// --- Posts ---
	posts := e.Group("/api/posts", middleware.RequireAuth())
	posts.GET("/", postHandler.List)
	posts.POST("/", postHandler.Create)
	posts.GET("/:id/", postHandler.Get)
	posts.PUT("/:id/", postHandler.Replace)
	posts.PATCH("/:id/", postHandler.Patch)
	posts.DELETE("/:id/", postHandler.Delete)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
