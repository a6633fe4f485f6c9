package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/scribehub/identity-api/internal/api/handler"
	"github.com/scribehub/identity-api/internal/api/middleware"
	"github.com/scribehub/identity-api/internal/core/ports"
	"github.com/scribehub/identity-api/internal/core/service"
	"github.com/scribehub/identity-api/internal/infrastructure/config"
	"github.com/scribehub/identity-api/internal/token"
)

// Dependencies carries the backing ports the router wires into services.
// PostCache and Recorder may be nil; Readiness checks may be empty.
type Dependencies struct {
	Users     ports.UserRepository
	Posts     ports.PostRepository
	Audit     ports.AuditRepository
	PostCache ports.PostCache
	Recorder  ports.AuditRecorder
	Readiness []handler.ReadinessCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
// It fails when the token configuration is unusable, which aborts startup.
func NewRouter(deps Dependencies, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	issuer, err := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.JWTAlgorithm)
	if err != nil {
		return nil, err
	}
	validator, err := token.NewValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Trace(log))
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Services and handlers ---
	authService := service.NewAuthService(deps.Users, issuer, deps.Recorder, log)
	userService := service.NewUserService(deps.Users, log)
	postService := service.NewPostService(deps.Posts, deps.PostCache, log)

	authHandler := handler.NewAuthHandler(authService, issuer.TTL())
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	auditHandler := handler.NewAuditHandler(deps.Audit)

	authn := middleware.Authenticate(validator, deps.Users)
	admin := middleware.RequireAdmin()

	// --- Auth routes ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/auth/register", authHandler.Register)
	apiGroup.POST("/auth/login", authHandler.Login)

	// --- User routes (authenticated) ---
	users := apiGroup.Group("/users", authn)
	users.GET("/me", userHandler.Me)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, admin)

	// --- Post routes (reads public, mutations authenticated) ---
	apiGroup.GET("/posts", postHandler.List)
	apiGroup.GET("/posts/:id", postHandler.Get)
	apiGroup.POST("/posts", postHandler.Create, authn)
	apiGroup.PUT("/posts/:id", postHandler.Update, authn)
	apiGroup.DELETE("/posts/:id", postHandler.Delete, authn)

	// --- Audit trail (admin only) ---
	apiGroup.GET("/audit", auditHandler.List, authn, admin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
