package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/smartpark/carwash-api/internal/config"
	"github.com/smartpark/carwash-api/internal/handler"
	"github.com/smartpark/carwash-api/internal/middleware"
	"github.com/smartpark/carwash-api/internal/repository"
)

// Handlers bundles every handler the API mounts so main can pass them in
// one argument.
type Handlers struct {
	Auth     *handler.AuthHandler
	Cars     *handler.CarHandler
	Packages *handler.PackageHandler
	Records  *handler.ServiceRecordHandler
	Payments *handler.PaymentHandler
	Reports  *handler.ReportHandler
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers or monitoring systems to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the unauthenticated session endpoints under
// /v1/auth.  Signup and login are the only two ways to obtain a token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
}

// RegisterAPI registers every protected endpoint under /v1.  All routes in
// the group run the session middleware, which verifies the bearer token and
// confirms the user still exists.  The rate limiter and the report cache
// degrade to pass-through when Redis is unavailable.
func RegisterAPI(e *echo.Echo, h Handlers, cfg config.Config, users *repository.UserRepo, rdb *redis.Client) {
	api := e.Group("/v1")
	api.Use(middleware.SessionAuth(cfg.JWTSecret, users))
	api.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	api.GET("/me", h.Auth.Me)

	api.POST("/cars", h.Cars.Create)
	api.GET("/cars", h.Cars.List)
	api.GET("/cars/:id", h.Cars.Get)

	api.POST("/packages", h.Packages.Create)
	api.GET("/packages", h.Packages.List)
	api.GET("/packages/:id", h.Packages.Get)

	api.POST("/service-packages", h.Records.Create)
	api.GET("/service-packages", h.Records.List)
	api.GET("/service-packages/:id", h.Records.Get)
	api.PUT("/service-packages/:id", h.Records.Update)
	api.DELETE("/service-packages/:id", h.Records.Delete)

	api.POST("/payments", h.Payments.Create)
	api.GET("/payments", h.Payments.List)
	api.GET("/payments/:id", h.Payments.Get)

	// Reports are pure reads, so they additionally sit behind the Redis
	// response cache.
	reports := api.Group("/reports")
	reports.Use(middleware.ReportCache(config.LoadCacheConfig(), rdb))
	reports.GET("/payments", h.Reports.PaymentsInRange)
	reports.GET("/services/:plateNumber", h.Reports.ServiceHistory)
}
