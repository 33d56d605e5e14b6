package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/coms4156/tars-client/docs"
	"github.com/coms4156/tars-client/internal/api/handler"
	"github.com/coms4156/tars-client/internal/api/middleware"
	"github.com/coms4156/tars-client/internal/core/ports"
	"github.com/coms4156/tars-client/internal/tarsapi"
)

// Backend is every backend capability the routes relay.
type Backend interface {
	handler.ClientBackend
	handler.PreferenceBackend
	handler.UserBackend
	handler.TravelBackend
}

// Services are the dependencies the routes delegate to.
type Services struct {
	Backend     Backend
	Directory   ports.UserDirectory
	Identity    ports.IdentityService
	Login       ports.LoginService
	Preferences ports.PreferenceService
	// Readiness lists the dependencies GET /api/health/ready pings.
	Readiness map[string]handler.Pinger
}

// Options tune the router without changing its routes.
type Options struct {
	Logger    zerolog.Logger
	StaticDir string
	// Registerer and Gatherer back the HTTP metrics and /metrics. Both
	// default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler()

	// --- Global middleware ---
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(middleware.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "tars_client",
		Registerer: opts.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
	}))
	e.Use(staticBundle(opts.StaticDir))

	// --- Dependencies ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(svc.Readiness)
	clientHandler := handler.NewClientHandler(svc.Backend, svc.Directory, svc.Identity)
	preferenceHandler := handler.NewPreferenceHandler(svc.Preferences, svc.Backend)
	userHandler := handler.NewUserHandler(svc.Directory, svc.Backend)
	authHandler := handler.NewAuthHandler(svc.Login)
	travelHandler := handler.NewTravelHandler(svc.Backend)

	// --- Operational routes ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Health checks ---
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", readinessHandler.Readiness)

	// --- Clients ---
	api.GET("/index", clientHandler.Index)
	api.GET("/client-id", clientHandler.ClientID)
	api.GET("/clients", clientHandler.List)
	api.POST("/client/create", clientHandler.Create)
	api.POST("/client/createUser", clientHandler.CreateUser)

	// --- Preferences ---
	api.PUT("/setPreference/:id", preferenceHandler.Set)
	api.PUT("/user/:id/add", preferenceHandler.Add)
	api.PUT("/user/:id/update", preferenceHandler.Update)
	api.PUT("/user/:id/remove", preferenceHandler.Remove)
	api.GET("/user/:id", preferenceHandler.Get)
	api.GET("/user/client/:clientId", preferenceHandler.ByClient)
	api.GET("/preferences/user/:userId", preferenceHandler.ForUser)

	// --- Users ---
	api.POST("/login", authHandler.Login)
	api.GET("/tarsUsers", userHandler.ListTarsUsers)
	api.DELETE("/tarsUsers/:userId", userHandler.DeleteTarsUser)
	api.GET("/userList", userHandler.ListUsers)
	api.GET("/userList/client/:clientId", userHandler.ListClientUsers)

	// --- Travel data ---
	api.GET("/recommendation/weather", travelHandler.WeatherRecommendation)
	api.GET("/alert/weather", travelHandler.WeatherAlerts)
	api.GET("/alert/weather/user/:userId", travelHandler.UserWeatherAlerts)
	api.GET("/crime/summary", travelHandler.CrimeSummary)
	api.GET("/country/:country", travelHandler.CountryAdvisory)
	api.GET("/summary/:city", travelHandler.CitySummary)
	api.GET("/countrySummary/:country", travelHandler.CountrySummary)

	// --- Fallbacks ---
	api.Any("/*", apiNotFound)
	e.GET("/*", bundleNotFound(opts.StaticDir))

	return e
}

var _ Backend = (*tarsapi.Client)(nil)
