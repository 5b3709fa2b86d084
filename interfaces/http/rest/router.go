// Package rest exposes the string analyzer over HTTP.
package rest

import (
	"net/http"

	"stringanalyzer/application/commands/bus"
	querybus "stringanalyzer/application/queries/bus"
	"stringanalyzer/infrastructure/config"
	"stringanalyzer/interfaces/http/rest/handlers"
	"stringanalyzer/interfaces/http/rest/middleware"
	pkgerrors "stringanalyzer/pkg/errors"
	"stringanalyzer/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	store      handlers.Pinger
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil, in which case
// /metrics is not served.
func NewRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	store handlers.Pinger,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		commandBus: commandBus,
		queryBus:   queryBus,
		store:      store,
		metrics:    metrics,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()
	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())

	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	router.Use(errorHandler.Middleware)
	if rt.cfg.RateLimit.RequestsPerSecond > 0 {
		limiter := middleware.NewRateLimiter(rt.cfg.RateLimit.RequestsPerSecond, rt.cfg.RateLimit.Burst)
		router.Use(limiter.Handler(errorHandler))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	healthHandler := handlers.NewHealthHandler(rt.store, errorHandler, rt.logger)
	router.Get("/health", healthHandler.Health)
	router.Get("/ready", healthHandler.Ready)

	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/strings", func(r chi.Router) {
		stringHandler := handlers.NewStringHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)
		r.Post("/", stringHandler.CreateString)
		r.Get("/", stringHandler.ListStrings)
		r.Get("/filter-by-natural-language", stringHandler.FilterByNaturalLanguage)
		r.Get("/{value}", stringHandler.GetString)
		r.Delete("/{value}", stringHandler.DeleteString)
	})

	return router
}
