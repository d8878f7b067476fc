package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/leadflow/internal/config"
	"github.com/tendant/leadflow/internal/http/features/applications"
	"github.com/tendant/leadflow/internal/http/features/leads"
	"github.com/tendant/leadflow/internal/http/features/me"
	"github.com/tendant/leadflow/internal/http/features/tasks"
	"github.com/tendant/leadflow/internal/http/middleware"
	"github.com/tendant/leadflow/internal/httputil"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/policy"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	Verifier        middleware.TokenVerifier
	TaskService     tasks.Service
	LeadService     leads.Service
	AppService      applications.Service
	Teams           policy.TeamResolver
	CORS            config.CORSConfig
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Preflight is answered before anything that could reject the request.
	// cors sets the headers and passes OPTIONS on to answerOptions.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		AllowedMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		AllowCredentials:   false,
		MaxAge:             300,
		OptionsPassthrough: true,
	}))
	r.Use(answerOptions)

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.Fail(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusNotFound, "not found")
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)
	auth := middleware.Auth(cfg.Verifier)

	taskHandler := tasks.NewHandler(cfg.Logger, cfg.TaskService)
	leadHandler := leads.NewHandler(cfg.Logger, cfg.LeadService)
	appHandler := applications.NewHandler(cfg.Logger, cfg.AppService)
	meHandler := me.NewHandler(cfg.Logger, cfg.Teams)

	// Writes
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(rateLimiters[middleware.LimiterWrite])
		r.Post("/v1/tasks", taskHandler.Create)
		r.Post("/v1/tasks/{id}/complete", taskHandler.Complete)
		r.Post("/v1/leads", leadHandler.Create)
		r.Patch("/v1/leads/{id}", leadHandler.Update)
		r.With(middleware.RequireRole(domain.RoleAdmin)).Delete("/v1/leads/{id}", leadHandler.Delete)
		r.Post("/v1/applications", appHandler.Create)
		r.Patch("/v1/applications/{id}/status", appHandler.UpdateStatus)
	})

	// Reads
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(rateLimiters[middleware.LimiterRead])
		r.Get("/v1/tasks/today", taskHandler.Today)
		r.Get("/v1/leads", leadHandler.List)
		r.Get("/v1/leads/{id}", leadHandler.Get)
		r.Get("/v1/me", meHandler.GetMe)
	})

	return r
}

// answerOptions replies 204 with no body to every OPTIONS request.
func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
