// Package server assembles the leadflow API from a database handle and a
// publisher, for embedding or for cmd/leadflow.
//
// Basic usage:
//
//	db, _ := repository.Open("postgres://localhost/leadflow?sslmode=disable")
//
//	srv, err := server.New(server.Config{
//	    DB:        db,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
//	if err != nil {
//	    log.Fatal(err) // fails if the schema has not been migrated
//	}
//	defer srv.Close()
//
//	http.ListenAndServe(":8080", srv.Handler())
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tendant/leadflow/internal/config"
	httpserver "github.com/tendant/leadflow/internal/http"
	"github.com/tendant/leadflow/pkg/auth"
	"github.com/tendant/leadflow/pkg/leads"
	"github.com/tendant/leadflow/pkg/notify"
	"github.com/tendant/leadflow/pkg/policy"
	"github.com/tendant/leadflow/pkg/repository"
	"github.com/tendant/leadflow/pkg/tasks"
)

// Config holds the configuration for the server.
type Config struct {
	// DB is the database connection (required).
	DB *sql.DB

	// JWTSecret verifies bearer tokens (required, min 32 chars).
	JWTSecret string

	// JWTIssuer is the expected issuer claim (default: "leadflow").
	JWTIssuer string

	// Publisher receives task.created events (default: notify.NopPublisher).
	Publisher notify.Publisher

	// PublishTimeout bounds each detached publish (default: 5s).
	PublishTimeout time.Duration

	// Logger is the structured logger (default: JSON on stdout).
	Logger *slog.Logger

	CORS            config.CORSConfig
	RateLimit       config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
}

// Server is an assembled leadflow API.
type Server struct {
	config  Config
	tokens  *auth.TokenService
	tasks   *tasks.Service
	leads   *leads.Service
	handler http.Handler
}

// New wires repositories, services and routes. It returns an error if the
// schema is missing; run `leadflowctl migrate` first.
func New(cfg Config) (*Server, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repository.ValidateSchema(ctx, cfg.DB); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	leadsRepo := repository.NewLeadsRepository(cfg.DB)
	appsRepo := repository.NewApplicationsRepository(cfg.DB)
	tasksRepo := repository.NewTasksRepository(cfg.DB)
	teamsRepo := repository.NewTeamsRepository(cfg.DB)

	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
	})
	dispatcher := notify.NewDispatcher(cfg.Publisher, cfg.PublishTimeout, cfg.Logger)
	taskService := tasks.NewService(appsRepo, tasksRepo, dispatcher, cfg.Logger)
	leadService := leads.NewService(leadsRepo, appsRepo, teamsRepo, policy.NewLeadPolicy(teamsRepo), cfg.Logger)

	handler := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          cfg.Logger,
		Verifier:        tokens,
		TaskService:     taskService,
		LeadService:     leadService,
		AppService:      leadService,
		Teams:           teamsRepo,
		CORS:            cfg.CORS,
		RateLimitConfig: cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		Validation:      cfg.Validation,
	})

	return &Server{
		config:  cfg,
		tokens:  tokens,
		tasks:   taskService,
		leads:   leadService,
		handler: handler,
	}, nil
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Tasks returns the task service for callers that bypass HTTP.
func (s *Server) Tasks() *tasks.Service {
	return s.tasks
}

// Leads returns the lead service for callers that bypass HTTP.
func (s *Server) Leads() *leads.Service {
	return s.leads
}

// Verifier returns the bearer token verifier, to protect routes mounted
// next to the API.
func (s *Server) Verifier() *auth.TokenService {
	return s.tokens
}

// Close releases the publisher. The database handle belongs to the caller.
func (s *Server) Close() error {
	if c, ok := s.config.Publisher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.DB == nil {
		return errors.New("server: DB is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("server: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return errors.New("server: JWTSecret must be at least 32 characters")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "leadflow"
	}
	if cfg.Publisher == nil {
		cfg.Publisher = notify.NopPublisher{}
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = notify.DefaultPublishTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if cfg.Validation.MaxRequestBodySize == 0 {
		cfg.Validation.MaxRequestBodySize = 1 << 20
	}
}
