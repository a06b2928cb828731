package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/swipehire/interview-engine/internal/ai"
	"github.com/swipehire/interview-engine/internal/config"
	"github.com/swipehire/interview-engine/internal/gate"
	"github.com/swipehire/interview-engine/internal/interview"
	"github.com/swipehire/interview-engine/internal/roles"
	"github.com/swipehire/interview-engine/internal/storage"
)

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	manager        interview.Manager
	ai             *ai.Service
	roleLoader     *roles.Loader
	repo           storage.Repository
	authMiddleware *AuthMiddleware
	gateMiddleware *GateMiddleware
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	manager interview.Manager,
	aiSvc *ai.Service,
	roleLoader *roles.Loader,
	repo storage.Repository,
	g gate.Gate,
) *Server {
	s := &Server{
		config:         cfg,
		manager:        manager,
		ai:             aiSvc,
		roleLoader:     roleLoader,
		repo:           repo,
		authMiddleware: NewAuthMiddleware(repo),
		gateMiddleware: NewGateMiddleware(g),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (outside versioned API - public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// Admin API (protected by API-key authentication)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware.Authenticate)

		r.Route("/interviews", func(r chi.Router) {
			r.With(s.authMiddleware.RequirePermission("interviews:write")).Post("/", s.handleCreateInterview)

			r.Route("/{id}", func(r chi.Router) {
				r.With(s.authMiddleware.RequirePermission("interviews:read")).Get("/", s.handleGetInterview)
				r.With(s.authMiddleware.RequirePermission("interviews:write")).Delete("/", s.handleDiscardInterview)
			})
		})

		r.Route("/roster", func(r chi.Router) {
			r.With(s.authMiddleware.RequirePermission("roster:read")).Get("/", s.handleListRoster)
			r.With(s.authMiddleware.RequirePermission("roster:read")).Get("/{id}", s.handleGetRosterRecord)
			r.With(s.authMiddleware.RequirePermission("roster:write")).Delete("/{id}", s.handleDeleteRosterRecord)
		})

		r.With(s.authMiddleware.RequirePermission("interviews:write")).Post("/extract", s.handleExtractProfile)
		r.With(s.authMiddleware.RequirePermission("interviews:read")).Get("/roles", s.handleListRoles)
	})

	// Candidate surface (session token = identity). The gate guards the
	// running phase; reads, finish and finalize stay reachable after
	// the gate closes.
	r.Route("/session/{token}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Post("/finish", s.handleFinishSession)
		r.Post("/finalize", s.handleFinalizeSession)

		r.Group(func(r chi.Router) {
			r.Use(s.gateMiddleware.RequireOpen)
			r.Post("/start", s.handleStartSession)
			r.Post("/answer", s.handleRecordAnswer)
			r.Post("/tick", s.handleTickSession)
			r.Post("/next", s.handleAdvanceSession)
			r.Post("/pause", s.handlePauseSession)
			r.Post("/resume", s.handleResumeSession)
			r.Get("/ws", s.handleSessionWS)
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
