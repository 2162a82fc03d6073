package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/figuedmundo/resumator-sub003/internal/ai"
	"github.com/figuedmundo/resumator-sub003/internal/config"
	"github.com/figuedmundo/resumator-sub003/internal/db"
	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	ai          ai.Client
	jwtService  *JWTService
	passwordCfg *config.PasswordConfig
	validator   *validator.Validate
	log         zerolog.Logger
}

// New creates a new server instance
func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var aiClient ai.Client
	if cfg.GeminiAPIKey != "" {
		aiClient, err = ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.AIModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
	}

	passwordCfg, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		db:          database,
		ai:          aiClient,
		jwtService:  NewJWTService(jwtCfg),
		passwordCfg: passwordCfg,
		validator:   validator.New(),
		log:         log.With().Str("component", "server").Logger(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // customization calls can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the API router.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	protected := http.NewServeMux()

	// Resumes and cover letters share handlers; the kind is bound per route.
	for _, kp := range []struct {
		path string
		kind types.DocumentKind
	}{
		{"resumes", types.KindResume},
		{"cover-letters", types.KindCoverLetter},
	} {
		kind := kp.kind
		protected.HandleFunc("POST /api/v1/"+kp.path, s.withKind(kind, s.handleCreateDocument))
		protected.HandleFunc("GET /api/v1/"+kp.path, s.withKind(kind, s.handleListDocuments))
		protected.HandleFunc("GET /api/v1/"+kp.path+"/{id}", s.withKind(kind, s.handleGetDocument))
		protected.HandleFunc("PUT /api/v1/"+kp.path+"/{id}", s.withKind(kind, s.handleUpdateDocument))
		protected.HandleFunc("DELETE /api/v1/"+kp.path+"/{id}", s.withKind(kind, s.handleDeleteDocument))
		protected.HandleFunc("PUT /api/v1/"+kp.path+"/{id}/default", s.withKind(kind, s.handleSetDefaultDocument))
		protected.HandleFunc("GET /api/v1/"+kp.path+"/{id}/versions", s.withKind(kind, s.handleListVersions))
		protected.HandleFunc("POST /api/v1/"+kp.path+"/{id}/versions", s.withKind(kind, s.handleCreateVersion))
		protected.HandleFunc("GET /api/v1/"+kp.path+"/{id}/versions/{vid}", s.withKind(kind, s.handleGetVersion))
		protected.HandleFunc("PUT /api/v1/"+kp.path+"/{id}/versions/{vid}", s.withKind(kind, s.handleUpdateVersion))
		protected.HandleFunc("DELETE /api/v1/"+kp.path+"/{id}/versions/{vid}", s.withKind(kind, s.handleDeleteVersion))
		protected.HandleFunc("POST /api/v1/"+kp.path+"/{id}/customize", s.withKind(kind, s.handleCustomize))
	}

	protected.HandleFunc("POST /api/v1/applications", s.handleCreateApplication)
	protected.HandleFunc("GET /api/v1/applications", s.handleListApplications)
	protected.HandleFunc("GET /api/v1/applications/{id}", s.handleGetApplication)
	protected.HandleFunc("PUT /api/v1/applications/{id}", s.handleUpdateApplication)
	protected.HandleFunc("DELETE /api/v1/applications/{id}", s.handleDeleteApplication)

	mux.Handle("/api/v1/", s.withAuth(protected))
	return mux
}

// kindHandler is a document handler bound to a concrete kind.
type kindHandler func(w http.ResponseWriter, r *http.Request, kind types.DocumentKind)

func (s *Server) withKind(kind types.DocumentKind, h kindHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r, kind)
	}
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.ai != nil {
		_ = s.ai.Close()
	}
	s.db.Close()
	s.log.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failResponse maps a handler error to its HTTP status and writes it.
func (s *Server) failResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
