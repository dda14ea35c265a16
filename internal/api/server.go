package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/textpub/internal/config"
	"github.com/dgallion1/textpub/internal/llm"
	"github.com/dgallion1/textpub/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for textpub.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	llm          llm.Completer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. client may be nil
// when no LLM is configured.
func NewServer(orch *pipeline.Orchestrator, client llm.Completer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		llm:          client,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.TextpubAPIKey, s.log))

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/convert/batch", s.handleBatchConvert)
		r.Get("/api/convert/{jobID}/status", s.handleConvertStatus)
		r.Get("/api/convert/{jobID}/epub", s.handleConvertDownload)
		r.Post("/api/clean", s.handleClean)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"ai_enabled":  s.orchestrator.AIEnabled(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
