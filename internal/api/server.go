package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/lessonscript/internal/config"
	"github.com/dgallion1/lessonscript/internal/hostsync"
	"github.com/dgallion1/lessonscript/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for lessonscript.
type Server struct {
	router   chi.Router
	sessions *session.Store
	host     *hostsync.Client
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. host may be nil, in which
// case mutations are not pushed anywhere.
func NewServer(sessions *session.Store, host *hostsync.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		host:     host,
		log:      log,
		cfg:      cfg,
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
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/lessons", s.handleCreateLesson)
		r.Get("/api/lessons/{sessionID}", s.handleGetLesson)
		r.Delete("/api/lessons/{sessionID}", s.handleDeleteLesson)
		r.Put("/api/lessons/{sessionID}/text", s.handleReconcile)
		r.Get("/api/lessons/{sessionID}/explanation", s.handleExplanation)
		r.Put("/api/lessons/{sessionID}/speaker", s.handleSetSpeaker)

		r.Post("/api/lessons/{sessionID}/blocks", s.handleInsertBlock)
		r.Patch("/api/lessons/{sessionID}/blocks/{blockID}", s.handleEditBlock)
		r.Delete("/api/lessons/{sessionID}/blocks/{blockID}", s.handleDeleteBlock)
		r.Post("/api/lessons/{sessionID}/blocks/{blockID}/move", s.handleMoveBlock)
		r.Post("/api/lessons/{sessionID}/blocks/{blockID}/convert", s.handleConvertBlock)

		r.Post("/api/lessons/{sessionID}/undo", s.handleUndo)
		r.Post("/api/lessons/{sessionID}/redo", s.handleRedo)

		r.Post("/api/lessons/{sessionID}/annotations", s.handleAnnotate)

		r.Post("/api/import", s.handleImport)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
