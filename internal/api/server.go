package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pbaille/ideas/internal/domain"
	"github.com/pbaille/ideas/internal/store"
)

const maxTitleLen = 200

// Server handles HTTP requests for the ideas API
type Server struct {
	store *store.Store
	addr  string
	log   *slog.Logger
}

// New creates a new API server
func New(s *store.Store, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: s, addr: addr, log: logger}
}

// Handler returns the routed handler with CORS and request logging applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Ideas
	mux.HandleFunc("GET /api/ideas", s.listIdeas)
	mux.HandleFunc("POST /api/ideas", s.createIdea)
	mux.HandleFunc("POST /api/ideas/{id}/like", s.likeIdea)
	mux.HandleFunc("DELETE /api/ideas/{id}", s.deleteIdea)

	// Health check
	mux.HandleFunc("GET /api/health", s.health)

	return s.logRequests(withCORS(mux))
}

// Run starts the HTTP server
func (s *Server) Run() error {
	s.log.Info("starting server", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests logs every request with a request id, at a level picked from the status
func (s *Server) logRequests(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= 500 {
			level = slog.LevelError
		} else if rec.status >= 400 {
			level = slog.LevelWarn
		}
		s.log.LogAttrs(r.Context(), level, "request",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("latency", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := s.store.ListIdeas()
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

func (s *Server) createIdea(w http.ResponseWriter, r *http.Request) {
	var req domain.NewIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	switch {
	case title == "":
		writeError(w, http.StatusUnprocessableEntity, "title is required")
		return
	case utf8.RuneCountInString(title) > maxTitleLen:
		writeError(w, http.StatusUnprocessableEntity, "title is too long")
		return
	case description == "":
		writeError(w, http.StatusUnprocessableEntity, "description is required")
		return
	}

	tags := []string{}
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	idea, err := s.store.AddIdea(title, description, tags)
	if err != nil {
		s.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, idea)
}

func (s *Server) likeIdea(w http.ResponseWriter, r *http.Request) {
	idea, err := s.store.LikeIdea(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "idea not found")
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

func (s *Server) deleteIdea(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteIdea(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "idea not found")
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// internalError logs the cause and hides it from the client
func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error("store failure", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
