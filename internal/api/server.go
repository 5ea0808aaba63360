// Package api exposes the generation pipeline and the editor session
// store over HTTP. Every request unmarshals its own configuration
// snapshot; the engine itself holds no state between requests, so the
// only shared resource behind these handlers is the sqlite store.
package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robodesc/urdfgen/internal/httputil"
	"github.com/robodesc/urdfgen/internal/pipeline"
	"github.com/robodesc/urdfgen/internal/report"
	"github.com/robodesc/urdfgen/internal/robot"
	"github.com/robodesc/urdfgen/internal/store"
	"github.com/robodesc/urdfgen/internal/urdf"
)

// maxRequestBody caps request bodies at 1MB; configs and documents are
// orders of magnitude smaller.
const maxRequestBody = 1 * 1024 * 1024

// ANSI escape codes for request logging
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

type Server struct {
	store *store.Store
}

// NewServer creates an API server. st may be nil when running without a
// session store (one-shot generation endpoints still work).
func NewServer(st *store.Store) *Server {
	return &Server{store: st}
}

// ServeMux returns the API routes, unprefixed; the caller mounts them
// under /api.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/defaults", s.showDefaults)
	mux.HandleFunc("/generate", s.generate)
	mux.HandleFunc("/validate", s.validateConfig)
	mux.HandleFunc("/inspect", s.inspectDocument)
	mux.HandleFunc("/sessions", s.createSession)
	mux.HandleFunc("/sessions/", s.sessionRoutes)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) showDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, robot.Default())
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	cfg, ok := s.readConfig(w, r)
	if !ok {
		return
	}
	s.runGeneration(w, cfg, "")
}

// runGeneration runs one pipeline pass and writes the outcome. When
// sessionID is non-empty the outcome is also appended to that session's
// history.
func (s *Server) runGeneration(w http.ResponseWriter, cfg robot.Config, sessionID string) {
	res, err := pipeline.Generate(cfg)
	if err != nil {
		var ce *robot.ConfigError
		if errors.As(err, &ce) {
			httputil.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"issues": []report.Issue{report.Errorf(ce.Field, "%s", ce.Reason)},
			})
			return
		}
		log.Printf("generation failed: %v", err)
		httputil.InternalServerError(w, "generation failed")
		return
	}

	if sessionID != "" && s.store != nil {
		if _, err := s.store.RecordGeneration(sessionID, cfg, res.Document, res.Issues); err != nil {
			log.Printf("failed to record generation for session %s: %v", sessionID, err)
		}
	}

	status := http.StatusOK
	if res.HasErrors() {
		status = http.StatusUnprocessableEntity
	}
	if res.Issues == nil {
		res.Issues = []report.Issue{}
	}
	httputil.WriteJSON(w, status, res)
}

func (s *Server) validateConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		httputil.BadRequest(w, "failed to read request body")
		return
	}
	cfg, err := robot.Decode(body)
	if err != nil {
		var ce *robot.ConfigError
		if errors.As(err, &ce) {
			httputil.WriteIssues(w, []report.Issue{report.Errorf(ce.Field, "%s", ce.Reason)})
			return
		}
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.WriteIssues(w, pipeline.Validate(cfg))
}

// inspectDocument checks an existing URDF document posted as the request
// body.
func (s *Server) inspectDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		httputil.BadRequest(w, "failed to read request body")
		return
	}
	if len(body) == 0 {
		httputil.BadRequest(w, "empty document")
		return
	}
	httputil.WriteIssues(w, urdf.Inspect(body))
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.store == nil {
		httputil.InternalServerError(w, "session store unavailable")
		return
	}
	sess, err := s.store.CreateSession(robot.Default())
	if err != nil {
		log.Printf("failed to create session: %v", err)
		httputil.InternalServerError(w, "failed to create session")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sess)
}

// sessionRoutes dispatches /sessions/{id}[/config|/generate|/history].
func (s *Server) sessionRoutes(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		httputil.InternalServerError(w, "session store unavailable")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/sessions/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		httputil.NotFound(w, "missing session id")
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		sess, ok := s.loadSession(w, id)
		if !ok {
			return
		}
		httputil.WriteJSONOK(w, sess)

	case "config":
		s.sessionConfig(w, r, id)

	case "generate":
		if r.Method != http.MethodPost {
			httputil.MethodNotAllowed(w)
			return
		}
		sess, ok := s.loadSession(w, id)
		if !ok {
			return
		}
		s.runGeneration(w, sess.Config, id)

	case "history":
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		if _, ok := s.loadSession(w, id); !ok {
			return
		}
		limit := 0
		if l := r.URL.Query().Get("limit"); l != "" {
			parsed, err := strconv.Atoi(l)
			if err != nil || parsed < 1 {
				httputil.BadRequest(w, "invalid 'limit' parameter")
				return
			}
			limit = parsed
		}
		gens, err := s.store.History(id, limit)
		if err != nil {
			log.Printf("failed to load history for session %s: %v", id, err)
			httputil.InternalServerError(w, "failed to load history")
			return
		}
		httputil.WriteJSONOK(w, map[string]interface{}{"generations": gens})

	default:
		httputil.NotFound(w, "unknown session resource")
	}
}

func (s *Server) sessionConfig(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		sess, ok := s.loadSession(w, id)
		if !ok {
			return
		}
		httputil.WriteJSONOK(w, sess.Config)

	case http.MethodPut:
		if _, ok := s.loadSession(w, id); !ok {
			return
		}
		cfg, ok := s.readConfig(w, r)
		if !ok {
			return
		}
		if err := s.store.UpdateConfig(id, cfg); err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				httputil.NotFound(w, "session not found")
				return
			}
			log.Printf("failed to update session %s: %v", id, err)
			httputil.InternalServerError(w, "failed to update session")
			return
		}
		httputil.WriteJSONOK(w, cfg)

	default:
		httputil.MethodNotAllowed(w)
	}
}

// readConfig decodes and validates a config request body, writing the
// error response itself on failure.
func (s *Server) readConfig(w http.ResponseWriter, r *http.Request) (robot.Config, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		httputil.BadRequest(w, "failed to read request body")
		return robot.Config{}, false
	}
	cfg, err := robot.Parse(body)
	if err != nil {
		var ce *robot.ConfigError
		if errors.As(err, &ce) {
			httputil.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"issues": []report.Issue{report.Errorf(ce.Field, "%s", ce.Reason)},
			})
			return robot.Config{}, false
		}
		httputil.BadRequest(w, err.Error())
		return robot.Config{}, false
	}
	return cfg, true
}

func (s *Server) loadSession(w http.ResponseWriter, id string) (store.Session, bool) {
	sess, err := s.store.Session(id)
	if errors.Is(err, store.ErrSessionNotFound) {
		httputil.NotFound(w, "session not found")
		return store.Session{}, false
	}
	if err != nil {
		log.Printf("failed to load session %s: %v", id, err)
		httputil.InternalServerError(w, "failed to load session")
		return store.Session{}, false
	}
	return sess, true
}
