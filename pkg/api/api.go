// Package api exposes the engine over HTTP for browser frontends. The
// server is a thin JSON adapter: every endpoint maps to one engine
// operation, and the engine's own locking makes concurrent requests safe.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pow3r-build/constellation/pkg/engine"
	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/snapshot"
)

// Server wires the engine and its collaborators into an HTTP handler.
type Server struct {
	engine    *engine.Engine
	snapshots snapshot.Store
	logger    *log.Logger
	router    chi.Router
}

// NewServer creates the HTTP adapter. The snapshot store may be nil, in
// which case the snapshot endpoints respond 404.
func NewServer(eng *engine.Engine, snaps snapshot.Store, logger *log.Logger) *Server {
	s := &Server{
		engine:    eng,
		snapshots: snaps,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/frame", s.handleFrame)
		r.Get("/history", s.handleHistory)
		r.Get("/detail/{id}", s.handleDetail)
		r.Post("/data", s.handleData)
		r.Post("/search", s.handleSearch)
		r.Post("/transform", s.handleTransform)
		r.Post("/drag", s.handleDrag)
		r.Post("/tick", s.handleTick)

		r.Get("/export/{format}", s.handleExport)

		if snaps != nil {
			r.Route("/snapshots", func(r chi.Router) {
				r.Get("/", s.handleSnapshotList)
				r.Post("/", s.handleSnapshotSave)
				r.Get("/{id}", s.handleSnapshotGet)
				r.Post("/{id}/restore", s.handleSnapshotRestore)
				r.Delete("/{id}", s.handleSnapshotDelete)
			})
		}
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps structured error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidMode,
		apperrors.ErrCodeInvalidFilter, apperrors.ErrCodeInvalidConfig:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNoData:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeEntityNotFound,
		apperrors.ErrCodeSnapshotNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeStore:
		status = http.StatusBadGateway
	}

	var body errorBody
	body.Error.Code = string(apperrors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(apperrors.ErrCodeInternal)
	}
	body.Error.Message = apperrors.UserMessage(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decoding request body"))
		return false
	}
	return true
}
