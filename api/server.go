// Package api is the thin HTTP layer over the pricing engine. It is only
// responsible for input ingestion, engine orchestration and output
// serialization; it never performs pricing logic itself.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Verman94/PriceWebApp/core/engine"
	"github.com/Verman94/PriceWebApp/core/exception"
	"github.com/Verman94/PriceWebApp/internal/config"
	"github.com/Verman94/PriceWebApp/internal/errors"
	"github.com/Verman94/PriceWebApp/internal/logging"
	"github.com/Verman94/PriceWebApp/internal/store"
)

// Server is the API server
type Server struct {
	router  chi.Router
	version string
	store   *store.Store
}

// NewServer creates an API server; a nil store disables run persistence
func NewServer(version string, st *store.Store) *Server {
	s := &Server{
		version: version,
		store:   st,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/price", s.handlePrice)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handlePrice runs the pipeline on one posted dataset snapshot
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Dataset == nil {
		s.writeError(w, "VALIDATION_ERROR", "dataset is required", http.StatusBadRequest)
		return
	}

	cfg := req.Config
	if cfg == nil {
		cfg = config.Get()
	}

	rules := exception.Defaults()
	if cfg.ExceptionFile != "" {
		loaded, err := exception.Load(cfg.ExceptionFile)
		if err != nil {
			s.writeError(w, string(errors.TypeConfig), err.Error(), http.StatusBadRequest)
			return
		}
		rules = loaded
	}

	result, err := engine.Run(req.Dataset, cfg, rules)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.IsType(err, errors.TypeConfig) || errors.IsType(err, errors.TypeInput) {
			status = http.StatusBadRequest
		}
		s.writeError(w, "ENGINE_ERROR", err.Error(), status)
		return
	}

	resp := &PriceResponse{
		RequestID:  uuid.NewString(),
		InputHash:  result.InputHash,
		Method:     string(result.Method),
		DurationMs: result.Duration.Milliseconds(),
		Warnings:   result.Warnings,
		ShortList:  result.Dataset.ShortList,
		FullList:   result.Dataset.FullList,
		Compare:    result.Dataset.Compare,
	}

	if s.store != nil {
		runID, err := s.store.SaveRun(r.Context(), result)
		if err != nil {
			// Persistence is best-effort; the priced tables still go back
			logging.Error("persist run", zap.Error(err))
		} else {
			resp.RunID = runID
		}
	}

	s.writeJSON(w, resp, http.StatusOK)
}

// handleListRuns lists stored runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, "NO_STORE", "run store is not configured", http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, string(errors.TypeStorage), err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, runs, http.StatusOK)
}

// handleGetRun returns one stored run with its payload
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, "NO_STORE", "run store is not configured", http.StatusNotFound)
		return
	}
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, string(errors.TypeStorage), err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, run, http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"version": s.version}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, &ErrorResponse{Code: code, Message: message}, status)
}
