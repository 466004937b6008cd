// Package api implements the HTTP service for ordering runs.
//
// The service accepts a view-graph, runs the ordering pipeline, persists
// the result as a run, and lets clients fetch runs again by ID:
//
//	POST /v1/order        run the pipeline on a submitted graph
//	GET  /v1/runs         list recent runs
//	GET  /v1/runs/{id}    fetch one run
//	GET  /healthz         liveness probe
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/viewgraph/viewgraph/pkg/errors"
	"github.com/viewgraph/viewgraph/pkg/graph"
	"github.com/viewgraph/viewgraph/pkg/observability"
	"github.com/viewgraph/viewgraph/pkg/pipeline"
	"github.com/viewgraph/viewgraph/pkg/store"
)

// Server wires the pipeline and run store behind an HTTP router.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates a server. The logger defaults to log.Default.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/order", s.handleOrder)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// OrderRequest is the POST /v1/order payload.
type OrderRequest struct {
	Graph   graph.Document   `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// OrderResponse is the POST /v1/order reply: the stored run plus cache
// information for this request.
type OrderResponse struct {
	Run    *store.Run `json:"run"`
	Cached bool       `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	g, err := graph.FromDocument(&req.Graph)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "invalid graph"))
		return
	}

	// Tracing is a CLI facility; never accepted over the wire.
	req.Options.Trace = nil
	req.Options.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), g, req.Options)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "pipeline failed"))
		return
	}

	doc, err := graph.NewOrderingDocument(result.Ordering)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInternal, err, "serialize ordering"))
		return
	}
	report := graph.NewOutlierReport(result.Outliers)

	run := store.NewRun()
	run.GraphHash = result.GraphHash
	run.ViewCount = result.Stats.ViewCount
	run.EdgeCount = result.Stats.EdgeCount
	run.Sequence = doc.Sequence
	run.Outliers = report.Outliers
	run.OutlierTotal = report.Total
	run.DurationMS = result.Stats.OrderTime.Milliseconds()

	if err := s.store.Put(r.Context(), run); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OrderResponse{
		Run:    run,
		Cached: result.CacheInfo.OrderHit,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}

	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	}})
}

func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidGraph,
		apperrors.ErrCodeInvalidOrdering, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeMissingView:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeRunNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
