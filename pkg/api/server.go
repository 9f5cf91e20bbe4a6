// Package api exposes the layout pipeline over HTTP. The server is a thin
// shell around pipeline.Runner: it decodes options, runs the pipeline, and
// maps coded errors onto status codes.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/graphscape/graphscape/pkg/cache"
	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/geometry"
	"github.com/graphscape/graphscape/pkg/graph"
	"github.com/graphscape/graphscape/pkg/lod"
	"github.com/graphscape/graphscape/pkg/pipeline"
)

// Server handles HTTP requests against a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server around the given runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/filter", s.handleFilter)
	})
	return r
}

// layoutResponse is the POST /v1/layout reply.
type layoutResponse struct {
	RunID       string                      `json:"run_id"`
	GraphHash   string                      `json:"graph_hash"`
	Positions   map[string]geometry.Vector3 `json:"positions"`
	Iterations  int                         `json:"iterations"`
	FinalEnergy float64                     `json:"final_energy"`
	Converged   bool                        `json:"converged"`
	Bounds      geometry.BoundingBox        `json:"bounding_box"`
	CacheHit    bool                        `json:"cache_hit"`
}

// filterResponse is the POST /v1/filter reply.
type filterResponse struct {
	RunID     string      `json:"run_id"`
	GraphHash string      `json:"graph_hash"`
	Level     int         `json:"level"`
	View      *lod.Result `json:"view"`
	CacheHit  bool        `json:"cache_hit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLayout runs load → layout and returns the positions.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	opts.NoFilter = true

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		RunID:       result.RunID,
		GraphHash:   result.GraphHash,
		Positions:   result.Layout.Positions,
		Iterations:  result.Layout.Iterations,
		FinalEnergy: result.Layout.FinalEnergy,
		Converged:   result.Layout.Converged,
		Bounds:      result.Layout.Bounds,
		CacheHit:    result.CacheInfo.LayoutHit,
	})
}

// handleFilter filters the posted graph without simulating it.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}

	g, err := s.runner.LoadGraph(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	graphHash := cache.Hash(graphData)

	view, level, hit, err := s.runner.FilterGraphWithCacheInfo(r.Context(), g, graphHash, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, filterResponse{
		RunID:     middleware.GetReqID(r.Context()),
		GraphHash: graphHash,
		Level:     level,
		View:      view,
		CacheHit:  hit,
	})
}

// decodeOptions parses the request body into pipeline options. Requests
// that omit the level get the automatic tier.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	opts := pipeline.Options{Level: pipeline.AutoLevel}
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return pipeline.Options{}, false
	}
	// API callers submit graphs inline; never read server-side paths.
	opts.GraphPath = ""
	opts.Logger = s.logger
	return opts, true
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidLevel:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeLayoutNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	s.logger.Error("request failed",
		"request_id", middleware.GetReqID(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"err", err)

	writeJSON(w, status, errorResponse{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
