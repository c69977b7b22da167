// Package server exposes the classification engine over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ChicagoDave/leadcsa/internal/metrics"
	"github.com/ChicagoDave/leadcsa/pkg/assessment"
	"github.com/ChicagoDave/leadcsa/pkg/errs"
	"github.com/ChicagoDave/leadcsa/pkg/erv"
	"github.com/ChicagoDave/leadcsa/pkg/evaluation"
	"github.com/ChicagoDave/leadcsa/pkg/geometry"
	"github.com/ChicagoDave/leadcsa/pkg/validation"
)

// maxBodyBytes caps request bodies. Assessments are a few hundred bytes.
const maxBodyBytes = 1 << 20

// Server is the local HTTP front end for interactive assessment.
type Server struct {
	dataset  *erv.Dataset
	port     int
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// New creates a server evaluating against ds.
func New(ds *erv.Dataset, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	return &Server{
		dataset:  ds,
		port:     port,
		logger:   logger,
		registry: reg,
		metrics:  metrics.New(reg),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/dataset", s.handleDataset)
		r.Post("/geometry", s.handleGeometry)
		r.Post("/validate", s.handleValidate)
		r.Post("/classify", s.handleClassify)
	})
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("csa server starting",
			zap.String("addr", "http://localhost"+srv.Addr),
			zap.String("substance", s.dataset.Substance))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("csa server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html><head><title>Critical Surface Area</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>Critical Surface Area: %s</h1>
<p>POST an assessment to <code>/api/classify</code>. Dataset at <code>/api/dataset</code>.</p>
</div>
</body></html>`, s.dataset.Substance)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DatasetResponse is the body of GET /api/dataset.
type DatasetResponse struct {
	*erv.Dataset
	ReferenceSSA float64 `json:"reference_ssa_mm2_mg"`
}

func (s *Server) handleDataset(w http.ResponseWriter, _ *http.Request) {
	ref, err := s.dataset.ReferenceSSA()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DatasetResponse{Dataset: s.dataset, ReferenceSSA: ref})
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	var shape geometry.Shape
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&shape); err != nil {
		s.writeError(w, errs.Newf(errs.CodeInvalidInput, "decoding shape JSON: %v", err))
		return
	}

	g, err := shape.Build(s.dataset.DensityGCM3)
	if err != nil {
		s.writeError(w, err)
		return
	}
	figures, err := geometry.Measure(g)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, figures)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	a, ok := s.decodeAssessment(w, r)
	if !ok {
		return
	}
	_, report, err := evaluation.Evaluate(a, s.dataset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ClassifyResponse is the body of POST /api/classify.
type ClassifyResponse struct {
	Result     *evaluation.Result `json:"result"`
	Validation *validation.Report `json:"validation"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	a, ok := s.decodeAssessment(w, r)
	if !ok {
		return
	}
	result, report, err := evaluation.Evaluate(a, s.dataset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !report.Valid {
		s.metrics.IncrementError(string(errs.CodeInvalidInput))
		writeJSON(w, http.StatusUnprocessableEntity, ClassifyResponse{Validation: report})
		return
	}

	for regime, verdict := range result.Verdicts() {
		s.metrics.IncrementVerdict(string(regime), string(verdict))
	}
	s.logger.Debug("assessment classified",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("name", result.Name),
		zap.Float64("ssa_mm2_mg", result.Object.SSA),
		zap.Any("verdicts", result.Verdicts()))
	writeJSON(w, http.StatusOK, ClassifyResponse{Result: result, Validation: report})
}

func (s *Server) decodeAssessment(w http.ResponseWriter, r *http.Request) (*assessment.Assessment, bool) {
	a, err := assessment.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errs.New(errs.CodeInvalidInput, err.Error()))
		return nil, false
	}
	return a, true
}

// writeError maps coded errors to HTTP statuses. Uncoded errors are internal
// and their message is not exposed.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errs.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case errs.CodeInvalidInput:
		status = http.StatusBadRequest
	case errs.CodeDivisionByZero:
		status = http.StatusUnprocessableEntity
	}

	body := map[string]string{"error": string(code)}
	if code == "" {
		body["error"] = "internal_error"
		s.logger.Error("request failed", zap.Error(err))
	} else {
		body["error_description"] = err.Error()
	}
	s.metrics.IncrementError(body["error"])
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// observe logs each request and records its latency by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(route, strconv.Itoa(status), elapsed)
		s.logger.Info("request",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed))
	})
}
