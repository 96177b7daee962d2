// Package server wires the regulator together: one assessment endpoint,
// health and metrics, and the orchestration of feeds, analysis, summary and
// audit behind it.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/orca-mesh/orcaguard/internal/audit"
	"github.com/orca-mesh/orcaguard/internal/config"
	"github.com/orca-mesh/orcaguard/internal/feeds"
	"github.com/orca-mesh/orcaguard/internal/metrics"
	"github.com/orca-mesh/orcaguard/internal/risk"
	"github.com/orca-mesh/orcaguard/internal/summary"
)

// Server holds the regulator's HTTP surface and its collaborators. All
// fields are set once at construction and read-only afterwards; per-request
// state lives entirely on the request path.
type Server struct {
	cfg      *config.Config
	router   chi.Router
	sighting feeds.SightingFeed
	vessel   feeds.VesselFeed
	analyzer *risk.Analyzer
	delegate *summary.Delegate
	auditor  *audit.Emitter // nil when no sink is configured
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

// New builds a fully wired server from config: shared feed client, summary
// proxy client with fallback delegate, analyzer, audit emitter (when a sink
// is configured) and a fresh metrics registry.
func New(cfg *config.Config) (*Server, error) {
	feedClient := feeds.NewClient(feeds.ClientConfig{
		BiologistURL: cfg.Feeds.BiologistURL,
		VesselURL:    cfg.Feeds.VesselURL,
		Timeout:      cfg.Feeds.Timeout(),
		RetryCount:   cfg.Feeds.RetryCount,
		RetryWait:    cfg.Feeds.RetryWait(),
	})

	proxy, err := summary.NewProxyClient(cfg.Summarizer.URL, cfg.Summarizer.Timeout(), cfg.Summarizer.MaxReplyBytes)
	if err != nil {
		return nil, fmt.Errorf("build summary proxy client: %w", err)
	}

	auditor, err := buildAuditor(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("build audit emitter: %w", err)
	}

	registry := prometheus.NewRegistry()

	s := &Server{
		cfg:      cfg,
		sighting: feedClient,
		vessel:   feedClient,
		analyzer: risk.NewAnalyzer(cfg.Risk.ThresholdMeters),
		delegate: summary.NewDelegate(proxy, cfg.Summarizer.Timeout()),
		auditor:  auditor,
		metrics:  metrics.New(registry),
		registry: registry,
	}
	s.router = s.buildRouter()

	return s, nil
}

func buildAuditor(cfg config.AuditConfig) (*audit.Emitter, error) {
	sinks := make([]audit.Sink, 0, 2)

	if cfg.FilePath != "" {
		sink, err := audit.NewFileSink(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.WebhookURL != "" {
		sink, err := audit.NewWebhookSink(cfg.WebhookURL, nil, cfg.WebhookTimeout())
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}

	if len(sinks) == 0 {
		return nil, nil
	}

	return audit.NewEmitter(audit.EmitterConfig{
		QueueSize: cfg.QueueSize,
		Workers:   cfg.Workers,
	}, sinks), nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/check_risk", s.handleCheckRisk)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// ServeHTTP makes the server usable directly as a handler in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs the HTTP server. It blocks until the listener fails.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout(),
	}

	log.Info().Str("addr", addr).Msg("OrcaGuard regulator listening")
	return srv.ListenAndServe()
}

// Close drains the audit emitter.
func (s *Server) Close(ctx context.Context) {
	if s.auditor != nil {
		s.auditor.Close(ctx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message    string `json:"message"`
	Type       string `json:"type"`
	Dependency string `json:"dependency,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, typ, dependency string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Error: errorDetail{
		Message:    message,
		Type:       typ,
		Dependency: dependency,
	}}); err != nil {
		log.Error().Err(err).Msg("failed to write error response")
	}
}
