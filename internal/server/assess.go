package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/orca-mesh/orcaguard/internal/audit"
	"github.com/orca-mesh/orcaguard/internal/feeds"
	"github.com/orca-mesh/orcaguard/internal/risk"
	"github.com/orca-mesh/orcaguard/internal/summary"
)

type checkRiskRequest struct {
	Zone string `json:"zone"`
}

type assessmentResponse struct {
	Zone      string          `json:"zone"`
	AISummary summary.Summary `json:"ai_summary"`
	Data      assessmentData  `json:"data"`
	RawData   rawData         `json:"raw_data"`
}

type assessmentData struct {
	RiskEventsFound int          `json:"risk_events_found"`
	RiskEvents      []risk.Event `json:"risk_events"`
}

type rawData struct {
	WhaleData  *feeds.SightingReport `json:"whale_data"`
	VesselData *feeds.VesselReport   `json:"vessel_data"`
}

type sightingResult struct {
	report *feeds.SightingReport
	err    error
}

type vesselResult struct {
	report *feeds.VesselReport
	err    error
}

// handleCheckRisk runs one full assessment: fan out to both data feeds,
// join, analyze proximity, delegate the narrative, assemble the report.
// A feed failure is fatal; a summary failure is not.
func (s *Server) handleCheckRisk(w http.ResponseWriter, r *http.Request) {
	var req checkRiskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request", "")
		return
	}
	zone := strings.TrimSpace(req.Zone)
	if zone == "" {
		writeError(w, http.StatusBadRequest, "zone is required", "invalid_request", "")
		return
	}

	requestID := uuid.NewString()
	ctx := r.Context()
	start := time.Now()

	log.Info().Str("request_id", requestID).Str("zone", zone).Msg("new risk assessment")

	// Fan out to both data agents. The buffered channels let each fetch
	// finish independently; the join below always reads both outcomes, so
	// neither error can be silently discarded.
	sightingCh := make(chan sightingResult, 1)
	vesselCh := make(chan vesselResult, 1)

	go func() {
		report, err := s.sighting.GetSightings(ctx, zone)
		sightingCh <- sightingResult{report: report, err: err}
	}()
	go func() {
		report, err := s.vessel.GetVesselTracks(ctx, zone)
		vesselCh <- vesselResult{report: report, err: err}
	}()

	sightings := <-sightingCh
	vessels := <-vesselCh
	fetchElapsed := time.Since(start)

	if err := firstError(sightings.err, vessels.err); err != nil {
		s.failAssessment(w, requestID, zone, err, fetchElapsed, start)
		return
	}

	log.Info().
		Str("request_id", requestID).
		Str("sighting_source", sightings.report.Source).
		Int("sightings", len(sightings.report.Sightings)).
		Int("vessels", len(vessels.report.Vessels)).
		Msg("feed data received")

	events := s.analyzer.Analyze(sightings.report.Sightings, vessels.report.Vessels)

	summaryStart := time.Now()
	aiSummary := s.delegate.Summarize(ctx, events, zone)
	summaryElapsed := time.Since(summaryStart)

	outcome := audit.OutcomeCompleted
	if aiSummary.RiskLevel == summary.RiskUnknown {
		outcome = audit.OutcomeSummaryDegraded
		s.metrics.SummaryFallbacksTotal.Inc()
	}

	total := time.Since(start)
	s.metrics.AssessmentsTotal.WithLabelValues(string(outcome)).Inc()
	s.metrics.AssessmentDuration.Observe(total.Seconds())

	s.emitAudit(audit.BuildParams{
		RequestID:       requestID,
		Zone:            zone,
		Outcome:         outcome,
		RiskEventsFound: len(events),
		RiskLevel:       string(aiSummary.RiskLevel),
		Timing: audit.Timing{
			FetchMs:   durationMillis(fetchElapsed),
			SummaryMs: durationMillis(summaryElapsed),
			TotalMs:   durationMillis(total),
		},
	})

	log.Info().
		Str("request_id", requestID).
		Str("zone", zone).
		Int("risk_events", len(events)).
		Str("risk_level", string(aiSummary.RiskLevel)).
		Dur("elapsed", total).
		Msg("assessment complete")

	resp := assessmentResponse{
		Zone:      zone,
		AISummary: aiSummary,
		Data: assessmentData{
			RiskEventsFound: len(events),
			RiskEvents:      events,
		},
		RawData: rawData{
			WhaleData:  sightings.report,
			VesselData: vessels.report,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("failed to write assessment response")
	}
}

// firstError picks the error to surface when either feed failed. The
// sighting feed wins ties so the reported dependency is deterministic.
func firstError(sightingErr, vesselErr error) error {
	if sightingErr != nil {
		return sightingErr
	}
	return vesselErr
}

func (s *Server) failAssessment(w http.ResponseWriter, requestID, zone string, err error, fetchElapsed time.Duration, start time.Time) {
	status, typ, dependency := mapUpstreamError(err)

	log.Error().
		Err(err).
		Str("request_id", requestID).
		Str("zone", zone).
		Str("dependency", dependency).
		Msg("assessment aborted: data feed failed")

	var ue *feeds.UpstreamError
	if errors.As(err, &ue) {
		s.metrics.UpstreamFailuresTotal.WithLabelValues(ue.Feed, string(ue.Kind)).Inc()
	}
	s.metrics.AssessmentsTotal.WithLabelValues(string(audit.OutcomeUpstreamFailed)).Inc()

	s.emitAudit(audit.BuildParams{
		RequestID:     requestID,
		Zone:          zone,
		Outcome:       audit.OutcomeUpstreamFailed,
		UpstreamError: err,
		Timing: audit.Timing{
			FetchMs: durationMillis(fetchElapsed),
			TotalMs: durationMillis(time.Since(start)),
		},
	})

	writeError(w, status, err.Error(), typ, dependency)
}

// mapUpstreamError translates feed failures into gateway-type statuses:
// 504 when the agent was unreachable, 503 when it answered with an error,
// 502 when it answered nonsense.
func mapUpstreamError(err error) (status int, typ, dependency string) {
	var ue *feeds.UpstreamError
	if !errors.As(err, &ue) {
		return http.StatusBadGateway, "upstream_error", ""
	}

	switch ue.Kind {
	case feeds.FailureUnavailable:
		return http.StatusGatewayTimeout, "upstream_unavailable", ue.Feed
	case feeds.FailureRejected:
		return http.StatusServiceUnavailable, "upstream_rejected", ue.Feed
	case feeds.FailureBadPayload:
		return http.StatusBadGateway, "upstream_bad_payload", ue.Feed
	default:
		return http.StatusBadGateway, "upstream_error", ue.Feed
	}
}

func (s *Server) emitAudit(params audit.BuildParams) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(context.Background(), audit.BuildEvent(params))
}

func durationMillis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
