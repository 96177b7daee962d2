// Package audit emits one record per risk assessment to optional sinks
// (JSONL file, webhook). Delivery is asynchronous and best-effort: the
// assessment request path enqueues and moves on, and a full queue drops
// rather than blocks. Assessments themselves are never persisted by the
// service; the audit trail is the only durable trace of them.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventVersion is bumped when the audit record shape changes.
const EventVersion = "1"

// Outcome is how an assessment ended from the regulator's perspective.
type Outcome string

const (
	// OutcomeCompleted: data fetched, analysis run, summary generated.
	OutcomeCompleted Outcome = "completed"
	// OutcomeUpstreamFailed: a data feed failed, the request was aborted.
	OutcomeUpstreamFailed Outcome = "upstream_failed"
	// OutcomeSummaryDegraded: analysis succeeded but the generative summary
	// fell back to the Unknown-risk form.
	OutcomeSummaryDegraded Outcome = "summary_degraded"
)

// Timing captures per-phase wall-clock costs in milliseconds.
type Timing struct {
	FetchMs   float64 `json:"fetch_ms"`
	SummaryMs float64 `json:"summary_ms"`
	TotalMs   float64 `json:"total_ms"`
}

// Event is the canonical audit record for one assessment.
type Event struct {
	Version         string    `json:"version"`
	Timestamp       time.Time `json:"timestamp"`
	RequestID       string    `json:"request_id"`
	Zone            string    `json:"zone"`
	Outcome         Outcome   `json:"outcome"`
	RiskEventsFound int       `json:"risk_events_found"`
	RiskLevel       string    `json:"risk_level,omitempty"`
	UpstreamError   string    `json:"upstream_error,omitempty"`
	Timing          Timing    `json:"timing"`
}

// BuildParams collects the inputs for one audit record.
type BuildParams struct {
	RequestID       string
	Zone            string
	Outcome         Outcome
	RiskEventsFound int
	RiskLevel       string
	UpstreamError   error
	Timing          Timing
}

// BuildEvent assembles a canonical event, stamping time and generating a
// request id when the caller has none.
func BuildEvent(params BuildParams) *Event {
	ev := &Event{
		Version:         EventVersion,
		Timestamp:       time.Now().UTC(),
		RequestID:       params.RequestID,
		Zone:            params.Zone,
		Outcome:         params.Outcome,
		RiskEventsFound: params.RiskEventsFound,
		RiskLevel:       params.RiskLevel,
		Timing:          params.Timing,
	}
	if ev.RequestID == "" {
		ev.RequestID = uuid.NewString()
	}
	if params.UpstreamError != nil {
		ev.UpstreamError = params.UpstreamError.Error()
	}
	return ev
}
