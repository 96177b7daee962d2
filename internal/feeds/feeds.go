// Package feeds talks to the two upstream data agents: the biologist feed
// (whale sightings) and the vessel feed (AIS tracks). Both are plain
// POST-a-zone, get-a-dataset collaborators; all the regulator needs from this
// package is a typed payload or a typed failure.
package feeds

import (
	"context"
	"fmt"

	"github.com/orca-mesh/orcaguard/internal/risk"
)

// Feed names used in errors, logs and metrics.
const (
	FeedBiologist = "biologist"
	FeedVessel    = "vessel"
)

// FailureKind classifies how an upstream fetch failed.
type FailureKind string

const (
	// FailureUnavailable covers transport errors and timeouts: the agent
	// could not be reached at all.
	FailureUnavailable FailureKind = "unavailable"
	// FailureRejected means the agent answered with a non-success status.
	FailureRejected FailureKind = "rejected"
	// FailureBadPayload means the agent answered 2xx but the body failed
	// strict decoding or boundary validation.
	FailureBadPayload FailureKind = "bad_payload"
)

// UpstreamError is a fetch failure from one of the data agents. Upstream
// failures are fatal to an assessment: a risk report built on partial data
// would be misleading, so the caller surfaces these instead of defaulting.
type UpstreamError struct {
	Feed   string
	Kind   FailureKind
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s feed %s (status %d): %v", e.Feed, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s feed %s: %v", e.Feed, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// SightingReport is the biologist agent's full reply for one zone.
type SightingReport struct {
	Source         string          `json:"source"`
	Zone           string          `json:"zone"`
	DurationSec    float64         `json:"duration_sec,omitempty"`
	SightingsCount int             `json:"sightings_count"`
	Sightings      []risk.Sighting `json:"sightings"`
}

// VesselReport is the vessel agent's full reply for one zone.
type VesselReport struct {
	Source      string             `json:"source"`
	Zone        string             `json:"zone"`
	VesselCount int                `json:"vessel_count"`
	Vessels     []risk.VesselTrack `json:"vessels"`
}

// SightingFeed fetches whale sightings for a zone.
type SightingFeed interface {
	GetSightings(ctx context.Context, zone string) (*SightingReport, error)
}

// VesselFeed fetches vessel tracks for a zone.
type VesselFeed interface {
	GetVesselTracks(ctx context.Context, zone string) (*VesselReport, error)
}
