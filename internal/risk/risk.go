// Package risk implements the proximity-risk join between whale sightings
// and vessel tracks: every (sighting, vessel) pair inside the distance
// threshold produces one risk event.
package risk

import (
	"math"

	"github.com/orca-mesh/orcaguard/internal/geo"
)

// DefaultThresholdMeters is one nautical mile, the regulatory approach limit
// for Southern Resident Killer Whales.
const DefaultThresholdMeters = 1852.0

// Sighting is a single whale sighting reported by the biologist feed.
// Immutable once received.
type Sighting struct {
	ID   string `json:"id"`
	Kind string `json:"type"`
	geo.Point
}

// VesselTrack is a single vessel position from the AIS feed.
// Immutable once received.
type VesselTrack struct {
	ID    string `json:"id"`
	Class string `json:"class"`
	geo.Point
}

// Event records one vessel/sighting pair inside the threshold. Distance is
// rounded to the nearest whole meter. Pairs are never deduplicated or
// aggregated: a vessel near two sightings yields two independent events.
type Event struct {
	VesselID       string  `json:"vessel_id"`
	VesselClass    string  `json:"vessel_class"`
	SightingID     string  `json:"whale_sighting_id"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Analyzer computes risk events over the full cross product of its inputs.
// Feeds carry tens to low hundreds of entries per zone, so the O(n*m) join
// stays cheap and its output ordering stable.
type Analyzer struct {
	thresholdMeters float64
	distance        func(a, b geo.Point) float64
}

// NewAnalyzer returns an analyzer with the given threshold in meters.
// A non-positive threshold falls back to DefaultThresholdMeters.
func NewAnalyzer(thresholdMeters float64) *Analyzer {
	if thresholdMeters <= 0 {
		thresholdMeters = DefaultThresholdMeters
	}
	return &Analyzer{
		thresholdMeters: thresholdMeters,
		distance:        geo.Distance,
	}
}

// Analyze pairs every sighting with every vessel and keeps the pairs whose
// great-circle distance is within the threshold. Output ordering is stable:
// outer loop over sightings, inner loop over vessels. If either input is
// empty the join is skipped entirely and an empty slice is returned.
func (a *Analyzer) Analyze(sightings []Sighting, vessels []VesselTrack) []Event {
	events := make([]Event, 0)

	if len(sightings) == 0 || len(vessels) == 0 {
		return events
	}

	for _, s := range sightings {
		for _, v := range vessels {
			d := a.distance(s.Point, v.Point)
			if d > a.thresholdMeters {
				continue
			}
			events = append(events, Event{
				VesselID:       v.ID,
				VesselClass:    v.Class,
				SightingID:     s.ID,
				DistanceMeters: math.Round(d),
			})
		}
	}

	return events
}
