// Package mockfeed hosts lightweight stand-ins for the regulator's three
// collaborators: the biologist sighting agent, the vessel AIS agent, and the
// generative summary proxy. They serve the fixture datasets the mesh has
// always shipped for local development, and they are what the end-to-end
// tests run against.
package mockfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/orca-mesh/orcaguard/internal/feeds"
	"github.com/orca-mesh/orcaguard/internal/geo"
	"github.com/orca-mesh/orcaguard/internal/risk"
	"github.com/orca-mesh/orcaguard/internal/summary"
)

// Dataset versions for the biologist agent.
const (
	SightingSourceV1 = "v1 (Human Sightings)"
	SightingSourceV2 = "v2 (Acoustic Sensor Feed)"
)

func sightingsV1() []risk.Sighting {
	return []risk.Sighting{
		{ID: "human-1", Kind: "SRKW", Point: geo.Point{Lat: 45.52, Lon: -123.99}},
		{ID: "human-2", Kind: "SRKW", Point: geo.Point{Lat: 45.55, Lon: -123.98}},
	}
}

func sightingsV2() []risk.Sighting {
	return []risk.Sighting{
		{ID: "sensor-1", Kind: "SRKW", Point: geo.Point{Lat: 45.53, Lon: -123.98}},
		{ID: "sensor-2", Kind: "SRKW", Point: geo.Point{Lat: 45.54, Lon: -123.97}},
		{ID: "sensor-3", Kind: "SRKW", Point: geo.Point{Lat: 45.55, Lon: -124.00}},
	}
}

func vesselFleet() []risk.VesselTrack {
	return []risk.VesselTrack{
		{ID: "vessel-A", Class: "Ferry", Point: geo.Point{Lat: 45.53, Lon: -123.985}},
		{ID: "vessel-B", Class: "Recreational", Point: geo.Point{Lat: 45.52, Lon: -123.991}},
		{ID: "vessel-C", Class: "Cargo", Point: geo.Point{Lat: 45.56, Lon: -124.01}},
		{ID: "vessel-D", Class: "Recreational", Point: geo.Point{Lat: 45.54, Lon: -123.975}},
	}
}

type zoneRequest struct {
	Zone string `json:"zone"`
}

// StartBiologistAgent launches the mock sighting agent. version selects the
// dataset ("v1" or "v2"); empty falls back to DATA_SOURCE_VERSION, then v1.
// It returns a shutdown function and the base URL.
func StartBiologistAgent(addr, version string) (func(context.Context) error, string, error) {
	if strings.TrimSpace(version) == "" {
		version = strings.TrimSpace(os.Getenv("DATA_SOURCE_VERSION"))
	}
	if version == "" {
		version = "v1"
	}

	delay := mockDelay()

	mux := http.NewServeMux()
	mux.HandleFunc("/get_sightings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeNotFoundJSON(w)
			return
		}

		start := time.Now()

		var req zoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Zone) == "" {
			writeDetailJSON(w, http.StatusUnprocessableEntity, "zone is required")
			return
		}

		log.Debug().Str("zone", req.Zone).Str("version", version).Msg("biologist agent serving sightings")

		var sightings []risk.Sighting
		var source string
		if version == "v2" {
			sightings = sightingsV2()
			source = SightingSourceV2
		} else {
			// Human-reported sightings arrive slowly; simulate that.
			time.Sleep(delay)
			sightings = sightingsV1()
			source = SightingSourceV1
		}

		writeJSON(w, feeds.SightingReport{
			Source:         source,
			Zone:           req.Zone,
			DurationSec:    time.Since(start).Seconds(),
			SightingsCount: len(sightings),
			Sightings:      sightings,
		})
	})

	return startServer(addr, "biologist agent", mux)
}

// StartVesselAgent launches the mock AIS agent. It returns a shutdown
// function and the base URL.
func StartVesselAgent(addr string) (func(context.Context) error, string, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/get_vessel_tracks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeNotFoundJSON(w)
			return
		}

		var req zoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Zone) == "" {
			// The AIS feed has always tolerated a missing zone.
			req.Zone = "unknown"
		}

		vessels := vesselFleet()
		writeJSON(w, feeds.VesselReport{
			Source:      "Mocked AIS Feed",
			Zone:        req.Zone,
			VesselCount: len(vessels),
			Vessels:     vessels,
		})
	})

	return startServer(addr, "vessel agent", mux)
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// StartSummaryProxy launches a deterministic stand-in for the generative
// proxy: it derives a risk level from the number of incidents in the prompt
// instead of calling a model. It returns a shutdown function and the base URL.
func StartSummaryProxy(addr string) (func(context.Context) error, string, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate_summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeNotFoundJSON(w)
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
			writeDetailJSON(w, http.StatusUnprocessableEntity, "prompt is required")
			return
		}

		writeJSON(w, heuristicSummary(req.Prompt))
	})

	return startServer(addr, "summary proxy", mux)
}

// heuristicSummary counts the risk events embedded in the prompt and maps
// the count onto the risk-level enum.
func heuristicSummary(prompt string) summary.Summary {
	incidents := strings.Count(prompt, `"vessel_id"`)

	level := summary.RiskLow
	switch {
	case incidents >= 6:
		level = summary.RiskCritical
	case incidents >= 3:
		level = summary.RiskHigh
	case incidents >= 1:
		level = summary.RiskModerate
	}

	action := "No action required. Continue monitoring."
	if incidents > 0 {
		if strings.Contains(prompt, "Recreational") {
			action = "Plan educational outreach targeting recreational boaters in the zone."
		} else {
			action = "Contact the involved commercial operators directly."
		}
	}

	return summary.Summary{
		Text:              fmt.Sprintf("Mock assessment: %d close-proximity incident(s) identified in the requested zone.", incidents),
		RiskLevel:         level,
		RecommendedAction: action,
	}
}

func mockDelay() time.Duration {
	delay := 50 * time.Millisecond
	if val := strings.TrimSpace(os.Getenv("MOCK_DELAY_MS")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			delay = time.Duration(parsed) * time.Millisecond
		}
	}
	return delay
}

func startServer(addr, name string, handler http.Handler) (func(context.Context) error, string, error) {
	if strings.TrimSpace(addr) == "" {
		addr = "127.0.0.1:0"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("agent", name).Msg("mock agent server error")
		}
	}()

	baseURL := "http://" + ln.Addr().String()
	log.Info().Str("agent", name).Str("url", baseURL).Msg("mock agent listening")
	return srv.Shutdown, baseURL, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write mock response")
	}
}

func writeDetailJSON(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func writeNotFoundJSON(w http.ResponseWriter) {
	writeDetailJSON(w, http.StatusNotFound, "Not found")
}
