package mockfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/orca-mesh/orcaguard/internal/feeds"
	"github.com/orca-mesh/orcaguard/internal/summary"
)

func TestBiologistAgentServesV1Dataset(t *testing.T) {
	t.Setenv("MOCK_DELAY_MS", "0")

	shutdown, baseURL, err := StartBiologistAgent("127.0.0.1:0", "v1")
	if err != nil {
		t.Skipf("start biologist agent: %v", err)
	}
	defer shutdown(context.Background())

	resp, err := http.Post(baseURL+"/get_sightings", "application/json", bytes.NewReader([]byte(`{"zone":"haro-strait"}`)))
	if err != nil {
		t.Fatalf("post biologist agent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var report feeds.SightingReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Source != SightingSourceV1 {
		t.Fatalf("expected v1 source, got %q", report.Source)
	}
	if report.Zone != "haro-strait" {
		t.Fatalf("expected zone echoed back, got %q", report.Zone)
	}
	if len(report.Sightings) != 2 || report.SightingsCount != 2 {
		t.Fatalf("expected 2 sightings, got %d (count %d)", len(report.Sightings), report.SightingsCount)
	}
	if report.Sightings[0].Kind != "SRKW" {
		t.Fatalf("expected SRKW sightings, got %q", report.Sightings[0].Kind)
	}
}

func TestBiologistAgentV2DatasetAndMissingZone(t *testing.T) {
	shutdown, baseURL, err := StartBiologistAgent("127.0.0.1:0", "v2")
	if err != nil {
		t.Skipf("start biologist agent: %v", err)
	}
	defer shutdown(context.Background())

	resp, err := http.Post(baseURL+"/get_sightings", "application/json", bytes.NewReader([]byte(`{"zone":"z"}`)))
	if err != nil {
		t.Fatalf("post biologist agent: %v", err)
	}
	defer resp.Body.Close()

	var report feeds.SightingReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Source != SightingSourceV2 || len(report.Sightings) != 3 {
		t.Fatalf("unexpected v2 report: %+v", report)
	}

	// Missing zone is rejected by the biologist agent.
	resp2, err := http.Post(baseURL+"/get_sightings", "application/json", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("post biologist agent: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing zone, got %d", resp2.StatusCode)
	}
}

func TestVesselAgentServesFleet(t *testing.T) {
	shutdown, baseURL, err := StartVesselAgent("127.0.0.1:0")
	if err != nil {
		t.Skipf("start vessel agent: %v", err)
	}
	defer shutdown(context.Background())

	resp, err := http.Post(baseURL+"/get_vessel_tracks", "application/json", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("post vessel agent: %v", err)
	}
	defer resp.Body.Close()

	var report feeds.VesselReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Zone != "unknown" {
		t.Fatalf("expected unknown zone default, got %q", report.Zone)
	}
	if len(report.Vessels) != 4 || report.VesselCount != 4 {
		t.Fatalf("expected 4 vessels, got %d", len(report.Vessels))
	}
}

func TestSummaryProxyHeuristics(t *testing.T) {
	shutdown, baseURL, err := StartSummaryProxy("127.0.0.1:0")
	if err != nil {
		t.Skipf("start summary proxy: %v", err)
	}
	defer shutdown(context.Background())

	prompt := `events: {"vessel_id": "vessel-B", "vessel_class": "Recreational"} {"vessel_id": "vessel-A"}`
	body, _ := json.Marshal(map[string]string{"prompt": prompt})

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Post(baseURL+"/generate_summary", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post summary proxy: %v", err)
	}
	defer resp.Body.Close()

	var s summary.Summary
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if s.RiskLevel != summary.RiskModerate {
		t.Fatalf("expected Moderate for 2 incidents, got %q", s.RiskLevel)
	}
	if s.RecommendedAction == "" || s.Text == "" {
		t.Fatalf("expected populated summary, got %+v", s)
	}
}

func TestHeuristicSummaryLevels(t *testing.T) {
	cases := []struct {
		incidents int
		want      summary.RiskLevel
	}{
		{0, summary.RiskLow},
		{1, summary.RiskModerate},
		{3, summary.RiskHigh},
		{6, summary.RiskCritical},
	}

	for _, tc := range cases {
		prompt := ""
		for i := 0; i < tc.incidents; i++ {
			prompt += `{"vessel_id": "v"} `
		}
		if got := heuristicSummary(prompt).RiskLevel; got != tc.want {
			t.Errorf("%d incidents: got %q, want %q", tc.incidents, got, tc.want)
		}
	}
}
