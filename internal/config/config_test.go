package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Feeds.Timeout() != 120*time.Second {
		t.Fatalf("expected 120s feed timeout, got %v", cfg.Feeds.Timeout())
	}
	if cfg.Risk.ThresholdMeters != 1852 {
		t.Fatalf("expected nautical-mile threshold, got %f", cfg.Risk.ThresholdMeters)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected info level, got %q", cfg.Logging.Level)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orcaguard.yaml")
	body := `
server:
  addr: ":9090"
feeds:
  biologist_url: "http://biologist.internal/get_sightings"
  vessel_url: "http://vessels.internal/get_vessel_tracks"
  timeout_seconds: 10
  retry_count: 3
summarizer:
  url: "http://llm.internal/generate_summary"
  timeout_seconds: 5
risk:
  threshold_meters: 900
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.Server.Addr)
	}
	if cfg.Feeds.RetryCount != 3 {
		t.Fatalf("expected retry count 3, got %d", cfg.Feeds.RetryCount)
	}
	if cfg.Feeds.Timeout() != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.Feeds.Timeout())
	}
	if cfg.Risk.ThresholdMeters != 900 {
		t.Fatalf("expected 900m threshold, got %f", cfg.Risk.ThresholdMeters)
	}
	// Untouched sections keep their defaults.
	if cfg.Audit.QueueSize != 1000 {
		t.Fatalf("expected default audit queue size, got %d", cfg.Audit.QueueSize)
	}
}

func TestLoadEnvOverridesWinOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orcaguard.yaml")
	body := `
feeds:
  biologist_url: "http://from-yaml/get_sightings"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("BIOLOGIST_AGENT_URL", "http://from-env/get_sightings")
	t.Setenv("VESSEL_AGENT_URL", "http://from-env/get_vessel_tracks")
	t.Setenv("LLM_PROXY_URL", "http://from-env/generate_summary")
	t.Setenv("PORT", "9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Feeds.BiologistURL != "http://from-env/get_sightings" {
		t.Fatalf("env override lost: %q", cfg.Feeds.BiologistURL)
	}
	if cfg.Feeds.VesselURL != "http://from-env/get_vessel_tracks" {
		t.Fatalf("env override lost: %q", cfg.Feeds.VesselURL)
	}
	if cfg.Summarizer.URL != "http://from-env/generate_summary" {
		t.Fatalf("env override lost: %q", cfg.Summarizer.URL)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("PORT override lost: %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orcaguard.yaml")
	if err := os.WriteFile(path, []byte("server: [not: a: mapping"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
