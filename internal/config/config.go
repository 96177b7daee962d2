// Package config loads the regulator configuration: YAML file first,
// defaults applied on top, then environment overrides using the variable
// names the deployment has always used (BIOLOGIST_AGENT_URL,
// VESSEL_AGENT_URL, LLM_PROXY_URL, PORT).
package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds OrcaGuard configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Feeds      FeedsConfig      `yaml:"feeds"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Risk       RiskConfig       `yaml:"risk"`
	Audit      AuditConfig      `yaml:"audit"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Addr                     string `yaml:"addr"` // HTTP listen address, e.g. ":8080"
	ReadHeaderTimeoutSeconds int    `yaml:"read_header_timeout_seconds"`
}

type FeedsConfig struct {
	BiologistURL     string `yaml:"biologist_url"` // whale sighting agent endpoint
	VesselURL        string `yaml:"vessel_url"`    // AIS track agent endpoint
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	RetryCount       int    `yaml:"retry_count"`
	RetryWaitSeconds int    `yaml:"retry_wait_seconds"`
}

type SummarizerConfig struct {
	URL            string `yaml:"url"` // generative summary proxy endpoint
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxReplyBytes  int64  `yaml:"max_reply_bytes"`
}

type RiskConfig struct {
	ThresholdMeters float64 `yaml:"threshold_meters"`
}

type AuditConfig struct {
	FilePath              string `yaml:"file_path"`   // JSONL sink, empty disables
	WebhookURL            string `yaml:"webhook_url"` // webhook sink, empty disables
	WebhookTimeoutSeconds int    `yaml:"webhook_timeout_seconds"`
	QueueSize             int    `yaml:"queue_size"`
	Workers               int    `yaml:"workers"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

func (s ServerConfig) ReadHeaderTimeout() time.Duration {
	return time.Duration(s.ReadHeaderTimeoutSeconds) * time.Second
}

func (f FeedsConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

func (f FeedsConfig) RetryWait() time.Duration {
	return time.Duration(f.RetryWaitSeconds) * time.Second
}

func (s SummarizerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (a AuditConfig) WebhookTimeout() time.Duration {
	return time.Duration(a.WebhookTimeoutSeconds) * time.Second
}

// Load reads configuration from a YAML file and applies environment
// overrides. If the file doesn't exist, it returns a default config and
// no error.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                     ":8080",
			ReadHeaderTimeoutSeconds: 5,
		},
		Feeds: FeedsConfig{
			BiologistURL:     "http://127.0.0.1:8081/get_sightings",
			VesselURL:        "http://127.0.0.1:8082/get_vessel_tracks",
			TimeoutSeconds:   120,
			RetryCount:       0,
			RetryWaitSeconds: 2,
		},
		Summarizer: SummarizerConfig{
			URL:            "http://127.0.0.1:8083/generate_summary",
			TimeoutSeconds: 60,
			MaxReplyBytes:  1 << 20,
		},
		Risk: RiskConfig{
			ThresholdMeters: 1852,
		},
		Audit: AuditConfig{
			WebhookTimeoutSeconds: 2,
			QueueSize:             1000,
			Workers:               1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadHeaderTimeoutSeconds <= 0 {
		cfg.Server.ReadHeaderTimeoutSeconds = 5
	}
	if cfg.Feeds.TimeoutSeconds <= 0 {
		cfg.Feeds.TimeoutSeconds = 120
	}
	if cfg.Feeds.RetryWaitSeconds <= 0 {
		cfg.Feeds.RetryWaitSeconds = 2
	}
	if cfg.Summarizer.TimeoutSeconds <= 0 {
		cfg.Summarizer.TimeoutSeconds = 60
	}
	if cfg.Summarizer.MaxReplyBytes <= 0 {
		cfg.Summarizer.MaxReplyBytes = 1 << 20
	}
	if cfg.Risk.ThresholdMeters <= 0 {
		cfg.Risk.ThresholdMeters = 1852
	}
	if cfg.Audit.WebhookTimeoutSeconds <= 0 {
		cfg.Audit.WebhookTimeoutSeconds = 2
	}
	if cfg.Audit.QueueSize <= 0 {
		cfg.Audit.QueueSize = 1000
	}
	if cfg.Audit.Workers <= 0 {
		cfg.Audit.Workers = 1
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides keeps the original deployment's environment contract
// working: env always wins over the YAML file.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("BIOLOGIST_AGENT_URL")); v != "" {
		cfg.Feeds.BiologistURL = v
	}
	if v := strings.TrimSpace(os.Getenv("VESSEL_AGENT_URL")); v != "" {
		cfg.Feeds.VesselURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LLM_PROXY_URL")); v != "" {
		cfg.Summarizer.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Server.Addr = ":" + v
	}
}
