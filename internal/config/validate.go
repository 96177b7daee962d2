package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded config for required fields and safe values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return errors.New("server.addr must be set")
	}

	if err := validateEndpoint("feeds.biologist_url", cfg.Feeds.BiologistURL); err != nil {
		return err
	}
	if err := validateEndpoint("feeds.vessel_url", cfg.Feeds.VesselURL); err != nil {
		return err
	}
	if err := validateEndpoint("summarizer.url", cfg.Summarizer.URL); err != nil {
		return err
	}

	if cfg.Feeds.RetryCount < 0 {
		return errors.New("feeds.retry_count must not be negative")
	}
	if cfg.Risk.ThresholdMeters <= 0 {
		return errors.New("risk.threshold_meters must be positive")
	}

	if cfg.Audit.WebhookURL != "" {
		if err := validateEndpoint("audit.webhook_url", cfg.Audit.WebhookURL); err != nil {
			return err
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level)
	}

	return nil
}

func validateEndpoint(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s must be set", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host", field)
	}
	return nil
}
