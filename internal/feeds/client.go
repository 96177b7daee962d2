package feeds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultRetryWait = 2 * time.Second
	maxErrorSnippet  = 256
)

// ClientConfig carries the endpoints and transport knobs for the feed client.
// Retries are a transport concern and live entirely here; the orchestrator
// above never retries.
type ClientConfig struct {
	BiologistURL string
	VesselURL    string
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
}

// Client reaches both data agents over a single shared resty client with a
// bounded overall timeout. Safe for concurrent use; holds no per-request state.
type Client struct {
	rc           *resty.Client
	biologistURL string
	vesselURL    string
}

// NewClient builds a feed client. Zero-value knobs fall back to a 120s
// timeout, no retries, and a 2s retry wait.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = defaultRetryWait
	}

	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(retryWait)

	return &Client{
		rc:           rc,
		biologistURL: cfg.BiologistURL,
		vesselURL:    cfg.VesselURL,
	}
}

type zoneRequest struct {
	Zone string `json:"zone"`
}

// GetSightings fetches the whale sightings for a zone from the biologist agent.
func (c *Client) GetSightings(ctx context.Context, zone string) (*SightingReport, error) {
	var report SightingReport
	if err := c.fetch(ctx, FeedBiologist, c.biologistURL, zone, &report); err != nil {
		return nil, err
	}

	for i, s := range report.Sightings {
		if strings.TrimSpace(s.ID) == "" {
			return nil, badPayload(FeedBiologist, fmt.Errorf("sighting %d has no id", i))
		}
		if !s.Point.Valid() {
			return nil, badPayload(FeedBiologist, fmt.Errorf("sighting %q has out-of-range position (%f, %f)", s.ID, s.Lat, s.Lon))
		}
	}

	return &report, nil
}

// GetVesselTracks fetches the AIS tracks for a zone from the vessel agent.
func (c *Client) GetVesselTracks(ctx context.Context, zone string) (*VesselReport, error) {
	var report VesselReport
	if err := c.fetch(ctx, FeedVessel, c.vesselURL, zone, &report); err != nil {
		return nil, err
	}

	for i, v := range report.Vessels {
		if strings.TrimSpace(v.ID) == "" {
			return nil, badPayload(FeedVessel, fmt.Errorf("vessel %d has no id", i))
		}
		if !v.Point.Valid() {
			return nil, badPayload(FeedVessel, fmt.Errorf("vessel %q has out-of-range position (%f, %f)", v.ID, v.Lat, v.Lon))
		}
	}

	return &report, nil
}

func (c *Client) fetch(ctx context.Context, feed, url, zone string, out any) error {
	if strings.TrimSpace(url) == "" {
		return &UpstreamError{Feed: feed, Kind: FailureUnavailable, Err: fmt.Errorf("feed URL is not configured")}
	}

	start := time.Now()
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(zoneRequest{Zone: zone}).
		Post(url)
	if err != nil {
		return &UpstreamError{Feed: feed, Kind: FailureUnavailable, Err: err}
	}

	log.Debug().
		Str("feed", feed).
		Str("zone", zone).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("feed fetch complete")

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return &UpstreamError{
			Feed:   feed,
			Kind:   FailureRejected,
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("upstream error body: %s", snippet(resp.Body())),
		}
	}

	if err := decodeStrict(resp.Body(), out); err != nil {
		return badPayload(feed, err)
	}

	return nil
}

// decodeStrict rejects unknown fields so that shape drift in an agent's
// payload fails loudly at the boundary instead of silently zeroing fields.
func decodeStrict(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func badPayload(feed string, err error) *UpstreamError {
	return &UpstreamError{Feed: feed, Kind: FailureBadPayload, Err: err}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	return s
}
