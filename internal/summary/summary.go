// Package summary turns a list of proximity-risk events into a narrative
// assessment by delegating to the generative summary proxy. The delegate
// never fails: an empty event list takes a fixed no-risk fast path with no
// outbound call, and any proxy failure degrades to an Unknown-risk summary
// so the endpoint stays available even when the generative layer is down.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/orca-mesh/orcaguard/internal/risk"
)

// RiskLevel classifies the overall severity of an assessment.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
	// RiskUnknown marks a degraded summary: the generative step failed and
	// the raw risk events should be consulted instead.
	RiskUnknown RiskLevel = "Unknown"
)

// Summary is the narrative part of an assessment.
type Summary struct {
	Text              string    `json:"summary"`
	RiskLevel         RiskLevel `json:"risk_level"`
	RecommendedAction string    `json:"recommended_action"`
}

// Generator produces a structured summary from a natural-language prompt.
// The HTTP proxy client is the production implementation.
type Generator interface {
	GenerateSummary(ctx context.Context, prompt string) (*Summary, error)
}

const defaultGenerateTimeout = 60 * time.Second

// Delegate wraps a Generator with the fallback contract described above.
type Delegate struct {
	gen     Generator
	timeout time.Duration
}

// NewDelegate builds a delegate around gen. A non-positive timeout falls
// back to 60s.
func NewDelegate(gen Generator, timeout time.Duration) *Delegate {
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &Delegate{gen: gen, timeout: timeout}
}

// Summarize produces a Summary for the given events. It always returns a
// usable value; failures of the generative collaborator are absorbed here.
func (d *Delegate) Summarize(ctx context.Context, events []risk.Event, zone string) Summary {
	if len(events) == 0 {
		return noRiskSummary()
	}

	prompt, err := buildPrompt(events, zone)
	if err != nil {
		log.Warn().Err(err).Str("zone", zone).Msg("summary prompt construction failed")
		return degradedSummary(err)
	}

	genCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	s, err := d.gen.GenerateSummary(genCtx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("zone", zone).Msg("generative summary failed, returning degraded summary")
		return degradedSummary(err)
	}

	return *s
}

func noRiskSummary() Summary {
	return Summary{
		Text:              "No high-risk proximity events were detected.",
		RiskLevel:         RiskLow,
		RecommendedAction: "No action required. Continue monitoring.",
	}
}

func degradedSummary(cause error) Summary {
	return Summary{
		Text:              "AI summary generation failed. See raw data.",
		RiskLevel:         RiskUnknown,
		RecommendedAction: fmt.Sprintf("Investigate summarizer error: %v", cause),
	}
}

// buildPrompt embeds the zone and the full risk-event list into the analyst
// prompt expected by the summary proxy.
func buildPrompt(events []risk.Event, zone string) (string, error) {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode risk events: %w", err)
	}

	prompt := fmt.Sprintf(`You are an expert risk assessment analyst for the Oregon Department of Fish and Wildlife (ODFW).
Your task is to analyze a list of close-proximity events between vessels and endangered Southern Resident Killer Whales (SRKWs) in the '%s' zone.

Here is the structured data of the risk events:
%s

Based on this data, provide a JSON object with three keys:
1. "summary": A concise, human-readable paragraph describing the findings. Mention the number of incidents and highlight the vessel class most involved (e.g., "Recreational").
2. "risk_level": Classify the overall risk as "Low", "Moderate", "High", or "Critical".
3. "recommended_action": Suggest a concrete next step for ODFW. For recreational vessels, suggest educational outreach. For commercial vessels, suggest direct contact.`, zone, data)

	return prompt, nil
}
