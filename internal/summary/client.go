package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// replySchema is what the summary proxy must return. Missing keys, extra
// keys, or a risk level outside the enum count as a summarization failure
// and are handled by the delegate's fallback.
const replySchema = `{
	"type": "object",
	"required": ["summary", "risk_level", "recommended_action"],
	"properties": {
		"summary": {"type": "string", "minLength": 1},
		"risk_level": {"enum": ["Low", "Moderate", "High", "Critical"]},
		"recommended_action": {"type": "string", "minLength": 1}
	},
	"additionalProperties": false
}`

const defaultMaxReplyBytes = 1 << 20

// ProxyClient calls the generative summary proxy over HTTP.
type ProxyClient struct {
	url           string
	client        *http.Client
	schema        *gojsonschema.Schema
	maxReplyBytes int64
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// NewProxyClient builds a client for the summary proxy at url. A non-positive
// timeout falls back to 60s; a non-positive reply limit falls back to 1 MiB.
func NewProxyClient(url string, timeout time.Duration, maxReplyBytes int64) (*ProxyClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("summary proxy URL is empty")
	}
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	if maxReplyBytes <= 0 {
		maxReplyBytes = defaultMaxReplyBytes
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(replySchema))
	if err != nil {
		return nil, fmt.Errorf("compile reply schema: %w", err)
	}

	return &ProxyClient{
		url:           url,
		schema:        schema,
		maxReplyBytes: maxReplyBytes,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// GenerateSummary sends the prompt to the proxy and parses its structured
// reply. Any transport error, non-2xx status, oversized body, or reply that
// fails schema validation is returned as an error.
func (c *ProxyClient) GenerateSummary(ctx context.Context, prompt string) (*Summary, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create summary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call summary proxy: %w", err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, c.maxReplyBytes+1)
	reply, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read summary reply: %w", err)
	}
	if int64(len(reply)) > c.maxReplyBytes {
		return nil, fmt.Errorf("summary reply exceeded limit (%d bytes)", c.maxReplyBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("summary proxy status %d: %s", resp.StatusCode, truncate(string(reply), 200))
	}

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(reply))
	if err != nil {
		return nil, fmt.Errorf("validate summary reply: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("summary reply violates schema: %s", schemaErrors(result))
	}

	var s Summary
	if err := json.Unmarshal(reply, &s); err != nil {
		return nil, fmt.Errorf("decode summary reply: %w", err)
	}

	return &s, nil
}

func schemaErrors(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
