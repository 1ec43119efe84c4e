package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/platform/metrics"

	log "github.com/sirupsen/logrus"
)

const submissionsPath = "/submissions/?base64_encoded=false&wait=true"

// Request is the body Judge0 expects for a synchronous submission.
type Request struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Result is the subset of the Judge0 response the service inspects. Raw keeps
// the untouched body so callers can hand it back to clients verbatim.
type Result struct {
	Status        *Status         `json:"status,omitempty"`
	Stdout        *string         `json:"stdout,omitempty"`
	Stderr        *string         `json:"stderr,omitempty"`
	CompileOutput *string         `json:"compile_output,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

// Description returns the status description, or "" when the judge sent none.
func (r *Result) Description() string {
	if r == nil || r.Status == nil {
		return ""
	}
	return r.Status.Description
}

type Options struct {
	BaseURL string
	APIKey  string
	APIHost string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client calls a Judge0-compatible HTTP API. It never retries.
type Client struct {
	endpoint   string
	apiKey     string
	apiHost    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

func NewClient(opts Options, m *metrics.Metrics) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		endpoint:   strings.TrimRight(opts.BaseURL, "/") + submissionsPath,
		apiKey:     opts.APIKey,
		apiHost:    opts.APIHost,
		httpClient: httpClient,
		metrics:    m,
	}
}

// Execute submits code and blocks until the judge returns a verdict.
// Every failure is an *common.UpstreamError carrying the upstream payload.
func (c *Client) Execute(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal judge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create judge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-RapidAPI-Key", c.apiKey)
	}
	if c.apiHost != "" {
		httpReq.Header.Set("X-RapidAPI-Host", c.apiHost)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe("transport_error", start)
		return nil, &common.UpstreamError{Details: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe("transport_error", start)
		return nil, &common.UpstreamError{Details: err.Error(), Err: fmt.Errorf("reading judge response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe("bad_status", start)
		return nil, &common.UpstreamError{
			Details: decodeDetails(respBody),
			Err:     fmt.Errorf("judge returned status %d", resp.StatusCode),
		}
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		c.observe("bad_body", start)
		return nil, &common.UpstreamError{
			Details: decodeDetails(respBody),
			Err:     fmt.Errorf("malformed judge response: %w", err),
		}
	}
	result.Raw = json.RawMessage(respBody)

	c.observe("ok", start)
	log.WithFields(log.Fields{
		"language_id": req.LanguageID,
		"verdict":     result.Description(),
		"elapsed":     time.Since(start).String(),
	}).Info("judge response received")
	return &result, nil
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.JudgeRequests.WithLabelValues(outcome).Inc()
	c.metrics.JudgeDuration.Observe(time.Since(start).Seconds())
}

// decodeDetails keeps JSON error bodies structured and falls back to text.
func decodeDetails(body []byte) any {
	var details any
	if err := json.Unmarshal(body, &details); err == nil {
		return details
	}
	return string(body)
}
