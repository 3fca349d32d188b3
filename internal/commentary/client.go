// Package commentary talks to an OpenAI-compatible chat-completions service
// for narrative summaries, insight cards, chat answers and contract
// extraction. All figures come from the analyzer; the upstream only words
// them.
package commentary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrNotConfigured is returned when no upstream base URL is set.
	ErrNotConfigured = errors.New("commentary upstream not configured")

	// ErrUpstream wraps every non-2xx upstream reply.
	ErrUpstream = errors.New("commentary upstream error")

	// ErrEmptyResponse is returned when the upstream reply has no choices.
	ErrEmptyResponse = errors.New("commentary upstream returned no choices")
)

// UpstreamError carries the status of a failed upstream call.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("commentary upstream %d", e.Status)
	}
	return fmt.Sprintf("commentary upstream %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// Options configures a Client.
type Options struct {
	BaseURL  string
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration

	// RequestsPerMinute caps outgoing calls; 0 disables the limit.
	RequestsPerMinute int

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

func (o *Options) defaults() {
	if o.Endpoint == "" {
		o.Endpoint = "/api/chat/completions"
	}
	if o.Model == "" {
		o.Model = "gpt-4o-mini"
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
}

// Client is safe for concurrent use.
type Client struct {
	hc      *http.Client
	url     string
	apiKey  string
	model   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New builds a client. An empty BaseURL yields a client whose calls all
// fail with ErrNotConfigured.
func New(opts Options, logger *zap.Logger) *Client {
	opts.defaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	url := ""
	if opts.BaseURL != "" {
		url = joinURL(opts.BaseURL, opts.Endpoint)
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}

	return &Client{
		hc:      hc,
		url:     url,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// joinURL allows the endpoint to be a full URL.
func joinURL(base, endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// Configured reports whether an upstream is set.
func (c *Client) Configured() bool { return c.url != "" }

// Model returns the model name sent upstream.
func (c *Client) Model() string { return c.model }

// URL returns the full completions URL, empty when unconfigured.
func (c *Client) URL() string { return c.url }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends one non-streaming chat completion and returns the first
// choice's content.
func (c *Client) complete(ctx context.Context, messages []message, temperature float64, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn("commentary request failed", zap.String("url", c.url), zap.Error(err))
		return "", fmt.Errorf("commentary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		upErr := &UpstreamError{Status: resp.StatusCode, Message: strings.TrimSpace(string(slurp))}
		c.logger.Warn("commentary upstream rejected request",
			zap.Int("status", resp.StatusCode), zap.String("url", c.url))
		return "", upErr
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}

// stripFences removes markdown code fences around a JSON reply.
func stripFences(s string) string {
	s = strings.NewReplacer("```json\n", "", "```json", "", "```\n", "", "```", "").Replace(s)
	return strings.TrimSpace(s)
}
