// CLAUDE:SUMMARY Multimodal generation client with an ordered model-fallback chain.
// Package provider wraps a multimodal text-generation capability with an
// ordered model-fallback strategy: candidates are attempted strictly in
// order, any failure moves to the next, the first success short-circuits.
//
// There is no backoff and a candidate is never retried — degradation
// means moving down the chain, not hammering the same model.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// DefaultChain is the fixed priority chain of fallback models, attempted
// top to bottom after the per-request preferred model (if any).
var DefaultChain = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
}

// Client issues generation requests with fallback.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	chain   []string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithBaseURL overrides the API endpoint (proxies, tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithChain replaces the fallback model chain.
func WithChain(models []string) Option {
	return func(c *Client) { c.chain = models }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client with sensible defaults.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: 120 * time.Second},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		chain:   DefaultChain,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate runs one multimodal completion through the fallback chain.
// preferred, when non-empty, is attempted before the configured chain.
// Returns the first successful text, or an error wrapping ErrExhausted
// after every candidate has failed exactly once.
func (c *Client) Generate(ctx context.Context, prompt string, images []ImagePart, preferred string) (string, error) {
	candidates := c.candidates(preferred)

	var lastErr error
	for _, model := range candidates {
		text, err := c.attempt(ctx, model, prompt, images)
		if err == nil {
			c.logger.Debug("provider: generation succeeded", "model", model)
			return text, nil
		}
		lastErr = err
		c.logger.Warn("provider: model attempt failed, trying next candidate",
			"model", model, "error", err)

		// The caller gave up — stop walking the chain.
		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrExhausted, len(candidates), lastErr)
}

// candidates builds the ordered attempt list: preferred first, then the
// chain, with empty entries and duplicates removed.
func (c *Client) candidates(preferred string) []string {
	raw := make([]string, 0, 1+len(c.chain))
	raw = append(raw, preferred)
	raw = append(raw, c.chain...)

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, m := range raw {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
