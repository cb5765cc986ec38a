// CLAUDE:SUMMARY Compares the live screenshot against an optional Figma design reference.
// Package design optionally fetches a Figma design reference and
// produces a discrepancy analysis between the live rendering and the
// reference via one multimodal generation call.
//
// Reference retrieval is never fatal: missing credentials or any fetch
// error degrade to an absent reference, and comparison against an absent
// reference returns a fixed sentinel without touching the provider.
package design

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/uxaudit/provider"
)

// SentinelNoDesign is returned by Compare when no reference exists.
const SentinelNoDesign = "no design provided for comparison"

// Generator is the one-method generation capability the comparator needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, images []provider.ImagePart, preferred string) (string, error)
}

// Comparator fetches design references and compares them to live renders.
type Comparator struct {
	client       *http.Client
	figmaBaseURL string
	gen          Generator
	logger       *slog.Logger
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Comparator) { c.client = hc }
}

// WithFigmaBaseURL overrides the Figma endpoint (tests).
func WithFigmaBaseURL(u string) Option {
	return func(c *Comparator) { c.figmaBaseURL = u }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Comparator) { c.logger = l }
}

// New creates a Comparator.
func New(gen Generator, opts ...Option) *Comparator {
	c := &Comparator{
		client:       &http.Client{Timeout: 30 * time.Second},
		figmaBaseURL: DefaultFigmaBaseURL,
		gen:          gen,
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

const comparePrompt = `Compare the two attached screenshots of the same page.
The first is the live rendering, the second is the design reference.

Write one concise paragraph describing the visual discrepancies: colors,
alignment, spacing, and missing or extra elements. If they match closely,
say so.`

// Compare produces a discrepancy paragraph between the live screenshot
// and the reference (both base64). When the reference is absent it
// returns SentinelNoDesign without a generation call. Generation errors
// propagate — the provider already carries its own fallback chain.
func (c *Comparator) Compare(ctx context.Context, live, reference, preferredModel string) (string, error) {
	if reference == "" {
		return SentinelNoDesign, nil
	}

	return c.gen.Generate(ctx, comparePrompt, []provider.ImagePart{
		{Data: live},
		{Data: reference},
	}, preferredModel)
}
