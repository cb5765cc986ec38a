// CLAUDE:SUMMARY Generates the mission test plan from the audit snapshot; degrades to a fallback step.
// Package plan turns an audit snapshot into a structured test plan via
// one generation call.
//
// This is the only stage with a built-in degrade-not-abort policy: a
// failed generation or an unparseable response yields the fixed fallback
// plan instead of an error, so a mission never dies here.
package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/uxaudit/provider"
)

// Step is one human-readable verification step. IDs are assigned by the
// generator and never renumbered downstream.
type Step struct {
	ID          int    `json:"id"`
	Action      string `json:"action"`
	Expectation string `json:"expectation"`
}

// Generator is the one-method generation capability the planner needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, images []provider.ImagePart, preferred string) (string, error)
}

// Planner produces test plans.
type Planner struct {
	gen    Generator
	logger *slog.Logger
}

// New creates a Planner.
func New(gen Generator, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{gen: gen, logger: logger}
}

const promptTemplate = `You are a senior QA engineer auditing a web page rendered on a %s device.

Visible page text (truncated):
---
%s
---

A screenshot of the rendered page is attached.

Return STRICT JSON only, no prose, no code fences, in this shape:
{"test_plan":[{"id":1,"action":"...","expectation":"..."}]}

Produce 4 to 6 concrete UI/UX verification steps grounded in what the
page actually shows. Each action is something a tester does; each
expectation is the observable outcome.`

// Plan issues one generation request and parses the strict-JSON
// test_plan array. On any failure it logs and returns the fallback plan
// — never an error.
func (p *Planner) Plan(ctx context.Context, visibleText, screenshot string, device, preferredModel string) []Step {
	prompt := fmt.Sprintf(promptTemplate, device, visibleText)

	var images []provider.ImagePart
	if screenshot != "" {
		images = []provider.ImagePart{{Data: screenshot}}
	}

	raw, err := p.gen.Generate(ctx, prompt, images, preferredModel)
	if err != nil {
		p.logger.Warn("plan: generation failed, using fallback plan", "error", err)
		return FallbackPlan()
	}

	var parsed struct {
		TestPlan []Step `json:"test_plan"`
	}
	if err := json.Unmarshal([]byte(StripFences(raw)), &parsed); err != nil || len(parsed.TestPlan) == 0 {
		p.logger.Warn("plan: response not parseable as test plan, using fallback plan",
			"error", err, "response_len", len(raw))
		return FallbackPlan()
	}

	return parsed.TestPlan
}

// FallbackPlan is the single generic step used when generation degrades.
func FallbackPlan() []Step {
	return []Step{{ID: 0, Action: "Fallback Plan", Expectation: "Verify Page Load"}}
}

// StripFences removes markdown code-fence markers around a JSON payload.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
