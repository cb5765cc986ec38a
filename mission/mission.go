// CLAUDE:SUMMARY Sequences collect → plan → compare → synthesize into one mission report.
// Package mission orchestrates one UI/UX audit run: capture a technical
// snapshot of the target page, generate a test plan, optionally compare
// the live rendering against a design reference, and synthesize one
// structured pass/fail report.
//
// The pipeline is strictly sequential per mission. Planning and
// Comparing can only degrade, never fail; Collecting and Synthesizing
// are the two fatal stages. Missions share no mutable state beyond the
// read-only process-wide credential defaults, so concurrent missions
// need no locking.
package mission

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hazyhaar/uxaudit/collector"
	"github.com/hazyhaar/uxaudit/design"
	"github.com/hazyhaar/uxaudit/observability"
	"github.com/hazyhaar/uxaudit/plan"
	"github.com/hazyhaar/uxaudit/provider"
)

// Mission pipeline stages.
type stage string

const (
	stageCollecting   stage = "collecting"
	stagePlanning     stage = "planning"
	stageComparing    stage = "comparing"
	stageSynthesizing stage = "synthesizing"
	stageDone         stage = "done"
	stageFailed       stage = "failed"
)

// Auditor captures the technical snapshot of a page load.
type Auditor interface {
	Collect(ctx context.Context, url string, device collector.Device) (*collector.AuditRecord, error)
}

// Planner produces the test plan; it degrades internally, never errors.
type Planner interface {
	Plan(ctx context.Context, visibleText, screenshot string, device, preferredModel string) []plan.Step
}

// Designer fetches the design reference and computes the comparison.
type Designer interface {
	Reference(ctx context.Context, token, fileKey string) string
	Compare(ctx context.Context, live, reference, preferredModel string) (string, error)
}

// Generator is the synthesis generation capability.
type Generator interface {
	Generate(ctx context.Context, prompt string, images []provider.ImagePart, preferred string) (string, error)
}

// Credentials are the process-wide design-reference defaults; explicit
// per-mission values override them.
type Credentials struct {
	FigmaToken   string
	FigmaFileKey string
}

// Orchestrator runs missions.
type Orchestrator struct {
	auditor  Auditor
	planner  Planner
	designer Designer
	gen      Generator
	defaults Credentials
	events   *observability.EventLogger
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCredentialDefaults sets the process-wide design credentials.
func WithCredentialDefaults(c Credentials) Option {
	return func(o *Orchestrator) { o.defaults = c }
}

// WithEvents enables mission-event telemetry.
func WithEvents(l *observability.EventLogger) Option {
	return func(o *Orchestrator) { o.events = l }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an Orchestrator.
func New(auditor Auditor, planner Planner, designer Designer, gen Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		auditor:  auditor,
		planner:  planner,
		designer: designer,
		gen:      gen,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one mission and returns its result. The audit record is
// produced in full before any generation call, or the mission fails
// first; collector and synthesis errors surface verbatim.
func (o *Orchestrator) Run(ctx context.Context, cfg MissionConfig) (*Result, error) {
	if cfg.TargetURL == "" {
		return nil, fmt.Errorf("mission: target url is required")
	}

	missionID := uuid.NewString()
	start := time.Now()
	log := o.logger.With("mission_id", missionID, "url", cfg.TargetURL, "device", string(cfg.Device))

	o.logEvent(ctx, missionID, cfg, observability.EventMissionStarted, "", 0)

	log.Info("mission: stage", "stage", stageCollecting)
	rec, err := o.auditor.Collect(ctx, cfg.TargetURL, cfg.Device)
	if err != nil {
		o.fail(ctx, log, missionID, cfg, start, err)
		return nil, err
	}

	log.Info("mission: stage", "stage", stagePlanning)
	steps := o.planner.Plan(ctx, rec.VisibleText, rec.Screenshot, string(cfg.Device), cfg.PreferredModel)

	log.Info("mission: stage", "stage", stageComparing)
	token, fileKey := o.resolveCredentials(cfg)
	reference := o.designer.Reference(ctx, token, fileKey)
	comparison, err := o.designer.Compare(ctx, rec.Screenshot, reference, cfg.PreferredModel)
	if err != nil {
		// Comparing never fails the mission: degrade to the explicit
		// not-compared marker and keep going.
		log.Warn("mission: design comparison failed, continuing without it", "error", err)
		comparison = design.SentinelNoDesign
	}

	log.Info("mission: stage", "stage", stageSynthesizing)
	report, err := o.synthesize(ctx, rec, steps, comparison, cfg.PreferredModel)
	if err != nil {
		o.fail(ctx, log, missionID, cfg, start, err)
		return nil, err
	}

	res := &Result{
		FinalReport:       *report,
		ScreenshotPreview: preview(rec.Screenshot),
		DesignFetchStatus: designFetchStatus(fileKey, reference),
	}

	log.Info("mission: stage", "stage", stageDone,
		"status", report.Status,
		"issues", len(report.Issues),
		"design", res.DesignFetchStatus,
		"duration", time.Since(start))
	o.logEvent(ctx, missionID, cfg, observability.EventMissionCompleted, string(report.Status), time.Since(start))

	return res, nil
}

// resolveCredentials applies per-mission overrides on top of the
// process-wide defaults, field by field.
func (o *Orchestrator) resolveCredentials(cfg MissionConfig) (token, fileKey string) {
	token = cfg.FigmaToken
	if token == "" {
		token = o.defaults.FigmaToken
	}
	fileKey = cfg.FigmaFileKey
	if fileKey == "" {
		fileKey = o.defaults.FigmaFileKey
	}
	return token, fileKey
}

func (o *Orchestrator) fail(ctx context.Context, log *slog.Logger, missionID string, cfg MissionConfig, start time.Time, err error) {
	log.Error("mission: stage", "stage", stageFailed, "error", err, "duration", time.Since(start))
	o.logEvent(ctx, missionID, cfg, observability.EventMissionFailed, err.Error(), time.Since(start))
}

func (o *Orchestrator) logEvent(ctx context.Context, missionID string, cfg MissionConfig, eventType, detail string, d time.Duration) {
	if o.events == nil {
		return
	}
	o.events.LogEvent(ctx, observability.Event{
		MissionID: missionID,
		Type:      eventType,
		TargetURL: cfg.TargetURL,
		Device:    string(cfg.Device),
		Detail:    detail,
		Duration:  d,
	})
}

// synthesisPayload is serialized into the synthesis prompt as one JSON
// object. Building it structurally instead of interpolating escaped
// strings keeps arbitrary model/page text (backslashes, newlines,
// quotes) from corrupting the embedded JSON.
type synthesisPayload struct {
	Page struct {
		Title             string `json:"title"`
		ConsoleErrorCount int    `json:"console_error_count"`
		NetworkStatus     int    `json:"network_status"`
	} `json:"page"`
	TestPlan         []plan.Step `json:"test_plan"`
	DesignComparison string      `json:"design_comparison"`
}

const synthesisPrompt = `You are finalising a UI/UX audit of a web page.

Audit data (JSON):
%s

Weigh the console errors, the HTTP status, the test plan, and the design
comparison, then return STRICT JSON only, no prose, no code fences:
{"status":"pass|fail|warning","analysis":"...","issues":["..."],"test_plan":[{"id":1,"action":"...","expectation":"..."}],"figma_analysis":"..."}

Rules: status must be exactly one of pass, fail, warning. issues lists
concrete problems found (may be empty). test_plan echoes the supplied
steps with their ids unchanged. figma_analysis carries the design
comparison conclusion.`

func (o *Orchestrator) synthesize(ctx context.Context, rec *collector.AuditRecord, steps []plan.Step, comparison, preferredModel string) (*FinalReport, error) {
	var payload synthesisPayload
	payload.Page.Title = rec.Title
	payload.Page.ConsoleErrorCount = len(rec.ConsoleLogs)
	payload.Page.NetworkStatus = rec.NetworkStatus
	payload.TestPlan = steps
	payload.DesignComparison = comparison

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("mission: marshal synthesis payload: %w", err)
	}

	raw, err := o.gen.Generate(ctx, fmt.Sprintf(synthesisPrompt, data), nil, preferredModel)
	if err != nil {
		return nil, fmt.Errorf("mission: synthesis generation: %w", err)
	}

	var report FinalReport
	if err := json.Unmarshal([]byte(plan.StripFences(raw)), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	if !report.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q outside pass/fail/warning", ErrSynthesis, report.Status)
	}

	// The report always carries ordered sequences, even when the model
	// returns null or omits them.
	if report.Issues == nil {
		report.Issues = []string{}
	}
	if len(report.TestPlan) == 0 {
		report.TestPlan = steps
	}

	return &report, nil
}

// preview truncates the screenshot to its first 50 characters plus an
// ellipsis for the externally visible result.
func preview(screenshot string) string {
	const n = 50
	r := []rune(screenshot)
	if len(r) <= n {
		return screenshot
	}
	return string(r[:n]) + "..."
}

// designFetchStatus tags the result: skipped when no file key was
// supplied, failed when a key was supplied but no image resulted,
// success otherwise.
func designFetchStatus(fileKey, reference string) string {
	switch {
	case fileKey == "":
		return DesignSkipped
	case reference == "":
		return DesignFailed
	default:
		return DesignSuccess
	}
}
