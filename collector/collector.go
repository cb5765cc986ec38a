// CLAUDE:SUMMARY Drives one browser session per mission and captures the fixed-shape audit record.
// Package collector captures a technical and visual snapshot of a single
// page load: severity-filtered console messages, the navigation response
// status, a viewport screenshot, the page title, and a bounded
// visible-text snippet.
//
// One Collect call owns one browser page for its whole duration; the
// page is released on every exit path. Any failure is fatal to the
// calling mission and wraps ErrAudit — the collector never retries.
package collector

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/uxaudit/extract"
)

const (
	// DefaultNavTimeout bounds navigation plus network idleness — the
	// dominant suspension point of a mission.
	DefaultNavTimeout = 45 * time.Second

	// DefaultSettleDelay absorbs late client-side rendering after load.
	DefaultSettleDelay = 2 * time.Second
)

// AuditRecord is the immutable snapshot of one page load. Produced in
// full or not at all; never persisted beyond the mission.
type AuditRecord struct {
	ConsoleLogs   []string `json:"consoleLogs"`
	NetworkStatus int      `json:"networkStatus"`
	Screenshot    string   `json:"screenshot"` // base64 PNG
	Title         string   `json:"title"`
	VisibleText   string   `json:"visibleTextSnippet"`
}

// Config configures a Collector.
type Config struct {
	NavTimeout   time.Duration
	SettleDelay  time.Duration
	SnippetLimit int
	Logger       *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = DefaultNavTimeout
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.SnippetLimit <= 0 {
		c.SnippetLimit = extract.DefaultLimit
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Collector captures AuditRecords on a shared browser.
type Collector struct {
	mgr       *Manager
	extractor *extract.Extractor
	cfg       Config
}

// New creates a Collector on the given browser manager.
func New(mgr *Manager, cfg Config) *Collector {
	cfg.defaults()
	return &Collector{mgr: mgr, extractor: extract.New(), cfg: cfg}
}

// Collect loads pageURL under the given device profile and captures an
// AuditRecord. The session is scoped to this call and released on every
// exit path.
func (c *Collector) Collect(ctx context.Context, pageURL string, device Device) (*AuditRecord, error) {
	log := c.cfg.Logger.With("url", pageURL, "device", string(device))

	b := c.mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("%w: no active browser", ErrAudit)
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %v", ErrAudit, err)
	}
	defer page.Close()

	vp := device.viewport()
	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.width,
		Height:            vp.height,
		DeviceScaleFactor: vp.scale,
		Mobile:            vp.mobile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: set viewport: %v", ErrAudit, err)
	}

	// Passive observers, attached before navigation so nothing is missed.
	events := NewEventLog()
	watcher := newResponseWatcher(pageURL)
	go page.EachEvent(
		func(e *proto.RuntimeConsoleAPICalled) {
			switch e.Type {
			case proto.RuntimeConsoleAPICalledTypeError, proto.RuntimeConsoleAPICalledTypeWarning:
				events.Append(CategoryConsole, formatConsole(e))
			}
		},
		func(e *proto.NetworkResponseReceived) {
			watcher.Observe(e.Response.URL, int(e.Response.Status))
		},
	)()

	navCtx, cancel := context.WithTimeout(ctx, c.cfg.NavTimeout)
	defer cancel()
	pc := page.Context(navCtx)

	waitIdle := pc.WaitRequestIdle(500*time.Millisecond, nil, nil, nil)
	if err := pc.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("%w: navigate %s: %v", ErrAudit, pageURL, err)
	}
	if err := pc.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrAudit, pageURL, err)
	}
	waitIdle()
	if navCtx.Err() != nil {
		return nil, fmt.Errorf("%w: navigation exceeded %s for %s", ErrAudit, c.cfg.NavTimeout, pageURL)
	}

	// Fixed settle delay for late client-side rendering.
	select {
	case <-time.After(c.cfg.SettleDelay):
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: settle interrupted: %v", ErrAudit, ctx.Err())
	}

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("%w: page info: %v", ErrAudit, err)
	}

	shot, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", ErrAudit, err)
	}

	res, err := page.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("%w: read DOM: %v", ErrAudit, err)
	}
	snippet := c.extractor.Snippet(res.Value.Str(), c.cfg.SnippetLimit)

	rec := &AuditRecord{
		ConsoleLogs:   events.Entries(CategoryConsole),
		NetworkStatus: watcher.Status(),
		Screenshot:    base64.StdEncoding.EncodeToString(shot),
		Title:         info.Title,
		VisibleText:   snippet,
	}

	log.Info("collector: audit captured",
		"title", rec.Title,
		"status", rec.NetworkStatus,
		"console_entries", len(rec.ConsoleLogs),
		"text_len", len(rec.VisibleText))

	return rec, nil
}

// formatConsole renders one console call as "[severity] args...".
func formatConsole(e *proto.RuntimeConsoleAPICalled) string {
	parts := make([]string, 0, len(e.Args))
	for _, a := range e.Args {
		if a == nil {
			continue
		}
		if v := a.Value.Val(); v != nil {
			parts = append(parts, fmt.Sprint(v))
		} else if a.Description != "" {
			parts = append(parts, a.Description)
		}
	}
	return fmt.Sprintf("[%s] %s", e.Type, strings.Join(parts, " "))
}
