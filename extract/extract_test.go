package extract

import (
	"strings"
	"testing"
)

func TestSnippet_DropsScriptsAndHidden(t *testing.T) {
	// WHAT: Script bodies, style rules, and display:none nodes never leak
	// into the snippet.
	// WHY: The snippet feeds generation prompts; invisible markup is noise
	// the audited user never sees.
	e := New()

	src := `<html><head><style>.x{color:red}</style></head><body>
		<h1>Welcome</h1>
		<script>var secret = "tracking";</script>
		<div style="display:none">internal debug panel</div>
		<p hidden>flagged</p>
		<p>Visible paragraph.</p>
	</body></html>`

	got := e.Snippet(src, 0)
	for _, banned := range []string{"tracking", "color:red", "internal debug panel", "flagged"} {
		if strings.Contains(got, banned) {
			t.Errorf("snippet contains invisible content %q:\n%s", banned, got)
		}
	}
	if !strings.Contains(got, "Welcome") || !strings.Contains(got, "Visible paragraph.") {
		t.Errorf("snippet missing visible content:\n%s", got)
	}
}

func TestSnippet_BoundsLength(t *testing.T) {
	// WHAT: The snippet never exceeds the configured character bound.
	// WHY: Prompts embed the snippet verbatim; an unbounded page would
	// blow the context window.
	e := New()

	src := "<p>" + strings.Repeat("word ", 2000) + "</p>"
	got := e.Snippet(src, 100)
	if n := len([]rune(got)); n > 100 {
		t.Errorf("snippet length: got %d, want <= 100", n)
	}
}

func TestSnippet_CollapsesWhitespace(t *testing.T) {
	// WHAT: Runs of spaces and blank lines collapse to single separators.
	// WHY: Rendered DOM text is indentation-heavy; collapsed text packs
	// more page content into the same bound.
	e := New()

	src := "<div>\n\n\n   <p>first      line</p>\n\n\n\n<p>second</p>\n</div>"
	got := e.Snippet(src, 0)
	if strings.Contains(got, "  ") {
		t.Errorf("snippet contains space run:\n%q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("snippet contains blank-line run:\n%q", got)
	}
}

func TestSnippet_UnparseableDegrades(t *testing.T) {
	// WHAT: Garbage input still yields a bounded string, never a panic.
	// WHY: The collector hands over whatever the page evaluated to.
	e := New()

	got := e.Snippet("<<<<not html>>>>", 10)
	if n := len([]rune(got)); n > 10 {
		t.Errorf("snippet length: got %d, want <= 10", n)
	}
}
