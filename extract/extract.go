// CLAUDE:SUMMARY Converts rendered DOM HTML into a bounded plain-text snippet for prompting.
// Package extract turns rendered DOM HTML into a bounded plain-text
// snippet suitable for embedding in generation prompts.
//
// The pipeline is: drop non-visible nodes (script, style, hidden inline
// styles), sanitize the remaining markup, convert to markdown-flavoured
// text, collapse whitespace, bound the length.
package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultLimit bounds the snippet to the first 3000 characters of
// visible text.
const DefaultLimit = 3000

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
	regexp.MustCompile(`(?i)opacity\s*:\s*0[^.]`),
}

var spaceRuns = regexp.MustCompile(`[ \t]+`)
var blankRuns = regexp.MustCompile(`\n{3,}`)

// Extractor converts DOM HTML to text snippets. Safe for concurrent use.
type Extractor struct {
	policy *bluemonday.Policy
	conv   *converter.Converter
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{
		policy: bluemonday.UGCPolicy(),
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Snippet extracts the visible text of htmlSrc, bounded to limit
// characters (DefaultLimit when limit <= 0). Extraction is best-effort:
// unparseable input degrades to a whitespace-collapsed raw bound.
func (e *Extractor) Snippet(htmlSrc string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	visible := dropInvisible(htmlSrc)
	clean := e.policy.Sanitize(visible)

	text, err := e.conv.ConvertString(clean)
	if err != nil {
		text = clean
	}

	return truncate(collapse(text), limit)
}

// dropInvisible re-renders the HTML without nodes that never contribute
// visible text. Parse failures return the input unchanged.
func dropInvisible(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return src
	}
	prune(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return src
	}
	return buf.String()
}

func prune(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if invisible(c) {
			n.RemoveChild(c)
			continue
		}
		prune(c)
	}
}

func invisible(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Iframe:
		return true
	}
	for _, a := range n.Attr {
		if a.Key == "hidden" {
			return true
		}
		if a.Key == "style" {
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}

// collapse normalises whitespace: runs of spaces become one, runs of
// blank lines become one, lines are trimmed.
func collapse(s string) string {
	s = spaceRuns.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// truncate bounds s to limit characters without splitting a rune.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
