package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/hazyhaar/uxaudit/provider"
)

// fakeGen returns a canned response or error and records call counts.
type fakeGen struct {
	text   string
	err    error
	calls  int
	images int
}

func (f *fakeGen) Generate(_ context.Context, _ string, images []provider.ImagePart, _ string) (string, error) {
	f.calls++
	f.images = len(images)
	return f.text, f.err
}

func TestPlan_GenerationFailureDegrades(t *testing.T) {
	// WHAT: A failed generation yields exactly the fallback step
	// {id:0, "Fallback Plan", "Verify Page Load"}.
	// WHY: Planning must never abort the mission.
	g := &fakeGen{err: errors.New("exhausted")}
	p := New(g, nil)

	steps := p.Plan(context.Background(), "text", "c2hvdA==", "desktop", "")
	if len(steps) != 1 {
		t.Fatalf("steps: got %d, want 1", len(steps))
	}
	want := Step{ID: 0, Action: "Fallback Plan", Expectation: "Verify Page Load"}
	if steps[0] != want {
		t.Errorf("fallback step: got %+v, want %+v", steps[0], want)
	}
}

func TestPlan_ParsesStrictJSON(t *testing.T) {
	// WHAT: A well-formed test_plan response parses into exactly those
	// steps, IDs untouched.
	// WHY: Generator-assigned IDs are never renumbered downstream.
	g := &fakeGen{text: `{"test_plan":[{"id":1,"action":"A","expectation":"B"}]}`}
	p := New(g, nil)

	steps := p.Plan(context.Background(), "text", "c2hvdA==", "mobile", "")
	if len(steps) != 1 {
		t.Fatalf("steps: got %d, want 1", len(steps))
	}
	if steps[0] != (Step{ID: 1, Action: "A", Expectation: "B"}) {
		t.Errorf("step: got %+v", steps[0])
	}
	if g.images != 1 {
		t.Errorf("screenshot parts: got %d, want 1", g.images)
	}
}

func TestPlan_StripsCodeFences(t *testing.T) {
	// WHAT: Responses wrapped in ```json fences still parse.
	// WHY: Models routinely fence JSON despite instructions not to.
	g := &fakeGen{text: "```json\n{\"test_plan\":[{\"id\":2,\"action\":\"X\",\"expectation\":\"Y\"}]}\n```"}
	p := New(g, nil)

	steps := p.Plan(context.Background(), "t", "", "tablet", "")
	if len(steps) != 1 || steps[0].ID != 2 {
		t.Fatalf("steps: got %+v", steps)
	}
}

func TestPlan_MalformedResponseDegrades(t *testing.T) {
	// WHAT: Non-JSON and empty-plan responses both degrade to fallback.
	// WHY: The 4–6 step shape is requested, not structurally enforced.
	for _, text := range []string{"the page looks fine", `{"test_plan":[]}`, `{"plan":[1]}`} {
		g := &fakeGen{text: text}
		p := New(g, nil)
		steps := p.Plan(context.Background(), "t", "", "desktop", "")
		if len(steps) != 1 || steps[0].Action != "Fallback Plan" {
			t.Errorf("response %q: got %+v, want fallback", text, steps)
		}
	}
}

func TestStripFences(t *testing.T) {
	// WHAT: Fence stripping handles plain, ```-wrapped, and ```json-wrapped
	// payloads identically.
	// WHY: Shared by planning and synthesis parsing.
	cases := map[string]string{
		`{"a":1}`:                     `{"a":1}`,
		"```json\n{\"a\":1}\n```":     `{"a":1}`,
		"```\n{\"a\":1}\n```":         `{"a":1}`,
		"  \n```json\n{\"a\":1}\n```": `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q): got %q, want %q", in, got, want)
		}
	}
}
