package design

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hazyhaar/uxaudit/provider"
)

type fakeGen struct {
	calls  int
	images int
	text   string
	err    error
}

func (f *fakeGen) Generate(_ context.Context, _ string, images []provider.ImagePart, _ string) (string, error) {
	f.calls++
	f.images = len(images)
	return f.text, f.err
}

func TestReference_MissingCredentials(t *testing.T) {
	// WHAT: A missing token or file key yields absent with zero network
	// calls.
	// WHY: Design comparison is optional; half-configured credentials
	// must not generate outbound traffic.
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer srv.Close()

	c := New(&fakeGen{}, WithFigmaBaseURL(srv.URL))

	if got := c.Reference(context.Background(), "", "key"); got != "" {
		t.Errorf("no token: got %q, want absent", got)
	}
	if got := c.Reference(context.Background(), "token", ""); got != "" {
		t.Errorf("no file key: got %q, want absent", got)
	}
	if n := atomic.LoadInt32(&requests); n != 0 {
		t.Errorf("network calls: got %d, want 0", n)
	}
}

func TestReference_FetchesThumbnail(t *testing.T) {
	// WHAT: Metadata is requested with the token header, the thumbnail is
	// followed, and the image comes back base64-encoded.
	// WHY: This is the whole happy path of the reference fetch.
	imageBytes := []byte{0x89, 0x50, 0x4e, 0x47} // PNG magic
	var gotToken string

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/v1/files/file-123", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Figma-Token")
		json.NewEncoder(w).Encode(map[string]string{
			"name":         "Landing",
			"thumbnailUrl": srv.URL + "/thumb.png",
		})
	})
	mux.HandleFunc("/thumb.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(imageBytes)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	c := New(&fakeGen{}, WithFigmaBaseURL(srv.URL))
	got := c.Reference(context.Background(), "secret", "file-123")

	if gotToken != "secret" {
		t.Errorf("token header: got %q", gotToken)
	}
	if want := base64.StdEncoding.EncodeToString(imageBytes); got != want {
		t.Errorf("image: got %q, want %q", got, want)
	}
}

func TestReference_InvalidTokenAbsorbed(t *testing.T) {
	// WHAT: A 403 from the metadata endpoint degrades to absent, not an
	// error.
	// WHY: Reference retrieval is non-fatal by contract.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err":"invalid token"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(&fakeGen{}, WithFigmaBaseURL(srv.URL))
	if got := c.Reference(context.Background(), "bad", "file-123"); got != "" {
		t.Errorf("got %q, want absent", got)
	}
}

func TestCompare_AbsentReference(t *testing.T) {
	// WHAT: Comparing against an absent reference returns the fixed
	// sentinel with zero generation calls.
	// WHY: The sentinel is the report's explicit "not compared" marker.
	g := &fakeGen{}
	c := New(g)

	got, err := c.Compare(context.Background(), "bGl2ZQ==", "", "")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if got != SentinelNoDesign {
		t.Errorf("text: got %q, want sentinel", got)
	}
	if g.calls != 0 {
		t.Errorf("generation calls: got %d, want 0", g.calls)
	}
}

func TestCompare_TwoImages(t *testing.T) {
	// WHAT: A present reference triggers exactly one generation call with
	// both images attached.
	// WHY: The discrepancy analysis is a multimodal two-image request.
	g := &fakeGen{text: "colors differ"}
	c := New(g)

	got, err := c.Compare(context.Background(), "bGl2ZQ==", "cmVm", "")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if got != "colors differ" {
		t.Errorf("text: got %q", got)
	}
	if g.calls != 1 || g.images != 2 {
		t.Errorf("calls=%d images=%d, want 1 call with 2 images", g.calls, g.images)
	}
}

func TestCompare_GenerationErrorPropagates(t *testing.T) {
	// WHAT: A generation failure during comparison surfaces to the caller.
	// WHY: The provider owns the fallback policy; no second local degrade.
	g := &fakeGen{err: fmt.Errorf("exhausted")}
	c := New(g)

	if _, err := c.Compare(context.Background(), "a", "b", ""); err == nil {
		t.Fatal("expected error")
	}
}
