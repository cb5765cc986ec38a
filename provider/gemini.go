// CLAUDE:SUMMARY Wire types and single-attempt HTTP call for the Gemini generateContent API.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the public Gemini API endpoint. Override with
// WithBaseURL for proxies and tests.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// ImagePart is one inline image attached to a generation request.
// Data is base64-encoded; MIME defaults to image/png when empty.
type ImagePart struct {
	MIME string
	Data string
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// attempt issues one generateContent call against a single model.
func (c *Client) attempt(ctx context.Context, model, prompt string, images []ImagePart) (string, error) {
	parts := make([]part, 0, 1+len(images))
	parts = append(parts, part{Text: prompt})
	for _, img := range images {
		mime := img.MIME
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, part{InlineData: &inlineData{MIMEType: mime, Data: img.Data}})
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("provider: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("provider: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider: http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("provider: model %s returned status %d: %s", model, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var gr generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 32<<20)).Decode(&gr); err != nil {
		return "", fmt.Errorf("provider: decode response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", fmt.Errorf("provider: model %s returned no candidates", model)
	}

	var out strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("provider: model %s returned empty text", model)
	}
	return out.String(), nil
}
