// CLAUDE:SUMMARY Fetches the Figma design reference: file metadata, thumbnail URL, image as base64.
package design

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultFigmaBaseURL is the public Figma REST endpoint.
const DefaultFigmaBaseURL = "https://api.figma.com"

// maxImageBytes caps reference-image downloads.
const maxImageBytes = 20 << 20

type fileMetadata struct {
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Reference fetches the design reference image for fileKey, returning it
// base64-encoded. It returns "" (absent) immediately, without any
// request, when either credential is missing, and "" on any fetch or
// decode error — reference retrieval is never fatal.
func (c *Comparator) Reference(ctx context.Context, token, fileKey string) string {
	if token == "" || fileKey == "" {
		return ""
	}

	img, err := c.fetchReference(ctx, token, fileKey)
	if err != nil {
		c.logger.Warn("design: reference unavailable",
			"file_key", fileKey, "error", fmt.Errorf("%w: %v", ErrDesignFetch, err))
		return ""
	}
	return img
}

func (c *Comparator) fetchReference(ctx context.Context, token, fileKey string) (string, error) {
	meta, err := c.fileMetadata(ctx, token, fileKey)
	if err != nil {
		return "", err
	}
	if meta.ThumbnailURL == "" {
		return "", fmt.Errorf("file %s has no thumbnail", fileKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, meta.ThumbnailURL, nil)
	if err != nil {
		return "", fmt.Errorf("thumbnail request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("thumbnail fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return "", fmt.Errorf("thumbnail fetch: http %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("thumbnail read: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("thumbnail is empty")
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

func (c *Comparator) fileMetadata(ctx context.Context, token, fileKey string) (*fileMetadata, error) {
	url := fmt.Sprintf("%s/v1/files/%s?depth=1", c.figmaBaseURL, fileKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("metadata request: %w", err)
	}
	req.Header.Set("X-Figma-Token", token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("metadata fetch: http %d", resp.StatusCode)
	}

	var meta fileMetadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&meta); err != nil {
		return nil, fmt.Errorf("metadata decode: %w", err)
	}
	return &meta, nil
}
