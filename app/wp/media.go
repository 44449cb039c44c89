package wp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// UploadMedia uploads an image to the CMS media library and returns its
// attachment ID and hosted URL. Setting the alt text is best effort.
func (c *Client) UploadMedia(ctx context.Context, filename string, data []byte, mimeType, altText string) (*Media, error) {
	status, body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/wp-json/wp/v2/media",
		body:        data,
		contentType: mimeType,
		headers: map[string]string{
			"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, filename),
		},
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("media upload failed with status %d: %s", status, string(body))
	}

	var media Media
	if err := json.Unmarshal(body, &media); err != nil {
		return nil, fmt.Errorf("failed to decode uploaded media: %w", err)
	}

	if altText != "" {
		if err := c.setMediaAltText(ctx, media.ID, altText); err != nil {
			slog.Warn("Failed to set media alt text", "media_id", media.ID, "error", err)
		}
	}

	return &media, nil
}

func (c *Client) setMediaAltText(ctx context.Context, mediaID int64, altText string) error {
	payload, err := json.Marshal(map[string]string{"alt_text": altText})
	if err != nil {
		return fmt.Errorf("failed to marshal alt text: %w", err)
	}

	status, body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/wp-json/wp/v2/media/%d", mediaID),
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("alt text update failed with status %d: %s", status, string(body))
	}

	return nil
}
