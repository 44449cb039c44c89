package wp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GetOrCreateTag resolves a tag name to its CMS ID, creating the tag when it
// does not exist yet.
func (c *Client) GetOrCreateTag(ctx context.Context, name string) (int64, error) {
	status, body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/wp-json/wp/v2/tags?search=" + url.QueryEscape(name),
	})
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("tag search failed with status %d", status)
	}

	var tags []Tag
	if err := json.Unmarshal(body, &tags); err != nil {
		return 0, fmt.Errorf("failed to decode tag search response: %w", err)
	}

	// Search is fuzzy, require an exact name match
	for _, tag := range tags {
		if strings.EqualFold(tag.Name, name) {
			return tag.ID, nil
		}
	}

	return c.createTag(ctx, name)
}

func (c *Client) createTag(ctx context.Context, name string) (int64, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal tag: %w", err)
	}

	status, body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/wp-json/wp/v2/tags",
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return 0, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return 0, fmt.Errorf("tag creation failed with status %d: %s", status, string(body))
	}

	var tag Tag
	if err := json.Unmarshal(body, &tag); err != nil {
		return 0, fmt.Errorf("failed to decode created tag: %w", err)
	}

	return tag.ID, nil
}
