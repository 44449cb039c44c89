package wp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CreatePost creates a post and returns its CMS ID.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (int64, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal post: %w", err)
	}

	status, body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/wp-json/wp/v2/posts",
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return 0, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return 0, fmt.Errorf("post creation failed with status %d: %s", status, string(body))
	}

	var post Post
	if err := json.Unmarshal(body, &post); err != nil {
		return 0, fmt.Errorf("failed to decode created post: %w", err)
	}
	if post.ID == 0 {
		return 0, fmt.Errorf("created post has no ID")
	}

	return post.ID, nil
}

// UpdatePostMeta sets a single meta field on a post. SEO fields are pushed
// one by one so a failing field never blocks the others.
func (c *Client) UpdatePostMeta(ctx context.Context, postID int64, key, value string) error {
	payload, err := json.Marshal(map[string]map[string]string{
		"meta": {key: value},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal meta field: %w", err)
	}

	status, body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/wp-json/wp/v2/posts/%d", postID),
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("meta update failed with status %d: %s", status, string(body))
	}

	return nil
}
