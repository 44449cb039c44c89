package topics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const suggestURL = "https://suggestqueries.google.com/complete/search"

// KeywordClient fetches search phrase suggestions for a term. Results are
// cached in Redis since suggestions change slowly and ideation passes repeat
// the same category terms.
type KeywordClient struct {
	httpClient *http.Client
	cache      *redis.Client
	userAgent  string
	baseURL    string
	cacheTTL   time.Duration
}

func NewKeywordClient(cache *redis.Client, userAgent string) *KeywordClient {
	return &KeywordClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		userAgent:  userAgent,
		baseURL:    suggestURL,
		cacheTTL:   24 * time.Hour,
	}
}

// Suggest returns popular search phrases for the term. A nil cache client or
// cache errors degrade to a direct lookup.
func (c *KeywordClient) Suggest(ctx context.Context, term string) ([]string, error) {
	cacheKey := "suggest:" + term

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var suggestions []string
			if json.Unmarshal([]byte(cached), &suggestions) == nil {
				return suggestions, nil
			}
		} else if err != redis.Nil {
			slog.Debug("Suggestion cache unavailable", "error", err)
		}
	}

	suggestions, err := c.fetch(ctx, term)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if payload, err := json.Marshal(suggestions); err == nil {
			if err := c.cache.Set(ctx, cacheKey, payload, c.cacheTTL).Err(); err != nil {
				slog.Debug("Failed to cache suggestions", "error", err)
			}
		}
	}

	return suggestions, nil
}

func (c *KeywordClient) fetch(ctx context.Context, term string) ([]string, error) {
	reqURL := fmt.Sprintf("%s?client=firefox&q=%s", c.baseURL, url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestion API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestion response: %w", err)
	}

	// The response is a two element array: the query echoed back, then the
	// suggestion list.
	var parsed []json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion response: %w", err)
	}
	if len(parsed) < 2 {
		return nil, fmt.Errorf("unexpected suggestion response shape")
	}

	var suggestions []string
	if err := json.Unmarshal(parsed[1], &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion list: %w", err)
	}

	return suggestions, nil
}
