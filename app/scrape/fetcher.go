package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Fetcher downloads article pages over a shared HTTP client. The client is
// created lazily on first use and reused across all sources until Close is
// called, so concurrent passes share one connection pool.
type Fetcher struct {
	userAgent string
	timeout   time.Duration

	mu     sync.Mutex
	client *http.Client
}

func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		userAgent: userAgent,
		timeout:   timeout,
	}
}

func (f *Fetcher) getClient() *http.Client {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}
	return f.client
}

// Fetch downloads the page at url and returns its body. Non-2xx responses
// are returned as errors so callers can treat them as unavailable sources.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.getClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// Close releases the shared client. A subsequent Fetch re-creates it.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client != nil {
		f.client.CloseIdleConnections()
		f.client = nil
	}
}
