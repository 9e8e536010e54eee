package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nikbrunner/nt/internal/logger"
)

// ErrNetwork indicates a transport failure or a non-2xx response.
var ErrNetwork = errors.New("feed request failed")

// ErrNotConfigured indicates the feed has no URL.
var ErrNotConfigured = errors.New("feed URL not configured")

// Client fetches feeds from the dashboard server and the news endpoint.
type Client struct {
	serverURL  string
	newsURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client. Hackathons and contests are served from
// serverURL; news from newsURL.
func NewClient(serverURL, newsURL string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		newsURL:   newsURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.L(),
	}
}

// Hackathons fetches upcoming hackathons.
func (c *Client) Hackathons(ctx context.Context) ([]Hackathon, error) {
	if c.serverURL == "" {
		return nil, ErrNotConfigured
	}

	var raw []rawHackathon
	if err := c.get(ctx, c.serverURL+"/hackathons", &raw); err != nil {
		return nil, err
	}

	out := make([]Hackathon, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.hackathon())
	}
	return out, nil
}

// Contests fetches coding contests.
func (c *Client) Contests(ctx context.Context) ([]Contest, error) {
	if c.serverURL == "" {
		return nil, ErrNotConfigured
	}

	var raw []rawContest
	if err := c.get(ctx, c.serverURL+"/contests", &raw); err != nil {
		return nil, err
	}

	out := make([]Contest, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.contest())
	}
	return out, nil
}

// News fetches news headlines. The endpoint may return a bare array or
// an object with an "items" or "news" array.
func (c *Client) News(ctx context.Context) ([]NewsItem, error) {
	if c.newsURL == "" {
		return nil, ErrNotConfigured
	}

	var body json.RawMessage
	if err := c.get(ctx, c.newsURL, &body); err != nil {
		return nil, err
	}

	var raw []rawNewsItem
	if err := json.Unmarshal(body, &raw); err != nil {
		var wrapped struct {
			Items []rawNewsItem `json:"items"`
			News  []rawNewsItem `json:"news"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: decode news: %w", ErrNetwork, err)
		}
		raw = append(wrapped.Items, wrapped.News...)
	}

	out := make([]NewsItem, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.item())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("feed request failed", "url", url, "status", resp.StatusCode)
		return fmt.Errorf("%w: %s: status %d", ErrNetwork, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrNetwork, url, err)
	}
	return nil
}
