// Package sports is the HTTP client for the third-party sports data
// provider. It knows nothing about caching or fallbacks — the service layer
// wraps each fetch in a cache entry and applies the fallback policy.
package sports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/arenax/arenax-api/internal/model"
)

// ErrNotConfigured is returned by every fetch when no upstream base URL was
// configured. The service treats it like any other upstream failure and
// serves fallback data.
var ErrNotConfigured = errors.New("sports: SPORTS_API_URL not configured")

// Client fetches sports data from the configured provider. All requests
// carry the API key in the X-API-Key header and propagate the request
// context, so a cancelled request abandons the outbound call.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a Client for the given provider base URL. An empty
// baseURL produces a client whose fetches all fail with ErrNotConfigured.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) FootballTeams(ctx context.Context) ([]model.Team, error) {
	var out struct {
		Teams []model.Team `json:"teams"`
	}
	if err := c.get(ctx, "/football/teams", &out); err != nil {
		return nil, err
	}
	return out.Teams, nil
}

func (c *Client) FootballPlayers(ctx context.Context) ([]model.Player, error) {
	var out struct {
		Players []model.Player `json:"players"`
	}
	if err := c.get(ctx, "/football/players", &out); err != nil {
		return nil, err
	}
	return out.Players, nil
}

func (c *Client) FootballMatches(ctx context.Context) ([]model.Match, error) {
	var out struct {
		Matches []model.Match `json:"matches"`
	}
	if err := c.get(ctx, "/football/matches", &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

func (c *Client) FootballNews(ctx context.Context) ([]model.NewsItem, error) {
	var out struct {
		News []model.NewsItem `json:"news"`
	}
	if err := c.get(ctx, "/football/news", &out); err != nil {
		return nil, err
	}
	return out.News, nil
}

func (c *Client) F1Drivers(ctx context.Context) ([]model.Driver, error) {
	var out struct {
		Drivers []model.Driver `json:"drivers"`
	}
	if err := c.get(ctx, "/f1/drivers", &out); err != nil {
		return nil, err
	}
	return out.Drivers, nil
}

func (c *Client) F1Races(ctx context.Context) ([]model.Race, error) {
	var out struct {
		Races []model.Race `json:"races"`
	}
	if err := c.get(ctx, "/f1/races", &out); err != nil {
		return nil, err
	}
	return out.Races, nil
}

func (c *Client) F1News(ctx context.Context) ([]model.NewsItem, error) {
	var out struct {
		News []model.NewsItem `json:"news"`
	}
	if err := c.get(ctx, "/f1/news", &out); err != nil {
		return nil, err
	}
	return out.News, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("sports: building request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sports: fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sports: %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sports: decoding %s response: %w", path, err)
	}
	return nil
}
