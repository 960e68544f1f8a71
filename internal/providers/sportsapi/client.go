// Package sportsapi is the HTTP gateway to the upstream sports data API.
package sportsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers"
)

// Config controls how the client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches sports, schedules and events and maps them to domain models.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	now        func() time.Time
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
	}
}

// SportsList retrieves the sports catalogue with team names.
func (c *Client) SportsList(ctx context.Context) (domain.SportsList, error) {
	var payload sportsResponse
	if err := c.get(ctx, "/sports", nil, &payload); err != nil {
		return nil, err
	}
	return mapSports(payload), nil
}

// Schedule retrieves one sport's fixtures. Team and date are forwarded as upstream filters.
func (c *Client) Schedule(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Match, error) {
	q := url.Values{}
	q.Set("sport", filter.Sport)
	if filter.Team != "" {
		q.Set("team", filter.Team)
	}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}

	var payload scheduleResponse
	if err := c.get(ctx, "/schedule", q, &payload); err != nil {
		return nil, err
	}
	out := make([]domain.Match, 0, len(payload.Data))
	for _, f := range payload.Data {
		out = append(out, mapMatch(filter.Sport, f))
	}
	return out, nil
}

// GlobalEvents retrieves tournaments and championships.
func (c *Client) GlobalEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	q := url.Values{}
	if filter.Year != "" {
		q.Set("year", filter.Year)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}

	var payload eventsResponse
	if err := c.get(ctx, "/events", q, &payload); err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(payload.Data))
	for _, e := range payload.Data {
		out = append(out, mapEvent(e))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	req, err := c.buildRequest(ctx, path, query)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &providers.RateLimitError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("sportsapi: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("sportsapi: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	return req, nil
}
