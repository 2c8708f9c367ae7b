package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	BaseURL = "https://www.strava.com/api/v3"

	// MaxPerPage is the largest page Strava serves
	MaxPerPage = 100
)

// Client is a Strava API client
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *RateLimiter
}

// NewClient creates a Strava API client authorized by tokenSource
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return NewClientWithHTTP(oauth2.NewClient(context.Background(), tokenSource), BaseURL)
}

// NewClientWithHTTP creates a client against baseURL using an already
// authorized http.Client
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		rateLimiter: NewRateLimiter(),
	}
}

// GetActivities fetches one page of the athlete's activities, newest first.
// A zero after fetches from the beginning.
func (c *Client) GetActivities(ctx context.Context, after time.Time, page, perPage int) ([]Activity, error) {
	params := url.Values{}
	if !after.IsZero() {
		params.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var activities []Activity
	if err := c.getJSON(ctx, "/athlete/activities", params, &activities); err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	return activities, nil
}

// RecentRuns pages through activities until limit runs have been collected
// or the history is exhausted
func (c *Client) RecentRuns(ctx context.Context, limit int) ([]Activity, error) {
	var runs []Activity
	for page := 1; len(runs) < limit; page++ {
		activities, err := c.GetActivities(ctx, time.Time{}, page, MaxPerPage)
		if err != nil {
			return runs, fmt.Errorf("fetching page %d: %w", page, err)
		}

		for _, a := range activities {
			if a.IsRun() && len(runs) < limit {
				runs = append(runs, a)
			}
		}

		if len(activities) < MaxPerPage {
			break // last page
		}
	}
	return runs, nil
}

// GetActivityLaps fetches the laps of one activity
func (c *Client) GetActivityLaps(ctx context.Context, activityID int64) ([]Lap, error) {
	var laps []Lap
	path := fmt.Sprintf("/activities/%d/laps", activityID)
	if err := c.getJSON(ctx, path, nil, &laps); err != nil {
		return nil, fmt.Errorf("fetching laps for activity %d: %w", activityID, err)
	}
	return laps, nil
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// APIError is a non-200 response from Strava
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}
