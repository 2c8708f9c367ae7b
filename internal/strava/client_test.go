package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"critspeed/internal/analysis"
)

var timeZero time.Time

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClientWithHTTP(srv.Client(), srv.URL+"/")
	c.rateLimiter.minInterval = 0
	return c
}

func TestRecentRuns(t *testing.T) {
	var pages []int
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/athlete/activities", r.URL.Path)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, page)

		var activities []Activity
		if page == 1 {
			for i := 0; i < MaxPerPage; i++ {
				typ := "Run"
				if i%2 == 1 {
					typ = "Ride"
				}
				activities = append(activities, Activity{ID: int64(i), Type: typ, SportType: typ, Distance: 1000, MovingTime: 300})
			}
		} else {
			activities = []Activity{{ID: 1000, SportType: "TrailRun", Distance: 5000, MovingTime: 1500}}
		}

		w.Header().Set("X-RateLimit-Limit", "100,1000")
		w.Header().Set("X-RateLimit-Usage", fmt.Sprintf("%d,%d", page, page+10))
		require.NoError(t, json.NewEncoder(w).Encode(activities))
	})

	runs, err := c.RecentRuns(context.Background(), 51)
	require.NoError(t, err)
	assert.Len(t, runs, 51)
	assert.Equal(t, []int{1, 2}, pages)
	assert.Equal(t, int64(1000), runs[50].ID)

	short, daily := c.RateLimitStatus()
	assert.Equal(t, 98, short)
	assert.Equal(t, 988, daily)
}

func TestRecentRunsStopsAtLimit(t *testing.T) {
	calls := 0
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		activities := make([]Activity, MaxPerPage)
		for i := range activities {
			activities[i] = Activity{ID: int64(i), Type: "Run", Distance: 1000, MovingTime: 300}
		}
		require.NoError(t, json.NewEncoder(w).Encode(activities))
	})

	runs, err := c.RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
	assert.Equal(t, 1, calls)
}

func TestGetActivityLaps(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/activities/42/laps", r.URL.Path)
		fmt.Fprint(w, `[
			{"id": 1, "lap_index": 1, "distance": 1460, "moving_time": 360, "elapsed_time": 365},
			{"id": 2, "lap_index": 2, "distance": 400, "moving_time": 0, "elapsed_time": 0},
			{"id": 3, "lap_index": 3, "distance": 2690, "moving_time": 0, "elapsed_time": 720}
		]`)
	})

	laps, err := c.GetActivityLaps(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, laps, 3)

	assert.Equal(t, []analysis.Trial{
		{DistanceMeters: 1460, TimeSeconds: 360},
		{DistanceMeters: 2690, TimeSeconds: 720},
	}, LapTrials(laps))
}

func TestAPIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Authorization Error"}`, http.StatusUnauthorized)
	})

	_, err := c.GetActivities(context.Background(), timeZero, 1, 10)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Authorization Error")
}

func TestCancelledContext(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	c.rateLimiter.short.usage = c.rateLimiter.short.limit

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetActivities(ctx, timeZero, 1, 10)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestActivityConversion(t *testing.T) {
	tests := []struct {
		name  string
		a     Activity
		isRun bool
		want  analysis.Trial
	}{
		{"run", Activity{Type: "Run", Distance: 5000, MovingTime: 1200, ElapsedTime: 1300}, true, analysis.Trial{DistanceMeters: 5000, TimeSeconds: 1200}},
		{"trail run", Activity{Type: "Run", SportType: "TrailRun", Distance: 8000, ElapsedTime: 2400}, true, analysis.Trial{DistanceMeters: 8000, TimeSeconds: 2400}},
		{"ride", Activity{Type: "Ride", SportType: "Ride", Distance: 20000, MovingTime: 2400}, false, analysis.Trial{DistanceMeters: 20000, TimeSeconds: 2400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isRun, tt.a.IsRun())
			assert.Equal(t, tt.want, tt.a.Trial())
		})
	}

	assert.Len(t, ActivityTrials([]Activity{tests[0].a, tests[1].a}), 2)
}
