package strava

import (
	"fmt"
	"time"

	"critspeed/internal/analysis"
)

// Activity is the subset of a Strava activity summary used for trials
type Activity struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	SportType   string    `json:"sport_type"`
	StartDate   time.Time `json:"start_date"`
	Distance    float64   `json:"distance"`     // meters
	MovingTime  int       `json:"moving_time"`  // seconds
	ElapsedTime int       `json:"elapsed_time"` // seconds
}

// Lap is one lap of an activity from /activities/{id}/laps
type Lap struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	LapIndex    int     `json:"lap_index"`
	Distance    float64 `json:"distance"`     // meters
	MovingTime  int     `json:"moving_time"`  // seconds
	ElapsedTime int     `json:"elapsed_time"` // seconds
}

// IsRun reports whether the activity is a run of any kind
func (a Activity) IsRun() bool {
	switch a.SportType {
	case "Run", "TrailRun", "VirtualRun":
		return true
	}
	return a.Type == "Run"
}

// Trial converts the activity to a trial using moving time, falling back to
// elapsed time when moving time is missing
func (a Activity) Trial() analysis.Trial {
	return analysis.Trial{DistanceMeters: a.Distance, TimeSeconds: float64(trialSeconds(a.MovingTime, a.ElapsedTime))}
}

// Label describes the activity for listings
func (a Activity) Label() string {
	return fmt.Sprintf("%s %s", a.StartDate.Format("2006-01-02"), a.Name)
}

// Trial converts the lap to a trial
func (l Lap) Trial() analysis.Trial {
	return analysis.Trial{DistanceMeters: l.Distance, TimeSeconds: float64(trialSeconds(l.MovingTime, l.ElapsedTime))}
}

// ActivityTrials converts activities in order
func ActivityTrials(activities []Activity) []analysis.Trial {
	trials := make([]analysis.Trial, len(activities))
	for i, a := range activities {
		trials[i] = a.Trial()
	}
	return trials
}

// LapTrials converts laps with usable totals, skipping the rest
func LapTrials(laps []Lap) []analysis.Trial {
	var trials []analysis.Trial
	for _, l := range laps {
		if t := l.Trial(); t.Valid() {
			trials = append(trials, t)
		}
	}
	return trials
}

func trialSeconds(moving, elapsed int) int {
	if moving > 0 {
		return moving
	}
	return elapsed
}
