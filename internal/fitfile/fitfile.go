// Package fitfile extracts field-test trials from Garmin FIT activity files.
package fitfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/tormoder/fit"
	"golang.org/x/sync/errgroup"

	"critspeed/internal/analysis"
)

// MaxConcurrentDecodes bounds how many files LoadTrials decodes at once
const MaxConcurrentDecodes = 4

var (
	// ErrNoSession is returned for activity files without a session message
	ErrNoSession = errors.New("activity file has no session message")
	// ErrNoTotals is returned when a session or lap lacks distance or time
	ErrNoTotals = errors.New("missing distance or time totals")
)

// Source is one trial read from a file, with where it came from
type Source struct {
	Path  string
	Label string
	Sport string
	Trial analysis.Trial
}

// Decode reads the session totals of an activity as a single trial
func Decode(r io.Reader) (Source, error) {
	activity, err := decodeActivity(r)
	if err != nil {
		return Source{}, err
	}
	if len(activity.Sessions) == 0 || activity.Sessions[0] == nil {
		return Source{}, ErrNoSession
	}

	session := activity.Sessions[0]
	seconds := positive(session.GetTotalTimerTimeScaled())
	if seconds == 0 {
		seconds = positive(session.GetTotalElapsedTimeScaled())
	}
	meters := positive(session.GetTotalDistanceScaled())
	if seconds == 0 || meters == 0 {
		return Source{}, ErrNoTotals
	}

	return Source{
		Label: "session",
		Sport: fmt.Sprint(session.Sport),
		Trial: analysis.Trial{DistanceMeters: meters, TimeSeconds: seconds},
	}, nil
}

// DecodeLaps reads every lap with usable totals as its own trial, so one
// session holding several efforts yields several trials
func DecodeLaps(r io.Reader) ([]Source, error) {
	activity, err := decodeActivity(r)
	if err != nil {
		return nil, err
	}

	sport := ""
	if len(activity.Sessions) > 0 && activity.Sessions[0] != nil {
		sport = fmt.Sprint(activity.Sessions[0].Sport)
	}

	var sources []Source
	for i, lap := range activity.Laps {
		if lap == nil {
			continue
		}
		seconds := positive(lap.GetTotalTimerTimeScaled())
		if seconds == 0 {
			seconds = positive(lap.GetTotalElapsedTimeScaled())
		}
		meters := positive(lap.GetTotalDistanceScaled())
		if seconds == 0 || meters == 0 {
			continue
		}
		sources = append(sources, Source{
			Label: fmt.Sprintf("lap %d", i+1),
			Sport: sport,
			Trial: analysis.Trial{DistanceMeters: meters, TimeSeconds: seconds},
		})
	}
	if len(sources) == 0 {
		return nil, ErrNoTotals
	}
	return sources, nil
}

// LoadFile opens path and decodes it, splitting by lap when laps is set
func LoadFile(path string, laps bool) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	var sources []Source
	if laps {
		sources, err = DecodeLaps(f)
	} else {
		var s Source
		s, err = Decode(f)
		sources = []Source{s}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	for i := range sources {
		sources[i].Path = path
	}
	return sources, nil
}

// LoadTrials decodes paths concurrently and returns their sources in the
// order the paths were given. The first failure cancels the rest.
func LoadTrials(ctx context.Context, paths []string, laps bool) ([]Source, error) {
	results := make([][]Source, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentDecodes)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sources, err := LoadFile(path, laps)
			if err != nil {
				return err
			}
			results[i] = sources
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Source
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// Trials strips the provenance from sources
func Trials(sources []Source) []analysis.Trial {
	trials := make([]analysis.Trial, len(sources))
	for i, s := range sources {
		trials[i] = s.Trial
	}
	return trials
}

func decodeActivity(r io.Reader) (*fit.ActivityFile, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	return activity, nil
}

func positive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}
