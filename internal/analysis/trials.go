package analysis

import (
	"fmt"
	"math"
)

const (
	// MinTrials is the number of reference trials needed for the linear model
	MinTrials = 2
	// MaxTrials is the largest trial set accepted (two reference tests + four extra)
	MaxTrials = 6
)

// Trial is a single field test: a distance covered in a given time
type Trial struct {
	DistanceMeters float64
	TimeSeconds    float64
}

// Speed returns the average speed of the trial in m/s
func (t Trial) Speed() float64 {
	return t.DistanceMeters / t.TimeSeconds
}

// Valid reports whether both distance and time are positive and finite
func (t Trial) Valid() bool {
	return t.DistanceMeters > 0 && t.TimeSeconds > 0 && isFinite(t.DistanceMeters) && isFinite(t.TimeSeconds)
}

// ValidateTrials checks a trial set for the given mode and returns the subset
// usable by the power-law model. The first two trials are the reference pair.
func ValidateTrials(trials []Trial, mode Mode) ([]Trial, error) {
	if len(trials) < MinTrials {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientData, len(trials))
	}

	maxTrials := MaxTrials
	if mode == ModeSimple {
		maxTrials = MinTrials
	}
	if len(trials) > maxTrials {
		return nil, fmt.Errorf("%w: got %d, %s mode accepts at most %d", ErrTooManyTrials, len(trials), mode, maxTrials)
	}

	// Equal times are reported first, even when a reference value is also invalid
	if trials[0].TimeSeconds == trials[1].TimeSeconds {
		return nil, fmt.Errorf("%w: both are %.1f s", ErrDegenerateReferencePair, trials[0].TimeSeconds)
	}

	for i, t := range trials[:MinTrials] {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: trial %d (%.1f m, %.1f s)", ErrInvalidTrialValues, i+1, t.DistanceMeters, t.TimeSeconds)
		}
	}

	valid := make([]Trial, 0, len(trials))
	for _, t := range trials {
		if t.Valid() {
			valid = append(valid, t)
		}
	}
	if len(valid) < MinTrials {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientValidTrials, len(valid))
	}

	return valid, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
