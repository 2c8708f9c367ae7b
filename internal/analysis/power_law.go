package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// PowerLawFit is the endurance curve T = A·V^−k used below critical speed
type PowerLawFit struct {
	A float64
	K float64
}

// ComputePowerLawFit fits ln(T) = ln(A) − k·ln(V) by ordinary least squares
// over every trial. Two trials give an exact interpolation.
func ComputePowerLawFit(trials []Trial) (PowerLawFit, error) {
	if len(trials) < MinTrials {
		return PowerLawFit{}, fmt.Errorf("%w: got %d", ErrInsufficientValidTrials, len(trials))
	}

	xs := make([]float64, len(trials))
	ys := make([]float64, len(trials))
	for i, t := range trials {
		if !t.Valid() {
			return PowerLawFit{}, fmt.Errorf("%w: trial %d", ErrInsufficientValidTrials, i+1)
		}
		xs[i] = math.Log(1 / t.Speed())
		ys[i] = math.Log(t.TimeSeconds)
	}

	// The slope is undefined when every x is identical
	if allEqual(xs) {
		return PowerLawFit{}, ErrDegenerateSpeeds
	}

	lnA, k := stat.LinearRegression(xs, ys, nil, false)

	return PowerLawFit{A: math.Exp(lnA), K: k}, nil
}

// TimeLimit returns the predicted time to exhaustion in seconds at speedMs
func (f PowerLawFit) TimeLimit(speedMs float64) float64 {
	return f.A * math.Pow(speedMs, -f.K)
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
