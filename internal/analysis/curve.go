package analysis

import "math"

const (
	// DefaultDecaySeconds is the time constant used to blend D′ into the
	// distance curve: D(t) = CS·t + D′·(1−e^(−t/τ)).
	DefaultDecaySeconds = 500.0
	// DefaultCurveHorizonSeconds is the last sampled time of the curve
	DefaultCurveHorizonSeconds = 1800.0
	// DefaultCurveSamples is the number of curve sample points
	DefaultCurveSamples = 60
)

// CurveOptions controls curve sampling
type CurveOptions struct {
	DecaySeconds float64 // zero means DefaultDecaySeconds
}

func (o CurveOptions) decay() float64 {
	if o.DecaySeconds > 0 {
		return o.DecaySeconds
	}
	return DefaultDecaySeconds
}

// DistanceAt returns the modeled distance covered after t seconds
func DistanceAt(fit LinearFit, t float64, opts CurveOptions) float64 {
	return fit.CriticalSpeed*t + fit.DPrime*(1-math.Exp(-t/opts.decay()))
}

// SampleDistanceCurve evaluates the distance curve at each time in times
func SampleDistanceCurve(fit LinearFit, times []float64, opts CurveOptions) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = DistanceAt(fit, t, opts)
	}
	return out
}

// SampleSpeedCurve returns average speed (m/s) over each elapsed time, D(t)/t.
// Non-positive times yield critical speed plus the initial D′ slope.
func SampleSpeedCurve(fit LinearFit, times []float64, opts CurveOptions) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		if t <= 0 {
			// limit of D(t)/t as t -> 0
			out[i] = fit.CriticalSpeed + fit.DPrime/opts.decay()
			continue
		}
		out[i] = DistanceAt(fit, t, opts) / t
	}
	return out
}

// SampleTimes returns n evenly spaced times ending at horizon, starting at horizon/n
func SampleTimes(horizon float64, n int) []float64 {
	if n <= 0 || horizon <= 0 {
		return nil
	}
	step := horizon / float64(n)
	times := make([]float64, n)
	for i := range times {
		times[i] = step * float64(i+1)
	}
	return times
}
