package analysis

import "fmt"

// MsToKmh converts meters per second to kilometers per hour
const MsToKmh = 3.6

// LinearFit is the two-parameter critical speed model D(t) = CS·t + D′
type LinearFit struct {
	CriticalSpeed float64 // m/s
	DPrime        float64 // meters, negative when the data is inconsistent
}

// CriticalSpeedKmh returns critical speed in km/h
func (f LinearFit) CriticalSpeedKmh() float64 {
	return f.CriticalSpeed * MsToKmh
}

// PaceMinPerKm returns the pace at critical speed in decimal minutes per km
func (f LinearFit) PaceMinPerKm() float64 {
	return 60.0 / f.CriticalSpeedKmh()
}

// Distance returns the distance predicted by the linear model after t seconds
func (f LinearFit) Distance(t float64) float64 {
	return f.CriticalSpeed*t + f.DPrime
}

// ComputeLinearFit derives critical speed and D′ from two reference trials
// using the two-point slope and intercept of distance against time.
func ComputeLinearFit(t1, t2 Trial) (LinearFit, error) {
	if t1.TimeSeconds == t2.TimeSeconds {
		return LinearFit{}, ErrDegenerateReferencePair
	}

	cs := (t2.DistanceMeters - t1.DistanceMeters) / (t2.TimeSeconds - t1.TimeSeconds)
	fit := LinearFit{
		CriticalSpeed: cs,
		DPrime:        t1.DistanceMeters - cs*t1.TimeSeconds,
	}

	kmh := fit.CriticalSpeedKmh()
	if kmh <= 0 || !isFinite(kmh) {
		return LinearFit{}, fmt.Errorf("%w: %.3f km/h", ErrNonPositiveCriticalSpeed, kmh)
	}

	return fit, nil
}
