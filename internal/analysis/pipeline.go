package analysis

import "errors"

// Options configures a full pipeline run
type Options struct {
	Mode        Mode
	Percentages []int // nil means DefaultPercentages
}

// ResultSet bundles everything a presentation layer needs
type ResultSet struct {
	Mode             Mode
	CriticalSpeedMs  float64
	CriticalSpeedKmh float64
	DPrimeMeters     float64
	PaceMinPerKm     float64
	Rows             []PredictionRow

	Linear      LinearFit
	Power       *PowerLawFit // nil in simple mode or when every trial has the same speed
	ValidTrials []Trial
}

// Compute validates the trials, fits the models and builds the prediction table
func Compute(trials []Trial, opts Options) (*ResultSet, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	valid, err := ValidateTrials(trials, mode)
	if err != nil {
		return nil, err
	}

	linear, err := ComputeLinearFit(trials[0], trials[1])
	if err != nil {
		return nil, err
	}

	// Trials all run at one pace carry no information below CS: the Log rows
	// are left out and the D′ rows still stand.
	var power *PowerLawFit
	if mode == ModeFull {
		p, err := ComputePowerLawFit(valid)
		switch {
		case errors.Is(err, ErrDegenerateSpeeds):
		case err != nil:
			return nil, err
		default:
			power = &p
		}
	}

	pcts := opts.Percentages
	if pcts == nil {
		pcts = DefaultPercentages()
	}

	return &ResultSet{
		Mode:             mode,
		CriticalSpeedMs:  linear.CriticalSpeed,
		CriticalSpeedKmh: linear.CriticalSpeedKmh(),
		DPrimeMeters:     linear.DPrime,
		PaceMinPerKm:     linear.PaceMinPerKm(),
		Rows:             BuildPredictionTable(linear, power, pcts, mode),
		Linear:           linear,
		Power:            power,
		ValidTrials:      valid,
	}, nil
}
