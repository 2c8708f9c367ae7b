package analysis

import "fmt"

// Mode selects which models feed the prediction table
type Mode string

const (
	// ModeFull accepts 2-6 trials and uses the power law below CS and D′ above
	ModeFull Mode = "full"
	// ModeSimple accepts exactly two trials and only predicts above CS
	ModeSimple Mode = "simple"
)

// ParseMode parses a mode name, defaulting to full for an empty string
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeSimple:
		return ModeSimple, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeFull, ModeSimple)
	}
}

// Model identifies the formula that produced a prediction row
type Model int

const (
	ModelLog    Model = iota // power law, below CS
	ModelDPrime              // D′ hyperbola, above CS
)

// String returns the display label of the model
func (m Model) String() string {
	switch m {
	case ModelLog:
		return "Log"
	case ModelDPrime:
		return "D′"
	default:
		return "unknown"
	}
}

// PredictionRow is the predicted time limit and pace at a percentage of CS
type PredictionRow struct {
	Percent          int
	SpeedMs          float64
	SpeedKmh         float64
	TimeLimitSeconds float64
	PaceSecondsPerKm float64
	Model            Model
}

// DefaultPercentages returns the standard sweep: 80-98% and 102-130% of CS
// in steps of 2. 100% is left out because neither model is defined there.
func DefaultPercentages() []int {
	var pcts []int
	for p := 80; p < 100; p += 2 {
		pcts = append(pcts, p)
	}
	for p := 102; p <= 130; p += 2 {
		pcts = append(pcts, p)
	}
	return pcts
}

// BuildPredictionTable sweeps the given percentages of critical speed and
// returns one row per percentage with a finite, positive time limit.
// power may be nil, in which case no sub-CS rows are produced.
func BuildPredictionTable(linear LinearFit, power *PowerLawFit, percentages []int, mode Mode) []PredictionRow {
	csKmh := linear.CriticalSpeedKmh()
	rows := make([]PredictionRow, 0, len(percentages))

	for _, p := range percentages {
		// Both models are discontinuous at CS itself
		if p == 100 {
			continue
		}

		speedKmh := csKmh * float64(p) / 100.0
		speedMs := speedKmh / MsToKmh

		var (
			tlim  float64
			model Model
		)
		switch {
		case p < 100:
			if mode != ModeFull || power == nil {
				continue
			}
			tlim = power.TimeLimit(speedMs)
			model = ModelLog
		default:
			var ok bool
			tlim, ok = TimeLimitAboveCS(linear, speedMs)
			if !ok {
				continue
			}
			model = ModelDPrime
		}

		if tlim <= 0 || !isFinite(tlim) {
			continue
		}

		rows = append(rows, PredictionRow{
			Percent:          p,
			SpeedMs:          speedMs,
			SpeedKmh:         speedKmh,
			TimeLimitSeconds: tlim,
			PaceSecondsPerKm: 3600.0 / speedKmh,
			Model:            model,
		})
	}

	return rows
}
