package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"critspeed/internal/analysis"
	"critspeed/internal/config"
)

// AnalysisService runs the critical speed models and formats the results for
// the TUI, the CLI and the exporters
type AnalysisService struct {
	cfg    config.AnalysisConfig
	logger *zap.Logger
}

// NewAnalysisService creates an analysis service. A nil logger discards logs.
func NewAnalysisService(cfg config.AnalysisConfig, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{cfg: cfg, logger: logger}
}

// ResultsData contains everything needed to display one computation
type ResultsData struct {
	RequestID string
	Mode      analysis.Mode

	CriticalSpeedMs  float64
	CriticalSpeedKmh float64
	DPrimeMeters     float64
	PaceSecondsPerKm float64

	// Display strings
	CriticalSpeed    string // "3.42 m/s"
	CriticalSpeedKph string // "12.30 km/h"
	Pace             string // "4:53" per km
	DPrime           string // "230.0 m"
	PowerLaw         string // "T = A·v^-k", empty in simple mode

	Rows  []PredictionDisplay
	Curve CurveData

	TrialCount      int
	ValidTrialCount int

	Result *analysis.ResultSet
}

// PredictionDisplay is one formatted prediction table row
type PredictionDisplay struct {
	Percent          int
	SpeedMs          float64
	SpeedKmh         float64
	TimeLimitSeconds float64
	PaceSecondsPerKm float64

	Speed     string // "13.53 km/h"
	TimeLimit string // "11:14"
	Pace      string // "4:26"
	Model     string // "Log" or "D′"
}

// CurveData holds the sampled distance and speed curves
type CurveData struct {
	Times     []float64 // seconds
	Distances []float64 // meters
	SpeedsKmh []float64 // average speed over each time
}

// Mode returns the configured default mode
func (s *AnalysisService) Mode() analysis.Mode {
	mode, err := analysis.ParseMode(s.cfg.Mode)
	if err != nil {
		return analysis.ModeFull
	}
	return mode
}

// Compute runs the models in the configured mode
func (s *AnalysisService) Compute(trials []analysis.Trial) (*ResultsData, error) {
	return s.ComputeMode(trials, s.Mode())
}

// ComputeMode runs the models in mode and formats the results
func (s *AnalysisService) ComputeMode(trials []analysis.Trial, mode analysis.Mode) (*ResultsData, error) {
	requestID := uuid.NewString()
	logger := s.logger.With(
		zap.String("request_id", requestID),
		zap.String("mode", string(mode)),
		zap.Int("trials", len(trials)),
	)

	res, err := analysis.Compute(trials, analysis.Options{Mode: mode, Percentages: s.cfg.Percentages})
	if err != nil {
		logger.Warn("computation rejected", zap.Error(err))
		return nil, fmt.Errorf("computing critical speed: %w", err)
	}

	data := &ResultsData{
		RequestID:        requestID,
		Mode:             res.Mode,
		CriticalSpeedMs:  res.CriticalSpeedMs,
		CriticalSpeedKmh: res.CriticalSpeedKmh,
		DPrimeMeters:     res.DPrimeMeters,
		PaceSecondsPerKm: res.PaceMinPerKm * SecondsPerMinute,
		CriticalSpeed:    formatSpeedMs(res.CriticalSpeedMs),
		CriticalSpeedKph: formatSpeedKmh(res.CriticalSpeedKmh),
		Pace:             formatPace(roundSeconds(res.PaceMinPerKm * SecondsPerMinute)),
		DPrime:           formatMeters(res.DPrimeMeters),
		Rows:             formatRows(res.Rows),
		Curve:            s.Curve(res.Linear, 0, 0),
		TrialCount:       len(trials),
		ValidTrialCount:  len(res.ValidTrials),
		Result:           res,
	}
	if res.Power != nil {
		data.PowerLaw = fmt.Sprintf("T = %.4g·v^-%.3f", res.Power.A, res.Power.K)
	}

	logger.Info("computed critical speed",
		zap.Float64("cs_ms", res.CriticalSpeedMs),
		zap.Float64("d_prime_m", res.DPrimeMeters),
		zap.Int("valid_trials", len(res.ValidTrials)),
		zap.Int("rows", len(res.Rows)),
	)
	if res.DPrimeMeters < 0 {
		logger.Warn("negative D′, check the trial order", zap.Float64("d_prime_m", res.DPrimeMeters))
	}

	return data, nil
}

// Curve samples the distance and speed curves of fit. Zero horizon or samples
// fall back to the configured values.
func (s *AnalysisService) Curve(fit analysis.LinearFit, horizon float64, samples int) CurveData {
	if horizon <= 0 {
		horizon = s.cfg.CurveHorizonSeconds
	}
	if horizon <= 0 {
		horizon = analysis.DefaultCurveHorizonSeconds
	}
	if samples <= 0 {
		samples = s.cfg.CurveSamples
	}
	if samples <= 0 {
		samples = analysis.DefaultCurveSamples
	}

	opts := analysis.CurveOptions{DecaySeconds: s.cfg.DecaySeconds}
	times := analysis.SampleTimes(horizon, samples)
	speeds := analysis.SampleSpeedCurve(fit, times, opts)
	for i := range speeds {
		speeds[i] *= analysis.MsToKmh
	}

	return CurveData{
		Times:     times,
		Distances: analysis.SampleDistanceCurve(fit, times, opts),
		SpeedsKmh: speeds,
	}
}

// ErrorMessage turns a Compute error into the text shown to the user
func ErrorMessage(err error) string {
	return analysis.UserMessage(err)
}

// IsInputError reports whether err was caused by the trials rather than the system
func IsInputError(err error) bool {
	for _, target := range []error{
		analysis.ErrInsufficientData,
		analysis.ErrTooManyTrials,
		analysis.ErrInvalidTrialValues,
		analysis.ErrDegenerateReferencePair,
		analysis.ErrInsufficientValidTrials,
		analysis.ErrDegenerateSpeeds,
		analysis.ErrNonPositiveCriticalSpeed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func formatRows(rows []analysis.PredictionRow) []PredictionDisplay {
	out := make([]PredictionDisplay, len(rows))
	for i, r := range rows {
		out[i] = PredictionDisplay{
			Percent:          r.Percent,
			SpeedMs:          r.SpeedMs,
			SpeedKmh:         r.SpeedKmh,
			TimeLimitSeconds: r.TimeLimitSeconds,
			PaceSecondsPerKm: r.PaceSecondsPerKm,
			Speed:            formatSpeedKmh(r.SpeedKmh),
			TimeLimit:        formatTimeLimit(r.TimeLimitSeconds),
			Pace:             formatPace(roundSeconds(r.PaceSecondsPerKm)),
			Model:            r.Model.String(),
		}
	}
	return out
}
