package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"critspeed/internal/service"
)

// Result is the machine-readable form of a computation
type Result struct {
	Mode             string     `json:"mode"`
	CriticalSpeedMs  float64    `json:"critical_speed_ms"`
	CriticalSpeedKmh float64    `json:"critical_speed_kmh"`
	DPrimeMeters     float64    `json:"d_prime_m"`
	PaceSecondsPerKm float64    `json:"pace_s_per_km"`
	PowerLaw         *PowerLaw  `json:"power_law,omitempty"`
	Predictions      []Row      `json:"predictions"`
	Curve            *CurveData `json:"curve,omitempty"`
}

// PowerLaw holds T = A·v^-K
type PowerLaw struct {
	A float64 `json:"a"`
	K float64 `json:"k"`
}

// Row is one prediction
type Row struct {
	Percent          int     `json:"percent"`
	SpeedMs          float64 `json:"speed_ms"`
	SpeedKmh         float64 `json:"speed_kmh"`
	TimeLimitSeconds float64 `json:"time_limit_s"`
	PaceSecondsPerKm float64 `json:"pace_s_per_km"`
	Model            string  `json:"model"`
}

// CurveData is the sampled curve
type CurveData struct {
	TimesSeconds   []float64 `json:"times_s"`
	DistanceMeters []float64 `json:"distance_m"`
	SpeedKmh       []float64 `json:"speed_kmh"`
}

// NewResult flattens display data into the exported shape
func NewResult(data *service.ResultsData) Result {
	res := Result{
		Mode:             string(data.Mode),
		CriticalSpeedMs:  data.CriticalSpeedMs,
		CriticalSpeedKmh: data.CriticalSpeedKmh,
		DPrimeMeters:     data.DPrimeMeters,
		PaceSecondsPerKm: data.PaceSecondsPerKm,
		Predictions:      make([]Row, len(data.Rows)),
	}
	if data.Result != nil && data.Result.Power != nil {
		res.PowerLaw = &PowerLaw{A: data.Result.Power.A, K: data.Result.Power.K}
	}
	for i, r := range data.Rows {
		res.Predictions[i] = Row{
			Percent:          r.Percent,
			SpeedMs:          r.SpeedMs,
			SpeedKmh:         r.SpeedKmh,
			TimeLimitSeconds: r.TimeLimitSeconds,
			PaceSecondsPerKm: r.PaceSecondsPerKm,
			Model:            r.Model,
		}
	}
	if len(data.Curve.Times) > 0 {
		res.Curve = &CurveData{
			TimesSeconds:   data.Curve.Times,
			DistanceMeters: data.Curve.Distances,
			SpeedKmh:       data.Curve.SpeedsKmh,
		}
	}
	return res
}

// WriteJSON writes the result as indented JSON
func WriteJSON(w io.Writer, data *service.ResultsData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewResult(data)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// CSVHeader is the first CSV record
var CSVHeader = []string{"percent", "speed_ms", "speed_kmh", "time_limit_s", "time_limit", "pace_s_per_km", "pace", "model"}

// WriteCSV writes one record per prediction row
func WriteCSV(w io.Writer, data *service.ResultsData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	for _, r := range data.Rows {
		record := []string{
			strconv.Itoa(r.Percent),
			formatFloat(r.SpeedMs),
			formatFloat(r.SpeedKmh),
			formatFloat(r.TimeLimitSeconds),
			r.TimeLimit,
			formatFloat(r.PaceSecondsPerKm),
			r.Pace,
			r.Model,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// CurveCSVHeader is the first record of a curve export
var CurveCSVHeader = []string{"time_s", "distance_m", "speed_kmh"}

// WriteCurveCSV writes one record per curve sample
func WriteCurveCSV(w io.Writer, data *service.ResultsData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CurveCSVHeader); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	c := data.Curve
	for i := range c.Times {
		record := []string{formatFloat(c.Times[i]), formatFloat(c.Distances[i]), formatFloat(c.SpeedsKmh[i])}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
