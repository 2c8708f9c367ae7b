// Package trialfile reads field-test trials from YAML (or JSON) files and
// parses distance/time values typed on the command line.
package trialfile

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"critspeed/internal/analysis"
)

// File is the on-disk trial set
type File struct {
	Mode   string  `yaml:"mode,omitempty"`
	Trials []Entry `yaml:"trials"`
}

// Entry is one trial in a file. Time accepts seconds or "m:ss" / "h:mm:ss".
type Entry struct {
	Label          string  `yaml:"label,omitempty"`
	DistanceMeters float64 `yaml:"distance_m"`
	Time           Seconds `yaml:"time"`
}

// Seconds is a duration in seconds that unmarshals from a number or a clock string
type Seconds float64

// UnmarshalYAML implements yaml.Unmarshaler
func (s *Seconds) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: time must be a scalar", node.Line)
	}
	v, err := ParseSeconds(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = Seconds(v)
	return nil
}

// MarshalYAML writes the value as plain seconds
func (s Seconds) MarshalYAML() (interface{}, error) {
	return float64(s), nil
}

// ErrEmptyValue is returned when a distance or time is blank
var ErrEmptyValue = errors.New("empty value")

// Load reads and parses a trial file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trial file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a trial file. JSON documents are valid YAML and parse too.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing trial file: %w", err)
	}
	if _, err := analysis.ParseMode(f.Mode); err != nil {
		return nil, fmt.Errorf("parsing trial file: %w", err)
	}
	return &f, nil
}

// Save writes a trial file as YAML
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding trial file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing trial file: %w", err)
	}
	return nil
}

// AnalysisTrials converts file entries to analysis trials in file order
func (f *File) AnalysisTrials() []analysis.Trial {
	trials := make([]analysis.Trial, len(f.Trials))
	for i, e := range f.Trials {
		trials[i] = analysis.Trial{DistanceMeters: e.DistanceMeters, TimeSeconds: float64(e.Time)}
	}
	return trials
}

// AnalysisMode returns the file's mode, or fallback when the file leaves it unset
func (f *File) AnalysisMode(fallback analysis.Mode) analysis.Mode {
	if f.Mode == "" {
		return fallback
	}
	mode, err := analysis.ParseMode(f.Mode)
	if err != nil {
		return fallback
	}
	return mode
}

// ParseSeconds parses "360", "360s", "6:00" or "1:02:03" into seconds
func ParseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "s")
	if s == "" {
		return 0, ErrEmptyValue
	}

	if !strings.Contains(s, ":") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		return v, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	var total float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		// minutes and seconds fields must stay below 60
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("invalid time %q: field %q must be below 60", s, p)
		}
		total = total*60 + v
	}
	return total, nil
}

// ParseDistance parses a distance in meters, accepting an optional "m" or "km" suffix
func ParseDistance(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, ErrEmptyValue
	}

	scale := 1.0
	switch {
	case strings.HasSuffix(s, "km"):
		scale = 1000
		s = strings.TrimSuffix(s, "km")
	case strings.HasSuffix(s, "m"):
		s = strings.TrimSuffix(s, "m")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid distance %q", s)
	}
	return v * scale, nil
}

// ParseTrial parses a "distance:time" pair such as "1460:360" or "2690:12:00"
func ParseTrial(s string) (analysis.Trial, error) {
	dist, clock, ok := strings.Cut(s, ":")
	if !ok {
		return analysis.Trial{}, fmt.Errorf("invalid trial %q: want distance:time", s)
	}

	d, err := ParseDistance(dist)
	if err != nil {
		return analysis.Trial{}, fmt.Errorf("invalid trial %q: %w", s, err)
	}
	t, err := ParseSeconds(clock)
	if err != nil {
		return analysis.Trial{}, fmt.Errorf("invalid trial %q: %w", s, err)
	}

	return analysis.Trial{DistanceMeters: d, TimeSeconds: t}, nil
}

// FormatSeconds renders seconds as "m:ss", or "h:mm:ss" past an hour
func FormatSeconds(seconds float64) string {
	total := int(math.Round(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
