package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"critspeed/internal/analysis"
)

// HomeEnv overrides the configuration directory (default ~/.critspeed)
const HomeEnv = "CRITSPEED_HOME"

// Config represents the application configuration
type Config struct {
	Analysis AnalysisConfig `json:"analysis"`
	Form     FormConfig     `json:"form"`
	Strava   StravaConfig   `json:"strava"`
	Log      LogConfig      `json:"log"`
	Display  DisplayConfig  `json:"display"`
}

// AnalysisConfig holds model settings
type AnalysisConfig struct {
	Mode                string  `json:"mode"`          // "full" or "simple"
	Percentages         []int   `json:"percentages"`   // sweep, percent of CS
	DecaySeconds        float64 `json:"decay_seconds"` // D′ blend constant for the curve
	CurveHorizonSeconds float64 `json:"curve_horizon_seconds"`
	CurveSamples        int     `json:"curve_samples"`
}

// TrialConfig is a distance/time pair used to prefill the form
type TrialConfig struct {
	DistanceMeters float64 `json:"distance_m"`
	TimeSeconds    float64 `json:"time_s"`
}

// FormConfig holds input form defaults
type FormConfig struct {
	Trials []TrialConfig `json:"trials"`
	Step   float64       `json:"step"` // increment for up/down keys
}

// StravaConfig holds Strava API credentials (optional, only used for imports)
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	CallbackPort int    `json:"callback_port"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `json:"level"` // debug, info, warn, error
	File  string `json:"file"`  // empty means <config dir>/critspeed.log
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	ChartWidth  int `json:"chart_width"`
	ChartHeight int `json:"chart_height"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{
			Mode:                string(analysis.ModeFull),
			Percentages:         analysis.DefaultPercentages(),
			DecaySeconds:        analysis.DefaultDecaySeconds,
			CurveHorizonSeconds: analysis.DefaultCurveHorizonSeconds,
			CurveSamples:        analysis.DefaultCurveSamples,
		},
		Form: FormConfig{
			Trials: []TrialConfig{
				{DistanceMeters: 1460, TimeSeconds: 360},
				{DistanceMeters: 2690, TimeSeconds: 720},
			},
			Step: 10,
		},
		Strava: StravaConfig{
			CallbackPort: 8089,
		},
		Log: LogConfig{
			Level: "info",
		},
		Display: DisplayConfig{
			ChartWidth:  60,
			ChartHeight: 10,
		},
	}
}

// Load reads the configuration from <config dir>/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to DefaultConfig when no file exists
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNoConfig) {
		d := DefaultConfig()
		return &d, nil
	}
	return cfg, err
}

// applyDefaults fills zero values with defaults
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Analysis.Mode == "" {
		c.Analysis.Mode = defaults.Analysis.Mode
	}
	if len(c.Analysis.Percentages) == 0 {
		c.Analysis.Percentages = defaults.Analysis.Percentages
	}
	if c.Analysis.DecaySeconds == 0 {
		c.Analysis.DecaySeconds = defaults.Analysis.DecaySeconds
	}
	if c.Analysis.CurveHorizonSeconds == 0 {
		c.Analysis.CurveHorizonSeconds = defaults.Analysis.CurveHorizonSeconds
	}
	if c.Analysis.CurveSamples == 0 {
		c.Analysis.CurveSamples = defaults.Analysis.CurveSamples
	}
	if len(c.Form.Trials) == 0 {
		c.Form.Trials = defaults.Form.Trials
	}
	if c.Form.Step == 0 {
		c.Form.Step = defaults.Form.Step
	}
	if c.Strava.CallbackPort == 0 {
		c.Strava.CallbackPort = defaults.Strava.CallbackPort
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Display.ChartWidth == 0 {
		c.Display.ChartWidth = defaults.Display.ChartWidth
	}
	if c.Display.ChartHeight == 0 {
		c.Display.ChartHeight = defaults.Display.ChartHeight
	}
}

// Save writes the configuration to <config dir>/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Strava.ClientID = "YOUR_CLIENT_ID"
	example.Strava.ClientSecret = "YOUR_CLIENT_SECRET"

	return Save(&example)
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if _, err := analysis.ParseMode(c.Analysis.Mode); err != nil {
		return fmt.Errorf("analysis.mode: %w", err)
	}

	seen := make(map[int]bool, len(c.Analysis.Percentages))
	for _, p := range c.Analysis.Percentages {
		if p < 1 || p > 300 {
			return fmt.Errorf("analysis.percentages: %d is outside 1-300", p)
		}
		if seen[p] {
			return fmt.Errorf("analysis.percentages: %d appears twice", p)
		}
		seen[p] = true
	}

	if c.Analysis.DecaySeconds < 0 {
		return fmt.Errorf("analysis.decay_seconds must be positive, got %v", c.Analysis.DecaySeconds)
	}
	if c.Analysis.CurveHorizonSeconds < 0 {
		return fmt.Errorf("analysis.curve_horizon_seconds must be positive, got %v", c.Analysis.CurveHorizonSeconds)
	}
	if c.Analysis.CurveSamples < 0 {
		return fmt.Errorf("analysis.curve_samples must be positive, got %d", c.Analysis.CurveSamples)
	}

	if len(c.Form.Trials) > analysis.MaxTrials {
		return fmt.Errorf("form.trials: at most %d trials, got %d", analysis.MaxTrials, len(c.Form.Trials))
	}
	for i, t := range c.Form.Trials {
		if t.DistanceMeters < 0 || t.TimeSeconds < 0 {
			return fmt.Errorf("form.trials[%d]: distance and time must not be negative", i)
		}
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	if c.Strava.CallbackPort < 0 || c.Strava.CallbackPort > 65535 {
		return fmt.Errorf("strava.callback_port %d is not a valid port", c.Strava.CallbackPort)
	}

	return nil
}

// ValidateStrava checks that Strava credentials have been filled in
func (c *Config) ValidateStrava() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return nil
}

// AnalysisTrials converts the form defaults into analysis trials
func (f FormConfig) AnalysisTrials() []analysis.Trial {
	trials := make([]analysis.Trial, len(f.Trials))
	for i, t := range f.Trials {
		trials[i] = analysis.Trial{DistanceMeters: t.DistanceMeters, TimeSeconds: t.TimeSeconds}
	}
	return trials
}

// LogPath returns the configured log file, or the default inside the config dir
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "critspeed.log"), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".critspeed"), nil
}
