package service

import "critspeed/internal/analysis"

const (
	// Seconds per minute for pace and duration formatting
	SecondsPerMinute = 60

	// DefaultImportLimit caps how many Strava runs become trials
	DefaultImportLimit = analysis.MaxTrials

	// Speed and pace display precision
	SpeedDecimals = 2

	// MaxDisplaySeconds is the longest time limit shown as a clock (99:59:59)
	MaxDisplaySeconds = 100*3600 - 1
)
