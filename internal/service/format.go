package service

import (
	"fmt"
	"math"
)

// formatDuration formats seconds as "H:MM:SS" or "M:SS"
func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / SecondsPerMinute
	s := seconds % SecondsPerMinute

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// formatPace formats a pace in seconds per km as "M:SS"
func formatPace(seconds int) string {
	mins := seconds / SecondsPerMinute
	secs := seconds % SecondsPerMinute
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// formatTimeLimit floors a time limit to whole seconds. Limits past
// MaxDisplaySeconds, which a steep power law produces far below CS, are capped.
func formatTimeLimit(seconds float64) string {
	if seconds >= MaxDisplaySeconds+1 || math.IsNaN(seconds) {
		return ">" + formatDuration(MaxDisplaySeconds)
	}
	return formatDuration(int(math.Floor(seconds)))
}

// roundSeconds rounds to whole seconds for display
func roundSeconds(v float64) int {
	return int(math.Round(v))
}

func formatSpeedMs(v float64) string {
	return fmt.Sprintf("%.*f m/s", SpeedDecimals, v)
}

func formatSpeedKmh(v float64) string {
	return fmt.Sprintf("%.*f km/h", SpeedDecimals, v)
}

func formatMeters(v float64) string {
	return fmt.Sprintf("%.1f m", v)
}
