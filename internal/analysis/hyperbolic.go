package analysis

// TimeLimitAboveCS returns the time in seconds needed to deplete D′ at
// speedMs: D′/(v−CS). ok is false when speedMs does not exceed critical speed,
// where the hyperbolic model does not apply.
func TimeLimitAboveCS(fit LinearFit, speedMs float64) (seconds float64, ok bool) {
	denom := speedMs - fit.CriticalSpeed
	if denom <= 0 {
		return 0, false
	}
	return fit.DPrime / denom, true
}
