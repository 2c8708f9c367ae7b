package analysis

import "errors"

// Errors returned by the critical speed pipeline. Each one is terminal for
// the current computation: no partial result is produced.
var (
	ErrInsufficientData         = errors.New("at least two trials are required")
	ErrTooManyTrials            = errors.New("too many trials")
	ErrInvalidTrialValues       = errors.New("reference trials must have positive distance and time")
	ErrDegenerateReferencePair  = errors.New("the first two trials have the same time")
	ErrInsufficientValidTrials  = errors.New("at least two trials with positive distance and time are required")
	ErrDegenerateSpeeds         = errors.New("all trials have the same average speed")
	ErrNonPositiveCriticalSpeed = errors.New("critical speed is not positive")
)

// UserMessage returns a human-readable explanation for a pipeline error
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientData):
		return "Please enter at least two tests."
	case errors.Is(err, ErrTooManyTrials):
		return "Too many tests: remove some entries and try again."
	case errors.Is(err, ErrInvalidTrialValues):
		return "The first two tests need a distance and a time greater than zero."
	case errors.Is(err, ErrDegenerateReferencePair):
		return "The first two times must be different."
	case errors.Is(err, ErrInsufficientValidTrials):
		return "At least two valid tests are needed for the log model."
	case errors.Is(err, ErrDegenerateSpeeds):
		return "The tests all have the same average speed; the log model cannot be fitted."
	case errors.Is(err, ErrNonPositiveCriticalSpeed):
		return "Critical speed cannot be computed (invalid data)."
	default:
		return err.Error()
	}
}
