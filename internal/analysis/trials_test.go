package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestValidateTrials(t *testing.T) {
	tests := []struct {
		name      string
		trials    []Trial
		mode      Mode
		wantErr   error
		wantValid int
	}{
		{
			name:      "reference pair",
			trials:    []Trial{refTrial1, refTrial2},
			mode:      ModeFull,
			wantValid: 2,
		},
		{
			name:      "extras with blanks are dropped",
			trials:    []Trial{refTrial1, refTrial2, {}, {DistanceMeters: 4300, TimeSeconds: 1200}, {DistanceMeters: 800}},
			mode:      ModeFull,
			wantValid: 3,
		},
		{
			name:    "one trial",
			trials:  []Trial{refTrial1},
			mode:    ModeFull,
			wantErr: ErrInsufficientData,
		},
		{
			name:    "seven trials",
			trials:  []Trial{refTrial1, refTrial2, refTrial1, refTrial2, refTrial1, refTrial2, refTrial1},
			mode:    ModeFull,
			wantErr: ErrTooManyTrials,
		},
		{
			name:    "three trials in simple mode",
			trials:  []Trial{refTrial1, refTrial2, {DistanceMeters: 4300, TimeSeconds: 1200}},
			mode:    ModeSimple,
			wantErr: ErrTooManyTrials,
		},
		{
			name:    "zero reference distance",
			trials:  []Trial{{DistanceMeters: 0, TimeSeconds: 360}, refTrial2},
			mode:    ModeFull,
			wantErr: ErrInvalidTrialValues,
		},
		{
			name:    "NaN reference time",
			trials:  []Trial{refTrial1, {DistanceMeters: 2690, TimeSeconds: math.NaN()}},
			mode:    ModeFull,
			wantErr: ErrInvalidTrialValues,
		},
		{
			name:    "equal reference times with zero distance",
			trials:  []Trial{{DistanceMeters: 0, TimeSeconds: 300}, {DistanceMeters: 1000, TimeSeconds: 300}},
			mode:    ModeFull,
			wantErr: ErrDegenerateReferencePair,
		},
		{
			name:    "equal zero reference times",
			trials:  []Trial{{DistanceMeters: 1000, TimeSeconds: 0}, {DistanceMeters: 2000, TimeSeconds: 0}},
			mode:    ModeSimple,
			wantErr: ErrDegenerateReferencePair,
		},
		{
			name:    "equal reference times",
			trials:  []Trial{refTrial1, {DistanceMeters: 2690, TimeSeconds: 360}},
			mode:    ModeSimple,
			wantErr: ErrDegenerateReferencePair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := ValidateTrials(tt.trials, tt.mode)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateTrials() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateTrials() error = %v", err)
			}
			if len(valid) != tt.wantValid {
				t.Errorf("ValidateTrials() kept %d trials, want %d", len(valid), tt.wantValid)
			}
		})
	}
}

func TestTrialSpeed(t *testing.T) {
	if got := refTrial1.Speed(); math.Abs(got-1460.0/360) > 1e-12 {
		t.Errorf("Speed() = %v, want %v", got, 1460.0/360)
	}
	if (Trial{DistanceMeters: 100, TimeSeconds: math.Inf(1)}).Valid() {
		t.Error("Valid() = true for infinite time")
	}
}
