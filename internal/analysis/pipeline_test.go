package analysis

import (
	"errors"
	"testing"
)

func TestCompute(t *testing.T) {
	t.Run("full mode reference scenario", func(t *testing.T) {
		rs, err := Compute([]Trial{refTrial1, refTrial2}, Options{})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if rs.Mode != ModeFull {
			t.Errorf("Mode = %q, want %q", rs.Mode, ModeFull)
		}
		if !almostEqual(rs.CriticalSpeedKmh, 12.3, 1e-9) {
			t.Errorf("CriticalSpeedKmh = %v, want 12.3", rs.CriticalSpeedKmh)
		}
		if !almostEqual(rs.DPrimeMeters, 230, 1e-9) {
			t.Errorf("DPrimeMeters = %v, want 230", rs.DPrimeMeters)
		}
		if !almostEqual(rs.PaceMinPerKm, 60/12.3, 1e-9) {
			t.Errorf("PaceMinPerKm = %v, want %v", rs.PaceMinPerKm, 60/12.3)
		}
		if rs.Power == nil {
			t.Fatal("Power = nil, want a power-law fit in full mode")
		}
		if len(rs.Rows) != 25 {
			t.Errorf("got %d rows, want 25", len(rs.Rows))
		}
	})

	t.Run("simple mode", func(t *testing.T) {
		rs, err := Compute([]Trial{refTrial1, refTrial2}, Options{Mode: ModeSimple})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if rs.Power != nil {
			t.Error("Power should be nil in simple mode")
		}
		if len(rs.Rows) != 15 {
			t.Errorf("got %d rows, want 15", len(rs.Rows))
		}
	})

	t.Run("extra trials feed the power law only", func(t *testing.T) {
		trials := []Trial{
			refTrial1,
			refTrial2,
			{DistanceMeters: 5000, TimeSeconds: 1500},
			{DistanceMeters: 0, TimeSeconds: 600},
		}
		rs, err := Compute(trials, Options{})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if len(rs.ValidTrials) != 3 {
			t.Errorf("got %d valid trials, want 3", len(rs.ValidTrials))
		}
		if !almostEqual(rs.DPrimeMeters, 230, 1e-9) {
			t.Errorf("DPrimeMeters = %v, want 230 (reference pair only)", rs.DPrimeMeters)
		}
	})

	t.Run("identical speeds drop only the log rows", func(t *testing.T) {
		trials := []Trial{
			{DistanceMeters: 1000, TimeSeconds: 300},
			{DistanceMeters: 2000, TimeSeconds: 600},
			{DistanceMeters: 3000, TimeSeconds: 900},
		}
		rs, err := Compute(trials, Options{})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if rs.Power != nil {
			t.Errorf("Power = %+v, want nil for a single pace", rs.Power)
		}
		if !almostEqual(rs.CriticalSpeedMs, 1000.0/300, 1e-9) {
			t.Errorf("CriticalSpeedMs = %v, want %v", rs.CriticalSpeedMs, 1000.0/300)
		}
		for _, r := range rs.Rows {
			if r.Model == ModelLog {
				t.Errorf("unexpected Log row at %d%%", r.Percent)
			}
		}

		simple, err := Compute(trials[:2], Options{Mode: ModeSimple})
		if err != nil {
			t.Fatalf("Compute() simple error = %v", err)
		}
		if len(rs.Rows) != len(simple.Rows) {
			t.Errorf("full mode gave %d rows, simple mode %d", len(rs.Rows), len(simple.Rows))
		}
	})

	t.Run("custom percentages", func(t *testing.T) {
		rs, err := Compute([]Trial{refTrial1, refTrial2}, Options{Percentages: []int{90, 100, 110}})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if len(rs.Rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rs.Rows))
		}
		if rs.Rows[0].Percent != 90 || rs.Rows[1].Percent != 110 {
			t.Errorf("rows = %d%%, %d%%, want 90%%, 110%%", rs.Rows[0].Percent, rs.Rows[1].Percent)
		}
	})
}

func TestCompute_Errors(t *testing.T) {
	seven := make([]Trial, 7)
	for i := range seven {
		seven[i] = Trial{DistanceMeters: float64(1000 + 500*i), TimeSeconds: float64(240 + 150*i)}
	}

	tests := []struct {
		name    string
		trials  []Trial
		opts    Options
		wantErr error
	}{
		{
			name:    "single trial",
			trials:  []Trial{refTrial1},
			wantErr: ErrInsufficientData,
		},
		{
			name:    "no trials",
			trials:  nil,
			wantErr: ErrInsufficientData,
		},
		{
			name:    "too many trials",
			trials:  seven,
			wantErr: ErrTooManyTrials,
		},
		{
			name:    "simple mode takes exactly two",
			trials:  seven[:3],
			opts:    Options{Mode: ModeSimple},
			wantErr: ErrTooManyTrials,
		},
		{
			name: "equal reference times",
			trials: []Trial{
				{DistanceMeters: 1000, TimeSeconds: 300},
				{DistanceMeters: 1100, TimeSeconds: 300},
			},
			wantErr: ErrDegenerateReferencePair,
		},
		{
			name: "zero reference time",
			trials: []Trial{
				{DistanceMeters: 1000, TimeSeconds: 0},
				{DistanceMeters: 1100, TimeSeconds: 300},
			},
			wantErr: ErrInvalidTrialValues,
		},
		{
			name: "equal reference distances",
			trials: []Trial{
				{DistanceMeters: 1460, TimeSeconds: 360},
				{DistanceMeters: 1460, TimeSeconds: 720},
			},
			wantErr: ErrNonPositiveCriticalSpeed,
		},
		{
			name: "zero reference distance with equal times",
			trials: []Trial{
				{DistanceMeters: 0, TimeSeconds: 300},
				{DistanceMeters: 1000, TimeSeconds: 300},
			},
			wantErr: ErrDegenerateReferencePair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Compute(tt.trials, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Compute() error = %v, want %v", err, tt.wantErr)
			}
			if rs != nil {
				t.Errorf("Compute() returned a partial result on error")
			}
		})
	}

	t.Run("unknown mode", func(t *testing.T) {
		if _, err := Compute([]Trial{refTrial1, refTrial2}, Options{Mode: "turbo"}); err == nil {
			t.Error("Compute() with unknown mode should fail")
		}
	})
}

func TestUserMessage(t *testing.T) {
	errs := []error{
		ErrInsufficientData,
		ErrTooManyTrials,
		ErrInvalidTrialValues,
		ErrDegenerateReferencePair,
		ErrInsufficientValidTrials,
		ErrDegenerateSpeeds,
		ErrNonPositiveCriticalSpeed,
	}

	seen := make(map[string]error)
	for _, e := range errs {
		msg := UserMessage(e)
		if msg == "" {
			t.Errorf("UserMessage(%v) is empty", e)
		}
		if prev, ok := seen[msg]; ok {
			t.Errorf("UserMessage(%v) duplicates message for %v", e, prev)
		}
		seen[msg] = e
	}

	if UserMessage(nil) != "" {
		t.Error("UserMessage(nil) should be empty")
	}

	wrapped := errors.Join(errors.New("reading form"), ErrDegenerateReferencePair)
	if got, want := UserMessage(wrapped), UserMessage(ErrDegenerateReferencePair); got != want {
		t.Errorf("UserMessage(wrapped) = %q, want %q", got, want)
	}
}
