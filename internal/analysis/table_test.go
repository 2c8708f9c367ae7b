package analysis

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func referenceFits(t *testing.T) (LinearFit, PowerLawFit) {
	t.Helper()
	linear, err := ComputeLinearFit(refTrial1, refTrial2)
	if err != nil {
		t.Fatalf("ComputeLinearFit() error = %v", err)
	}
	power, err := ComputePowerLawFit([]Trial{refTrial1, refTrial2})
	if err != nil {
		t.Fatalf("ComputePowerLawFit() error = %v", err)
	}
	return linear, power
}

func percentsOf(rows []PredictionRow) []int {
	var out []int
	for _, r := range rows {
		out = append(out, r.Percent)
	}
	return out
}

func TestDefaultPercentages(t *testing.T) {
	want := []int{
		80, 82, 84, 86, 88, 90, 92, 94, 96, 98,
		102, 104, 106, 108, 110, 112, 114, 116, 118, 120, 122, 124, 126, 128, 130,
	}
	if diff := cmp.Diff(want, DefaultPercentages()); diff != "" {
		t.Errorf("DefaultPercentages() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPredictionTable_Full(t *testing.T) {
	linear, power := referenceFits(t)
	rows := BuildPredictionTable(linear, &power, DefaultPercentages(), ModeFull)

	if diff := cmp.Diff(DefaultPercentages(), percentsOf(rows)); diff != "" {
		t.Errorf("row percentages mismatch (-want +got):\n%s", diff)
	}

	for _, r := range rows {
		if r.TimeLimitSeconds <= 0 || math.IsInf(r.TimeLimitSeconds, 0) || math.IsNaN(r.TimeLimitSeconds) {
			t.Errorf("row %d%% has invalid time limit %v", r.Percent, r.TimeLimitSeconds)
		}
		wantModel := ModelDPrime
		if r.Percent < 100 {
			wantModel = ModelLog
		}
		if r.Model != wantModel {
			t.Errorf("row %d%% model = %v, want %v", r.Percent, r.Model, wantModel)
		}
		if !almostEqual(r.PaceSecondsPerKm, 3600/r.SpeedKmh, 1e-9) {
			t.Errorf("row %d%% pace = %v, want %v", r.Percent, r.PaceSecondsPerKm, 3600/r.SpeedKmh)
		}
	}
}

func TestBuildPredictionTable_Scenario110(t *testing.T) {
	linear, power := referenceFits(t)
	rows := BuildPredictionTable(linear, &power, []int{110}, ModeFull)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	r := rows[0]
	if !almostEqual(r.SpeedMs, 3.758, 1e-3) {
		t.Errorf("SpeedMs = %v, want ~3.758", r.SpeedMs)
	}
	if !almostEqual(r.TimeLimitSeconds, 230/(0.1*linear.CriticalSpeed), 1e-6) {
		t.Errorf("TimeLimitSeconds = %v, want %v", r.TimeLimitSeconds, 230/(0.1*linear.CriticalSpeed))
	}
	// 11:13-11:14
	if r.TimeLimitSeconds < 673 || r.TimeLimitSeconds > 674.5 {
		t.Errorf("TimeLimitSeconds = %v, want ~673.9", r.TimeLimitSeconds)
	}
	if r.Model != ModelDPrime {
		t.Errorf("Model = %v, want D′", r.Model)
	}
}

func TestBuildPredictionTable_NeverEmits100(t *testing.T) {
	linear, power := referenceFits(t)
	for _, mode := range []Mode{ModeFull, ModeSimple} {
		rows := BuildPredictionTable(linear, &power, []int{98, 99, 100, 101, 102}, mode)
		for _, r := range rows {
			if r.Percent == 100 {
				t.Errorf("%s mode emitted a row for 100%%", mode)
			}
		}
	}
}

func TestBuildPredictionTable_Simple(t *testing.T) {
	linear, power := referenceFits(t)

	tests := []struct {
		name  string
		power *PowerLawFit
	}{
		{"without power law", nil},
		{"power law ignored", &power},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := BuildPredictionTable(linear, tt.power, DefaultPercentages(), ModeSimple)
			want := DefaultPercentages()[10:]
			if diff := cmp.Diff(want, percentsOf(rows)); diff != "" {
				t.Errorf("row percentages mismatch (-want +got):\n%s", diff)
			}
			for _, r := range rows {
				if r.Model != ModelDPrime {
					t.Errorf("row %d%% model = %v, want D′", r.Percent, r.Model)
				}
			}
		})
	}
}

func TestBuildPredictionTable_FullWithoutPowerLaw(t *testing.T) {
	linear, _ := referenceFits(t)
	rows := BuildPredictionTable(linear, nil, DefaultPercentages(), ModeFull)
	for _, r := range rows {
		if r.Percent < 100 {
			t.Errorf("unexpected sub-CS row %d%% without a power-law fit", r.Percent)
		}
	}
}

func TestBuildPredictionTable_NegativeDPrimeDropsRows(t *testing.T) {
	trials := []Trial{
		{DistanceMeters: 1000, TimeSeconds: 300},
		{DistanceMeters: 2000, TimeSeconds: 500},
	}
	linear, err := ComputeLinearFit(trials[0], trials[1])
	if err != nil {
		t.Fatalf("ComputeLinearFit() error = %v", err)
	}
	power, err := ComputePowerLawFit(trials)
	if err != nil {
		t.Fatalf("ComputePowerLawFit() error = %v", err)
	}

	rows := BuildPredictionTable(linear, &power, DefaultPercentages(), ModeFull)
	for _, r := range rows {
		if r.Percent > 100 {
			t.Errorf("row %d%% should be dropped when D′ is negative (tlim %v)", r.Percent, r.TimeLimitSeconds)
		}
	}
	if len(rows) != 10 {
		t.Errorf("got %d rows, want the 10 sub-CS rows", len(rows))
	}
}

func TestBuildPredictionTable_Monotonic(t *testing.T) {
	linear, power := referenceFits(t)
	rows := BuildPredictionTable(linear, &power, DefaultPercentages(), ModeFull)

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if (prev.Percent < 100) != (cur.Percent < 100) {
			continue
		}
		if cur.TimeLimitSeconds >= prev.TimeLimitSeconds {
			t.Errorf("time limit should decrease: %d%% (%.1f s) >= %d%% (%.1f s)",
				cur.Percent, cur.TimeLimitSeconds, prev.Percent, prev.TimeLimitSeconds)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeFull, false},
		{"full", ModeFull, false},
		{"simple", ModeSimple, false},
		{"fast", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestModelString(t *testing.T) {
	if got := ModelLog.String(); got != "Log" {
		t.Errorf("ModelLog.String() = %q, want %q", got, "Log")
	}
	if got := ModelDPrime.String(); got != "D′" {
		t.Errorf("ModelDPrime.String() = %q, want %q", got, "D′")
	}
}
