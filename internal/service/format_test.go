package service

import (
	"math"
	"testing"
)

func TestFormatPace(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0:00"},
		{30, "0:30"},
		{60, "1:00"},
		{266, "4:26"},
		{293, "4:53"},
		{359, "5:59"},
		{600, "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatPace(tt.seconds)
			if result != tt.expected {
				t.Errorf("formatPace(%d) = %q, want %q", tt.seconds, result, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{674, "11:14"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{5025, "1:23:45"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatDuration(tt.seconds)
			if result != tt.expected {
				t.Errorf("formatDuration(%d) = %q, want %q", tt.seconds, result, tt.expected)
			}
		})
	}
}

func TestRoundSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{673.17, 673},
		{673.5, 674},
		{0.4, 0},
	}

	for _, tt := range tests {
		if got := roundSeconds(tt.in); got != tt.want {
			t.Errorf("roundSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimeLimit(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{673.17, "11:13"},
		{673.6, "11:13"},
		{59.99, "0:59"},
		{3600, "1:00:00"},
		{359999.9, "99:59:59"},
		{360000, ">99:59:59"},
		{1.55e18, ">99:59:59"},
		{2.738e25, ">99:59:59"},
		{math.Inf(1), ">99:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatTimeLimit(tt.seconds)
			if result != tt.expected {
				t.Errorf("formatTimeLimit(%v) = %q, want %q", tt.seconds, result, tt.expected)
			}
		})
	}
}
