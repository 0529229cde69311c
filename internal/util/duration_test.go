package util

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		// Simple units
		{"30s", 30 * time.Second, false},
		{"5m", 5 * time.Minute, false},
		{"2h", 2 * time.Hour, false},

		// Milliseconds (standard Go format)
		{"500ms", 500 * time.Millisecond, false},
		{"5000ms", 5 * time.Second, false},

		// Standard Go compound durations
		{"1m30s", 90 * time.Second, false},

		// Edge cases
		{"0s", 0, false},
		{"1s", time.Second, false},
		{"-1s", -time.Second, false}, // Go allows negative durations

		// Errors
		{"", 0, true},
		{"s", 0, true},
		{"abc", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDuration(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseDuration(%q) expected error, got %v", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseDuration(%q) unexpected error: %v", tc.input, err)
				return
			}
			if got != tc.expected {
				t.Errorf("ParseDuration(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestParseDurationWithDefault(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		defaultUnit time.Duration
		expected    time.Duration
		wantErr     bool
	}{
		{"explicit seconds", "30s", time.Second, 30 * time.Second, false},
		{"explicit milliseconds", "5000ms", time.Millisecond, 5 * time.Second, false},
		{"bare number seconds default", "30", time.Second, 30 * time.Second, false},
		{"bare number milliseconds default", "5000", time.Millisecond, 5 * time.Second, false},
		{"invalid string", "abc", time.Second, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDurationWithDefault(tc.input, tc.defaultUnit)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got != tc.expected {
				t.Errorf("got %v, want %v", got, tc.expected)
			}
		})
	}
}
