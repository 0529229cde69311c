// Package util provides shared utility functions for wtm.
package util

import (
	"fmt"
	"strconv"
	"time"
)

// ParseDuration parses human-friendly duration strings.
// Supports: 500ms, 30s, 5m, 1h and standard Go durations (e.g., 1m30s).
func ParseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}

	unit := s[len(s)-1]
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		// Not a simple unit, try standard Go duration
		return time.ParseDuration(s)
	}

	switch unit {
	case 's':
		return time.Duration(value) * time.Second, nil
	case 'm':
		return time.Duration(value) * time.Minute, nil
	case 'h':
		return time.Duration(value) * time.Hour, nil
	default:
		return time.ParseDuration(s)
	}
}

// ParseDurationWithDefault parses a duration string, treating bare numbers
// as defaultUnit. Used for timeout flags so "--lock-timeout=2" and
// "--lock-timeout=2s" both work.
func ParseDurationWithDefault(s string, defaultUnit time.Duration) (time.Duration, error) {
	if d, err := ParseDuration(s); err == nil {
		return d, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s (use units like 500ms, 2s, 5m)", s)
	}
	return time.Duration(n) * defaultUnit, nil
}
