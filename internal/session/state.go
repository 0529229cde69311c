// Package session owns the persisted window-tab session: the ordered list of
// terminal window ids, which one is active, and the derived status string.
// All mutation happens through the Store under an exclusive file lock.
package session

import (
	"fmt"
	"time"
)

// StateVersion is the schema version for migrations
const StateVersion = 1

// State is the single persisted session record for the current user.
//
// Windows is ordered (it defines the next/prev cycle) and never contains
// duplicates. ActiveIndex always satisfies 0 <= ActiveIndex < len(Windows)
// when Windows is non-empty; it is meaningless when the session is empty.
// Status is derived, never hand-edited.
type State struct {
	Version     int       `json:"version"`
	Windows     []int64   `json:"windows"`
	ActiveIndex int       `json:"active_index"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// New creates a session containing a single window.
func New(window int64) *State {
	now := time.Now().UTC()
	s := &State{
		Version:   StateVersion,
		Windows:   []int64{window},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.refresh()
	return s
}

// Len returns the number of tracked windows.
func (s *State) Len() int {
	return len(s.Windows)
}

// Empty reports whether the session tracks no windows.
func (s *State) Empty() bool {
	return len(s.Windows) == 0
}

// ActiveWindow returns the id of the active window.
// The second return is false for an empty session.
func (s *State) ActiveWindow() (int64, bool) {
	if s.Empty() {
		return 0, false
	}
	return s.Windows[s.ActiveIndex], true
}

// Append adds a window to the end of the cycle and makes it active.
func (s *State) Append(window int64) {
	s.Windows = append(s.Windows, window)
	s.ActiveIndex = len(s.Windows) - 1
	s.refresh()
}

// Advance moves the active index by delta, wrapping in both directions.
// A single-window session stays on that window.
func (s *State) Advance(delta int) {
	if s.Empty() {
		return
	}
	n := len(s.Windows)
	s.ActiveIndex = ((s.ActiveIndex+delta)%n + n) % n
	s.refresh()
}

// refresh recomputes the derived fields after any mutation.
func (s *State) refresh() {
	s.Status = FormatStatus(s.ActiveIndex, len(s.Windows))
	s.UpdatedAt = time.Now().UTC()
}

// Normalize repairs a state read from disk: duplicate ids are dropped
// (keeping the first occurrence), the active index is clamped into range,
// and the status string is recomputed.
func (s *State) Normalize() {
	seen := make(map[int64]bool, len(s.Windows))
	windows := s.Windows[:0]
	for _, id := range s.Windows {
		if seen[id] {
			continue
		}
		seen[id] = true
		windows = append(windows, id)
	}
	s.Windows = windows

	if s.ActiveIndex < 0 {
		s.ActiveIndex = 0
	}
	if s.ActiveIndex >= len(s.Windows) && len(s.Windows) > 0 {
		s.ActiveIndex = len(s.Windows) - 1
	}
	if s.Version == 0 {
		s.Version = StateVersion
	}
	s.Status = FormatStatus(s.ActiveIndex, len(s.Windows))
}

// FormatStatus returns the "[current/total]" display string shown in shell
// prompts, or "" when no windows are tracked. Current is 1-based.
func FormatStatus(activeIndex, total int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("[%d/%d]", activeIndex+1, total)
}
