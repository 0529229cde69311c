package session

// Reconcile corrects a stored session against the set of windows that
// actually exist. Window closure happens outside wtm's control (the user can
// click a close button at any time), so every operation re-validates the
// stored ids before trusting them.
//
// Stale ids are dropped preserving relative order. If the active window
// survives, it stays active. If it was closed, focus falls to the nearest
// surviving window before it in cycle order, or the first window when none
// precedes it. An empty result means the session has ended; callers delete
// the record rather than persisting an empty one.
//
// The input state is not modified.
func Reconcile(s *State, live []int64) *State {
	alive := make(map[int64]bool, len(live))
	for _, id := range live {
		alive[id] = true
	}

	out := &State{
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if out.Version == 0 {
		out.Version = StateVersion
	}

	activeID := int64(-1)
	if id, ok := s.ActiveWindow(); ok {
		activeID = id
	}

	// survivorsBefore counts kept windows that precede the old active slot;
	// it locates the fallback focus target when the active window is gone.
	survivorsBefore := 0
	newActive := -1
	for i, id := range s.Windows {
		if !alive[id] {
			continue
		}
		if id == activeID {
			newActive = len(out.Windows)
		}
		if i < s.ActiveIndex {
			survivorsBefore++
		}
		out.Windows = append(out.Windows, id)
	}

	if len(out.Windows) == 0 {
		out.ActiveIndex = 0
		out.Status = ""
		return out
	}

	if newActive < 0 {
		newActive = survivorsBefore - 1
		if newActive < 0 {
			newActive = 0
		}
		if newActive >= len(out.Windows) {
			newActive = len(out.Windows) - 1
		}
	}
	out.ActiveIndex = newActive
	out.refresh()
	return out
}

// Changed reports whether reconciliation altered the window list or the
// active index relative to the original state.
func Changed(before, after *State) bool {
	if before.ActiveIndex != after.ActiveIndex || len(before.Windows) != len(after.Windows) {
		return true
	}
	for i, id := range before.Windows {
		if after.Windows[i] != id {
			return true
		}
	}
	return false
}
