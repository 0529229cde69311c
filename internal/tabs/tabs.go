// Package tabs implements the session verbs: start, new, next, prev, end.
// Each verb is one locked transaction over the session store, reconciled
// against the live window set before it trusts anything it loaded.
package tabs

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dicklesworthstone/wtm/internal/session"
)

// WindowController is the window-system boundary the verbs drive.
// *xdo.Client satisfies it; tests substitute fakes.
type WindowController interface {
	ListWindows(ctx context.Context) ([]int64, error)
	Activate(ctx context.Context, id int64) error
	MapWindow(ctx context.Context, id int64) error
	UnmapWindow(ctx context.Context, id int64) error
	CloseWindow(ctx context.Context, id int64) error
}

// Launcher spawns one terminal window and reports its id.
type Launcher interface {
	Launch(ctx context.Context) (int64, error)
}

// ErrSessionExists is returned by Start when a live session is already
// running and force was not requested.
var ErrSessionExists = errors.New("a session is already running")

// WindowOpError reports a windowing call that failed after recovery was
// attempted.
type WindowOpError struct {
	Op     string
	Window int64
	Err    error
}

func (e *WindowOpError) Error() string {
	return fmt.Sprintf("%s window %d: %v", e.Op, e.Window, e.Err)
}

func (e *WindowOpError) Unwrap() error { return e.Err }

// Manager composes the store, the window controller, and the launcher.
type Manager struct {
	store  *session.Store
	win    WindowController
	launch Launcher
}

// NewManager wires the three collaborators together.
func NewManager(store *session.Store, win WindowController, launch Launcher) *Manager {
	return &Manager{store: store, win: win, launch: launch}
}

// Start begins a fresh session with a single window.
//
// If a live session exists (at least one stored window still maps to a real
// one), Start fails with ErrSessionExists unless force is set, in which
// case the old session is torn down first. A record whose windows are all
// gone is treated as absent and replaced silently.
func (m *Manager) Start(ctx context.Context, force bool) (*session.State, error) {
	unlock, err := m.store.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	st, err := m.loadReconciled(ctx)
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		return nil, err
	}
	if st != nil && !st.Empty() {
		if !force {
			return nil, ErrSessionExists
		}
		m.closeAll(ctx, st)
	}
	if err := m.store.Delete(); err != nil {
		return nil, err
	}

	return m.startLocked(ctx)
}

// startLocked launches the first window and persists a [1/1] session.
// Caller holds the store lock.
func (m *Manager) startLocked(ctx context.Context) (*session.State, error) {
	id, err := m.launch.Launch(ctx)
	if err != nil {
		return nil, err
	}

	st := session.New(id)
	if err := m.activate(ctx, st, id); err != nil {
		return nil, err
	}
	if err := m.store.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// New adds a tab: launch a window, append it, focus it, hide the previous
// one. On an absent (or fully dead) session it behaves as Start — one
// policy, applied consistently.
func (m *Manager) New(ctx context.Context) (*session.State, error) {
	unlock, err := m.store.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	st, err := m.loadReconciled(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return m.startLocked(ctx)
		}
		return nil, err
	}
	if st.Empty() {
		if err := m.store.Delete(); err != nil {
			return nil, err
		}
		return m.startLocked(ctx)
	}

	prev, _ := st.ActiveWindow()

	id, err := m.launch.Launch(ctx)
	if err != nil {
		return nil, err
	}

	// Hide the old tab; only the active one stays on screen. Best effort:
	// the new window must become active even if hiding fails.
	_ = m.win.UnmapWindow(ctx, prev)

	st.Append(id)
	if err := m.activate(ctx, st, id); err != nil {
		return nil, err
	}
	if err := m.store.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Next cycles to the following tab, wrapping from last to first.
func (m *Manager) Next(ctx context.Context) (*session.State, error) {
	return m.cycle(ctx, 1)
}

// Prev cycles to the preceding tab, wrapping from first to last.
func (m *Manager) Prev(ctx context.Context) (*session.State, error) {
	return m.cycle(ctx, -1)
}

func (m *Manager) cycle(ctx context.Context, delta int) (*session.State, error) {
	unlock, err := m.store.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	st, err := m.loadReconciled(ctx)
	if err != nil {
		return nil, err
	}
	if st.Empty() {
		if err := m.store.Delete(); err != nil {
			return nil, err
		}
		return nil, session.ErrNoSession
	}

	prev, _ := st.ActiveWindow()
	st.Advance(delta)
	next, _ := st.ActiveWindow()

	// With a single window this degenerates to re-activating it, which
	// recovers focus that drifted to an unrelated window.
	if next != prev {
		_ = m.win.UnmapWindow(ctx, prev)
	}
	if err := m.activate(ctx, st, next); err != nil {
		return nil, err
	}

	if err := m.store.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// End closes every remaining window and removes the session record.
// Idempotent: ending an absent session succeeds.
func (m *Manager) End(ctx context.Context) error {
	unlock, err := m.store.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	st, err := m.loadReconciled(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return m.store.Delete()
		}
		return err
	}

	m.closeAll(ctx, st)
	return m.store.Delete()
}

// Status returns the reconciled session for display, persisting any repair
// so readers of the status file see the corrected value too. Returns
// session.ErrNoSession when nothing is tracked.
func (m *Manager) Status(ctx context.Context) (*session.State, error) {
	unlock, err := m.store.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	loaded, err := m.store.Load()
	if err != nil {
		return nil, err
	}

	live, err := m.win.ListWindows(ctx)
	if err != nil {
		return nil, err
	}
	st := session.Reconcile(loaded, live)

	if st.Empty() {
		if err := m.store.Delete(); err != nil {
			return nil, err
		}
		return nil, session.ErrNoSession
	}
	if session.Changed(loaded, st) {
		if err := m.store.Save(st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// loadReconciled loads the stored session and repairs it against the live
// window set. Caller holds the store lock.
func (m *Manager) loadReconciled(ctx context.Context) (*session.State, error) {
	st, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	live, err := m.win.ListWindows(ctx)
	if err != nil {
		return nil, err
	}
	return session.Reconcile(st, live), nil
}

// activate maps and focuses a window. If the call fails (the window may
// have been closed between reconciliation and now), the session is
// re-reconciled and the resulting active window is tried once more.
func (m *Manager) activate(ctx context.Context, st *session.State, id int64) error {
	if err := m.mapAndFocus(ctx, id); err == nil {
		return nil
	}

	live, liveErr := m.win.ListWindows(ctx)
	if liveErr != nil {
		return &WindowOpError{Op: "activate", Window: id, Err: liveErr}
	}
	repaired := session.Reconcile(st, live)
	*st = *repaired
	if st.Empty() {
		return &WindowOpError{Op: "activate", Window: id, Err: session.ErrNoSession}
	}

	retry, _ := st.ActiveWindow()
	if err := m.mapAndFocus(ctx, retry); err != nil {
		return &WindowOpError{Op: "activate", Window: retry, Err: err}
	}
	return nil
}

func (m *Manager) mapAndFocus(ctx context.Context, id int64) error {
	if err := m.win.MapWindow(ctx, id); err != nil {
		return err
	}
	return m.win.Activate(ctx, id)
}

// closeAll closes every window in the session, continuing past individual
// failures; a window the user already closed is not an error worth keeping
// the session alive for.
func (m *Manager) closeAll(ctx context.Context, st *session.State) {
	for _, id := range st.Windows {
		_ = m.win.CloseWindow(ctx, id)
	}
}
