package tabs

import (
	"context"
	"errors"
	"testing"

	"github.com/Dicklesworthstone/wtm/internal/session"
)

// fakeWindows simulates the windowing system: a set of live window ids plus
// per-call failure injection.
type fakeWindows struct {
	live map[int64]bool

	mapped      map[int64]bool
	activated   []int64
	closed      []int64
	unmapped    []int64
	failOnce    map[int64]bool // next Activate of this id fails once
	alwaysFails map[int64]bool
}

func newFakeWindows(ids ...int64) *fakeWindows {
	f := &fakeWindows{
		live:        make(map[int64]bool),
		mapped:      make(map[int64]bool),
		failOnce:    make(map[int64]bool),
		alwaysFails: make(map[int64]bool),
	}
	for _, id := range ids {
		f.live[id] = true
		f.mapped[id] = true
	}
	return f
}

func (f *fakeWindows) ListWindows(ctx context.Context) ([]int64, error) {
	var ids []int64
	// deterministic order for assertions
	for id := int64(0); id <= 1000; id++ {
		if f.live[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeWindows) Activate(ctx context.Context, id int64) error {
	if f.alwaysFails[id] || !f.live[id] {
		return errors.New("BadWindow")
	}
	if f.failOnce[id] {
		delete(f.failOnce, id)
		return errors.New("BadWindow")
	}
	f.activated = append(f.activated, id)
	return nil
}

func (f *fakeWindows) MapWindow(ctx context.Context, id int64) error {
	if !f.live[id] {
		return errors.New("BadWindow")
	}
	f.mapped[id] = true
	return nil
}

func (f *fakeWindows) UnmapWindow(ctx context.Context, id int64) error {
	if !f.live[id] {
		return errors.New("BadWindow")
	}
	f.mapped[id] = false
	f.unmapped = append(f.unmapped, id)
	return nil
}

func (f *fakeWindows) CloseWindow(ctx context.Context, id int64) error {
	if !f.live[id] {
		return errors.New("BadWindow")
	}
	delete(f.live, id)
	f.closed = append(f.closed, id)
	return nil
}

// fakeLauncher hands out sequential window ids and registers them live.
type fakeLauncher struct {
	win  *fakeWindows
	next int64
	err  error
}

func (l *fakeLauncher) Launch(ctx context.Context) (int64, error) {
	if l.err != nil {
		return 0, l.err
	}
	l.next++
	id := l.next
	l.win.live[id] = true
	l.win.mapped[id] = true
	return id, nil
}

func newTestManager(t *testing.T, win *fakeWindows) (*Manager, *fakeLauncher) {
	t.Helper()
	store := session.NewStore(t.TempDir(), session.DefaultLockTimeout)
	launch := &fakeLauncher{win: win}
	return NewManager(store, win, launch), launch
}

func TestStartNewNextEndScenario(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	// start: [w1], active 0
	st, err := m.Start(ctx, false)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Len() != 1 || st.ActiveIndex != 0 || st.Status != "[1/1]" {
		t.Fatalf("after start: %+v", st)
	}
	w1 := st.Windows[0]

	// new: [w1, w2], active 1
	st, err = m.New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if st.Len() != 2 || st.ActiveIndex != 1 || st.Status != "[2/2]" {
		t.Fatalf("after new: %+v", st)
	}
	if st.Windows[0] != w1 {
		t.Errorf("new reordered windows: %v", st.Windows)
	}
	if len(win.unmapped) == 0 || win.unmapped[0] != w1 {
		t.Errorf("previous active window was not hidden: %v", win.unmapped)
	}

	// next: wraps to active 0
	st, err = m.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if st.ActiveIndex != 0 || st.Status != "[1/2]" {
		t.Fatalf("after next: %+v", st)
	}

	// end: everything closed, no session remains
	if err := m.End(ctx); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(win.live) != 0 {
		t.Errorf("windows still alive after end: %v", win.live)
	}
	if _, err := m.Status(ctx); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("Status after end: %v, want ErrNoSession", err)
	}
}

func TestStartRefusesLiveSessionWithoutForce(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	if _, err := m.Start(ctx, false); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if _, err := m.Start(ctx, false); !errors.Is(err, ErrSessionExists) {
		t.Errorf("second Start: %v, want ErrSessionExists", err)
	}

	// force tears the old session down first
	st, err := m.Start(ctx, true)
	if err != nil {
		t.Fatalf("forced Start: %v", err)
	}
	if st.Len() != 1 || st.Status != "[1/1]" {
		t.Errorf("after forced start: %+v", st)
	}
	if len(win.closed) != 1 {
		t.Errorf("old window not closed: %v", win.closed)
	}
}

func TestStartReplacesDeadSession(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	if _, err := m.Start(ctx, false); err != nil {
		t.Fatal(err)
	}
	// The user closes the only window by hand.
	for id := range win.live {
		delete(win.live, id)
	}

	if _, err := m.Start(ctx, false); err != nil {
		t.Errorf("Start over dead session: %v, want success", err)
	}
}

func TestNewOnAbsentSessionStarts(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)

	st, err := m.New(context.Background())
	if err != nil {
		t.Fatalf("New without session: %v", err)
	}
	if st.Len() != 1 || st.Status != "[1/1]" {
		t.Errorf("New without session: %+v", st)
	}
}

func TestCycleWrapsBothWays(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	if _, err := m.Start(ctx, false); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := m.New(ctx); err != nil {
			t.Fatal(err)
		}
	}

	// active index is 2 (newest); three nexts cycle back to 2
	indices := []int{0, 1, 2}
	for i, want := range indices {
		st, err := m.Next(ctx)
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if st.ActiveIndex != want {
			t.Errorf("next %d: ActiveIndex = %d, want %d", i+1, st.ActiveIndex, want)
		}
	}

	st, err := m.Prev(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.ActiveIndex != 1 {
		t.Errorf("prev: ActiveIndex = %d, want 1", st.ActiveIndex)
	}
}

func TestCycleOnAbsentSessionErrors(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)

	if _, err := m.Next(context.Background()); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("Next: %v, want ErrNoSession", err)
	}
	if _, err := m.Prev(context.Background()); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("Prev: %v, want ErrNoSession", err)
	}
}

func TestCycleSingleWindowReactivates(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	st, err := m.Start(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	id := st.Windows[0]
	activations := len(win.activated)

	st, err = m.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if st.ActiveIndex != 0 {
		t.Errorf("ActiveIndex = %d, want 0", st.ActiveIndex)
	}
	if len(win.activated) != activations+1 || win.activated[len(win.activated)-1] != id {
		t.Error("single-window next should still re-activate the window")
	}
	if len(win.unmapped) != 0 {
		t.Errorf("single-window next must not unmap: %v", win.unmapped)
	}
}

func TestNextSkipsManuallyClosedWindow(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	if _, err := m.Start(ctx, false); err != nil {
		t.Fatal(err)
	}
	st, err := m.New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.New(ctx); err != nil {
		t.Fatal(err)
	}

	// User closes the middle window behind wtm's back.
	delete(win.live, st.Windows[1])

	got, err := m.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("Windows = %v, want 2 entries", got.Windows)
	}
	for _, id := range got.Windows {
		if !win.live[id] {
			t.Errorf("session still tracks dead window %d", id)
		}
	}
}

func TestEndIdempotent(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	if _, err := m.Start(ctx, false); err != nil {
		t.Fatal(err)
	}
	if err := m.End(ctx); err != nil {
		t.Fatalf("first End: %v", err)
	}
	if err := m.End(ctx); err != nil {
		t.Errorf("second End: %v, want success", err)
	}
}

func TestActivateRetriesAfterReconcile(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	if _, err := m.Start(ctx, false); err != nil {
		t.Fatal(err)
	}
	st, err := m.New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	target := st.Windows[0] // next wraps to the first window

	// First activation attempt of the target fails; the manager must
	// re-reconcile and retry once before surfacing anything.
	win.failOnce[target] = true

	got, err := m.Next(ctx)
	if err != nil {
		t.Fatalf("Next with transient failure: %v", err)
	}
	if id, _ := got.ActiveWindow(); id != target {
		t.Errorf("active window = %d, want %d", id, target)
	}
}

func TestActivatePersistentFailureSurfaces(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	if _, err := m.Start(ctx, false); err != nil {
		t.Fatal(err)
	}
	st, err := m.New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	win.alwaysFails[st.Windows[0]] = true
	win.alwaysFails[st.Windows[1]] = true

	_, err = m.Next(ctx)
	var opErr *WindowOpError
	if !errors.As(err, &opErr) {
		t.Fatalf("got %v, want WindowOpError", err)
	}
}

func TestStatusRepairsAndPersists(t *testing.T) {
	win := newFakeWindows()
	m, _ := newTestManager(t, win)
	ctx := context.Background()

	if _, err := m.Start(ctx, false); err != nil {
		t.Fatal(err)
	}
	st, err := m.New(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Kill the active window by hand; Status must repair and persist.
	delete(win.live, st.Windows[1])

	got, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got.Len() != 1 || got.Status != "[1/1]" {
		t.Errorf("Status returned %+v", got)
	}

	// A second read sees the repaired record without further change.
	again, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("second Status: %v", err)
	}
	if again.Status != "[1/1]" {
		t.Errorf("second Status = %q", again.Status)
	}
}
