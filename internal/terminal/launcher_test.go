package terminal

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeLister returns a fixed window set until released, then adds one id.
type fakeLister struct {
	mu       sync.Mutex
	existing []int64
	newID    int64
	calls    int
	appearAt int // call count at which the new window shows up
}

func (f *fakeLister) ListWindows(ctx context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls > f.appearAt {
		return append(append([]int64{}, f.existing...), f.newID), nil
	}
	return append([]int64{}, f.existing...), nil
}

func TestLaunchDetectsNewWindow(t *testing.T) {
	lister := &fakeLister{existing: []int64{10, 20}, newID: 30, appearAt: 2}

	l := NewLauncher("true", nil, lister)
	l.PollInterval = 5 * time.Millisecond

	id, err := l.Launch(context.Background())
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if id != 30 {
		t.Errorf("Launch returned %d, want 30", id)
	}
}

func TestLaunchTimesOut(t *testing.T) {
	// Window never appears.
	lister := &fakeLister{existing: []int64{10}, newID: 10, appearAt: 1 << 30}

	l := NewLauncher("true", nil, lister)
	l.SpawnTimeout = 50 * time.Millisecond
	l.PollInterval = 5 * time.Millisecond

	_, err := l.Launch(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "did not appear") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLaunchMissingCommand(t *testing.T) {
	lister := &fakeLister{}

	l := NewLauncher("wtm-no-such-terminal-emulator", nil, lister)
	if _, err := l.Launch(context.Background()); err == nil {
		t.Fatal("expected error for missing command")
	}
}

func TestLaunchHonorsContextCancel(t *testing.T) {
	lister := &fakeLister{existing: nil, newID: 1, appearAt: 1 << 30}

	l := NewLauncher("true", nil, lister)
	l.SpawnTimeout = 10 * time.Second
	l.PollInterval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := l.Launch(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > time.Second {
		t.Error("Launch did not return promptly after cancellation")
	}
}
