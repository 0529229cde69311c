// Package terminal launches new terminal-emulator windows and detects the
// window id each launch produced.
package terminal

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

const (
	// DefaultSpawnTimeout is how long to wait for a launched terminal's
	// window to appear before giving up.
	DefaultSpawnTimeout = 5 * time.Second

	// DefaultPollInterval is how often the window list is re-queried while
	// waiting for the new window.
	DefaultPollInterval = 100 * time.Millisecond
)

// WindowLister is the subset of the window-control client the launcher
// needs: the current set of wtm-owned window ids.
type WindowLister interface {
	ListWindows(ctx context.Context) ([]int64, error)
}

// Launcher spawns terminal windows. The emulator process is detached; its
// lifetime belongs to the windowing system, not to the short-lived wtm
// invocation that spawned it.
type Launcher struct {
	Command      string
	Args         []string
	SpawnTimeout time.Duration
	PollInterval time.Duration

	windows WindowLister
}

// NewLauncher creates a launcher running command with args, detecting new
// windows through the given lister.
func NewLauncher(command string, args []string, windows WindowLister) *Launcher {
	return &Launcher{
		Command:      command,
		Args:         args,
		SpawnTimeout: DefaultSpawnTimeout,
		PollInterval: DefaultPollInterval,
		windows:      windows,
	}
}

// Launch spawns one terminal window and returns its window id.
//
// There is no direct channel from the emulator process to its window id, so
// the launcher snapshots the window set before spawning and polls until an
// id appears that was not there before.
func (l *Launcher) Launch(ctx context.Context) (int64, error) {
	before, err := l.windows.ListWindows(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing windows before launch: %w", err)
	}
	known := make(map[int64]bool, len(before))
	for _, id := range before {
		known[id] = true
	}

	cmd := exec.Command(l.Command, l.Args...)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("launching %s: %w", l.Command, err)
	}
	// Detach; the emulator outlives this process.
	if err := cmd.Process.Release(); err != nil {
		return 0, fmt.Errorf("detaching %s: %w", l.Command, err)
	}

	timeout := l.SpawnTimeout
	if timeout <= 0 {
		timeout = DefaultSpawnTimeout
	}
	poll := l.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		current, err := l.windows.ListWindows(ctx)
		if err == nil {
			for _, id := range current {
				if !known[id] {
					return id, nil
				}
			}
		}

		if time.Now().After(deadline) {
			return 0, fmt.Errorf("terminal window did not appear within %s", timeout)
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}
