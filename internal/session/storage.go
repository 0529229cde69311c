package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	sessionFileName = "session.json"
	statusFileName  = "status"
	lockFileName    = "session.lock"
)

// DefaultLockTimeout bounds how long an invocation waits for the session
// lock before failing. Long enough to tolerate near-simultaneous key
// presses, short enough to never hang a key binding.
const DefaultLockTimeout = 2 * time.Second

var (
	// ErrNoSession is returned when no session record exists.
	ErrNoSession = errors.New("no active session")

	// ErrBusy is returned when the session lock could not be acquired
	// within the timeout. Another invocation holds it; the user may retry.
	ErrBusy = errors.New("session is busy")

	// ErrCorrupt is returned when the session file exists but cannot be
	// parsed. Distinct from ErrNoSession so the user knows to inspect or
	// delete the file instead of assuming there is no session.
	ErrCorrupt = errors.New("session file is corrupt")
)

// DefaultDir returns the session storage directory.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state/wtm/
func DefaultDir() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "wtm" // fallback to current dir
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "wtm")
}

// Store provides locked, atomic access to the on-disk session record and
// the prompt-facing status file beside it. There are no in-process session
// globals; all state flows through Load/Save.
type Store struct {
	dir         string
	lockTimeout time.Duration

	// serializes goroutines within one process; the flock serializes
	// processes
	mu sync.Mutex
}

// NewStore creates a store rooted at dir. An empty dir selects DefaultDir.
// A zero lockTimeout selects DefaultLockTimeout.
func NewStore(dir string, lockTimeout time.Duration) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Store{dir: dir, lockTimeout: lockTimeout}
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.dir }

// SessionPath returns the path of the session record.
func (s *Store) SessionPath() string { return filepath.Join(s.dir, sessionFileName) }

// StatusPath returns the path of the plain-text status file read by shell
// prompt hooks.
func (s *Store) StatusPath() string { return filepath.Join(s.dir, statusFileName) }

func (s *Store) lockPath() string { return filepath.Join(s.dir, lockFileName) }

// Lock acquires the exclusive session lock, blocking up to the store's
// timeout. It returns an unlock function to release the lock, or ErrBusy if
// another invocation held it for the whole wait.
//
// Every state transition (load -> reconcile -> mutate -> save) must happen
// between Lock and the returned unlock.
func (s *Store) Lock() (func(), error) {
	return s.acquireLock()
}

// Load parses the persisted record. A missing file means ErrNoSession; a
// file that exists but fails to parse means ErrCorrupt. The returned state
// is normalized (duplicates dropped, index clamped, status recomputed).
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.SessionPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.SessionPath(), err)
	}

	state.Normalize()
	return &state, nil
}

// Save persists the record and the status file, each via write-to-temp then
// rename so a crash mid-write never exposes a partial file to concurrent
// readers.
func (s *Store) Save(state *State) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing session: %w", err)
	}
	data = append(data, '\n')

	if err := atomicWrite(s.dir, s.SessionPath(), data); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := atomicWrite(s.dir, s.StatusPath(), []byte(state.Status+"\n")); err != nil {
		return fmt.Errorf("writing status file: %w", err)
	}
	return nil
}

// Delete removes the session record and status file. Idempotent.
func (s *Store) Delete() error {
	if err := os.Remove(s.SessionPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	if err := os.Remove(s.StatusPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing status file: %w", err)
	}
	return nil
}

// Exists reports whether a session record is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.SessionPath())
	return err == nil
}

// atomicWrite writes data to a temp file in dir and renames it over path.
func atomicWrite(dir, path string, data []byte) (err error) {
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		return err
	}
	if err = tmpFile.Sync(); err != nil {
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
