package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), DefaultLockTimeout)
}

func TestLoadMissingIsNoSession(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load()
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Load on missing file: got %v, want ErrNoSession", err)
	}
}

func TestLoadCorruptIsDistinctFromAbsent(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.SessionPath(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load()
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("got %v, want ErrCorrupt", err)
	}
	if errors.Is(err, ErrNoSession) {
		t.Error("corrupt file must not be reported as absent")
	}
	if !strings.Contains(err.Error(), s.SessionPath()) {
		t.Errorf("error %q should name the file to inspect", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	st := New(11)
	st.Append(22)
	st.Append(33)
	st.ActiveIndex = 1
	st.Status = FormatStatus(1, 3)

	if err := s.Save(st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Windows) != 3 {
		t.Fatalf("Windows = %v, want 3 entries", got.Windows)
	}
	for i, want := range []int64{11, 22, 33} {
		if got.Windows[i] != want {
			t.Errorf("Windows[%d] = %d, want %d", i, got.Windows[i], want)
		}
	}
	if got.ActiveIndex != 1 {
		t.Errorf("ActiveIndex = %d, want 1", got.ActiveIndex)
	}
	if got.Status != "[2/3]" {
		t.Errorf("Status = %q, want [2/3]", got.Status)
	}
}

func TestSaveWritesStatusFile(t *testing.T) {
	s := newTestStore(t)

	st := New(5)
	st.Append(6)
	if err := s.Save(st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(s.StatusPath())
	if err != nil {
		t.Fatalf("reading status file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "[2/2]" {
		t.Errorf("status file = %q, want [2/2]", got)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(New(1)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(New(1)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Delete(); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := s.Delete(); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if s.Exists() {
		t.Error("session file still exists after Delete")
	}
	if _, err := os.Stat(s.StatusPath()); !os.IsNotExist(err) {
		t.Error("status file still exists after Delete")
	}
}

func TestLockSerializesMutation(t *testing.T) {
	// Two concurrent "new tab" transactions must never lose an append.
	dir := t.TempDir()
	s := NewStore(dir, DefaultLockTimeout)
	if err := s.Save(New(1)); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			unlock, err := s.Lock()
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			defer unlock()

			st, err := s.Load()
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			st.Append(id)
			if err := s.Save(st); err != nil {
				t.Errorf("Save: %v", err)
			}
		}(int64(100 + i))
	}
	wg.Wait()

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Windows) != 3 {
		t.Errorf("Windows = %v, want exactly 3 entries (one per append)", got.Windows)
	}
}

func TestLockTimeoutReturnsBusy(t *testing.T) {
	if testing.Short() {
		t.Skip("lock timeout test sleeps")
	}
	dir := t.TempDir()

	holder := NewStore(dir, DefaultLockTimeout)
	unlock, err := holder.Lock()
	if err != nil {
		t.Fatalf("holder Lock: %v", err)
	}
	defer unlock()

	// A separate store contends on the same flock; flock conflicts apply
	// across open file descriptions even within one process.
	waiter := NewStore(dir, 150*time.Millisecond)
	start := time.Now()
	_, err = waiter.Lock()
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("got %v, want ErrBusy", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("lock failed after %v; expected it to block up to the timeout", elapsed)
	}
}

func TestDefaultDirHonorsXDGStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	if got, want := DefaultDir(), filepath.Join("/tmp/xdg-state", "wtm"); got != want {
		t.Errorf("DefaultDir() = %q, want %q", got, want)
	}
}
