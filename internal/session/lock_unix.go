//go:build unix

package session

import (
	"os"
	"syscall"
	"time"
)

// lockPollInterval is how often a blocked invocation re-tries the flock.
const lockPollInterval = 50 * time.Millisecond

// acquireLock acquires both process-level (flock) and goroutine-level
// (mutex) locks, retrying the flock until the store's timeout. Returns an
// unlock function to release both, or ErrBusy on timeout.
func (s *Store) acquireLock() (func(), error) {
	s.mu.Lock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	deadline := time.Now().Add(s.lockTimeout)
	for {
		err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			break
		}
		if err != syscall.EWOULDBLOCK && err != syscall.EAGAIN {
			f.Close()
			s.mu.Unlock()
			return nil, err
		}
		if time.Now().After(deadline) {
			f.Close()
			s.mu.Unlock()
			return nil, ErrBusy
		}
		time.Sleep(lockPollInterval)
	}

	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
		s.mu.Unlock()
	}, nil
}
