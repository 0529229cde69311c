//go:build windows

package session

// acquireLock on Windows uses the in-process mutex only. Cross-process
// locking via flock is unavailable; wtm targets X11 systems, so this build
// exists to keep the package compiling everywhere.
func (s *Store) acquireLock() (func(), error) {
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
	}, nil
}
