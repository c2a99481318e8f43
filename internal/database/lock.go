package database

import "sync"

// StoreLock is the process-wide exclusive lock on the store file. A
// migration run holds it end to end, a backup copy holds it for the
// duration of the copy, and a restore holds it while the live file is
// replaced. The scheduler never blocks on it: it tries, and defers to its
// next tick when the lock is held.
type StoreLock struct {
	mu sync.Mutex
}

// Acquire blocks until the lock is held
func (l *StoreLock) Acquire() {
	l.mu.Lock()
}

// TryAcquire acquires the lock without blocking, reporting whether it
// succeeded
func (l *StoreLock) TryAcquire() bool {
	return l.mu.TryLock()
}

// Release releases the lock
func (l *StoreLock) Release() {
	l.mu.Unlock()
}
