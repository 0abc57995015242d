package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// DentistLocks serializes scheduling writes per dentist inside one process.
// Writers for different dentists never wait on each other.
//
// Lock Ordering (to prevent deadlocks):
// 1. Acquire dentist mutex FIRST
// 2. Then open the database transaction
type DentistLocks struct {
	log *logrus.Logger

	// map[uuid.UUID]*mutexWithTimestamp
	dentistMu sync.Map

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewDentistLocks starts the background cleanup goroutine.
// Call Stop() during graceful shutdown.
func NewDentistLocks(log *logrus.Logger) *DentistLocks {
	l := &DentistLocks{
		log:      log,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop(mutexCleanupInterval)

	return l
}

// Stop is safe to call multiple times.
func (l *DentistLocks) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("DentistLocks stopped")
	}
}

// Lock blocks until the dentist's mutex is held and returns its release func.
func (l *DentistLocks) Lock(dentistID uuid.UUID) func() {
	for {
		mt := l.get(dentistID)
		mt.mu.Lock()

		// The cleanup loop may have dropped this mutex between get and Lock;
		// only a mutex still registered for the dentist is a valid guard.
		if current, ok := l.dentistMu.Load(dentistID); ok && current == mt {
			mt.lastUsed.Store(time.Now().Unix())
			return mt.mu.Unlock
		}
		mt.mu.Unlock()
	}
}

// get returns the mutex for a specific dentist
func (l *DentistLocks) get(dentistID uuid.UUID) *mutexWithTimestamp {
	mt, _ := l.dentistMu.LoadOrStore(dentistID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupLoop runs in background to clean stale mutexes
func (l *DentistLocks) cleanupLoop(interval time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Dentist lock cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStale(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStale removes mutexes unused since cutoff, skipping any currently held
func (l *DentistLocks) cleanupStale(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	l.dentistMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		// TryLock first - if we can't get lock, someone is using it
		if mt.mu.TryLock() {
			// lastUsed is checked while holding the lock
			if mt.lastUsed.Load() < cutoffUnix {
				l.dentistMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale dentist mutexes", cleaned)
	}
	return cleaned
}
