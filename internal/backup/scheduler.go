package backup

import (
	"context"
	"time"

	"github.com/salonkeep/salonkeep/internal/config"
	"github.com/salonkeep/salonkeep/internal/database"
)

// DefaultTick is how often the scheduler re-evaluates whether an automatic
// backup is due
const DefaultTick = time.Minute

// SettingsReader hands out consistent copies of the backup settings. The
// settings surface may rewrite them at any moment, so nothing here holds
// onto a shared settings struct.
type SettingsReader interface {
	BackupSnapshot() config.BackupConfig
}

// SettingsStore additionally persists the scheduler's last successful
// backup time across restarts
type SettingsStore interface {
	SettingsReader
	SetLastBackupTime(t time.Time) error
}

// Due reports whether an automatic backup is due, strictly
// now - last >= interval
func Due(now, last time.Time, interval time.Duration) bool {
	return now.Sub(last) >= interval
}

// Scheduler drives automatic backups. Each tick it checks whether one is
// due; a backup that was due while the application was not running fires
// on the first tick after startup (catch-up, exactly once). A tick that
// finds the store lock held skips and retries on the next tick.
type Scheduler struct {
	service *Service
	store   SettingsStore
	lock    *database.StoreLock
	logger  Logger
	clock   Clock
	tick    time.Duration
}

// NewScheduler creates a retention scheduler
func NewScheduler(service *Service, store SettingsStore, lock *database.StoreLock, logger Logger, clock Clock, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Scheduler{
		service: service,
		store:   store,
		lock:    lock,
		logger:  logger,
		clock:   clock,
		tick:    tick,
	}
}

// Start runs the recurring check until the context is cancelled. The first
// check happens immediately so an overdue backup is not deferred a full
// tick.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()

		s.Check()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Check()
			}
		}
	}()
}

// Check performs one scheduling decision. It is exported so startup and
// tests can drive it directly.
func (s *Scheduler) Check() {
	// One snapshot per tick; settings changed mid-tick apply from the next
	cfg := s.store.BackupSnapshot()
	if !cfg.Auto {
		return
	}

	now := s.clock.Now()
	if last, ok := cfg.LastBackup(); ok && !Due(now, last, cfg.Interval()) {
		return
	}

	// Never contend with a migration run or another backup; the next tick
	// retries
	if !s.lock.TryAcquire() {
		s.logger.LogDebug("Store lock held, deferring scheduled backup", nil)
		return
	}

	_, err := s.service.createLocked(ReasonScheduled)
	s.lock.Release()
	if err != nil {
		// Reported, not retried within this tick; the next due check tries
		// again
		s.logger.LogError(err, "Scheduled backup failed")
		return
	}

	if _, err := s.service.ApplyRetention(PolicyFromConfig(&cfg)); err != nil {
		s.logger.LogError(err, "Retention pass failed")
	}

	if err := s.store.SetLastBackupTime(now); err != nil {
		s.logger.LogError(err, "Failed to persist last backup time")
	}
}
