package backup

import (
	"time"

	"github.com/salonkeep/salonkeep/internal/config"
	"github.com/salonkeep/salonkeep/internal/logger"
)

// Logger interface for logging operations
type Logger = logger.Logger

// Reason tags what triggered a snapshot. The tag is embedded in the
// snapshot filename.
type Reason string

const (
	ReasonManual       Reason = "manual"
	ReasonPreMigration Reason = "pre-migration"
	ReasonPreRestore   Reason = "pre-restore"
	ReasonScheduled    Reason = "scheduled"
)

// Snapshot represents one retained backup file. The backup directory is
// the source of truth: a Snapshot is derived from a directory listing,
// never persisted anywhere else.
type Snapshot struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Reason    Reason    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// RetentionPolicy bounds how many snapshots are kept. MaxAge zero disables
// age-based pruning. Whatever the values, the single newest snapshot is
// never deleted.
type RetentionPolicy struct {
	MaxCount int
	MaxAge   time.Duration
}

// PolicyFromConfig derives the retention policy from the backup settings
func PolicyFromConfig(cfg *config.BackupConfig) RetentionPolicy {
	return RetentionPolicy{
		MaxCount: cfg.RetentionCount,
		MaxAge:   cfg.MaxAge(),
	}
}

// Clock abstracts wall-clock time so retention and scheduling decisions
// are testable without real waiting
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock used outside of tests
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Uploader replicates a snapshot beyond the local disk. Upload failures
// are reported but never block or invalidate the local snapshot.
type Uploader interface {
	Upload(path string) error
}
