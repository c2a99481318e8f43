package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/salonkeep/salonkeep/internal/database"
	apperrors "github.com/salonkeep/salonkeep/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	snapshotPrefix  = "salon_records_"
	snapshotTimeFmt = "20060102_150405"
)

// salon_records_20250201_120000_manual.zip
var snapshotNameRe = regexp.MustCompile(`^salon_records_(\d{8}_\d{6})_([a-z-]+)\.zip$`)

// Service produces and prunes point-in-time copies of the store file
type Service struct {
	dbPath  string
	dir     string
	lock    *database.StoreLock
	logger  Logger
	clock   Clock
	offsite Uploader
	remove  func(path string) error
}

// NewService creates a backup service. offsite may be nil when replication
// is disabled.
func NewService(dbPath, dir string, lock *database.StoreLock, logger Logger, clock Clock, offsite Uploader) *Service {
	return &Service{
		dbPath:  dbPath,
		dir:     dir,
		lock:    lock,
		logger:  logger,
		clock:   clock,
		offsite: offsite,
		remove:  os.Remove,
	}
}

// Create takes a snapshot of the store file. The exclusive store lock is
// held for the duration of the copy so no write lands mid-copy.
func (s *Service) Create(reason Reason) (*Snapshot, error) {
	s.lock.Acquire()
	defer s.lock.Release()
	return s.createLocked(reason)
}

// CreatePreMigration takes the protective snapshot before a migration run
// touches the schema. The migration runner already holds the store lock
// when it calls this.
func (s *Service) CreatePreMigration() (*Snapshot, error) {
	return s.createLocked(ReasonPreMigration)
}

// createLocked is Create without the lock acquisition, for callers that
// already hold the store lock (the scheduler tick and restore).
func (s *Service) createLocked(reason Reason) (*Snapshot, error) {
	if _, err := os.Stat(s.dbPath); err != nil {
		return nil, apperrors.NewIOError(apperrors.ErrMsgStoreMissing, s.dbPath, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, apperrors.NewIOError(apperrors.ErrMsgBackupDirDenied, s.dir, err)
	}

	createdAt := s.clock.Now()
	name := fmt.Sprintf("%s%s_%s.zip", snapshotPrefix, createdAt.Format(snapshotTimeFmt), reason)
	finalPath := filepath.Join(s.dir, name)
	tempPath := finalPath + ".tmp"

	if err := s.writeArchive(tempPath); err != nil {
		// Never leave a corrupt snapshot behind
		os.Remove(tempPath)
		return nil, apperrors.NewIOError("failed to write snapshot", finalPath, err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return nil, apperrors.NewIOError("failed to finalize snapshot", finalPath, err)
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return nil, apperrors.NewIOError("failed to stat snapshot", finalPath, err)
	}

	snapshot := &Snapshot{
		Path:      finalPath,
		Name:      name,
		Reason:    reason,
		CreatedAt: createdAt,
		Size:      info.Size(),
	}

	s.logger.LogInfo("Backup created", map[string]interface{}{
		"snapshot": name,
		"reason":   string(reason),
		"size":     snapshot.Size,
	})

	if s.offsite != nil {
		if err := s.offsite.Upload(finalPath); err != nil {
			s.logger.LogWarn("Offsite replication failed", map[string]interface{}{
				"snapshot": name,
				"error":    err.Error(),
			})
		}
	}

	return snapshot, nil
}

func (s *Service) writeArchive(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	entry, err := zw.Create(filepath.Base(s.dbPath))
	if err != nil {
		return err
	}

	src, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := io.Copy(entry, src); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return out.Sync()
}

// List returns the snapshots in the backup directory, newest first. The
// creation time comes from the filename; file mtime is the fallback for
// names that do not parse.
func (s *Service) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.NewIOError("failed to read backup directory", s.dir, err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		createdAt := info.ModTime()
		reason := Reason("")
		if m := snapshotNameRe.FindStringSubmatch(entry.Name()); m != nil {
			if t, err := time.ParseInLocation(snapshotTimeFmt, m[1], time.Local); err == nil {
				createdAt = t
			}
			reason = Reason(m[2])
		}

		snapshots = append(snapshots, Snapshot{
			Path:      filepath.Join(s.dir, entry.Name()),
			Name:      entry.Name(),
			Reason:    reason,
			CreatedAt: createdAt,
			Size:      info.Size(),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].Name > snapshots[j].Name
		}
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

// SnapshotByName resolves a snapshot by filename, refusing anything that
// escapes the backup directory
func (s *Service) SnapshotByName(name string) (*Snapshot, error) {
	if name != filepath.Base(name) {
		return nil, apperrors.NewIOError(apperrors.ErrMsgSnapshotOutside, name, nil)
	}
	snapshots, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range snapshots {
		if snapshots[i].Name == name {
			return &snapshots[i], nil
		}
	}
	return nil, apperrors.NewIOError("snapshot not found", name, os.ErrNotExist)
}

// Verify checks that a snapshot is a structurally valid copy of the store:
// the archive passes its CRC checks, contains the database entry, and the
// extracted database opens and carries the migration metadata table.
func (s *Service) Verify(snapshot *Snapshot) error {
	extracted, err := s.extract(snapshot, "")
	if err != nil {
		return err
	}
	defer os.Remove(extracted)
	return s.validateStoreFile(snapshot, extracted)
}

// Restore replaces the live store with the snapshot's copy. The snapshot
// is verified first and the live store is itself backed up immediately
// before it is overwritten, so a failed restore is always recoverable.
func (s *Service) Restore(snapshot *Snapshot) error {
	if !strings.HasPrefix(filepath.Clean(snapshot.Path), filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return apperrors.NewIOError(apperrors.ErrMsgSnapshotOutside, snapshot.Path, nil)
	}

	// Extract next to the live store so the final rename stays on one
	// filesystem
	extracted, err := s.extract(snapshot, filepath.Dir(s.dbPath))
	if err != nil {
		return err
	}
	defer os.Remove(extracted)

	if err := s.validateStoreFile(snapshot, extracted); err != nil {
		return err
	}

	s.lock.Acquire()
	defer s.lock.Release()

	if _, err := s.createLocked(ReasonPreRestore); err != nil {
		return fmt.Errorf("pre-restore backup failed: %w", err)
	}

	if err := os.Rename(extracted, s.dbPath); err != nil {
		return apperrors.NewIOError("failed to replace store file", s.dbPath, err)
	}

	s.logger.LogInfo("Store restored from snapshot", map[string]interface{}{
		"snapshot": snapshot.Name,
	})
	return nil
}

// extract unpacks the snapshot's database entry into a temp file in dir
// (the OS temp dir when empty), returning its path. Reading the full entry
// exercises the archive's CRC check.
func (s *Service) extract(snapshot *Snapshot, dir string) (string, error) {
	reader, err := zip.OpenReader(snapshot.Path)
	if err != nil {
		return "", apperrors.NewCorruptBackupError(snapshot.Path, "not a readable archive")
	}
	defer reader.Close()

	var dbEntry *zip.File
	for _, file := range reader.File {
		if strings.HasSuffix(file.Name, ".db") {
			dbEntry = file
			break
		}
	}
	if dbEntry == nil {
		return "", apperrors.NewCorruptBackupError(snapshot.Path, "archive contains no database file")
	}

	src, err := dbEntry.Open()
	if err != nil {
		return "", apperrors.NewCorruptBackupError(snapshot.Path, "database entry is unreadable")
	}
	defer src.Close()

	out, err := os.CreateTemp(dir, "restore_*.db")
	if err != nil {
		return "", apperrors.NewIOError("failed to create temp file", dir, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", apperrors.NewCorruptBackupError(snapshot.Path, "database entry failed checksum verification")
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", apperrors.NewIOError("failed to write temp file", out.Name(), err)
	}
	return out.Name(), nil
}

// validateStoreFile opens the extracted copy and checks the essential
// table set
func (s *Service) validateStoreFile(snapshot *Snapshot, path string) error {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return apperrors.NewCorruptBackupError(snapshot.Path, "database does not open")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if !db.Migrator().HasTable(&database.SchemaMigration{}) {
		return apperrors.NewCorruptBackupError(snapshot.Path, "database lacks the schema_migrations table")
	}
	return nil
}

// ApplyRetention deletes snapshots beyond the policy's count bound plus
// those past its age bound, never pruning to zero. Deletion is best-effort
// per file: one failure is logged and the rest still go.
func (s *Service) ApplyRetention(policy RetentionPolicy) ([]Snapshot, error) {
	snapshots, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(snapshots) <= 1 {
		return nil, nil
	}

	now := s.clock.Now()
	doomed := make(map[string]Snapshot)

	for i, snapshot := range snapshots {
		// snapshots[0] is the newest and always survives
		if i == 0 {
			continue
		}
		if i >= policy.MaxCount {
			doomed[snapshot.Name] = snapshot
		}
		if policy.MaxAge > 0 && now.Sub(snapshot.CreatedAt) > policy.MaxAge {
			doomed[snapshot.Name] = snapshot
		}
	}

	var deleted []Snapshot
	for _, snapshot := range snapshots[1:] {
		victim, ok := doomed[snapshot.Name]
		if !ok {
			continue
		}
		if err := s.remove(victim.Path); err != nil {
			s.logger.LogWarn("Failed to prune snapshot", map[string]interface{}{
				"snapshot": victim.Name,
				"error":    err.Error(),
			})
			continue
		}
		deleted = append(deleted, victim)
	}

	if len(deleted) > 0 {
		s.logger.LogInfo("Retention applied", map[string]interface{}{
			"deleted": len(deleted),
			"kept":    len(snapshots) - len(deleted),
		})
	}
	return deleted, nil
}
