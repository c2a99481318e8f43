package backup

import (
	"archive/zip"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/salonkeep/salonkeep/internal/database"
	apperrors "github.com/salonkeep/salonkeep/internal/errors"
	"github.com/salonkeep/salonkeep/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeClock is a settable Clock for driving time-dependent behavior
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func openStore(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func closeStore(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

// writeStore creates a minimal valid store file with the migration
// metadata table
func writeStore(t *testing.T, path string) {
	t.Helper()
	db := openStore(t, path)
	require.NoError(t, db.AutoMigrate(&database.SchemaMigration{}))
	closeStore(t, db)
}

func newTestService(t *testing.T, clock Clock) (*Service, string, string) {
	t.Helper()
	root := t.TempDir()
	dbPath := filepath.Join(root, "salon_records.db")
	backupDir := filepath.Join(root, "backups")
	writeStore(t, dbPath)

	service := NewService(dbPath, backupDir, &database.StoreLock{}, testhelper.NewTestLogger(false), clock, nil)
	return service, dbPath, backupDir
}

func TestCreateBackup(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 2, 1, 12, 0, 0, 0, time.Local)}
	service, _, backupDir := newTestService(t, clock)

	snapshot, err := service.Create(ReasonManual)
	require.NoError(t, err)

	assert.Equal(t, "salon_records_20250201_120000_manual.zip", snapshot.Name)
	assert.Equal(t, ReasonManual, snapshot.Reason)
	assert.Greater(t, snapshot.Size, int64(0))
	assert.Equal(t, filepath.Join(backupDir, snapshot.Name), snapshot.Path)

	// The archive carries the database file
	reader, err := zip.OpenReader(snapshot.Path)
	require.NoError(t, err)
	defer reader.Close()
	require.Len(t, reader.File, 1)
	assert.Equal(t, "salon_records.db", reader.File[0].Name)
}

func TestCreateBackupMissingStore(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service, dbPath, _ := newTestService(t, clock)
	require.NoError(t, os.Remove(dbPath))

	_, err := service.Create(ReasonManual)
	require.Error(t, err)

	var ioErr *apperrors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestCreateBackupFailureLeavesNoPartialSnapshot(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 2, 1, 12, 0, 0, 0, time.Local)}
	service, dbPath, backupDir := newTestService(t, clock)

	// A directory stats fine but fails the archive copy partway through,
	// after the temp file already exists
	service.dbPath = filepath.Dir(dbPath)

	_, err := service.Create(ReasonManual)
	require.Error(t, err)
	var ioErr *apperrors.IOError
	assert.ErrorAs(t, err, &ioErr)

	// Neither a snapshot nor a temp file is left behind
	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListNewestFirst(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local)}
	service, _, _ := newTestService(t, clock)

	for _, reason := range []Reason{ReasonScheduled, ReasonManual, ReasonPreMigration} {
		_, err := service.Create(reason)
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}

	snapshots, err := service.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	assert.Equal(t, ReasonPreMigration, snapshots[0].Reason)
	assert.Equal(t, ReasonManual, snapshots[1].Reason)
	assert.Equal(t, ReasonScheduled, snapshots[2].Reason)
	assert.True(t, snapshots[0].CreatedAt.After(snapshots[2].CreatedAt))
}

func TestListEmptyDirectory(t *testing.T) {
	service, _, _ := newTestService(t, &fakeClock{now: time.Now()})
	snapshots, err := service.List()
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestRetentionByCount(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)}
	service, _, _ := newTestService(t, clock)

	for i := 0; i < 10; i++ {
		_, err := service.Create(ReasonScheduled)
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}

	deleted, err := service.ApplyRetention(RetentionPolicy{MaxCount: 3})
	require.NoError(t, err)
	assert.Len(t, deleted, 7)

	remaining, err := service.List()
	require.NoError(t, err)
	require.Len(t, remaining, 3)

	// The three newest survive
	assert.Equal(t, "salon_records_20250101_090000_scheduled.zip", remaining[0].Name)
	assert.Equal(t, "salon_records_20250101_070000_scheduled.zip", remaining[2].Name)
}

func TestRetentionContinuesPastFailedDelete(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)}
	service, _, _ := newTestService(t, clock)
	log := testhelper.NewTestLogger(false)
	service.logger = log

	for i := 0; i < 4; i++ {
		_, err := service.Create(ReasonScheduled)
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}

	// One victim refuses to go; the rest must still be pruned
	stuck := "salon_records_20250101_010000_scheduled.zip"
	service.remove = func(path string) error {
		if filepath.Base(path) == stuck {
			return fs.ErrPermission
		}
		return os.Remove(path)
	}

	deleted, err := service.ApplyRetention(RetentionPolicy{MaxCount: 1})
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	remaining, err := service.List()
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "salon_records_20250101_030000_scheduled.zip", remaining[0].Name)
	assert.Equal(t, stuck, remaining[1].Name)

	require.Len(t, log.GetWarnMessages(), 1)
	assert.Equal(t, "Failed to prune snapshot", log.GetWarnMessages()[0].Message)
}

func TestRetentionNeverPrunesToZero(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)}
	service, _, _ := newTestService(t, clock)

	for i := 0; i < 4; i++ {
		_, err := service.Create(ReasonScheduled)
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}

	deleted, err := service.ApplyRetention(RetentionPolicy{MaxCount: 0, MaxAge: 0})
	require.NoError(t, err)
	assert.Len(t, deleted, 3)

	remaining, err := service.List()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "salon_records_20250101_030000_scheduled.zip", remaining[0].Name)
}

func TestRetentionByAge(t *testing.T) {
	clock := &fakeClock{}
	service, _, _ := newTestService(t, clock)

	for _, at := range []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local),
	} {
		clock.now = at
		_, err := service.Create(ReasonScheduled)
		require.NoError(t, err)
	}

	clock.now = time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)
	deleted, err := service.ApplyRetention(RetentionPolicy{MaxCount: 100, MaxAge: 180 * 24 * time.Hour})
	require.NoError(t, err)

	require.Len(t, deleted, 1)
	assert.Equal(t, "salon_records_20240101_000000_scheduled.zip", deleted[0].Name)

	remaining, err := service.List()
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestRetentionSingleSnapshotUntouched(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)}
	service, _, _ := newTestService(t, clock)

	_, err := service.Create(ReasonScheduled)
	require.NoError(t, err)

	deleted, err := service.ApplyRetention(RetentionPolicy{MaxCount: 0, MaxAge: time.Nanosecond})
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestVerifyValidSnapshot(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service, _, _ := newTestService(t, clock)

	snapshot, err := service.Create(ReasonManual)
	require.NoError(t, err)
	assert.NoError(t, service.Verify(snapshot))
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)}
	service, dbPath, backupDir := newTestService(t, clock)

	require.NoError(t, os.MkdirAll(backupDir, 0o755))
	garbage := filepath.Join(backupDir, "salon_records_20250101_000000_manual.zip")
	require.NoError(t, os.WriteFile(garbage, []byte("not a zip archive"), 0o644))

	before, err := os.ReadFile(dbPath)
	require.NoError(t, err)

	snapshot, err := service.SnapshotByName("salon_records_20250101_000000_manual.zip")
	require.NoError(t, err)

	err = service.Restore(snapshot)
	require.Error(t, err)
	var corrupt *apperrors.CorruptBackupError
	assert.ErrorAs(t, err, &corrupt)

	// Live store untouched
	after, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRestoreRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)}
	service, dbPath, _ := newTestService(t, clock)

	// Put a marker table in the store, snapshot it, then lose the marker
	db := openStore(t, dbPath)
	require.NoError(t, db.Exec("CREATE TABLE marker (id INTEGER PRIMARY KEY)").Error)
	closeStore(t, db)

	snapshot, err := service.Create(ReasonManual)
	require.NoError(t, err)
	clock.Advance(time.Hour)

	db = openStore(t, dbPath)
	require.NoError(t, db.Exec("DROP TABLE marker").Error)
	closeStore(t, db)

	require.NoError(t, service.Restore(snapshot))

	db = openStore(t, dbPath)
	assert.True(t, db.Migrator().HasTable("marker"))
	closeStore(t, db)

	// The live store was itself backed up before being overwritten
	snapshots, err := service.List()
	require.NoError(t, err)
	var reasons []Reason
	for _, s := range snapshots {
		reasons = append(reasons, s.Reason)
	}
	assert.Contains(t, reasons, ReasonPreRestore)
}

func TestSnapshotByNameRejectsPathEscape(t *testing.T) {
	service, _, _ := newTestService(t, &fakeClock{now: time.Now()})

	_, err := service.SnapshotByName("../salon_records.db")
	require.Error(t, err)
	var ioErr *apperrors.IOError
	assert.ErrorAs(t, err, &ioErr)
}
