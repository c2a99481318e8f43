package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/salonkeep/salonkeep/internal/database"
	apperrors "github.com/salonkeep/salonkeep/internal/errors"
	"gorm.io/gorm"
)

// BackupFunc takes the protective snapshot before the first pending unit
// is applied
type BackupFunc func() error

// ConfirmFunc asks the operator for permission to migrate an existing
// store. It is skipped on first-run bootstrap of a fresh store.
type ConfirmFunc func() bool

// Result reports what a runner pass did. Skipped is true when the operator
// declined confirmation; Applied lists versions applied this pass, in
// order.
type Result struct {
	Applied []string
	Skipped bool
}

// Runner brings the store from whatever version it is at up to the latest
// version the registry knows. It holds the exclusive store lock for the
// whole pass.
type Runner struct {
	db      *gorm.DB
	lock    *database.StoreLock
	logger  database.Logger
	units   []Unit
	backup  BackupFunc
	confirm ConfirmFunc
}

// NewRunner creates a migration runner over the given registry
func NewRunner(db *gorm.DB, lock *database.StoreLock, logger database.Logger, units []Unit, backup BackupFunc, confirm ConfirmFunc) *Runner {
	return &Runner{
		db:      db,
		lock:    lock,
		logger:  logger,
		units:   units,
		backup:  backup,
		confirm: confirm,
	}
}

// Run applies all pending migrations in ascending version order. Each unit
// runs in one transaction together with the insert of its version record,
// so a unit's schema change and its bookkeeping succeed or fail as one.
// The first failure rolls its own transaction back and halts the pass;
// units applied before it stay applied.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.lock.Acquire()
	defer r.lock.Release()

	db := r.db.WithContext(ctx)

	if err := db.AutoMigrate(&database.SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("failed to initialize migration table: %v", err)
	}

	applied, err := AppliedVersions(db)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %v", err)
	}

	if err := Validate(r.units, applied); err != nil {
		return nil, err
	}

	appliedSet := make(map[string]bool, len(applied))
	for _, version := range applied {
		appliedSet[version] = true
	}

	pending := Pending(r.units, appliedSet)
	if len(pending) == 0 {
		r.logger.LogInfo("Schema is up to date", map[string]interface{}{
			"version": currentVersion(applied),
		})
		return &Result{}, nil
	}

	// A fresh store bootstraps silently; an existing one needs the
	// operator's go-ahead before its schema is touched.
	fresh := len(applied) == 0
	if !fresh {
		if r.confirm == nil || !r.confirm() {
			r.logger.LogInfo("Migration declined by operator", map[string]interface{}{
				"pending": len(pending),
			})
			return &Result{Skipped: true}, nil
		}
	}

	if r.backup != nil {
		if err := r.backup(); err != nil {
			return nil, fmt.Errorf("pre-migration backup failed: %w", err)
		}
	}

	result := &Result{}
	for _, unit := range pending {
		r.logger.LogInfo("Applying migration", map[string]interface{}{
			"version":     unit.Version,
			"description": unit.Description,
		})

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := unit.Apply(tx); err != nil {
				return err
			}
			record := database.SchemaMigration{
				Version:   unit.Version,
				AppliedAt: time.Now().UTC(),
			}
			return tx.Create(&record).Error
		})
		if err != nil {
			r.logger.LogError(err, fmt.Sprintf("Migration %s failed, halting run", unit.Version))
			return result, apperrors.NewMigrationError(unit.Version, err)
		}

		result.Applied = append(result.Applied, unit.Version)
	}

	r.logger.LogInfo("Migrations complete", map[string]interface{}{
		"applied": result.Applied,
	})
	return result, nil
}

// Bootstrap brings a store to the latest version with the shipped registry,
// without backup or confirmation hooks. Intended for fresh stores and tests.
func Bootstrap(db *gorm.DB) error {
	runner := NewRunner(db, &database.StoreLock{}, database.NewDefaultLogger(), All(), nil, nil)
	_, err := runner.Run(context.Background())
	return err
}

// AppliedVersions returns the store's applied versions in ascending order
func AppliedVersions(db *gorm.DB) ([]string, error) {
	var versions []string
	err := db.Model(&database.SchemaMigration{}).Order("version").Pluck("version", &versions).Error
	return versions, err
}

func currentVersion(applied []string) string {
	if len(applied) == 0 {
		return "none"
	}
	return applied[len(applied)-1]
}
