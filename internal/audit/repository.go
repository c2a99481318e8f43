package audit

import (
	"context"

	"gorm.io/gorm"
)

// Repository defines the interface for audit trail data access
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, options FilterOptions) ([]Entry, error)
	Count(ctx context.Context) (int64, error)
	// Cleanup deletes the oldest entries beyond keep, returning how many
	// were removed
	Cleanup(ctx context.Context, keep int64) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed audit repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, entry *Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormRepository) List(ctx context.Context, options FilterOptions) ([]Entry, error) {
	query := r.db.WithContext(ctx).Model(&Entry{})

	if options.TableName != "" {
		query = query.Where("table_name = ?", options.TableName)
		if options.RecordID != 0 {
			query = query.Where("record_id = ?", options.RecordID)
		}
	}
	if options.ClientID != nil {
		query = query.Where("client_id = ?", *options.ClientID)
	}

	limit := options.Limit
	if limit <= 0 {
		limit = 50
	}

	var entries []Entry
	err := query.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(options.Offset).
		Find(&entries).Error
	return entries, err
}

func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Entry{}).Count(&count).Error
	return count, err
}

func (r *gormRepository) Cleanup(ctx context.Context, keep int64) (int64, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count <= keep {
		return 0, nil
	}

	toDelete := count - keep
	result := r.db.WithContext(ctx).Exec(
		`DELETE FROM audit_log WHERE id IN (SELECT id FROM audit_log ORDER BY created_at ASC, id ASC LIMIT ?)`,
		toDelete,
	)
	return result.RowsAffected, result.Error
}
