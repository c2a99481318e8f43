package database

import "time"

// SchemaMigration records one applied migration. Rows are append-only: they
// are written in the same transaction as the schema change they describe and
// never updated or deleted afterwards.
type SchemaMigration struct {
	Version   string    `gorm:"primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for migration records
func (SchemaMigration) TableName() string {
	return "schema_migrations"
}
