package migrations

import "gorm.io/gorm"

// applyAuditClientID adds a nullable client_id column to audit_log so
// entries can be filtered per client even after the underlying record is
// gone. No foreign key: audit rows must outlive client deletion.
func applyAuditClientID(tx *gorm.DB) error {
	if err := tx.Exec(`ALTER TABLE audit_log ADD COLUMN client_id INTEGER`).Error; err != nil {
		return err
	}
	return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_audit_log_client_id ON audit_log(client_id)`).Error
}

func revertAuditClientID(tx *gorm.DB) error {
	if err := tx.Exec(`DROP INDEX IF EXISTS idx_audit_log_client_id`).Error; err != nil {
		return err
	}
	return tx.Exec(`ALTER TABLE audit_log DROP COLUMN client_id`).Error
}
