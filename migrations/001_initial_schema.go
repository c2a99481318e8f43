package migrations

import "gorm.io/gorm"

// applyInitialSchema creates the five core tables and their indexes.
// Timestamps default to CURRENT_TIMESTAMP (UTC in SQLite); child tables
// cascade on client deletion so no orphaned history survives.
func applyInitialSchema(tx *gorm.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			address TEXT,
			date_of_birth DATE,
			allergies TEXT,
			tags TEXT,
			planned_treatment TEXT,
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clients_name ON clients(last_name, first_name)`,

		`CREATE TABLE IF NOT EXISTS treatment_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id INTEGER NOT NULL,
			treatment_date DATE NOT NULL,
			treatment_notes TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_treatment_records_client_date
			ON treatment_records(client_id, treatment_date DESC)`,

		`CREATE TABLE IF NOT EXISTS product_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id INTEGER NOT NULL,
			product_date DATE NOT NULL,
			product_text TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_product_records_client_date
			ON product_records(client_id, product_date DESC)`,

		`CREATE TABLE IF NOT EXISTS inventory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			capacity REAL NOT NULL,
			unit TEXT NOT NULL CHECK(unit IN ('ml', 'g', 'Pc.')),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_name ON inventory(name)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			table_name TEXT NOT NULL,
			record_id INTEGER NOT NULL,
			action TEXT NOT NULL CHECK(action IN ('CREATE', 'UPDATE', 'DELETE')),
			field_name TEXT,
			old_value TEXT,
			new_value TEXT,
			ui_location TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_table_record ON audit_log(table_name, record_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at DESC)`,
	}

	for _, stmt := range statements {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func revertInitialSchema(tx *gorm.DB) error {
	tables := []string{"audit_log", "inventory", "product_records", "treatment_records", "clients"}
	for _, table := range tables {
		if err := tx.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
