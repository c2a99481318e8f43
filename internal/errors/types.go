package errors

// ValidationError represents a validation error with a field and message
type ValidationError struct {
	Field   string
	Message string
}

// ConfigurationError represents an inconsistent registry or configuration state
// detected at startup. It is fatal: the application must not proceed.
type ConfigurationError struct {
	Message string
	Cause   error
}

// MigrationError represents a failure while applying a single migration.
// Version identifies exactly which unit failed.
type MigrationError struct {
	Version string
	Cause   error
}

// IOError represents a backup copy or filesystem failure
type IOError struct {
	Path    string
	Message string
	Cause   error
}

// CorruptBackupError represents a snapshot that failed validation before a
// restore. The live store is untouched when this is returned.
type CorruptBackupError struct {
	Path    string
	Message string
}
