package errors

import "fmt"

// Error method implementation for ValidationError
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error method implementation for ConfigurationError
func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Error method implementation for MigrationError
func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s failed: %v", e.Version, e.Cause)
}

func (e *MigrationError) Unwrap() error {
	return e.Cause
}

// Error method implementation for IOError
func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Path)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// Error method implementation for CorruptBackupError
func (e *CorruptBackupError) Error() string {
	return fmt.Sprintf("corrupt backup %s: %s", e.Path, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Message: message,
		Cause:   cause,
	}
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(version string, cause error) *MigrationError {
	return &MigrationError{
		Version: version,
		Cause:   cause,
	}
}

// NewIOError creates a new IOError
func NewIOError(message, path string, cause error) *IOError {
	return &IOError{
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// NewCorruptBackupError creates a new CorruptBackupError
func NewCorruptBackupError(path, message string) *CorruptBackupError {
	return &CorruptBackupError{
		Path:    path,
		Message: message,
	}
}
