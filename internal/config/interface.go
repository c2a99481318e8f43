package config

import "time"

// Service defines the interface for configuration operations
type Service interface {
	Load(path string) (*Config, error)
	BackupSnapshot() BackupConfig
	SetLastBackupTime(t time.Time) error
	UpdateBackupSettings(settings BackupSettings) error
}

// Logger defines the logging interface used by the config package
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
}

// BackupSettings is the mutable subset of BackupConfig exposed to the
// settings surface
type BackupSettings struct {
	Auto            bool `json:"auto"`
	IntervalMinutes int  `json:"intervalMinutes"`
	RetentionCount  int  `json:"retentionCount"`
	RetentionDays   int  `json:"retentionDays"`
}
