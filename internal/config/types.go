package config

import (
	"time"

	"github.com/salonkeep/salonkeep/internal/logger"
)

// Config represents the application configuration
type Config struct {
	Environment string         `mapstructure:"environment" yaml:"environment"`
	Server      ServerConfig   `mapstructure:"server" yaml:"server"`
	Database    DatabaseConfig `mapstructure:"database" yaml:"database"`
	Backup      BackupConfig   `mapstructure:"backup" yaml:"backup"`
	Logging     logger.Config  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig represents server configuration settings
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig represents database configuration settings.
// The store is a single SQLite file; Path is where it lives.
type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	BusyTimeoutMs int    `mapstructure:"busyTimeoutMs"`
}

// BackupConfig represents backup and retention configuration settings
type BackupConfig struct {
	Dir             string        `mapstructure:"dir"`
	Auto            bool          `mapstructure:"auto"`
	IntervalMinutes int           `mapstructure:"intervalMinutes"`
	RetentionCount  int           `mapstructure:"retentionCount"`
	RetentionDays   int           `mapstructure:"retentionDays"`
	LastBackupAt    string        `mapstructure:"lastBackupAt"`
	Offsite         OffsiteConfig `mapstructure:"offsite"`
}

// OffsiteConfig represents optional S3 replication settings for snapshots
type OffsiteConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"accessKeyId"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
}

// Interval returns the automatic backup interval as a duration
func (c *BackupConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// MaxAge returns the age-based retention threshold, zero when disabled
func (c *BackupConfig) MaxAge() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// LastBackup parses the persisted last backup timestamp. The second return
// value is false when no backup has ever completed.
func (c *BackupConfig) LastBackup() (time.Time, bool) {
	if c.LastBackupAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, c.LastBackupAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
