package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Backup defaults, used both when the config file is absent and when it
// carries out-of-range values. The store and backup paths are resolved
// relative to the load path when not absolute.
const (
	DefaultBackupIntervalMinutes = 120
	DefaultBackupRetentionCount  = 25
	DefaultBackupRetentionDays   = 0
)

// ConfigService implements the Service interface. The mutex serializes
// every access to the loaded config and the underlying viper instance:
// the scheduler goroutine and the settings HTTP surface both go through
// this service concurrently.
type ConfigService struct {
	logger   Logger
	mu       sync.RWMutex
	loadPath string
	current  *Config
}

// NewConfigService creates a new configuration service
func NewConfigService(logger Logger) *ConfigService {
	return &ConfigService{
		logger: logger,
	}
}

// Load loads the configuration from the specified path. A missing config
// file is not an error: the documented defaults apply instead.
func (s *ConfigService) Load(path string) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	viper.Reset()
	viper.AddConfigPath(path)
	// Use test configuration file if ENV is set to test
	if os.Getenv("ENV") == "test" {
		viper.SetConfigName("config_test")
	} else {
		viper.SetConfigName("config")
	}
	viper.SetConfigType("yaml")

	// Set default values
	s.setDefaults()

	// Read the config file; fall back to defaults when it does not exist
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
		s.logger.LogInfo("No config file found, using defaults", nil)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	// Out-of-range values fall back to defaults rather than failing startup
	s.normalize(&config)

	// Convert relative paths to absolute
	if err := s.resolvePaths(&config, path); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %v", err)
	}

	s.loadPath = path
	s.current = &config
	s.logger.LogInfo("Configuration loaded successfully", nil)
	return &config, nil
}

// BackupSnapshot returns a copy of the current backup settings. Concurrent
// readers take this snapshot instead of holding onto the loaded Config,
// which the settings surface mutates.
func (s *ConfigService) BackupSnapshot() BackupConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return BackupConfig{}
	}
	return s.current.Backup
}

// SetLastBackupTime persists the scheduler's last successful backup time
func (s *ConfigService) SetLastBackupTime(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := t.UTC().Format(time.RFC3339)
	if s.current != nil {
		s.current.Backup.LastBackupAt = value
	}
	viper.Set("backup.lastBackupAt", value)
	return s.write()
}

// UpdateBackupSettings applies and persists the mutable backup settings
func (s *ConfigService) UpdateBackupSettings(settings BackupSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Backup.Auto = settings.Auto
		s.current.Backup.IntervalMinutes = settings.IntervalMinutes
		s.current.Backup.RetentionCount = settings.RetentionCount
		s.current.Backup.RetentionDays = settings.RetentionDays
		s.normalize(s.current)
	}
	viper.Set("backup.auto", settings.Auto)
	viper.Set("backup.intervalMinutes", settings.IntervalMinutes)
	viper.Set("backup.retentionCount", settings.RetentionCount)
	viper.Set("backup.retentionDays", settings.RetentionDays)
	return s.write()
}

func (s *ConfigService) write() error {
	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}
	return viper.WriteConfigAs(filepath.Join(s.loadPath, "config.yaml"))
}

// setDefaults sets default values for configuration
func (s *ConfigService) setDefaults() {
	viper.SetDefault("environment", "production")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.path", "salon_records.db")
	viper.SetDefault("database.busyTimeoutMs", 5000)
	viper.SetDefault("backup.dir", "backups")
	viper.SetDefault("backup.auto", true)
	viper.SetDefault("backup.intervalMinutes", DefaultBackupIntervalMinutes)
	viper.SetDefault("backup.retentionCount", DefaultBackupRetentionCount)
	viper.SetDefault("backup.retentionDays", DefaultBackupRetentionDays)
	viper.SetDefault("backup.offsite.enabled", false)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stdout")
}

// normalize replaces out-of-range backup values with the documented defaults
func (s *ConfigService) normalize(config *Config) {
	if config.Backup.IntervalMinutes <= 0 {
		s.logger.LogInfo("Invalid backup interval, using default", map[string]interface{}{
			"value":   config.Backup.IntervalMinutes,
			"default": DefaultBackupIntervalMinutes,
		})
		config.Backup.IntervalMinutes = DefaultBackupIntervalMinutes
	}
	if config.Backup.RetentionCount <= 0 {
		s.logger.LogInfo("Invalid backup retention count, using default", map[string]interface{}{
			"value":   config.Backup.RetentionCount,
			"default": DefaultBackupRetentionCount,
		})
		config.Backup.RetentionCount = DefaultBackupRetentionCount
	}
	if config.Backup.RetentionDays < 0 {
		config.Backup.RetentionDays = DefaultBackupRetentionDays
	}
}

// resolvePaths converts relative paths to absolute paths
func (s *ConfigService) resolvePaths(config *Config, basePath string) error {
	dbPath := config.Database.Path
	if !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(filepath.Join(basePath, dbPath))
		if err != nil {
			return fmt.Errorf("failed to resolve database path: %v", err)
		}
		config.Database.Path = absPath
	}

	backupDir := config.Backup.Dir
	if !filepath.IsAbs(backupDir) {
		absPath, err := filepath.Abs(filepath.Join(basePath, backupDir))
		if err != nil {
			return fmt.Errorf("failed to resolve backup directory path: %v", err)
		}
		config.Backup.Dir = absPath
	}

	return nil
}
