package testhelper

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/salonkeep/salonkeep/migrations"
)

// Config is the minimal configuration the test environment needs.
type Config struct {
	Environment string `mapstructure:"environment"`
	Database    struct {
		Path          string `mapstructure:"path"`
		BusyTimeoutMs int    `mapstructure:"busyTimeoutMs"`
	} `mapstructure:"database"`
	Backup struct {
		Dir             string `mapstructure:"dir"`
		Auto            bool   `mapstructure:"auto"`
		IntervalMinutes int    `mapstructure:"intervalMinutes"`
		RetentionCount  int    `mapstructure:"retentionCount"`
		RetentionDays   int    `mapstructure:"retentionDays"`
	} `mapstructure:"backup"`
	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		Output string `mapstructure:"output"`
	} `mapstructure:"logging"`
}

// LoadTestConfig loads config_test.yaml, looking upward from the test's
// working directory so packages at any depth find it.
func LoadTestConfig() (*Config, error) {
	// .env.test is optional; it can override paths on developer machines
	for _, envFile := range []string{".env.test", "../.env.test", "../../.env.test"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	if cfgFile := os.Getenv("TEST_CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config_test")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath("../..")

		// Walk up to the module root (marked by go.mod)
		if wd, err := os.Getwd(); err == nil {
			dir := wd
			for i := 0; i < 5; i++ {
				if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
					v.AddConfigPath(dir)
					break
				}
				parent := filepath.Dir(dir)
				if parent == dir {
					break
				}
				dir = parent
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetupTestDB opens a throwaway SQLite store under t.TempDir() and brings
// it to the current schema version with the shipped migration registry.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "salon_records.db")
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access underlying connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migrations.Bootstrap(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
