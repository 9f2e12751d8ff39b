package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"starcraft-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type ShareTarget string

const (
	ShareNone   ShareTarget = "none"
	ShareDir    ShareTarget = "dir"
	ShareBucket ShareTarget = "bucket"
)

type BucketConfig struct {
	Endpoint  string
	Region    string
	Name      string
	AccessKey string
	SecretKey string
}

type Config struct {
	DataDir  string
	DBFile   string
	LogLevel string

	RestoreMaxAttempts int
	RestoreRetryDelay  time.Duration
	RestoreSettleDelay time.Duration

	BackupSchedule string
	BackupKeep     int

	ShareTarget ShareTarget
	ShareDir    string
	Bucket      BucketConfig
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	dataDir := getEnv("DATA_DIR", "")
	if dataDir == "" {
		var err error
		dataDir, err = appDataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
	}

	cfg := &Config{
		DataDir:            dataDir,
		DBFile:             getEnv("DB_FILE", constants.DefaultDBFile),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RestoreMaxAttempts: getInt("RESTORE_MAX_ATTEMPTS", constants.RestoreMaxAttempts),
		RestoreRetryDelay:  getDuration("RESTORE_RETRY_DELAY", constants.RestoreRetryDelay),
		RestoreSettleDelay: getDuration("RESTORE_SETTLE_DELAY", constants.RestoreSettleDelay),
		BackupSchedule:     getEnv("BACKUP_SCHEDULE", ""),
		BackupKeep:         getInt("BACKUP_KEEP", constants.DefaultBackupKeep),
		ShareTarget:        ShareTarget(strings.ToLower(getEnv("SHARE_TARGET", string(ShareNone)))),
		ShareDir:           getEnv("SHARE_DIR", ""),
		Bucket: BucketConfig{
			Endpoint:  getEnv("SHARE_BUCKET_ENDPOINT", ""),
			Region:    getEnv("SHARE_BUCKET_REGION", "auto"),
			Name:      getEnv("SHARE_BUCKET_NAME", ""),
			AccessKey: getEnv("SHARE_BUCKET_ACCESS_KEY", ""),
			SecretKey: getEnv("SHARE_BUCKET_SECRET_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("data_dir", cfg.DataDir).
		Str("db_file", cfg.DBFile).
		Str("log_level", cfg.LogLevel).
		Int("restore_max_attempts", cfg.RestoreMaxAttempts).
		Dur("restore_retry_delay", cfg.RestoreRetryDelay).
		Str("backup_schedule", cfg.BackupSchedule).
		Str("share_target", string(cfg.ShareTarget)).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.DBFile == "" {
		return fmt.Errorf("DB_FILE is required")
	}
	if c.RestoreMaxAttempts < 1 {
		return fmt.Errorf("RESTORE_MAX_ATTEMPTS must be at least 1, got %d", c.RestoreMaxAttempts)
	}
	if c.RestoreRetryDelay <= 0 {
		return fmt.Errorf("RESTORE_RETRY_DELAY must be positive")
	}
	if c.BackupKeep < 1 {
		return fmt.Errorf("BACKUP_KEEP must be at least 1, got %d", c.BackupKeep)
	}
	switch c.ShareTarget {
	case ShareNone:
	case ShareDir:
		if c.ShareDir == "" {
			return fmt.Errorf("SHARE_DIR is required when SHARE_TARGET=dir")
		}
	case ShareBucket:
		if c.Bucket.Endpoint == "" || c.Bucket.Name == "" || c.Bucket.AccessKey == "" || c.Bucket.SecretKey == "" {
			return fmt.Errorf("SHARE_BUCKET_ENDPOINT, SHARE_BUCKET_NAME, SHARE_BUCKET_ACCESS_KEY and SHARE_BUCKET_SECRET_KEY are required when SHARE_TARGET=bucket")
		}
	default:
		return fmt.Errorf("unknown SHARE_TARGET %q", c.ShareTarget)
	}
	return nil
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

func (c *Config) MarkerPath() string {
	return filepath.Join(c.DataDir, constants.RestoreMarkerName)
}

func (c *Config) BackupDir() string {
	return filepath.Join(c.DataDir, constants.BackupDirName)
}

func (c *Config) PreferencesPath() string {
	return filepath.Join(c.DataDir, constants.PreferencesFileName)
}

// appDataDir returns the per-user application directory, creating it if needed.
func appDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, constants.DefaultAppDirectory)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
