package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	BackupTimeout   = 2 * time.Minute
)

const (
	DBMaxOpenConns    = 8
	DBMaxIdleConns    = 4
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	PlayersPerPage = 10
	MapsPerPage    = 15
	SeriesPerPage  = 5
	GamesPerPage   = 10
)

const (
	MinMapNameLength = 3
)

const (
	BackupFormatVersion = "1.0"
	BackupFilePrefix    = "starcraft_backup"
	BackupTimestamp     = "20060102_150405"
	BackupDirName       = "backups"
	RestoreMarkerName   = "restore_pending.flag"
	StagedFilePrefix    = "staged_"
	PreferencesFileName = "preferences.db"
	PrefLastBackup      = "last_backup"
)

const (
	RestoreMaxAttempts  = 5
	RestoreRetryDelay   = 1 * time.Second
	RestoreSettleDelay  = 500 * time.Millisecond
	DefaultBackupKeep   = 7
	DefaultAppDirectory = "StarCraftTracker"
	DefaultDBFile       = "starcraft.db"
)
