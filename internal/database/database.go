package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/db"
	"starcraft-tracker/internal/domain"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// gooseMu guards goose's package-level dialect and filesystem settings.
var gooseMu sync.Mutex

// Manager owns the connection pool of the single database file. Ordinary
// work runs inside shared sessions; whole-file operations take exclusive
// access, which waits for every session to end and closes the pool first.
type Manager struct {
	mu      sync.RWMutex
	path    string
	sqlDB   *sql.DB
	queries *db.Queries
	logger  zerolog.Logger
}

type Session struct {
	DB      *sql.DB
	Queries *db.Queries
	release func()
	once    sync.Once
}

func (s *Session) Close() {
	s.once.Do(s.release)
}

type Info struct {
	Path   string
	Exists bool
	SizeKB float64
}

func NewManager(cfg *config.Config, logger zerolog.Logger) (*Manager, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	m := &Manager{
		path:   cfg.DBPath(),
		logger: logger,
	}
	if err := m.open(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) Path() string {
	return m.path
}

// Session blocks while an exclusive operation is running.
func (m *Manager) Session(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	if m.sqlDB == nil {
		m.mu.RUnlock()
		return nil, fmt.Errorf("database is closed")
	}
	return &Session{
		DB:      m.sqlDB,
		Queries: m.queries,
		release: m.mu.RUnlock,
	}, nil
}

// Exclusive drains the pool, hands the file path to fn and reopens the
// database afterwards, whether or not fn succeeded.
func (m *Manager) Exclusive(ctx context.Context, fn func(path string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.closeLocked(); err != nil {
		m.logger.Warn().Err(err).Msg("error closing database before exclusive access")
	}

	m.logger.Debug().Str("path", m.path).Msg("exclusive database access acquired")
	fnErr := fn(m.path)

	if err := m.open(); err != nil {
		return errors.Join(fnErr, err)
	}
	return fnErr
}

// Replace is Exclusive for callers that write a new file at path. The
// current file is kept as <path>.bak until the new one opens; if fn fails or
// the new file cannot be opened, the previous file is put back and reopened.
func (m *Manager) Replace(ctx context.Context, fn func(path string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.closeLocked(); err != nil {
		m.logger.Warn().Err(err).Msg("error closing database before replacement")
	}

	bak := m.path + ".bak"
	if err := removeFiles(bak, m.path+"-wal", m.path+"-shm"); err != nil {
		return errors.Join(err, m.open())
	}
	kept := true
	if err := os.Rename(m.path, bak); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return errors.Join(fmt.Errorf("failed to set aside database file: %w", err), m.open())
		}
		kept = false
	}

	fnErr := fn(m.path)
	if fnErr == nil {
		openErr := m.open()
		if openErr == nil {
			if err := removeFiles(bak); err != nil {
				m.logger.Warn().Err(err).Str("path", bak).Msg("failed to remove previous database file")
			}
			return nil
		}
		fnErr = &domain.FormatError{Reason: "replacement database cannot be opened", Err: openErr}
	}

	m.logger.Warn().Err(fnErr).Str("path", m.path).Msg("database replacement failed, rolling back")
	if err := removeFiles(m.path, m.path+"-wal", m.path+"-shm"); err != nil {
		return errors.Join(fnErr, err)
	}
	if kept {
		if err := os.Rename(bak, m.path); err != nil {
			return errors.Join(fnErr, fmt.Errorf("failed to put back previous database file: %w", err))
		}
	}
	if err := m.open(); err != nil {
		return errors.Join(fnErr, err)
	}
	return fnErr
}

// Recreate deletes the database file and creates an empty schema.
func (m *Manager) Recreate(ctx context.Context) error {
	return m.Exclusive(ctx, func(path string) error {
		if err := removeFiles(path, path+"-wal", path+"-shm"); err != nil {
			return err
		}
		m.logger.Info().Str("path", path).Msg("database file removed for recreation")
		return nil
	})
}

// Verify opens path read-only and checks that it is an intact tracker
// database. Failures are FormatErrors.
func Verify(ctx context.Context, path string) error {
	sqlDB, err := sql.Open("sqlite3", fileURI(path, "mode=ro&immutable=1"))
	if err != nil {
		return &domain.FormatError{Reason: "cannot open database file", Err: err}
	}
	defer sqlDB.Close()

	var result string
	if err := sqlDB.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		return &domain.FormatError{Reason: "not a readable database", Err: err}
	}
	if result != "ok" {
		return &domain.FormatError{Reason: "integrity check failed: " + result}
	}

	var tables int
	err = sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('players', 'maps', 'series', 'games')",
	).Scan(&tables)
	if err != nil {
		return &domain.FormatError{Reason: "cannot read schema", Err: err}
	}
	if tables != 4 {
		return &domain.FormatError{Reason: "not a tracker database"}
	}
	return nil
}

func removeFiles(paths ...string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

func (m *Manager) Info() Info {
	info := Info{Path: m.path}
	st, err := os.Stat(m.path)
	if err != nil {
		return info
	}
	info.Exists = true
	info.SizeKB = float64(st.Size()) / 1024
	return info
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

func (m *Manager) closeLocked() error {
	if m.sqlDB == nil {
		return nil
	}
	err := m.sqlDB.Close()
	m.sqlDB = nil
	m.queries = nil
	return err
}

func (m *Manager) open() error {
	m.logger.Info().Str("path", m.path).Msg("connecting to database")

	sqlDB, err := sql.Open("sqlite3", dsn(m.path))
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to connect to database")
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB.SetMaxOpenConns(constants.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(constants.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	if err := optimizeSQLite(sqlDB, m.logger); err != nil {
		sqlDB.Close()
		m.logger.Error().Err(err).Msg("failed to optimize SQLite")
		return fmt.Errorf("failed to optimize SQLite: %w", err)
	}
	if err := runMigrations(sqlDB, m.logger); err != nil {
		sqlDB.Close()
		m.logger.Error().Err(err).Msg("failed to run migrations")
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.sqlDB = sqlDB
	m.queries = db.New(sqlDB)

	m.logger.Info().Msg("database connection established and optimized")
	return nil
}

// Per-connection pragmas go in the DSN so every pooled connection gets them.
func dsn(path string) string {
	return fileURI(path, "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL")
}

// fileURI builds an absolute file: URI for SQLite. The path is escaped so
// '?', '#' and '%' in directory names survive.
func fileURI(path, query string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: query}
	return u.String()
}

func runMigrations(sqlDB *sql.DB, logger zerolog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{logger: logger})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	logger.Info().Msg("migrations completed successfully")
	return nil
}

func optimizeSQLite(sqlDB *sql.DB, logger zerolog.Logger) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"cache_size", "-16000"},
		{"temp_store", "MEMORY"},
	}

	for _, pragma := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)
		if _, err := sqlDB.Exec(query); err != nil {
			logger.Warn().
				Err(err).
				Str("pragma", pragma.name).
				Str("value", pragma.value).
				Msg("failed to set pragma")
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
		logger.Debug().
			Str("pragma", pragma.name).
			Str("value", pragma.value).
			Msg("SQLite pragma set")
	}

	return nil
}

type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug().Str("component", "goose").Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error().Str("component", "goose").Msgf(format, v...)
}
