package preferences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/constants"
	"time"

	"github.com/asdine/storm"
	"github.com/rs/zerolog"
)

const bucket = "preferences"

// Store is a small key-value store for user-facing preferences, kept apart
// from the tracker database so a restore never rewinds them.
type Store struct {
	db     *storm.DB
	logger zerolog.Logger
}

func Open(path string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	db, err := storm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open preferences store: %w", err)
	}
	logger.Debug().Str("path", path).Msg("preferences store opened")
	return &Store{db: db, logger: logger}, nil
}

func New(cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	return Open(cfg.PreferencesPath(), logger)
}

func (s *Store) Set(key, value string) error {
	if err := s.db.Set(bucket, key, value); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

// Get reports false when the key was never set.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.Get(bucket, key, &value)
	if errors.Is(err, storm.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) SetLastBackup(t time.Time) error {
	return s.Set(constants.PrefLastBackup, t.Format(time.RFC3339))
}

func (s *Store) LastBackup() (time.Time, bool, error) {
	raw, ok, err := s.Get(constants.PrefLastBackup)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		s.logger.Warn().Str("value", raw).Msg("ignoring malformed last backup preference")
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
