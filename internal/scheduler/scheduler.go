package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"starcraft-tracker/internal/backup"
	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/constants"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Exporter interface {
	Export(ctx context.Context, f backup.Format) (*backup.ServiceResult, error)
}

// BackupScheduler takes periodic JSON backups and keeps only the newest
// ones in the backup directory.
type BackupScheduler struct {
	cron     *cron.Cron
	schedule string
	keep     int
	dir      string
	exporter Exporter
	logger   zerolog.Logger
}

func NewBackupScheduler(cfg *config.Config, exporter Exporter, logger zerolog.Logger) *BackupScheduler {
	logger = logger.With().Str("component", "scheduler").Logger()
	return &BackupScheduler{
		cron:     cron.New(cron.WithLogger(cronLogger{logger: logger})),
		schedule: strings.TrimSpace(cfg.BackupSchedule),
		keep:     cfg.BackupKeep,
		dir:      cfg.BackupDir(),
		exporter: exporter,
		logger:   logger,
	}
}

func (s *BackupScheduler) Enabled() bool {
	return s.schedule != ""
}

func (s *BackupScheduler) Start() error {
	if !s.Enabled() {
		s.logger.Info().Msg("scheduled backups disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		s.logger.Error().Err(err).Str("schedule", s.schedule).Msg("invalid backup schedule")
		return fmt.Errorf("invalid BACKUP_SCHEDULE %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Int("keep", s.keep).Msg("backup scheduler started")
	return nil
}

// Stop waits for a running backup to finish or ctx to expire.
func (s *BackupScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info().Msg("backup scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn().Msg("backup scheduler stop timed out")
	}
}

func (s *BackupScheduler) run() {
	if _, err := s.RunNow(context.Background()); err != nil {
		s.logger.Error().Err(err).Msg("scheduled backup failed")
	}
}

// RunNow takes one backup immediately and prunes old ones.
func (s *BackupScheduler) RunNow(ctx context.Context) (*backup.ServiceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.BackupTimeout)
	defer cancel()

	res, err := s.exporter.Export(ctx, backup.FormatJSON)
	if res == nil {
		return nil, err
	}
	s.logger.Info().Str("path", res.Path).Msg("scheduled backup written")

	removed, perr := s.Prune(backup.FormatJSON)
	if perr != nil {
		s.logger.Warn().Err(perr).Msg("failed to prune old backups")
	} else if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("old backups pruned")
	}
	return res, err
}

// Prune deletes all but the newest keep backups of format f. Names embed
// the timestamp, so lexical order is chronological.
func (s *BackupScheduler) Prune(f backup.Format) (int, error) {
	pattern := filepath.Join(s.dir, constants.BackupFilePrefix+"_*."+f.Extension())
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, err
	}
	if len(matches) <= s.keep {
		return 0, nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	removed := 0
	for _, path := range matches[s.keep:] {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
		}
		removed++
	}
	return removed, nil
}

type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
