package backup

import (
	"context"
	"fmt"
	"os"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/middleware"
	"starcraft-tracker/internal/preferences"
	"starcraft-tracker/internal/restore"
	"starcraft-tracker/internal/service"
	"starcraft-tracker/internal/share"
	"time"

	"github.com/rs/zerolog"
)

type ServiceResult struct {
	*ExportResult
	Shared *share.Result
}

type Service struct {
	exporter *Exporter
	importer *Importer
	prefs    *preferences.Store
	target   share.Target
	logger   zerolog.Logger
}

func NewService(exporter *Exporter, importer *Importer, prefs *preferences.Store, target share.Target, logger zerolog.Logger) *Service {
	return &Service{
		exporter: exporter,
		importer: importer,
		prefs:    prefs,
		target:   target,
		logger:   logger,
	}
}

// Export writes a backup, records it as the last backup and hands it to the
// share target. A share failure is returned along with the result; the file
// stays in the backup directory.
func (s *Service) Export(ctx context.Context, f Format) (out *ServiceResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, constants.BackupTimeout)
	defer cancel()
	ctx, done := middleware.Operation(ctx, s.logger, "export "+string(f))
	defer func() { done(err) }()

	res, err := s.exporter.Export(ctx, f)
	if err != nil {
		return nil, err
	}
	out = &ServiceResult{ExportResult: res}

	if err := s.prefs.SetLastBackup(res.ExportedAt); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist last backup time")
	}

	if s.target == nil {
		return out, nil
	}
	shared, serr := s.target.Share(ctx, res.Path)
	if serr != nil {
		s.logger.Error().Err(serr).Str("path", res.Path).Msg("failed to share backup")
		return out, &domain.StorageError{Op: "share backup", Err: serr}
	}
	out.Shared = shared
	return out, nil
}

func (s *Service) LastBackup() (time.Time, bool, error) {
	return s.prefs.LastBackup()
}

func (s *Service) ImportJSONFile(ctx context.Context, path string) (res *ImportResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, constants.BackupTimeout)
	defer cancel()
	ctx, done := middleware.Operation(ctx, s.logger, "import json")
	defer func() { done(err) }()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, &domain.SourceNotFoundError{Path: path}
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "open backup", Err: fmt.Errorf("%s: %w", path, err)}
	}
	defer f.Close()

	return s.importer.ImportJSON(ctx, f)
}

func (s *Service) ImportNativeFile(ctx context.Context, path string) (report restore.Report, err error) {
	ctx, cancel := context.WithTimeout(ctx, constants.BackupTimeout)
	defer cancel()
	ctx, done := middleware.Operation(ctx, s.logger, "import native")
	defer func() { done(err) }()
	return s.importer.ImportNative(ctx, path)
}

// ExportAsync runs Export off the caller's goroutine.
func (s *Service) ExportAsync(ctx context.Context, f Format) *service.Future[*ServiceResult] {
	return service.Go(ctx, func(ctx context.Context) (*ServiceResult, error) {
		return s.Export(ctx, f)
	})
}

func (s *Service) ImportJSONFileAsync(ctx context.Context, path string) *service.Future[*ImportResult] {
	return service.Go(ctx, func(ctx context.Context) (*ImportResult, error) {
		return s.ImportJSONFile(ctx, path)
	})
}

func (s *Service) ImportNativeFileAsync(ctx context.Context, path string) *service.Future[restore.Report] {
	return service.Go(ctx, func(ctx context.Context) (restore.Report, error) {
		return s.ImportNativeFile(ctx, path)
	})
}
