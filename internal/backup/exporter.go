package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/fileutil"
	"starcraft-tracker/internal/repository"
	"time"

	"github.com/rs/zerolog"
)

type ExportResult struct {
	Format     Format
	Path       string
	Name       string
	Counts     domain.Counts
	ExportedAt time.Time
}

type Exporter struct {
	cfg     *config.Config
	manager *database.Manager
	repo    *repository.BackupRepository
	now     func() time.Time
	logger  zerolog.Logger
}

func NewExporter(cfg *config.Config, manager *database.Manager, repo *repository.BackupRepository, logger zerolog.Logger) *Exporter {
	return &Exporter{
		cfg:     cfg,
		manager: manager,
		repo:    repo,
		now:     time.Now,
		logger:  logger,
	}
}

// Export writes the whole dataset into the backup directory.
func (e *Exporter) Export(ctx context.Context, f Format) (*ExportResult, error) {
	exportedAt := e.now()
	dst := filepath.Join(e.cfg.BackupDir(), FileName(f, exportedAt))

	ds, err := e.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	// Exports started within the same second get a numeric suffix instead
	// of replacing each other.
	switch f {
	case FormatNative:
		dst, err = e.exportNative(ctx, dst)
	case FormatJSON:
		dst, err = fileutil.WriteUnique(dst, func(w io.Writer) error { return writeJSON(w, ds, exportedAt) })
	case FormatCSV:
		dst, err = fileutil.WriteUnique(dst, func(w io.Writer) error { return writeCSV(w, ds) })
	case FormatXML:
		dst, err = fileutil.WriteUnique(dst, func(w io.Writer) error { return writeXML(w, ds, exportedAt) })
	default:
		return nil, &domain.ValidationError{Field: "format", Reason: "unknown backup format " + string(f)}
	}
	if err != nil {
		e.logger.Error().Err(err).Str("format", string(f)).Msg("export failed")
		var nf *domain.SourceNotFoundError
		if errors.As(err, &nf) {
			return nil, err
		}
		return nil, &domain.StorageError{Op: "export " + string(f), Err: err}
	}

	res := &ExportResult{
		Format:     f,
		Path:       dst,
		Name:       filepath.Base(dst),
		Counts:     ds.Counts(),
		ExportedAt: exportedAt,
	}
	e.logger.Info().
		Str("format", string(f)).
		Str("path", dst).
		Int("players", res.Counts.Players).
		Int("games", res.Counts.Games).
		Msg("backup exported")
	return res, nil
}

// exportNative copies the database file while the pool is closed, so the
// copy is checkpointed and byte-identical to the live file.
func (e *Exporter) exportNative(ctx context.Context, dst string) (string, error) {
	var written string
	err := e.manager.Exclusive(ctx, func(path string) error {
		in, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return &domain.SourceNotFoundError{Path: path}
			}
			return err
		}
		defer in.Close()

		written, err = fileutil.WriteUnique(dst, fileutil.CopyFrom(in))
		return err
	})
	return written, err
}
