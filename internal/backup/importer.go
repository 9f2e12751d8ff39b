package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/repository"
	"starcraft-tracker/internal/restore"

	"github.com/rs/zerolog"
)

var sqliteMagic = []byte("SQLite format 3\x00")

type ImportResult struct {
	Counts domain.Counts
}

type Importer struct {
	repo        *repository.BackupRepository
	coordinator *restore.Coordinator
	logger      zerolog.Logger
}

func NewImporter(repo *repository.BackupRepository, coordinator *restore.Coordinator, logger zerolog.Logger) *Importer {
	return &Importer{repo: repo, coordinator: coordinator, logger: logger}
}

// ImportJSON replaces every row with the document's content. The document
// is validated in full before anything is deleted.
func (i *Importer) ImportJSON(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &domain.FormatError{Reason: "malformed JSON", Err: err}
	}

	ds, err := doc.Dataset()
	if err != nil {
		i.logger.Warn().Err(err).Msg("backup document rejected")
		return nil, err
	}

	if err := i.repo.ReplaceAll(ctx, ds); err != nil {
		return nil, err
	}

	counts := ds.Counts()
	i.logger.Info().
		Int("players", counts.Players).
		Int("maps", counts.Maps).
		Int("series", counts.Series).
		Int("games", counts.Games).
		Msg("JSON backup imported")
	return &ImportResult{Counts: counts}, nil
}

// ImportNative swaps the live database for the file at path.
func (i *Importer) ImportNative(ctx context.Context, path string) (restore.Report, error) {
	if err := checkSQLiteHeader(path); err != nil {
		return restore.Report{}, err
	}
	report, err := i.coordinator.Restore(ctx, path)
	if err != nil {
		i.logger.Error().Err(err).Str("path", path).Msg("native import failed")
		return report, err
	}
	i.logger.Info().Str("path", path).Msg("native backup imported")
	return report, nil
}

func checkSQLiteHeader(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &domain.SourceNotFoundError{Path: path}
	}
	if err != nil {
		return &domain.StorageError{Op: "open backup", Err: err}
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return &domain.FormatError{Reason: "file is too short to be a database", Err: err}
	}
	if !bytes.Equal(header, sqliteMagic) {
		return &domain.FormatError{Reason: "file is not an SQLite database"}
	}
	return nil
}
