package service

import (
	"context"
	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Diagnostics struct {
	Database database.Info
	DataDir  string
	Counts   domain.Counts
}

type DiagnosticsService struct {
	manager *database.Manager
	cfg     *config.Config
	players *repository.PlayerRepository
	maps    *repository.MapRepository
	series  *repository.SeriesRepository
	games   *repository.GameRepository
	logger  zerolog.Logger
}

func NewDiagnosticsService(
	manager *database.Manager,
	cfg *config.Config,
	players *repository.PlayerRepository,
	maps *repository.MapRepository,
	series *repository.SeriesRepository,
	games *repository.GameRepository,
	logger zerolog.Logger,
) *DiagnosticsService {
	return &DiagnosticsService{
		manager: manager,
		cfg:     cfg,
		players: players,
		maps:    maps,
		series:  series,
		games:   games,
		logger:  logger,
	}
}

func (s *DiagnosticsService) Report(ctx context.Context) (*Diagnostics, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var players, maps, series, games int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		players, err = s.players.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		maps, err = s.maps.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		series, err = s.series.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		games, err = s.games.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to count rows")
		return nil, err
	}

	return &Diagnostics{
		Database: s.manager.Info(),
		DataDir:  s.cfg.DataDir,
		Counts: domain.Counts{
			Players: int(players),
			Maps:    int(maps),
			Series:  int(series),
			Games:   int(games),
		},
	}, nil
}

// RecreateDatabase drops every row by deleting the file and rebuilding the
// schema.
func (s *DiagnosticsService) RecreateDatabase(ctx context.Context) error {
	if err := s.manager.Recreate(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to recreate database")
		return &domain.StorageError{Op: "recreate database", Err: err}
	}
	s.logger.Warn().Str("path", s.manager.Path()).Msg("database recreated")
	return nil
}
