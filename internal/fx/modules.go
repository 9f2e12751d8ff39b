package fx

import (
	"context"
	"starcraft-tracker/internal/backup"
	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/logger"
	"starcraft-tracker/internal/preferences"
	"starcraft-tracker/internal/repository"
	"starcraft-tracker/internal/restore"
	"starcraft-tracker/internal/scheduler"
	"starcraft-tracker/internal/service"
	"starcraft-tracker/internal/share"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ProvideManager finishes any restore left pending by a previous run before
// the database is opened.
func ProvideManager(cfg *config.Config, logger zerolog.Logger) (*database.Manager, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.BackupTimeout)
	defer cancel()

	report := restore.ResumePending(ctx, cfg, restore.PolicyFromConfig(cfg), logger)
	if report.Pending {
		logger.Info().
			Bool("applied", report.Applied).
			Bool("stale", report.Stale).
			Bool("rejected", report.Rejected).
			Msg("pending restore processed")
	}
	return database.NewManager(cfg, logger)
}

func ProvideScheduler(cfg *config.Config, svc *backup.Service, logger zerolog.Logger) *scheduler.BackupScheduler {
	return scheduler.NewBackupScheduler(cfg, svc, logger)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Invoke(func(cfg *config.Config) { logger.ApplyLevel(cfg.LogLevel) }),
	fx.Provide(ProvideManager),
	fx.Provide(preferences.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewMapRepository),
	fx.Provide(repository.NewSeriesRepository),
	fx.Provide(repository.NewGameRepository),
	fx.Provide(repository.NewStatsRepository),
	fx.Provide(repository.NewBackupRepository),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMapService),
	fx.Provide(service.NewSeriesService),
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewDiagnosticsService),
	// backup & restore
	fx.Provide(restore.NewCoordinator),
	fx.Provide(share.New),
	fx.Provide(backup.NewExporter),
	fx.Provide(backup.NewImporter),
	fx.Provide(backup.NewService),
	fx.Provide(ProvideScheduler),
)
