package main

import (
	"context"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/database"
	fxmodules "starcraft-tracker/internal/fx"
	"starcraft-tracker/internal/preferences"
	"starcraft-tracker/internal/restore"
	"starcraft-tracker/internal/scheduler"
	"starcraft-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runTracker),
	).Run()
}

func runTracker(
	lc fx.Lifecycle,
	diagnostics *service.DiagnosticsService,
	backups *scheduler.BackupScheduler,
	coordinator *restore.Coordinator,
	prefs *preferences.Store,
	manager *database.Manager,
	logger zerolog.Logger,
) {
	coordinator.Subscribe(func(ev restore.Event) {
		logger.Info().Str("path", ev.Path).Time("applied_at", ev.AppliedAt).Msg("database restored, reload data views")
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pending := service.Go(ctx, diagnostics.Report)

			if last, ok, err := prefs.LastBackup(); err == nil && ok {
				logger.Info().Time("last_backup", last).Msg("last backup")
			}

			report, err := pending.Wait()
			if err != nil {
				logger.Warn().Err(err).Msg("failed to collect diagnostics")
			} else {
				logger.Info().
					Str("path", report.Database.Path).
					Float64("size_kb", report.Database.SizeKB).
					Int("players", report.Counts.Players).
					Int("maps", report.Counts.Maps).
					Int("series", report.Counts.Series).
					Int("games", report.Counts.Games).
					Msg("tracker database ready")
			}

			return backups.Start()
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down tracker")
			stopCtx, cancel := context.WithTimeout(ctx, constants.ShutdownTimeout)
			defer cancel()

			backups.Stop(stopCtx)

			if err := prefs.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing preferences store")
			}
			if err := manager.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
				return err
			}
			logger.Info().Msg("tracker stopped gracefully")
			return nil
		},
	})
}
