package repository

import (
	"context"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/db"
	"starcraft-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type BackupRepository struct {
	base
}

func NewBackupRepository(manager *database.Manager, logger zerolog.Logger) *BackupRepository {
	return &BackupRepository{base{manager: manager, logger: logger}}
}

// Snapshot loads the four tables inside one read transaction, so games
// never reference a series the snapshot does not hold.
func (r *BackupRepository) Snapshot(ctx context.Context) (*domain.Dataset, error) {
	var ds domain.Dataset
	err := r.snapshot(ctx, "load dataset", func(q *db.Queries) error {
		players, err := q.ListPlayers(ctx)
		if err != nil {
			return translate("load players", constraint{entity: "player"}, err)
		}
		ds.Players = make([]domain.Player, len(players))
		for i, row := range players {
			ds.Players[i] = playerFromDB(row)
		}

		maps, err := q.ListMaps(ctx)
		if err != nil {
			return translate("load maps", constraint{entity: "map"}, err)
		}
		ds.Maps = make([]domain.Map, len(maps))
		for i, row := range maps {
			ds.Maps[i] = mapFromDB(row)
		}

		series, err := q.ListSeries(ctx)
		if err != nil {
			return translate("load series", constraint{entity: "series"}, err)
		}
		ds.Series = make([]domain.Series, len(series))
		for i, row := range series {
			ds.Series[i] = seriesFromDB(row)
		}

		games, err := q.ListGames(ctx)
		if err != nil {
			return translate("load games", constraint{entity: "game"}, err)
		}
		ds.Games = make([]domain.Game, len(games))
		for i, row := range games {
			ds.Games[i] = gameFromDB(row)
		}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to load dataset")
		return nil, err
	}
	return &ds, nil
}

// ReplaceAll deletes every row, children first, and inserts ds, parents
// first, keeping the ids it carries. Everything happens in one
// transaction, so a failure leaves the previous data in place.
func (r *BackupRepository) ReplaceAll(ctx context.Context, ds *domain.Dataset) error {
	err := r.tx(ctx, "replace dataset", func(q *db.Queries) error {
		if err := q.DeleteAllGames(ctx); err != nil {
			return translate("delete games", constraint{entity: "game"}, err)
		}
		if err := q.DeleteAllSeries(ctx); err != nil {
			return translate("delete series", constraint{entity: "series"}, err)
		}
		if err := q.DeleteAllMaps(ctx); err != nil {
			return translate("delete maps", constraint{entity: "map"}, err)
		}
		if err := q.DeleteAllPlayers(ctx); err != nil {
			return translate("delete players", constraint{entity: "player"}, err)
		}

		for _, p := range ds.Players {
			err := q.InsertPlayerWithID(ctx, db.InsertPlayerWithIDParams{
				ID:           p.ID,
				Alias:        p.Alias,
				AliasKey:     domain.FoldKey(p.Alias),
				Country:      p.Country,
				PrimaryRace:  raceToDB(p.PrimaryRace),
				RegisteredAt: utc(p.RegisteredAt),
			})
			if err != nil {
				return translate("insert player", constraint{entity: "player", field: "alias", value: p.Alias, id: p.ID}, err)
			}
		}
		for _, m := range ds.Maps {
			if err := q.InsertMapWithID(ctx, db.InsertMapWithIDParams{ID: m.ID, Name: m.Name, NameKey: domain.FoldKey(m.Name)}); err != nil {
				return translate("insert map", constraint{entity: "map", field: "name", value: m.Name, id: m.ID}, err)
			}
		}
		for _, s := range ds.Series {
			err := q.InsertSeriesWithID(ctx, db.InsertSeriesWithIDParams{
				ID:        s.ID,
				PlayerAID: s.PlayerAID,
				PlayerBID: s.PlayerBID,
				Date:      utc(s.Date),
				Modality:  s.Modality,
			})
			if err != nil {
				return translate("insert series", constraint{entity: "series", id: s.ID}, err)
			}
		}
		for _, g := range ds.Games {
			err := q.InsertGameWithID(ctx, db.InsertGameWithIDParams{
				ID:        g.ID,
				SeriesID:  g.SeriesID,
				MapID:     g.MapID,
				RaceA:     raceToDB(g.RaceA),
				RaceB:     raceToDB(g.RaceB),
				WinnerID:  g.WinnerID,
				CreatedAt: utc(g.CreatedAt),
			})
			if err != nil {
				return translate("insert game", constraint{entity: "game", id: g.ID}, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to replace dataset")
		return err
	}

	c := ds.Counts()
	r.logger.Info().
		Int("players", c.Players).
		Int("maps", c.Maps).
		Int("series", c.Series).
		Int("games", c.Games).
		Msg("dataset replaced")
	return nil
}
