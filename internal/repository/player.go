package repository

import (
	"context"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/db"
	"starcraft-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	base
}

func NewPlayerRepository(manager *database.Manager, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{base{manager: manager, logger: logger}}
}

func (r *PlayerRepository) Create(ctx context.Context, p domain.Player) (*domain.Player, error) {
	var created domain.Player
	err := r.read(ctx, "create player", func(q *db.Queries) error {
		id, err := q.CreatePlayer(ctx, db.CreatePlayerParams{
			Alias:        p.Alias,
			AliasKey:     domain.FoldKey(p.Alias),
			Country:      p.Country,
			PrimaryRace:  raceToDB(p.PrimaryRace),
			RegisteredAt: utc(p.RegisteredAt),
		})
		if err != nil {
			return translate("create player", constraint{entity: "player", field: "alias", value: p.Alias}, err)
		}
		row, err := q.GetPlayer(ctx, id)
		if err != nil {
			return translate("create player", constraint{entity: "player", id: id}, err)
		}
		created = playerFromDB(row)
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("alias", p.Alias).Msg("failed to create player")
		return nil, err
	}

	r.logger.Info().Int64("player_id", created.ID).Str("alias", created.Alias).Msg("player created")
	return &created, nil
}

func (r *PlayerRepository) Update(ctx context.Context, p domain.Player) error {
	return r.read(ctx, "update player", func(q *db.Queries) error {
		n, err := q.UpdatePlayer(ctx, db.UpdatePlayerParams{
			Alias:       p.Alias,
			AliasKey:    domain.FoldKey(p.Alias),
			Country:     p.Country,
			PrimaryRace: raceToDB(p.PrimaryRace),
			ID:          p.ID,
		})
		if err != nil {
			return translate("update player", constraint{entity: "player", field: "alias", value: p.Alias, id: p.ID}, err)
		}
		if n == 0 {
			return notFound("player", p.ID)
		}
		r.logger.Info().Int64("player_id", p.ID).Msg("player updated")
		return nil
	})
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) error {
	return r.read(ctx, "delete player", func(q *db.Queries) error {
		n, err := q.DeletePlayer(ctx, id)
		if err != nil {
			return translate("delete player", constraint{entity: "player", id: id}, err)
		}
		if n == 0 {
			return notFound("player", id)
		}
		r.logger.Info().Int64("player_id", id).Msg("player deleted")
		return nil
	})
}

func (r *PlayerRepository) Get(ctx context.Context, id int64) (*domain.Player, error) {
	var p domain.Player
	err := r.read(ctx, "get player", func(q *db.Queries) error {
		row, err := q.GetPlayer(ctx, id)
		if err != nil {
			return translate("get player", constraint{entity: "player", id: id}, err)
		}
		p = playerFromDB(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every player ordered by alias.
func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	var players []domain.Player
	err := r.read(ctx, "list players", func(q *db.Queries) error {
		rows, err := q.ListPlayers(ctx)
		if err != nil {
			return translate("list players", constraint{entity: "player"}, err)
		}
		players = make([]domain.Player, len(rows))
		for i, row := range rows {
			players[i] = playerFromDB(row)
		}
		return nil
	})
	return players, err
}

// AliasTaken compares fold keys and ignores the player with excludeID.
func (r *PlayerRepository) AliasTaken(ctx context.Context, alias string, excludeID int64) (bool, error) {
	var n int64
	err := r.read(ctx, "check alias", func(q *db.Queries) error {
		var err error
		n, err = q.CountPlayersWithAlias(ctx, db.CountPlayersWithAliasParams{AliasKey: domain.FoldKey(alias), ID: excludeID})
		return translate("check alias", constraint{entity: "player"}, err)
	})
	return n > 0, err
}

func (r *PlayerRepository) SeriesCount(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.read(ctx, "count player series", func(q *db.Queries) error {
		var err error
		n, err = q.CountSeriesForPlayer(ctx, id)
		return translate("count player series", constraint{entity: "player", id: id}, err)
	})
	return n, err
}

func (r *PlayerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.read(ctx, "count players", func(q *db.Queries) error {
		var err error
		n, err = q.CountPlayers(ctx)
		return translate("count players", constraint{entity: "player"}, err)
	})
	return n, err
}
