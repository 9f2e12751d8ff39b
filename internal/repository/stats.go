package repository

import (
	"context"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/db"

	"github.com/rs/zerolog"
)

type StatsRepository struct {
	base
}

func NewStatsRepository(manager *database.Manager, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{base{manager: manager, logger: logger}}
}

type HeadToHeadFilter struct {
	PlayerAID int64
	PlayerBID int64
	MapID     int64
	Modality  string
}

// HeadToHead returns every game between the two players on the map, in
// either seat order, newest first. An empty modality matches all series.
func (r *StatsRepository) HeadToHead(ctx context.Context, f HeadToHeadFilter) ([]GameDetail, error) {
	var details []GameDetail
	err := r.read(ctx, "head to head", func(q *db.Queries) error {
		rows, err := q.ListHeadToHeadGames(ctx, db.ListHeadToHeadGamesParams{
			PlayerAID: f.PlayerAID,
			PlayerBID: f.PlayerBID,
			MapID:     f.MapID,
			Modality:  f.Modality,
		})
		if err != nil {
			return translate("head to head", constraint{entity: "game"}, err)
		}
		details = make([]GameDetail, len(rows))
		for i, row := range rows {
			details[i] = gameDetailFromDB(db.ListGameDetailsBySeriesRow(row))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Int64("player_a_id", f.PlayerAID).
		Int64("player_b_id", f.PlayerBID).
		Int64("map_id", f.MapID).
		Int("games", len(details)).
		Msg("head to head games loaded")
	return details, nil
}
