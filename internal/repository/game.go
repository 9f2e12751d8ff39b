package repository

import (
	"context"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/db"
	"starcraft-tracker/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type GameRepository struct {
	base
}

func NewGameRepository(manager *database.Manager, logger zerolog.Logger) *GameRepository {
	return &GameRepository{base{manager: manager, logger: logger}}
}

// GameDetail is a game joined with its series, players and map.
type GameDetail struct {
	Game         domain.Game
	SeriesDate   time.Time
	Modality     string
	PlayerAID    int64
	PlayerBID    int64
	PlayerAAlias string
	PlayerBAlias string
	MapName      string
	WinnerAlias  string
}

func (r *GameRepository) Create(ctx context.Context, g domain.Game) (*domain.Game, error) {
	var created domain.Game
	err := r.read(ctx, "create game", func(q *db.Queries) error {
		id, err := q.CreateGame(ctx, db.CreateGameParams{
			SeriesID:  g.SeriesID,
			MapID:     g.MapID,
			RaceA:     raceToDB(g.RaceA),
			RaceB:     raceToDB(g.RaceB),
			WinnerID:  g.WinnerID,
			CreatedAt: utc(g.CreatedAt),
		})
		if err != nil {
			return translate("create game", constraint{entity: "game"}, err)
		}
		row, err := q.GetGame(ctx, id)
		if err != nil {
			return translate("create game", constraint{entity: "game", id: id}, err)
		}
		created = gameFromDB(row)
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Int64("series_id", g.SeriesID).Msg("failed to create game")
		return nil, err
	}

	r.logger.Info().Int64("game_id", created.ID).Int64("series_id", created.SeriesID).Msg("game created")
	return &created, nil
}

func (r *GameRepository) Update(ctx context.Context, g domain.Game) error {
	return r.read(ctx, "update game", func(q *db.Queries) error {
		n, err := q.UpdateGame(ctx, db.UpdateGameParams{
			SeriesID: g.SeriesID,
			MapID:    g.MapID,
			RaceA:    raceToDB(g.RaceA),
			RaceB:    raceToDB(g.RaceB),
			WinnerID: g.WinnerID,
			ID:       g.ID,
		})
		if err != nil {
			return translate("update game", constraint{entity: "game", id: g.ID}, err)
		}
		if n == 0 {
			return notFound("game", g.ID)
		}
		r.logger.Info().Int64("game_id", g.ID).Msg("game updated")
		return nil
	})
}

func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	return r.read(ctx, "delete game", func(q *db.Queries) error {
		n, err := q.DeleteGame(ctx, id)
		if err != nil {
			return translate("delete game", constraint{entity: "game", id: id}, err)
		}
		if n == 0 {
			return notFound("game", id)
		}
		r.logger.Info().Int64("game_id", id).Msg("game deleted")
		return nil
	})
}

func (r *GameRepository) Get(ctx context.Context, id int64) (*domain.Game, error) {
	var g domain.Game
	err := r.read(ctx, "get game", func(q *db.Queries) error {
		row, err := q.GetGame(ctx, id)
		if err != nil {
			return translate("get game", constraint{entity: "game", id: id}, err)
		}
		g = gameFromDB(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) List(ctx context.Context) ([]domain.Game, error) {
	var games []domain.Game
	err := r.read(ctx, "list games", func(q *db.Queries) error {
		rows, err := q.ListGames(ctx)
		if err != nil {
			return translate("list games", constraint{entity: "game"}, err)
		}
		games = make([]domain.Game, len(rows))
		for i, row := range rows {
			games[i] = gameFromDB(row)
		}
		return nil
	})
	return games, err
}

// ListDetailsBySeries returns the games of one series, newest first.
func (r *GameRepository) ListDetailsBySeries(ctx context.Context, seriesID int64) ([]GameDetail, error) {
	var details []GameDetail
	err := r.read(ctx, "list series games", func(q *db.Queries) error {
		rows, err := q.ListGameDetailsBySeries(ctx, seriesID)
		if err != nil {
			return translate("list series games", constraint{entity: "game"}, err)
		}
		details = make([]GameDetail, len(rows))
		for i, row := range rows {
			details[i] = gameDetailFromDB(row)
		}
		return nil
	})
	return details, err
}

func (r *GameRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.read(ctx, "count games", func(q *db.Queries) error {
		var err error
		n, err = q.CountGames(ctx)
		return translate("count games", constraint{entity: "game"}, err)
	})
	return n, err
}

func gameDetailFromDB(row db.ListGameDetailsBySeriesRow) GameDetail {
	return GameDetail{
		Game: domain.Game{
			ID:        row.ID,
			SeriesID:  row.SeriesID,
			MapID:     row.MapID,
			RaceA:     raceFromDB(row.RaceA),
			RaceB:     raceFromDB(row.RaceB),
			WinnerID:  row.WinnerID,
			CreatedAt: row.CreatedAt,
		},
		SeriesDate:   row.SeriesDate,
		Modality:     row.Modality,
		PlayerAID:    row.PlayerAID,
		PlayerBID:    row.PlayerBID,
		PlayerAAlias: row.PlayerAAlias,
		PlayerBAlias: row.PlayerBAlias,
		MapName:      row.MapName,
		WinnerAlias:  row.WinnerAlias,
	}
}
