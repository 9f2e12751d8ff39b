package repository

import (
	"context"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/db"
	"starcraft-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type SeriesRepository struct {
	base
}

func NewSeriesRepository(manager *database.Manager, logger zerolog.Logger) *SeriesRepository {
	return &SeriesRepository{base{manager: manager, logger: logger}}
}

// enriched
type SeriesWithPlayers struct {
	Series       domain.Series
	PlayerAAlias string
	PlayerBAlias string
}

func (r *SeriesRepository) Create(ctx context.Context, s domain.Series) (*domain.Series, error) {
	var created domain.Series
	err := r.read(ctx, "create series", func(q *db.Queries) error {
		id, err := q.CreateSeries(ctx, db.CreateSeriesParams{
			PlayerAID: s.PlayerAID,
			PlayerBID: s.PlayerBID,
			Date:      utc(s.Date),
			Modality:  s.Modality,
		})
		if err != nil {
			return translate("create series", constraint{entity: "series"}, err)
		}
		row, err := q.GetSeries(ctx, id)
		if err != nil {
			return translate("create series", constraint{entity: "series", id: id}, err)
		}
		created = seriesFromDB(row)
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Int64("player_a_id", s.PlayerAID).Int64("player_b_id", s.PlayerBID).Msg("failed to create series")
		return nil, err
	}

	r.logger.Info().Int64("series_id", created.ID).Str("modality", created.Modality).Msg("series created")
	return &created, nil
}

func (r *SeriesRepository) Update(ctx context.Context, s domain.Series) error {
	return r.read(ctx, "update series", func(q *db.Queries) error {
		n, err := q.UpdateSeries(ctx, db.UpdateSeriesParams{
			PlayerAID: s.PlayerAID,
			PlayerBID: s.PlayerBID,
			Date:      utc(s.Date),
			Modality:  s.Modality,
			ID:        s.ID,
		})
		if err != nil {
			return translate("update series", constraint{entity: "series", id: s.ID}, err)
		}
		if n == 0 {
			return notFound("series", s.ID)
		}
		r.logger.Info().Int64("series_id", s.ID).Msg("series updated")
		return nil
	})
}

// Delete removes the series and, through the cascade, its games. It returns
// how many games went with it.
func (r *SeriesRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var games int64
	err := r.tx(ctx, "delete series", func(q *db.Queries) error {
		var err error
		games, err = q.CountGamesForSeries(ctx, id)
		if err != nil {
			return translate("delete series", constraint{entity: "series", id: id}, err)
		}
		n, err := q.DeleteSeries(ctx, id)
		if err != nil {
			return translate("delete series", constraint{entity: "series", id: id}, err)
		}
		if n == 0 {
			return notFound("series", id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info().Int64("series_id", id).Int64("games_removed", games).Msg("series deleted")
	return games, nil
}

func (r *SeriesRepository) Get(ctx context.Context, id int64) (*domain.Series, error) {
	var s domain.Series
	err := r.read(ctx, "get series", func(q *db.Queries) error {
		row, err := q.GetSeries(ctx, id)
		if err != nil {
			return translate("get series", constraint{entity: "series", id: id}, err)
		}
		s = seriesFromDB(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SeriesRepository) List(ctx context.Context) ([]domain.Series, error) {
	var series []domain.Series
	err := r.read(ctx, "list series", func(q *db.Queries) error {
		rows, err := q.ListSeries(ctx)
		if err != nil {
			return translate("list series", constraint{entity: "series"}, err)
		}
		series = make([]domain.Series, len(rows))
		for i, row := range rows {
			series[i] = seriesFromDB(row)
		}
		return nil
	})
	return series, err
}

// ListWithPlayers is ordered by date, newest first.
func (r *SeriesRepository) ListWithPlayers(ctx context.Context) ([]SeriesWithPlayers, error) {
	var results []SeriesWithPlayers
	err := r.read(ctx, "list series", func(q *db.Queries) error {
		rows, err := q.ListSeriesWithPlayers(ctx)
		if err != nil {
			return translate("list series", constraint{entity: "series"}, err)
		}
		results = make([]SeriesWithPlayers, len(rows))
		for i, row := range rows {
			results[i] = SeriesWithPlayers{
				Series: domain.Series{
					ID:        row.ID,
					PlayerAID: row.PlayerAID,
					PlayerBID: row.PlayerBID,
					Date:      row.Date,
					Modality:  row.Modality,
				},
				PlayerAAlias: row.PlayerAAlias,
				PlayerBAlias: row.PlayerBAlias,
			}
		}
		return nil
	})
	return results, err
}

func (r *SeriesRepository) Modalities(ctx context.Context) ([]string, error) {
	var modalities []string
	err := r.read(ctx, "list modalities", func(q *db.Queries) error {
		var err error
		modalities, err = q.ListModalities(ctx)
		return translate("list modalities", constraint{entity: "series"}, err)
	})
	return modalities, err
}

// WinnersOutside counts games of the series won by someone other than a or b.
func (r *SeriesRepository) WinnersOutside(ctx context.Context, id, a, b int64) (int64, error) {
	var n int64
	err := r.read(ctx, "check series winners", func(q *db.Queries) error {
		var err error
		n, err = q.CountGamesWithWinnerOutside(ctx, db.CountGamesWithWinnerOutsideParams{
			SeriesID:  id,
			PlayerAID: a,
			PlayerBID: b,
		})
		return translate("check series winners", constraint{entity: "series", id: id}, err)
	})
	return n, err
}

func (r *SeriesRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.read(ctx, "count series", func(q *db.Queries) error {
		var err error
		n, err = q.CountSeries(ctx)
		return translate("count series", constraint{entity: "series"}, err)
	})
	return n, err
}
