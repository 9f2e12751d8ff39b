package service

import (
	"context"
	"fmt"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/repository"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const displayDate = "02/01/2006"

type SeriesInput struct {
	PlayerAID int64
	PlayerBID int64
	Date      time.Time
	Modality  string
}

type SeriesRow struct {
	ID           int64
	PlayerAID    int64
	PlayerBID    int64
	PlayerAAlias string
	PlayerBAlias string
	Date         time.Time
	Modality     string
	Display      string
}

func seriesRow(s repository.SeriesWithPlayers) SeriesRow {
	return SeriesRow{
		ID:           s.Series.ID,
		PlayerAID:    s.Series.PlayerAID,
		PlayerBID:    s.Series.PlayerBID,
		PlayerAAlias: s.PlayerAAlias,
		PlayerBAlias: s.PlayerBAlias,
		Date:         s.Series.Date,
		Modality:     s.Series.Modality,
		Display:      SeriesDisplay(s.Series.Modality, s.PlayerAAlias, s.PlayerBAlias, s.Series.Date),
	}
}

// SeriesDisplay renders "<modality> - <a> vs <b> (dd/mm/yyyy)".
func SeriesDisplay(modality, aliasA, aliasB string, date time.Time) string {
	return fmt.Sprintf("%s - %s vs %s (%s)", modality, aliasA, aliasB, date.Local().Format(displayDate))
}

type SeriesService struct {
	repo    *repository.SeriesRepository
	players *repository.PlayerRepository
	guard   *Guard
	logger  zerolog.Logger
}

func NewSeriesService(repo *repository.SeriesRepository, players *repository.PlayerRepository, logger zerolog.Logger) *SeriesService {
	return &SeriesService{repo: repo, players: players, guard: NewGuard(), logger: logger}
}

func (s *SeriesService) Create(ctx context.Context, in SeriesInput) (*domain.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var created *domain.Series
	err := s.guard.Do(func() error {
		series, err := s.validate(ctx, in)
		if err != nil {
			return err
		}
		created, err = s.repo.Create(ctx, *series)
		return err
	})
	return created, err
}

// Update rejects a new player pair that would leave existing games with a
// winner outside the series.
func (s *SeriesService) Update(ctx context.Context, id int64, in SeriesInput) (*domain.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var updated *domain.Series
	err := s.guard.Do(func() error {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return err
		}
		series, err := s.validate(ctx, in)
		if err != nil {
			return err
		}
		orphaned, err := s.repo.WinnersOutside(ctx, id, series.PlayerAID, series.PlayerBID)
		if err != nil {
			return err
		}
		if orphaned > 0 {
			return &domain.ValidationError{
				Field:  "players",
				Reason: fmt.Sprintf("%d games were won by a player outside the new pair", orphaned),
			}
		}
		series.ID = id
		if err := s.repo.Update(ctx, *series); err != nil {
			return err
		}
		updated = series
		return nil
	})
	return updated, err
}

// Delete removes the series with all its games and returns how many games
// were removed.
func (s *SeriesService) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Delete(ctx, id)
}

func (s *SeriesService) Get(ctx context.Context, id int64) (*domain.Series, error) {
	return s.repo.Get(ctx, id)
}

// List matches the query against modality, both aliases and the display
// date.
func (s *SeriesService) List(ctx context.Context, query string) ([]SeriesRow, error) {
	series, err := s.repo.ListWithPlayers(ctx)
	if err != nil {
		return nil, err
	}
	q := normalizeQuery(query)
	rows := make([]SeriesRow, 0, len(series))
	for _, item := range series {
		row := seriesRow(item)
		if q != "" &&
			!containsFold(row.Modality, q) &&
			!containsFold(row.PlayerAAlias, q) &&
			!containsFold(row.PlayerBAlias, q) &&
			!strings.Contains(row.Date.Local().Format(displayDate), q) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *SeriesService) Page(ctx context.Context, query string, page int) (Page[SeriesRow], error) {
	rows, err := s.List(ctx, query)
	if err != nil {
		return Page[SeriesRow]{}, err
	}
	return Paginate(rows, page, constants.SeriesPerPage), nil
}

// Modalities lists distinct modalities already in use, for suggestions.
func (s *SeriesService) Modalities(ctx context.Context) ([]string, error) {
	return s.repo.Modalities(ctx)
}

func (s *SeriesService) validate(ctx context.Context, in SeriesInput) (*domain.Series, error) {
	if in.PlayerAID == in.PlayerBID {
		return nil, &domain.ValidationError{Field: "players", Reason: "a series needs two different players"}
	}
	modality := strings.TrimSpace(in.Modality)
	if modality == "" {
		return nil, &domain.ValidationError{Field: "modality", Reason: "must not be empty"}
	}
	for _, id := range []int64{in.PlayerAID, in.PlayerBID} {
		if _, err := s.players.Get(ctx, id); err != nil {
			return nil, err
		}
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	return &domain.Series{
		PlayerAID: in.PlayerAID,
		PlayerBID: in.PlayerBID,
		Date:      date,
		Modality:  modality,
	}, nil
}
