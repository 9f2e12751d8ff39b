package service

import (
	"context"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/repository"
	"time"

	"github.com/rs/zerolog"
)

type GameInput struct {
	SeriesID  int64
	MapID     int64
	RaceA     string
	RaceB     string
	WinnerID  int64
	CreatedAt time.Time
}

type GameRow struct {
	ID           int64
	SeriesID     int64
	MapID        int64
	MapName      string
	PlayerAAlias string
	PlayerBAlias string
	RaceA        string
	RaceB        string
	WinnerID     int64
	WinnerAlias  string
	Modality     string
	SeriesDate   time.Time
	CreatedAt    time.Time
}

func gameRow(d repository.GameDetail) GameRow {
	return GameRow{
		ID:           d.Game.ID,
		SeriesID:     d.Game.SeriesID,
		MapID:        d.Game.MapID,
		MapName:      d.MapName,
		PlayerAAlias: d.PlayerAAlias,
		PlayerBAlias: d.PlayerBAlias,
		RaceA:        domain.Deref(d.Game.RaceA),
		RaceB:        domain.Deref(d.Game.RaceB),
		WinnerID:     d.Game.WinnerID,
		WinnerAlias:  d.WinnerAlias,
		Modality:     d.Modality,
		SeriesDate:   d.SeriesDate,
		CreatedAt:    d.Game.CreatedAt,
	}
}

type GameService struct {
	repo   *repository.GameRepository
	series *repository.SeriesRepository
	maps   *repository.MapRepository
	guard  *Guard
	logger zerolog.Logger
}

func NewGameService(
	repo *repository.GameRepository,
	series *repository.SeriesRepository,
	maps *repository.MapRepository,
	logger zerolog.Logger,
) *GameService {
	return &GameService{repo: repo, series: series, maps: maps, guard: NewGuard(), logger: logger}
}

func (s *GameService) Create(ctx context.Context, in GameInput) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var created *domain.Game
	err := s.guard.Do(func() error {
		g, err := s.validate(ctx, in)
		if err != nil {
			return err
		}
		g.CreatedAt = in.CreatedAt
		if g.CreatedAt.IsZero() {
			g.CreatedAt = time.Now()
		}
		created, err = s.repo.Create(ctx, *g)
		return err
	})
	return created, err
}

func (s *GameService) Update(ctx context.Context, id int64, in GameInput) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var updated *domain.Game
	err := s.guard.Do(func() error {
		existing, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		g, err := s.validate(ctx, in)
		if err != nil {
			return err
		}
		g.ID = id
		g.CreatedAt = existing.CreatedAt
		if err := s.repo.Update(ctx, *g); err != nil {
			return err
		}
		updated = g
		return nil
	})
	return updated, err
}

func (s *GameService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Delete(ctx, id)
}

func (s *GameService) Get(ctx context.Context, id int64) (*domain.Game, error) {
	return s.repo.Get(ctx, id)
}

// ListBySeries matches the query against modality, map, races, winner and
// both series aliases.
func (s *GameService) ListBySeries(ctx context.Context, seriesID int64, query string) ([]GameRow, error) {
	details, err := s.repo.ListDetailsBySeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	q := normalizeQuery(query)
	rows := make([]GameRow, 0, len(details))
	for _, d := range details {
		row := gameRow(d)
		if q != "" && !row.matches(q) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *GameService) Page(ctx context.Context, seriesID int64, query string, page int) (Page[GameRow], error) {
	rows, err := s.ListBySeries(ctx, seriesID, query)
	if err != nil {
		return Page[GameRow]{}, err
	}
	return Paginate(rows, page, constants.GamesPerPage), nil
}

func (r GameRow) matches(q string) bool {
	for _, field := range []string{r.Modality, r.MapName, r.RaceA, r.RaceB, r.WinnerAlias, r.PlayerAAlias, r.PlayerBAlias} {
		if containsFold(field, q) {
			return true
		}
	}
	return false
}

func (s *GameService) validate(ctx context.Context, in GameInput) (*domain.Game, error) {
	series, err := s.series.Get(ctx, in.SeriesID)
	if err != nil {
		return nil, err
	}
	if _, err := s.maps.Get(ctx, in.MapID); err != nil {
		return nil, err
	}
	if !series.HasPlayer(in.WinnerID) {
		return nil, &domain.ValidationError{Field: "winner", Reason: "must be one of the series players"}
	}
	raceA, err := domain.ParseRace(in.RaceA)
	if err != nil {
		return nil, err
	}
	raceB, err := domain.ParseRace(in.RaceB)
	if err != nil {
		return nil, err
	}
	return &domain.Game{
		SeriesID: in.SeriesID,
		MapID:    in.MapID,
		RaceA:    raceA,
		RaceB:    raceB,
		WinnerID: in.WinnerID,
	}, nil
}
