package service

import (
	"context"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/repository"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type PlayerInput struct {
	Alias       string
	Country     string
	PrimaryRace string
}

type PlayerService struct {
	repo   *repository.PlayerRepository
	guard  *Guard
	logger zerolog.Logger
}

func NewPlayerService(repo *repository.PlayerRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{repo: repo, guard: NewGuard(), logger: logger}
}

func (s *PlayerService) Create(ctx context.Context, in PlayerInput) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var created *domain.Player
	err := s.guard.Do(func() error {
		p, err := s.validate(ctx, 0, in)
		if err != nil {
			return err
		}
		p.RegisteredAt = time.Now()
		created, err = s.repo.Create(ctx, *p)
		return err
	})
	return created, err
}

func (s *PlayerService) Update(ctx context.Context, id int64, in PlayerInput) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var updated *domain.Player
	err := s.guard.Do(func() error {
		existing, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		p, err := s.validate(ctx, id, in)
		if err != nil {
			return err
		}
		p.ID = id
		p.RegisteredAt = existing.RegisteredAt
		if err := s.repo.Update(ctx, *p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	return updated, err
}

// Delete refuses while any series still references the player.
func (s *PlayerService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	n, err := s.repo.SeriesCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Warn().Int64("player_id", id).Int64("series", n).Msg("player still has series, refusing delete")
		return &domain.ReferentialIntegrityError{Entity: "player", ID: id, Relation: "series"}
	}
	return s.repo.Delete(ctx, id)
}

func (s *PlayerService) Get(ctx context.Context, id int64) (*domain.Player, error) {
	return s.repo.Get(ctx, id)
}

// List filters by alias, ignoring case. An empty query returns everyone.
func (s *PlayerService) List(ctx context.Context, query string) ([]domain.Player, error) {
	players, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := normalizeQuery(query)
	if q == "" {
		return players, nil
	}
	filtered := make([]domain.Player, 0, len(players))
	for _, p := range players {
		if containsFold(p.Alias, q) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *PlayerService) Page(ctx context.Context, query string, page int) (Page[domain.Player], error) {
	players, err := s.List(ctx, query)
	if err != nil {
		return Page[domain.Player]{}, err
	}
	return Paginate(players, page, constants.PlayersPerPage), nil
}

func (s *PlayerService) validate(ctx context.Context, id int64, in PlayerInput) (*domain.Player, error) {
	alias := strings.TrimSpace(in.Alias)
	if alias == "" {
		return nil, &domain.ValidationError{Field: "alias", Reason: "must not be empty"}
	}
	primary, err := domain.ParseRace(in.PrimaryRace)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.AliasTaken(ctx, alias, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &domain.UniquenessError{Entity: "player", Field: "alias", Value: alias}
	}
	return &domain.Player{
		Alias:       alias,
		Country:     domain.StringPtr(in.Country),
		PrimaryRace: primary,
	}, nil
}
