package service

import (
	"context"
	"fmt"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/repository"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

type MapService struct {
	repo   *repository.MapRepository
	guard  *Guard
	logger zerolog.Logger
}

func NewMapService(repo *repository.MapRepository, logger zerolog.Logger) *MapService {
	return &MapService{repo: repo, guard: NewGuard(), logger: logger}
}

func (s *MapService) Create(ctx context.Context, name string) (*domain.Map, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var created *domain.Map
	err := s.guard.Do(func() error {
		clean, err := s.validate(ctx, 0, name)
		if err != nil {
			return err
		}
		created, err = s.repo.Create(ctx, clean)
		return err
	})
	return created, err
}

func (s *MapService) Update(ctx context.Context, id int64, name string) (*domain.Map, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var updated *domain.Map
	err := s.guard.Do(func() error {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return err
		}
		clean, err := s.validate(ctx, id, name)
		if err != nil {
			return err
		}
		m := domain.Map{ID: id, Name: clean}
		if err := s.repo.Update(ctx, m); err != nil {
			return err
		}
		updated = &m
		return nil
	})
	return updated, err
}

// Delete refuses while any game was played on the map.
func (s *MapService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	n, err := s.repo.GamesCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Warn().Int64("map_id", id).Int64("games", n).Msg("map still has games, refusing delete")
		return &domain.ReferentialIntegrityError{Entity: "map", ID: id, Relation: "games"}
	}
	return s.repo.Delete(ctx, id)
}

func (s *MapService) Get(ctx context.Context, id int64) (*domain.Map, error) {
	return s.repo.Get(ctx, id)
}

func (s *MapService) List(ctx context.Context, query string) ([]domain.Map, error) {
	maps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := normalizeQuery(query)
	if q == "" {
		return maps, nil
	}
	filtered := make([]domain.Map, 0, len(maps))
	for _, m := range maps {
		if containsFold(m.Name, q) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func (s *MapService) Page(ctx context.Context, query string, page int) (Page[domain.Map], error) {
	maps, err := s.List(ctx, query)
	if err != nil {
		return Page[domain.Map]{}, err
	}
	return Paginate(maps, page, constants.MapsPerPage), nil
}

func (s *MapService) validate(ctx context.Context, id int64, name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < constants.MinMapNameLength {
		return "", &domain.ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("must be at least %d characters", constants.MinMapNameLength),
		}
	}
	taken, err := s.repo.NameTaken(ctx, name, id)
	if err != nil {
		return "", err
	}
	if taken {
		return "", &domain.UniquenessError{Entity: "map", Field: "name", Value: name}
	}
	return name, nil
}
