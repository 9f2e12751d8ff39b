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

type StatsQuery struct {
	PlayerAID int64
	PlayerBID int64
	MapID     int64
	Modality  string
	// From and To compare on the local calendar date and are inclusive.
	From *time.Time
	To   *time.Time
}

type HeadToHeadRow struct {
	GameID      int64
	SeriesID    int64
	Series      string
	Modality    string
	RaceA       string
	RaceB       string
	WinnerID    int64
	WinnerAlias string
	CreatedAt   time.Time
}

func headToHeadRow(d repository.GameDetail) HeadToHeadRow {
	return HeadToHeadRow{
		GameID:      d.Game.ID,
		SeriesID:    d.Game.SeriesID,
		Series:      SeriesDisplay(d.Modality, d.PlayerAAlias, d.PlayerBAlias, d.SeriesDate),
		Modality:    d.Modality,
		RaceA:       domain.Deref(d.Game.RaceA),
		RaceB:       domain.Deref(d.Game.RaceB),
		WinnerID:    d.Game.WinnerID,
		WinnerAlias: d.WinnerAlias,
		CreatedAt:   d.Game.CreatedAt,
	}
}

type HeadToHead struct {
	PlayerA domain.Player
	PlayerB domain.Player
	Map     domain.Map
	Games   []HeadToHeadRow
	Total   int
	WinsA   int
	WinsB   int
	PctA    float64
	PctB    float64
}

type StatsService struct {
	repo    *repository.StatsRepository
	players *repository.PlayerRepository
	maps    *repository.MapRepository
	logger  zerolog.Logger
}

func NewStatsService(
	repo *repository.StatsRepository,
	players *repository.PlayerRepository,
	maps *repository.MapRepository,
	logger zerolog.Logger,
) *StatsService {
	return &StatsService{repo: repo, players: players, maps: maps, logger: logger}
}

// HeadToHead does not assume WinsA+WinsB == Total.
func (s *StatsService) HeadToHead(ctx context.Context, q StatsQuery) (*HeadToHead, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if q.PlayerAID == q.PlayerBID {
		return nil, &domain.ValidationError{Field: "players", Reason: "choose two different players"}
	}
	a, err := s.players.Get(ctx, q.PlayerAID)
	if err != nil {
		return nil, err
	}
	b, err := s.players.Get(ctx, q.PlayerBID)
	if err != nil {
		return nil, err
	}
	m, err := s.maps.Get(ctx, q.MapID)
	if err != nil {
		return nil, err
	}

	details, err := s.repo.HeadToHead(ctx, repository.HeadToHeadFilter{
		PlayerAID: q.PlayerAID,
		PlayerBID: q.PlayerBID,
		MapID:     q.MapID,
		Modality:  strings.TrimSpace(q.Modality),
	})
	if err != nil {
		return nil, err
	}

	result := &HeadToHead{PlayerA: *a, PlayerB: *b, Map: *m, Games: []HeadToHeadRow{}}
	for _, d := range details {
		if !withinDates(d.Game.CreatedAt, q.From, q.To) {
			continue
		}
		result.Games = append(result.Games, headToHeadRow(d))
		switch d.Game.WinnerID {
		case q.PlayerAID:
			result.WinsA++
		case q.PlayerBID:
			result.WinsB++
		}
	}
	result.Total = len(result.Games)
	result.PctA = domain.Percent(result.WinsA, result.Total)
	result.PctB = domain.Percent(result.WinsB, result.Total)

	s.logger.Debug().
		Int64("player_a_id", q.PlayerAID).
		Int64("player_b_id", q.PlayerBID).
		Int64("map_id", q.MapID).
		Int("total", result.Total).
		Int("wins_a", result.WinsA).
		Int("wins_b", result.WinsB).
		Msg("head to head computed")

	return result, nil
}

func withinDates(t time.Time, from, to *time.Time) bool {
	day := calendarDay(t)
	if from != nil && day.Before(calendarDay(*from)) {
		return false
	}
	if to != nil && day.After(calendarDay(*to)) {
		return false
	}
	return true
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
