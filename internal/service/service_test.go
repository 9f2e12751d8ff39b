package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	players *PlayerService
	maps    *MapService
	series  *SeriesService
	games   *GameService
	stats   *StatsService
	diag    *DiagnosticsService
}

func newServices(t *testing.T) *services {
	t.Helper()
	logger := zerolog.Nop()
	cfg := &config.Config{DataDir: t.TempDir(), DBFile: "test.db"}
	m, err := database.NewManager(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	players := repository.NewPlayerRepository(m, logger)
	maps := repository.NewMapRepository(m, logger)
	series := repository.NewSeriesRepository(m, logger)
	games := repository.NewGameRepository(m, logger)
	stats := repository.NewStatsRepository(m, logger)

	return &services{
		players: NewPlayerService(players, logger),
		maps:    NewMapService(maps, logger),
		series:  NewSeriesService(series, players, logger),
		games:   NewGameService(games, series, maps, logger),
		stats:   NewStatsService(stats, players, maps, logger),
		diag:    NewDiagnosticsService(m, cfg, players, maps, series, games, logger),
	}
}

func TestPlayerValidation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.players.Create(ctx, PlayerInput{Alias: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.players.Create(ctx, PlayerInput{Alias: "Flash", PrimaryRace: "Robot"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	p, err := s.players.Create(ctx, PlayerInput{Alias: "  Flash ", Country: "KR", PrimaryRace: "terran"})
	require.NoError(t, err)
	assert.Equal(t, "Flash", p.Alias)
	assert.Equal(t, domain.RaceTerran, *p.PrimaryRace)

	_, err = s.players.Create(ctx, PlayerInput{Alias: "FLASH"})
	var uerr *domain.UniquenessError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "FLASH", uerr.Value)

	updated, err := s.players.Update(ctx, p.ID, PlayerInput{Alias: "flash"})
	require.NoError(t, err)
	assert.Equal(t, "flash", updated.Alias)
	assert.Nil(t, updated.Country)
}

func TestPlayerListSearchAndPage(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	for _, alias := range []string{"Zero", "Jaedong", "Flash", "Jangbi", "Bisu"} {
		_, err := s.players.Create(ctx, PlayerInput{Alias: alias})
		require.NoError(t, err)
	}

	all, err := s.players.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "Bisu", all[0].Alias)
	assert.Equal(t, "Zero", all[4].Alias)

	ja, err := s.players.List(ctx, "JA")
	require.NoError(t, err)
	require.Len(t, ja, 2)
	assert.Equal(t, "Jaedong", ja[0].Alias)

	page, err := s.players.Page(ctx, "", 9)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Items, 5)
}

func TestDeleteRestrictions(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	a, err := s.players.Create(ctx, PlayerInput{Alias: "Flash"})
	require.NoError(t, err)
	b, err := s.players.Create(ctx, PlayerInput{Alias: "Jaedong"})
	require.NoError(t, err)
	m, err := s.maps.Create(ctx, "Fighting Spirit")
	require.NoError(t, err)
	series, err := s.series.Create(ctx, SeriesInput{PlayerAID: a.ID, PlayerBID: b.ID, Modality: "Bo3"})
	require.NoError(t, err)
	_, err = s.games.Create(ctx, GameInput{SeriesID: series.ID, MapID: m.ID, WinnerID: a.ID})
	require.NoError(t, err)

	err = s.players.Delete(ctx, a.ID)
	var rerr *domain.ReferentialIntegrityError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "series", rerr.Relation)

	err = s.maps.Delete(ctx, m.ID)
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "games", rerr.Relation)

	removed, err := s.series.Delete(ctx, series.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	require.NoError(t, s.maps.Delete(ctx, m.ID))
	require.NoError(t, s.players.Delete(ctx, a.ID))

	report, err := s.diag.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Players: 1}, report.Counts)
	assert.True(t, report.Database.Exists)
}

func TestMapNameRules(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.maps.Create(ctx, " ab ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.maps.Create(ctx, "Python")
	require.NoError(t, err)
	_, err = s.maps.Create(ctx, "python")
	assert.ErrorIs(t, err, domain.ErrUniqueness)
}

func TestSeriesRules(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	a, err := s.players.Create(ctx, PlayerInput{Alias: "Bisu"})
	require.NoError(t, err)
	b, err := s.players.Create(ctx, PlayerInput{Alias: "Stork"})
	require.NoError(t, err)
	c, err := s.players.Create(ctx, PlayerInput{Alias: "Kal"})
	require.NoError(t, err)
	m, err := s.maps.Create(ctx, "Match Point")
	require.NoError(t, err)

	_, err = s.series.Create(ctx, SeriesInput{PlayerAID: a.ID, PlayerBID: a.ID, Modality: "Bo1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.series.Create(ctx, SeriesInput{PlayerAID: a.ID, PlayerBID: b.ID, Modality: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.series.Create(ctx, SeriesInput{PlayerAID: a.ID, PlayerBID: 999, Modality: "Bo1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	date := time.Date(2024, 5, 17, 20, 0, 0, 0, time.Local)
	series, err := s.series.Create(ctx, SeriesInput{PlayerAID: a.ID, PlayerBID: b.ID, Date: date, Modality: "MSL Bo5"})
	require.NoError(t, err)

	_, err = s.games.Create(ctx, GameInput{SeriesID: series.ID, MapID: m.ID, WinnerID: c.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.games.Create(ctx, GameInput{SeriesID: series.ID, MapID: m.ID, WinnerID: b.ID, RaceA: "Protoss", RaceB: "Protoss"})
	require.NoError(t, err)

	_, err = s.series.Update(ctx, series.ID, SeriesInput{PlayerAID: a.ID, PlayerBID: c.ID, Date: date, Modality: "MSL Bo5"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	rows, err := s.series.List(ctx, "17/05/2024")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "MSL Bo5 - Bisu vs Stork (17/05/2024)", rows[0].Display)

	rows, err = s.series.List(ctx, "stork")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	modalities, err := s.series.Modalities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"MSL Bo5"}, modalities)

	games, err := s.games.ListBySeries(ctx, series.ID, "protoss")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Stork", games[0].WinnerAlias)

	games, err = s.games.ListBySeries(ctx, series.ID, "zerg")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestHeadToHeadSymmetryAndPercentages(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	a, err := s.players.Create(ctx, PlayerInput{Alias: "Flash"})
	require.NoError(t, err)
	b, err := s.players.Create(ctx, PlayerInput{Alias: "Jaedong"})
	require.NoError(t, err)
	m, err := s.maps.Create(ctx, "Fighting Spirit")
	require.NoError(t, err)
	other, err := s.maps.Create(ctx, "Circuit Breakers")
	require.NoError(t, err)

	empty, err := s.stats.HeadToHead(ctx, StatsQuery{PlayerAID: a.ID, PlayerBID: b.ID, MapID: m.ID})
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.PctA)
	assert.Zero(t, empty.PctB)

	s1, err := s.series.Create(ctx, SeriesInput{PlayerAID: a.ID, PlayerBID: b.ID, Modality: "OSL"})
	require.NoError(t, err)
	s2, err := s.series.Create(ctx, SeriesInput{PlayerAID: b.ID, PlayerBID: a.ID, Modality: "MSL"})
	require.NoError(t, err)

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 10; i++ {
		seriesID := s1.ID
		if i%2 == 1 {
			seriesID = s2.ID
		}
		winner := a.ID
		if i >= 7 {
			winner = b.ID
		}
		_, err := s.games.Create(ctx, GameInput{SeriesID: seriesID, MapID: m.ID, WinnerID: winner, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	_, err = s.games.Create(ctx, GameInput{SeriesID: s1.ID, MapID: other.ID, WinnerID: b.ID})
	require.NoError(t, err)

	ab, err := s.stats.HeadToHead(ctx, StatsQuery{PlayerAID: a.ID, PlayerBID: b.ID, MapID: m.ID})
	require.NoError(t, err)
	assert.Equal(t, 10, ab.Total)
	assert.Equal(t, 7, ab.WinsA)
	assert.Equal(t, 3, ab.WinsB)
	assert.InDelta(t, 70.0, ab.PctA, 0.001)
	assert.InDelta(t, 30.0, ab.PctB, 0.001)

	ba, err := s.stats.HeadToHead(ctx, StatsQuery{PlayerAID: b.ID, PlayerBID: a.ID, MapID: m.ID})
	require.NoError(t, err)
	assert.Equal(t, ab.Total, ba.Total)
	assert.Equal(t, ab.WinsA, ba.WinsB)
	assert.Equal(t, ab.WinsB, ba.WinsA)

	osl, err := s.stats.HeadToHead(ctx, StatsQuery{PlayerAID: a.ID, PlayerBID: b.ID, MapID: m.ID, Modality: "osl"})
	require.NoError(t, err)
	assert.Equal(t, 5, osl.Total)

	tomorrow := time.Now().Add(48 * time.Hour)
	future, err := s.stats.HeadToHead(ctx, StatsQuery{PlayerAID: a.ID, PlayerBID: b.ID, MapID: m.ID, From: &tomorrow})
	require.NoError(t, err)
	assert.Zero(t, future.Total)

	sameDay := base
	day, err := s.stats.HeadToHead(ctx, StatsQuery{PlayerAID: a.ID, PlayerBID: b.ID, MapID: m.ID, From: &sameDay, To: &sameDay})
	require.NoError(t, err)
	assert.Equal(t, 10-countAfterMidnight(base), day.Total)

	_, err = s.stats.HeadToHead(ctx, StatsQuery{PlayerAID: a.ID, PlayerBID: a.ID, MapID: m.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// countAfterMidnight counts how many of the ten per-minute games starting at
// base fall on the following calendar day.
func countAfterMidnight(base time.Time) int {
	n := 0
	for i := 0; i < 10; i++ {
		if calendarDay(base.Add(time.Duration(i) * time.Minute)).After(calendarDay(base)) {
			n++
		}
	}
	return n
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	p := Paginate(items, 2, 5)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p = Paginate(items, 99, 5)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, []int{11}, p.Items)
	assert.False(t, p.HasNext())

	p = Paginate([]int{}, 0, 5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Items)
}

func TestGuardRejectsConcurrentSave(t *testing.T) {
	g := NewGuard()
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = g.Do(func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	err := g.Do(func() error { return nil })
	assert.True(t, errors.Is(err, domain.ErrBusy))

	close(release)
	wg.Wait()
	assert.NoError(t, g.Do(func() error { return nil }))
}

func TestFutureReturnsValueAndError(t *testing.T) {
	f := Go(context.Background(), func(ctx context.Context) (int, error) { return 42, nil })
	v, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	boom := errors.New("boom")
	f = Go(context.Background(), func(ctx context.Context) (int, error) { return 0, boom })
	_, err = f.Wait()
	assert.ErrorIs(t, err, boom)
}
