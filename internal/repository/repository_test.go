package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	players *PlayerRepository
	maps    *MapRepository
	series  *SeriesRepository
	games   *GameRepository
	stats   *StatsRepository
	backup  *BackupRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	cfg := &config.Config{DataDir: t.TempDir(), DBFile: "test.db"}
	m, err := database.NewManager(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	return &fixture{
		players: NewPlayerRepository(m, logger),
		maps:    NewMapRepository(m, logger),
		series:  NewSeriesRepository(m, logger),
		games:   NewGameRepository(m, logger),
		stats:   NewStatsRepository(m, logger),
		backup:  NewBackupRepository(m, logger),
	}
}

func race(r domain.Race) *domain.Race { return &r }

func TestPlayerAliasUniqueIgnoresCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.Create(ctx, domain.Player{Alias: "Flash", RegisteredAt: time.Now()})
	require.NoError(t, err)

	_, err = f.players.Create(ctx, domain.Player{Alias: "flash", RegisteredAt: time.Now()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUniqueness))

	var uerr *domain.UniquenessError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "alias", uerr.Field)

	taken, err := f.players.AliasTaken(ctx, "FLASH", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestUniquenessFoldsNonASCIICase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.Create(ctx, domain.Player{Alias: "Éclair", RegisteredAt: time.Now()})
	require.NoError(t, err)
	_, err = f.players.Create(ctx, domain.Player{Alias: "éclair", RegisteredAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrUniqueness)

	taken, err := f.players.AliasTaken(ctx, "ÉCLAIR", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	m, err := f.maps.Create(ctx, "Über Station")
	require.NoError(t, err)
	_, err = f.maps.Create(ctx, "über station")
	assert.ErrorIs(t, err, domain.ErrUniqueness)

	taken, err = f.maps.NameTaken(ctx, "ÜBER STATION", m.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	n, err := f.players.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPlayerRoundTripKeepsOptionalFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	p, err := f.players.Create(ctx, domain.Player{
		Alias:        "Jaedong",
		Country:      domain.StringPtr("KR"),
		PrimaryRace:  race(domain.RaceZerg),
		RegisteredAt: registered,
	})
	require.NoError(t, err)

	got, err := f.players.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jaedong", got.Alias)
	assert.Equal(t, "KR", domain.Deref(got.Country))
	assert.Equal(t, domain.RaceZerg, *got.PrimaryRace)
	assert.True(t, registered.Equal(got.RegisteredAt))

	_, err = f.players.Get(ctx, p.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePlayerReferencedBySeriesIsRestricted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.players.Create(ctx, domain.Player{Alias: "Bisu", RegisteredAt: time.Now()})
	require.NoError(t, err)
	b, err := f.players.Create(ctx, domain.Player{Alias: "Stork", RegisteredAt: time.Now()})
	require.NoError(t, err)
	_, err = f.series.Create(ctx, domain.Series{PlayerAID: a.ID, PlayerBID: b.ID, Date: time.Now(), Modality: "Bo3"})
	require.NoError(t, err)

	err = f.players.Delete(ctx, a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrReferentialIntegrity))

	n, err := f.players.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestSeriesRejectsSamePlayerTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.players.Create(ctx, domain.Player{Alias: "Rain", RegisteredAt: time.Now()})
	require.NoError(t, err)

	_, err = f.series.Create(ctx, domain.Series{PlayerAID: a.ID, PlayerBID: a.ID, Date: time.Now(), Modality: "Bo1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteSeriesCascadesGames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.players.Create(ctx, domain.Player{Alias: "Effort", RegisteredAt: time.Now()})
	require.NoError(t, err)
	b, err := f.players.Create(ctx, domain.Player{Alias: "Soulkey", RegisteredAt: time.Now()})
	require.NoError(t, err)
	m, err := f.maps.Create(ctx, "Fighting Spirit")
	require.NoError(t, err)
	s, err := f.series.Create(ctx, domain.Series{PlayerAID: a.ID, PlayerBID: b.ID, Date: time.Now(), Modality: "Bo5"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.games.Create(ctx, domain.Game{SeriesID: s.ID, MapID: m.ID, WinnerID: a.ID, CreatedAt: time.Now()})
		require.NoError(t, err)
	}

	err = f.maps.Delete(ctx, m.ID)
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)

	removed, err := f.series.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	n, err := f.games.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, f.maps.Delete(ctx, m.ID))
}

func TestGameDetailsBySeries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.players.Create(ctx, domain.Player{Alias: "Larva", RegisteredAt: time.Now()})
	require.NoError(t, err)
	b, err := f.players.Create(ctx, domain.Player{Alias: "Mini", RegisteredAt: time.Now()})
	require.NoError(t, err)
	m, err := f.maps.Create(ctx, "Circuit Breakers")
	require.NoError(t, err)
	s, err := f.series.Create(ctx, domain.Series{PlayerAID: a.ID, PlayerBID: b.ID, Date: time.Now(), Modality: "ASL Bo5"})
	require.NoError(t, err)

	first := time.Now().Add(-time.Hour)
	_, err = f.games.Create(ctx, domain.Game{SeriesID: s.ID, MapID: m.ID, RaceA: race(domain.RaceZerg), RaceB: race(domain.RaceProtoss), WinnerID: b.ID, CreatedAt: first})
	require.NoError(t, err)
	latest, err := f.games.Create(ctx, domain.Game{SeriesID: s.ID, MapID: m.ID, WinnerID: a.ID, CreatedAt: time.Now()})
	require.NoError(t, err)

	details, err := f.games.ListDetailsBySeries(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, latest.ID, details[0].Game.ID)
	assert.Equal(t, "Larva", details[0].WinnerAlias)
	assert.Equal(t, "Circuit Breakers", details[1].MapName)
	assert.Equal(t, "Mini", details[1].PlayerBAlias)
	assert.Equal(t, domain.RaceProtoss, *details[1].Game.RaceB)
}

func TestHeadToHeadMatchesBothSeatOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.players.Create(ctx, domain.Player{Alias: "Flash", RegisteredAt: time.Now()})
	require.NoError(t, err)
	b, err := f.players.Create(ctx, domain.Player{Alias: "Jaedong", RegisteredAt: time.Now()})
	require.NoError(t, err)
	m, err := f.maps.Create(ctx, "Python")
	require.NoError(t, err)

	s1, err := f.series.Create(ctx, domain.Series{PlayerAID: a.ID, PlayerBID: b.ID, Date: time.Now(), Modality: "OSL Final"})
	require.NoError(t, err)
	s2, err := f.series.Create(ctx, domain.Series{PlayerAID: b.ID, PlayerBID: a.ID, Date: time.Now(), Modality: "MSL"})
	require.NoError(t, err)
	_, err = f.games.Create(ctx, domain.Game{SeriesID: s1.ID, MapID: m.ID, WinnerID: a.ID, CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = f.games.Create(ctx, domain.Game{SeriesID: s2.ID, MapID: m.ID, WinnerID: b.ID, CreatedAt: time.Now()})
	require.NoError(t, err)

	all, err := f.stats.HeadToHead(ctx, HeadToHeadFilter{PlayerAID: a.ID, PlayerBID: b.ID, MapID: m.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	swapped, err := f.stats.HeadToHead(ctx, HeadToHeadFilter{PlayerAID: b.ID, PlayerBID: a.ID, MapID: m.ID})
	require.NoError(t, err)
	assert.Len(t, swapped, 2)

	osl, err := f.stats.HeadToHead(ctx, HeadToHeadFilter{PlayerAID: a.ID, PlayerBID: b.ID, MapID: m.ID, Modality: "osl"})
	require.NoError(t, err)
	require.Len(t, osl, 1)
	assert.Equal(t, s1.ID, osl[0].Game.SeriesID)
}

func TestReplaceAllKeepsIDsAndRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.Create(ctx, domain.Player{Alias: "Old", RegisteredAt: time.Now()})
	require.NoError(t, err)

	ds := &domain.Dataset{
		Players: []domain.Player{
			{ID: 10, Alias: "Flash", RegisteredAt: time.Now()},
			{ID: 20, Alias: "Bisu", RegisteredAt: time.Now()},
		},
		Maps:   []domain.Map{{ID: 7, Name: "Polypoid"}},
		Series: []domain.Series{{ID: 3, PlayerAID: 10, PlayerBID: 20, Date: time.Now(), Modality: "Bo3"}},
		Games:  []domain.Game{{ID: 99, SeriesID: 3, MapID: 7, WinnerID: 20, CreatedAt: time.Now()}},
	}
	require.NoError(t, f.backup.ReplaceAll(ctx, ds))

	snap, err := f.backup.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Players: 2, Maps: 1, Series: 1, Games: 1}, snap.Counts())
	assert.EqualValues(t, 99, snap.Games[0].ID)

	bad := &domain.Dataset{
		Players: []domain.Player{{ID: 1, Alias: "Solo", RegisteredAt: time.Now()}},
		Games:   []domain.Game{{ID: 1, SeriesID: 404, MapID: 404, WinnerID: 1, CreatedAt: time.Now()}},
	}
	require.Error(t, f.backup.ReplaceAll(ctx, bad))

	snap, err = f.backup.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Players: 2, Maps: 1, Series: 1, Games: 1}, snap.Counts())
}
