package restore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/fileutil"
	"starcraft-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPolicy = Policy{MaxAttempts: 5, RetryDelay: time.Millisecond, SettleDelay: time.Millisecond}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:            t.TempDir(),
		DBFile:             "tracker.db",
		RestoreMaxAttempts: fastPolicy.MaxAttempts,
		RestoreRetryDelay:  fastPolicy.RetryDelay,
		RestoreSettleDelay: fastPolicy.SettleDelay,
	}
}

// corruptDatabase writes a file with a valid SQLite header and a garbage body.
func corruptDatabase(t *testing.T) string {
	t.Helper()
	body := append([]byte("SQLite format 3\x00"), bytes.Repeat([]byte{0xAB}, 200)...)
	path := filepath.Join(t.TempDir(), "corrupt.db")
	require.NoError(t, os.WriteFile(path, body, 0o644))
	return path
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := fileutil.Exists(path)
	require.NoError(t, err)
	return ok
}

// sourceDatabase builds a closed database file holding the given aliases.
func sourceDatabase(t *testing.T, aliases ...string) string {
	t.Helper()
	cfg := testConfig(t)
	m, err := database.NewManager(cfg, zerolog.Nop())
	require.NoError(t, err)

	players := repository.NewPlayerRepository(m, zerolog.Nop())
	for _, alias := range aliases {
		_, err := players.Create(context.Background(), domain.Player{Alias: alias, RegisteredAt: time.Now()})
		require.NoError(t, err)
	}
	require.NoError(t, m.Close())
	return cfg.DBPath()
}

func TestResumePendingDiscardsStaleMarker(t *testing.T) {
	cfg := testConfig(t)
	missing := filepath.Join(cfg.DataDir, "staged_gone.db")
	require.NoError(t, writeMarker(cfg.MarkerPath(), missing))

	report := ResumePending(context.Background(), cfg, fastPolicy, zerolog.Nop())
	assert.True(t, report.Pending)
	assert.True(t, report.Stale)
	assert.False(t, report.Applied)

	ok, err := fileutil.Exists(cfg.MarkerPath())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResumePendingWithoutMarkerIsNoop(t *testing.T) {
	cfg := testConfig(t)
	report := ResumePending(context.Background(), cfg, fastPolicy, zerolog.Nop())
	assert.Equal(t, Report{}, report)
}

func TestResumePendingReplacesLiveFile(t *testing.T) {
	cfg := testConfig(t)
	src := sourceDatabase(t, "Flash", "Bisu")

	staged := filepath.Join(cfg.DataDir, "staged_test.db")
	require.NoError(t, fileutil.CopyFileAtomic(src, staged))
	require.NoError(t, writeMarker(cfg.MarkerPath(), staged))
	require.NoError(t, os.WriteFile(cfg.DBPath(), []byte("old live file"), 0o644))

	report := ResumePending(context.Background(), cfg, fastPolicy, zerolog.Nop())
	assert.True(t, report.Applied)

	want, err := os.ReadFile(src)
	require.NoError(t, err)
	got, err := os.ReadFile(cfg.DBPath())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, p := range []string{staged, cfg.MarkerPath()} {
		ok, err := fileutil.Exists(p)
		require.NoError(t, err)
		assert.False(t, ok, p)
	}
}

func TestSwapRetriesUntilCopySucceeds(t *testing.T) {
	cfg := testConfig(t)
	staged := filepath.Join(cfg.DataDir, "staged_retry.db")
	require.NoError(t, fileutil.CopyFileAtomic(sourceDatabase(t, "Flash"), staged))
	require.NoError(t, writeMarker(cfg.MarkerPath(), staged))

	calls := 0
	flaky := func(src, dst string) error {
		calls++
		if calls < 3 {
			return errors.New("file is locked")
		}
		return fileutil.CopyFileAtomic(src, dst)
	}

	report := resumePending(context.Background(), cfg, fastPolicy, flaky, zerolog.Nop())
	assert.True(t, report.Applied)
	assert.Equal(t, 3, calls)
}

func TestSwapKeepsMarkerWhenAttemptsExhausted(t *testing.T) {
	cfg := testConfig(t)
	staged := filepath.Join(cfg.DataDir, "staged_locked.db")
	require.NoError(t, fileutil.CopyFileAtomic(sourceDatabase(t, "Flash"), staged))
	require.NoError(t, writeMarker(cfg.MarkerPath(), staged))

	calls := 0
	locked := func(src, dst string) error {
		calls++
		return errors.New("file is locked")
	}

	report := resumePending(context.Background(), cfg, fastPolicy, locked, zerolog.Nop())
	assert.True(t, report.Pending)
	assert.False(t, report.Applied)
	assert.Equal(t, fastPolicy.MaxAttempts, calls)

	ok, err := fileutil.Exists(cfg.MarkerPath())
	require.NoError(t, err)
	assert.True(t, ok)

	err = swap(context.Background(), staged, cfg.DBPath(), fastPolicy, locked, zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrRestoreDeferred)
}

func TestCoordinatorRestoreSwapsLiveDatabase(t *testing.T) {
	cfg := testConfig(t)
	m, err := database.NewManager(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer m.Close()

	players := repository.NewPlayerRepository(m, zerolog.Nop())
	_, err = players.Create(context.Background(), domain.Player{Alias: "Before", RegisteredAt: time.Now()})
	require.NoError(t, err)

	src := sourceDatabase(t, "Jaedong", "Stork", "Effort")

	c := NewCoordinator(cfg, m, zerolog.Nop()).WithPolicy(fastPolicy)
	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })

	report, err := c.Restore(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, report.Applied)
	require.Len(t, events, 1)
	assert.Equal(t, cfg.DBPath(), events[0].Path)

	list, err := players.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Effort", list[0].Alias)

	ok, err := fileutil.Exists(cfg.MarkerPath())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStageRequiresSource(t *testing.T) {
	cfg := testConfig(t)
	m, err := database.NewManager(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer m.Close()

	c := NewCoordinator(cfg, m, zerolog.Nop())
	_, err = c.Stage(context.Background(), filepath.Join(cfg.DataDir, "nope.db"))
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)

	report, err := c.Apply(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Pending)
}

func TestResumePendingRejectsCorruptStagedFile(t *testing.T) {
	cfg := testConfig(t)
	live := sourceDatabase(t, "Flash")
	require.NoError(t, fileutil.CopyFileAtomic(live, cfg.DBPath()))
	before, err := os.ReadFile(cfg.DBPath())
	require.NoError(t, err)

	staged := filepath.Join(cfg.DataDir, "staged_corrupt.db")
	require.NoError(t, fileutil.CopyFileAtomic(corruptDatabase(t), staged))
	require.NoError(t, writeMarker(cfg.MarkerPath(), staged))

	report := ResumePending(context.Background(), cfg, fastPolicy, zerolog.Nop())
	assert.True(t, report.Pending)
	assert.True(t, report.Rejected)
	assert.False(t, report.Applied)
	assert.False(t, exists(t, cfg.MarkerPath()))
	assert.False(t, exists(t, staged))

	after, err := os.ReadFile(cfg.DBPath())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	m, err := database.NewManager(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer m.Close()
	list, err := repository.NewPlayerRepository(m, zerolog.Nop()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Flash", list[0].Alias)
}

func newLiveCoordinator(t *testing.T) (*Coordinator, *repository.PlayerRepository, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	m, err := database.NewManager(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	players := repository.NewPlayerRepository(m, zerolog.Nop())
	_, err = players.Create(context.Background(), domain.Player{Alias: "Before", RegisteredAt: time.Now()})
	require.NoError(t, err)
	return NewCoordinator(cfg, m, zerolog.Nop()).WithPolicy(fastPolicy), players, cfg
}

func assertOnlyBefore(t *testing.T, players *repository.PlayerRepository) {
	t.Helper()
	list, err := players.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Before", list[0].Alias)
}

func TestCoordinatorRestoreDeferredKeepsLiveDatabase(t *testing.T) {
	c, players, cfg := newLiveCoordinator(t)

	calls := 0
	c.WithCopyFunc(func(src, dst string) error {
		calls++
		return errors.New("file is locked")
	})
	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })

	report, err := c.Restore(context.Background(), sourceDatabase(t, "Jaedong", "Stork"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRestoreDeferred)
	assert.True(t, report.Pending)
	assert.False(t, report.Applied)
	assert.Equal(t, fastPolicy.MaxAttempts, calls)
	assert.Empty(t, events)

	assert.True(t, exists(t, cfg.MarkerPath()))
	assert.False(t, exists(t, cfg.DBPath()+".bak"))
	assertOnlyBefore(t, players)
}

func TestCoordinatorRestoreRejectsCorruptSource(t *testing.T) {
	c, players, cfg := newLiveCoordinator(t)

	_, err := c.Restore(context.Background(), corruptDatabase(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)

	assert.False(t, exists(t, cfg.MarkerPath()))
	assertOnlyBefore(t, players)
}

func TestCoordinatorApplyRejectsStagedFileCorruptedAfterStaging(t *testing.T) {
	c, players, cfg := newLiveCoordinator(t)

	staged, err := c.Stage(context.Background(), sourceDatabase(t, "Jaedong"))
	require.NoError(t, err)
	require.NoError(t, fileutil.CopyFileAtomic(corruptDatabase(t), staged))

	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })

	report, err := c.Apply(context.Background())
	assert.ErrorIs(t, err, domain.ErrFormat)
	assert.True(t, report.Rejected)
	assert.Empty(t, events)

	assert.False(t, exists(t, cfg.MarkerPath()))
	assert.False(t, exists(t, staged))
	assertOnlyBefore(t, players)
}
