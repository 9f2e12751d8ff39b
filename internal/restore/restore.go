package restore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/domain"
	"starcraft-tracker/internal/fileutil"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

type Policy struct {
	MaxAttempts int
	RetryDelay  time.Duration
	SettleDelay time.Duration
}

func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		MaxAttempts: cfg.RestoreMaxAttempts,
		RetryDelay:  cfg.RestoreRetryDelay,
		SettleDelay: cfg.RestoreSettleDelay,
	}
}

type Report struct {
	Pending bool
	Applied bool
	Stale   bool
	// Rejected is set when the staged file is not a usable database. The
	// marker and the staged file are discarded.
	Rejected bool
}

type Event struct {
	Path      string
	AppliedAt time.Time
}

// CopyFunc replaces dst with the content of src.
type CopyFunc func(src, dst string) error

type Coordinator struct {
	cfg     *config.Config
	manager *database.Manager
	policy  Policy
	copyFn  CopyFunc
	logger  zerolog.Logger

	mu          sync.Mutex
	subscribers []func(Event)
}

func NewCoordinator(cfg *config.Config, manager *database.Manager, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		cfg:     cfg,
		manager: manager,
		policy:  PolicyFromConfig(cfg),
		copyFn:  fileutil.CopyFileAtomic,
		logger:  logger,
	}
}

func (c *Coordinator) WithPolicy(p Policy) *Coordinator {
	c.policy = p
	return c
}

func (c *Coordinator) WithCopyFunc(fn CopyFunc) *Coordinator {
	c.copyFn = fn
	return c
}

// Subscribe registers fn to run after every successful swap.
func (c *Coordinator) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Stage copies src next to the live database and records it in the marker
// file. It returns the staged path.
func (c *Coordinator) Stage(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ok, err := fileutil.Exists(src)
	if err != nil {
		return "", &domain.StorageError{Op: "stage restore", Err: err}
	}
	if !ok {
		return "", &domain.SourceNotFoundError{Path: src}
	}

	staged, err := filepath.Abs(filepath.Join(c.cfg.DataDir, constants.StagedFilePrefix+uuid.NewString()+".db"))
	if err != nil {
		return "", &domain.StorageError{Op: "stage restore", Err: err}
	}
	if err := fileutil.CopyFileAtomic(src, staged); err != nil {
		return "", &domain.StorageError{Op: "stage restore", Err: err}
	}
	if err := database.Verify(ctx, staged); err != nil {
		os.Remove(staged)
		c.logger.Warn().Err(err).Str("source", src).Msg("restore source rejected")
		return "", err
	}
	if err := writeMarker(c.cfg.MarkerPath(), staged); err != nil {
		os.Remove(staged)
		return "", &domain.StorageError{Op: "write restore marker", Err: err}
	}

	c.logger.Info().Str("source", src).Str("staged", staged).Msg("restore staged")
	return staged, nil
}

// Restore stages src and swaps it in immediately.
func (c *Coordinator) Restore(ctx context.Context, src string) (Report, error) {
	if _, err := c.Stage(ctx, src); err != nil {
		return Report{}, err
	}
	return c.Apply(ctx)
}

// Apply performs the pending swap under exclusive database access. When the
// copy keeps failing the marker stays in place and ErrRestoreDeferred is
// returned, so the next startup retries. A staged file that is not a usable
// database is discarded with its marker, and the live database is kept.
func (c *Coordinator) Apply(ctx context.Context) (Report, error) {
	staged, err := readMarker(c.cfg.MarkerPath())
	if errors.Is(err, os.ErrNotExist) {
		return Report{}, nil
	}
	if err != nil {
		return Report{}, &domain.StorageError{Op: "read restore marker", Err: err}
	}

	report := Report{Pending: true}
	if stale, err := dropIfStale(c.cfg.MarkerPath(), staged, c.logger); err != nil {
		return report, err
	} else if stale {
		report.Stale = true
		return report, nil
	}

	if err := database.Verify(ctx, staged); err != nil {
		c.reject(staged, err)
		report.Rejected = true
		return report, err
	}

	err = c.manager.Replace(ctx, func(path string) error {
		return swap(ctx, staged, path, c.policy, c.copyFn, c.logger)
	})
	if errors.Is(err, domain.ErrFormat) {
		c.reject(staged, err)
		report.Rejected = true
		return report, err
	}
	if err != nil {
		return report, err
	}

	finish(c.cfg.MarkerPath(), staged, c.logger)
	report.Applied = true
	c.notify(Event{Path: c.manager.Path(), AppliedAt: time.Now()})
	return report, nil
}

func (c *Coordinator) reject(staged string, err error) {
	c.logger.Error().Err(err).Str("staged", staged).Msg("staged database rejected, live database kept")
	finish(c.cfg.MarkerPath(), staged, c.logger)
}

func (c *Coordinator) notify(ev Event) {
	c.mu.Lock()
	subs := make([]func(Event), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// ResumePending completes a restore left over from a previous run. It must
// run before anything opens the database. Failures are logged and reported,
// never returned, so startup always proceeds.
func ResumePending(ctx context.Context, cfg *config.Config, policy Policy, logger zerolog.Logger) Report {
	return resumePending(ctx, cfg, policy, fileutil.CopyFileAtomic, logger)
}

func resumePending(ctx context.Context, cfg *config.Config, policy Policy, copyFn CopyFunc, logger zerolog.Logger) Report {
	staged, err := readMarker(cfg.MarkerPath())
	if errors.Is(err, os.ErrNotExist) {
		return Report{}
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to read restore marker")
		return Report{Pending: true}
	}

	report := Report{Pending: true}
	logger.Info().Str("staged", staged).Msg("pending restore found at startup")

	stale, err := dropIfStale(cfg.MarkerPath(), staged, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to discard stale restore marker")
		return report
	}
	if stale {
		report.Stale = true
		return report
	}

	if err := database.Verify(ctx, staged); err != nil {
		logger.Error().Err(err).Str("staged", staged).Msg("staged database rejected, live database kept")
		finish(cfg.MarkerPath(), staged, logger)
		report.Rejected = true
		return report
	}

	if err := swap(ctx, staged, cfg.DBPath(), policy, copyFn, logger); err != nil {
		logger.Error().Err(err).Msg("pending restore could not be applied, will retry on next start")
		return report
	}

	finish(cfg.MarkerPath(), staged, logger)
	report.Applied = true
	return report
}

// swap waits for file handles to settle, clears stale journal files and
// copies staged over live with bounded retries.
func swap(ctx context.Context, staged, live string, p Policy, copyFn CopyFunc, logger zerolog.Logger) error {
	if p.SettleDelay > 0 {
		select {
		case <-time.After(p.SettleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for _, side := range []string{live + "-wal", live + "-shm"} {
		if err := fileutil.RemoveIfExists(side); err != nil {
			logger.Warn().Err(err).Str("path", side).Msg("failed to remove journal file")
		}
	}

	attempts := max(p.MaxAttempts, 1)
	delay := p.RetryDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(delay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := copyFn(staged, live); err != nil {
			logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Msg("database file copy failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w after %d attempts: %w", domain.ErrRestoreDeferred, attempt, err)
	}

	logger.Info().Str("path", live).Int("attempts", attempt).Msg("database file replaced")
	return nil
}

func dropIfStale(marker, staged string, logger zerolog.Logger) (bool, error) {
	ok, err := fileutil.Exists(staged)
	if err != nil {
		return false, &domain.StorageError{Op: "check staged file", Err: err}
	}
	if ok {
		return false, nil
	}
	if err := fileutil.RemoveIfExists(marker); err != nil {
		return true, &domain.StorageError{Op: "remove restore marker", Err: err}
	}
	logger.Warn().
		Err(domain.ErrStaleMarker).
		Str("staged", staged).
		Msg("staged file missing, restore marker discarded")
	return true, nil
}

func finish(marker, staged string, logger zerolog.Logger) {
	if err := fileutil.RemoveIfExists(staged); err != nil {
		logger.Warn().Err(err).Str("path", staged).Msg("failed to remove staged file")
	}
	if err := fileutil.RemoveIfExists(marker); err != nil {
		logger.Warn().Err(err).Str("path", marker).Msg("failed to remove restore marker")
	}
}

func writeMarker(marker, staged string) error {
	return os.WriteFile(marker, []byte(staged+"\n"), 0o644)
}

func readMarker(marker string) (string, error) {
	b, err := os.ReadFile(marker)
	if err != nil {
		return "", err
	}
	// An empty marker points nowhere and is discarded as stale.
	return strings.TrimSpace(string(b)), nil
}
