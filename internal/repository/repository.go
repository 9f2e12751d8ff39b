package repository

import (
	"context"
	"database/sql"
	"fmt"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/db"
	"starcraft-tracker/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type base struct {
	manager *database.Manager
	logger  zerolog.Logger
}

func (b base) read(ctx context.Context, op string, fn func(q *db.Queries) error) error {
	sess, err := b.manager.Session(ctx)
	if err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	defer sess.Close()
	return fn(sess.Queries)
}

// tx runs fn inside a single transaction on a shared session.
func (b base) tx(ctx context.Context, op string, fn func(q *db.Queries) error) error {
	return b.begin(ctx, op, nil, fn)
}

// snapshot runs fn inside one read-only transaction, so every query in fn
// sees the same state of the database.
func (b base) snapshot(ctx context.Context, op string, fn func(q *db.Queries) error) error {
	return b.begin(ctx, op, &sql.TxOptions{ReadOnly: true}, fn)
}

func (b base) begin(ctx context.Context, op string, opts *sql.TxOptions, fn func(q *db.Queries) error) error {
	sess, err := b.manager.Session(ctx)
	if err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	defer sess.Close()

	tx, err := sess.DB.BeginTx(ctx, opts)
	if err != nil {
		return &domain.StorageError{Op: op, Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer tx.Rollback()

	if err := fn(sess.Queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: op, Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}
	return nil
}

func raceFromDB(s *string) *domain.Race {
	if s == nil {
		return nil
	}
	r := domain.Race(*s)
	return &r
}

func raceToDB(r *domain.Race) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

func playerFromDB(p db.Player) domain.Player {
	return domain.Player{
		ID:           p.ID,
		Alias:        p.Alias,
		Country:      p.Country,
		PrimaryRace:  raceFromDB(p.PrimaryRace),
		RegisteredAt: p.RegisteredAt,
	}
}

func mapFromDB(m db.Map) domain.Map {
	return domain.Map{ID: m.ID, Name: m.Name}
}

func seriesFromDB(s db.Series) domain.Series {
	return domain.Series{
		ID:        s.ID,
		PlayerAID: s.PlayerAID,
		PlayerBID: s.PlayerBID,
		Date:      s.Date,
		Modality:  s.Modality,
	}
}

func gameFromDB(g db.Game) domain.Game {
	return domain.Game{
		ID:        g.ID,
		SeriesID:  g.SeriesID,
		MapID:     g.MapID,
		RaceA:     raceFromDB(g.RaceA),
		RaceB:     raceFromDB(g.RaceB),
		WinnerID:  g.WinnerID,
		CreatedAt: g.CreatedAt,
	}
}

// utc normalizes timestamps before they are written so stored values sort
// lexically in chronological order.
func utc(t time.Time) time.Time {
	return t.UTC()
}
