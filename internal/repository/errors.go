package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"starcraft-tracker/internal/domain"

	"github.com/mattn/go-sqlite3"
)

// constraint describes the entity a statement touched, so driver
// constraint failures can be reported in domain terms.
type constraint struct {
	entity string
	field  string
	value  string
	id     int64
}

func translate(op string, c constraint, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", c.entity, c.id, domain.ErrNotFound)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &domain.UniquenessError{Entity: c.entity, Field: c.field, Value: c.value}
		case sqlite3.ErrConstraintForeignKey:
			return &domain.ReferentialIntegrityError{Entity: c.entity, ID: c.id}
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return &domain.ValidationError{Field: c.entity, Reason: sqliteErr.Error()}
		}
	}

	return &domain.StorageError{Op: op, Err: err}
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
}
