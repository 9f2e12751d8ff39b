package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrUniqueness           = errors.New("uniqueness violation")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrValidation           = errors.New("validation failed")
	ErrFormat               = errors.New("invalid format")
	ErrSourceNotFound       = errors.New("source not found")
	ErrStorage              = errors.New("storage failure")
	ErrStaleMarker          = errors.New("stale restore marker")
	ErrBusy                 = errors.New("operation already in progress")
	ErrRestoreDeferred      = errors.New("restore deferred until restart")
)

type UniquenessError struct {
	Entity string
	Field  string
	Value  string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func (e *UniquenessError) Is(target error) bool { return target == ErrUniqueness }

// ReferentialIntegrityError names the relation that blocks a delete.
type ReferentialIntegrityError struct {
	Entity   string
	ID       int64
	Relation string
}

func (e *ReferentialIntegrityError) Error() string {
	if e.Relation == "" {
		return fmt.Sprintf("%s %d is still referenced", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s %d is still referenced by %s", e.Entity, e.ID, e.Relation)
}

func (e *ReferentialIntegrityError) Is(target error) bool { return target == ErrReferentialIntegrity }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid backup document: %s: %v", e.Reason, e.Err)
	}
	return "invalid backup document: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("database file not found: %s", e.Path)
}

func (e *SourceNotFoundError) Is(target error) bool { return target == ErrSourceNotFound }

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
