// Package apperr classifies errors returned by the order core so transports
// can map them to a response without string matching.
package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind is the error category surfaced to callers.
type Kind int

const (
	Internal Kind = iota
	NotFound
	InvalidState
	Validation
	Forbidden
	Conflict
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidState:
		return "invalid_state"
	case Validation:
		return "validation"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	}
	return "internal"
}

// Error is a categorized error. Wrap it with fmt.Errorf to add the entity.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// New returns an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Postgres error codes treated as transient.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// KindOf resolves the Kind through the wrap chain. Storage contention and
// constraint errors are Conflict; a missing row is NotFound.
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
			return Conflict
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound
	}
	return Internal
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
