// Package dberr defines the storage error taxonomy shared by every backend.
//
// Adapters never return raw driver errors. Each backend has one classifier
// (FromPostgres, FromSQLite) that maps driver codes and messages onto a Kind,
// so code above the adapter layer only ever looks at Kind and Reason.
package dberr

import (
	"errors"
	"fmt"
)

// Kind is the category of a storage failure.
type Kind string

const (
	// KindConnection: backend unreachable or timed out. Retryable.
	KindConnection Kind = "connection"
	// KindQuery: malformed statement or unexpected backend failure.
	KindQuery Kind = "query"
	// KindValidation: constraint violation, the caller must change input.
	KindValidation Kind = "validation"
	// KindTransaction: serialization failure, deadlock, lock contention. Retryable.
	KindTransaction Kind = "transaction"
	// KindMigration: schema setup failure, fatal at startup.
	KindMigration Kind = "migration"
)

// Reason refines validation failures.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonUnique     Reason = "unique"
	ReasonForeignKey Reason = "foreign_key"
	ReasonNotNull    Reason = "not_null"
	ReasonCheck      Reason = "check"
)

// Error is a classified storage failure.
type Error struct {
	Kind    Kind
	Reason  Reason
	Op      string // operation name, e.g. "versions.create"
	Backend string // "postgres", "sqlite" or "" for store-level checks
	Detail  string // sanitized context, never raw parameter values
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Kind)
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Backend != "" {
		msg += " [" + e.Backend + "]"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validation builds a store-level validation error with a user-facing message.
// The cause, if any, stays reachable through errors.Unwrap.
func Validation(op, message string, cause error) *Error {
	e := &Error{Kind: KindValidation, Op: op, Detail: message, Err: cause}
	var inner *Error
	if errors.As(cause, &inner) {
		e.Reason = inner.Reason
		e.Backend = inner.Backend
	}
	return e
}

// Migration wraps a schema setup failure.
func Migration(backend string, err error) *Error {
	return &Error{Kind: KindMigration, Op: "createSchema", Backend: backend, Err: err}
}

// Connection wraps a connect failure.
func Connection(backend, op string, err error) *Error {
	return &Error{Kind: KindConnection, Op: op, Backend: backend, Err: err}
}

// KindOf returns the Kind of err, or "" when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRetryable reports whether retrying the same operation may succeed.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindConnection, KindTransaction:
		return true
	}
	return false
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation && e.Reason == ReasonUnique
}

// Message returns the Detail of a classified error or err.Error() otherwise.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return err.Error()
}
