package dberr

import (
	"errors"
	"strings"

	sqlite3 "modernc.org/sqlite/lib"
)

const backendSQLite = "sqlite"

type sqliteCoder interface {
	Code() int
}

// FromSQLite classifies an error returned by the modernc SQLite driver.
// Already classified errors pass through unchanged; nil stays nil.
func FromSQLite(op string, err error, params ...any) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	e := &Error{Op: op, Backend: backendSQLite, Detail: preview(params), Err: err}

	var coder sqliteCoder
	if errors.As(err, &coder) {
		e.Kind, e.Reason = classifySQLiteCode(coder.Code())
		if e.Kind == KindValidation && e.Reason == ReasonNone {
			e.Reason = reasonFromMessage(err.Error())
		}
		return e
	}

	switch {
	case isTxState(err):
		e.Kind = KindTransaction
	case isConnectivity(err):
		e.Kind = KindConnection
	default:
		e.Kind, e.Reason = classifySQLiteMessage(err.Error())
	}
	return e
}

// classifySQLiteCode looks at the extended result code first, then the
// primary code in its low byte.
func classifySQLiteCode(code int) (Kind, Reason) {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return KindValidation, ReasonUnique
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return KindValidation, ReasonForeignKey
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return KindValidation, ReasonNotNull
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return KindValidation, ReasonCheck
	}

	switch code & 0xff {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_MISMATCH, sqlite3.SQLITE_TOOBIG:
		return KindValidation, ReasonNone
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return KindTransaction, ReasonNone
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_IOERR,
		sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_FULL, sqlite3.SQLITE_READONLY,
		sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH:
		return KindConnection, ReasonNone
	}
	return KindQuery, ReasonNone
}

func classifySQLiteMessage(msg string) (Kind, Reason) {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "constraint failed"):
		return KindValidation, reasonFromMessage(msg)
	case strings.Contains(lower, "database is locked"), strings.Contains(lower, "database table is locked"):
		return KindTransaction, ReasonNone
	case strings.Contains(lower, "unable to open database"), strings.Contains(lower, "file is not a database"):
		return KindConnection, ReasonNone
	}
	return KindQuery, ReasonNone
}

func reasonFromMessage(msg string) Reason {
	upper := strings.ToUpper(msg)
	switch {
	case strings.Contains(upper, "UNIQUE CONSTRAINT FAILED"):
		return ReasonUnique
	case strings.Contains(upper, "FOREIGN KEY CONSTRAINT FAILED"):
		return ReasonForeignKey
	case strings.Contains(upper, "NOT NULL CONSTRAINT FAILED"):
		return ReasonNotNull
	case strings.Contains(upper, "CHECK CONSTRAINT FAILED"):
		return ReasonCheck
	}
	return ReasonNone
}
