package dberr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite3 "modernc.org/sqlite/lib"
)

type fakeSQLiteErr struct {
	code int
	msg  string
}

func (e *fakeSQLiteErr) Error() string { return e.msg }
func (e *fakeSQLiteErr) Code() int     { return e.code }

func TestFromPostgres_SQLState(t *testing.T) {
	tests := []struct {
		code   string
		kind   Kind
		reason Reason
	}{
		{"23505", KindValidation, ReasonUnique},
		{"23503", KindValidation, ReasonForeignKey},
		{"23502", KindValidation, ReasonNotNull},
		{"23514", KindValidation, ReasonCheck},
		{"23P01", KindValidation, ReasonNone},
		{"22P02", KindValidation, ReasonNone},
		{"40001", KindTransaction, ReasonNone},
		{"40P01", KindTransaction, ReasonNone},
		{"25P02", KindTransaction, ReasonNone},
		{"55P03", KindTransaction, ReasonNone},
		{"08006", KindConnection, ReasonNone},
		{"08001", KindConnection, ReasonNone},
		{"57P01", KindConnection, ReasonNone},
		{"57P02", KindConnection, ReasonNone},
		{"57P03", KindConnection, ReasonNone},
		{"53300", KindConnection, ReasonNone},
		{"42601", KindQuery, ReasonNone},
		{"42P01", KindQuery, ReasonNone},
		{"57014", KindQuery, ReasonNone},
		{"XX000", KindQuery, ReasonNone},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := FromPostgres("op", &pgconn.PgError{Code: tt.code, Message: "boom"})
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.reason, e.Reason)
			assert.Equal(t, "postgres", e.Backend)
		})
	}
}

func TestFromPostgres_NonPgErrors(t *testing.T) {
	assert.NoError(t, FromPostgres("op", nil))
	assert.Equal(t, KindConnection, KindOf(FromPostgres("op", driver.ErrBadConn)))
	assert.Equal(t, KindConnection, KindOf(FromPostgres("op", context.DeadlineExceeded)))
	assert.Equal(t, KindConnection, KindOf(FromPostgres("op", errors.New("dial tcp: connection refused"))))
	assert.Equal(t, KindTransaction, KindOf(FromPostgres("op", sql.ErrTxDone)))
	assert.Equal(t, KindQuery, KindOf(FromPostgres("op", errors.New("something odd"))))
}

func TestFromSQLite_Codes(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		kind   Kind
		reason Reason
	}{
		{"unique", sqlite3.SQLITE_CONSTRAINT_UNIQUE, KindValidation, ReasonUnique},
		{"primary key", sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, KindValidation, ReasonUnique},
		{"foreign key", sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, KindValidation, ReasonForeignKey},
		{"not null", sqlite3.SQLITE_CONSTRAINT_NOTNULL, KindValidation, ReasonNotNull},
		{"check", sqlite3.SQLITE_CONSTRAINT_CHECK, KindValidation, ReasonCheck},
		{"constraint", sqlite3.SQLITE_CONSTRAINT, KindValidation, ReasonNone},
		{"mismatch", sqlite3.SQLITE_MISMATCH, KindValidation, ReasonNone},
		{"busy", sqlite3.SQLITE_BUSY, KindTransaction, ReasonNone},
		{"busy snapshot", sqlite3.SQLITE_BUSY | (2 << 8), KindTransaction, ReasonNone},
		{"locked", sqlite3.SQLITE_LOCKED, KindTransaction, ReasonNone},
		{"cantopen", sqlite3.SQLITE_CANTOPEN, KindConnection, ReasonNone},
		{"notadb", sqlite3.SQLITE_NOTADB, KindConnection, ReasonNone},
		{"ioerr", sqlite3.SQLITE_IOERR, KindConnection, ReasonNone},
		{"readonly", sqlite3.SQLITE_READONLY, KindConnection, ReasonNone},
		{"generic", 1, KindQuery, ReasonNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromSQLite("op", &fakeSQLiteErr{code: tt.code, msg: "x"})
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.reason, e.Reason)
			assert.Equal(t, "sqlite", e.Backend)
		})
	}
}

func TestFromSQLite_MessageFallback(t *testing.T) {
	err := FromSQLite("op", &fakeSQLiteErr{code: sqlite3.SQLITE_CONSTRAINT, msg: "UNIQUE constraint failed: tags.name"})
	assert.True(t, IsUniqueViolation(err))

	assert.True(t, IsUniqueViolation(FromSQLite("op", errors.New("UNIQUE constraint failed: x.y"))))
	assert.Equal(t, KindTransaction, KindOf(FromSQLite("op", errors.New("database is locked"))))
	assert.Equal(t, KindConnection, KindOf(FromSQLite("op", errors.New("unable to open database file"))))
	assert.Equal(t, KindQuery, KindOf(FromSQLite("op", errors.New("no such table: nope"))))
	assert.NoError(t, FromSQLite("op", nil))
}

func TestClassifiedPassThrough(t *testing.T) {
	orig := New(KindMigration, "createSchema", errors.New("bad"))
	wrapped := fmt.Errorf("ctx: %w", orig)

	assert.Same(t, wrapped, FromPostgres("other", wrapped))
	assert.Same(t, wrapped, FromSQLite("other", wrapped))
	assert.Equal(t, KindMigration, KindOf(wrapped))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(KindConnection, "op", nil)))
	assert.True(t, IsRetryable(New(KindTransaction, "op", nil)))
	assert.False(t, IsRetryable(New(KindQuery, "op", nil)))
	assert.False(t, IsRetryable(New(KindValidation, "op", nil)))
	assert.False(t, IsRetryable(New(KindMigration, "op", nil)))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestValidation_KeepsCause(t *testing.T) {
	cause := FromPostgres("branches.create", &pgconn.PgError{Code: "23505"})
	err := Validation("createBranch", "Branch name already exists for this document", cause)

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, ReasonUnique, err.Reason)
	assert.Equal(t, "Branch name already exists for this document", Message(err))
	assert.ErrorIs(t, err, cause)
}

func TestDetail_IsSanitized(t *testing.T) {
	long := strings.Repeat("secret", 40)
	err := FromPostgres("documents.upsert", &pgconn.PgError{Code: "42601"},
		"id-1", long, []byte("blob"), nil, 5, "extra")

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.NotContains(t, e.Error(), long)
	assert.Contains(t, e.Detail, `"id-1"`)
	assert.Contains(t, e.Detail, "<4 bytes>")
	assert.Contains(t, e.Detail, "NULL")
	assert.Contains(t, e.Detail, "+2 more")
	assert.NotContains(t, e.Detail, "extra")
}

func TestError_Message(t *testing.T) {
	e := &Error{Kind: KindQuery, Op: "users.get", Backend: "sqlite", Err: errors.New("no such column")}
	assert.Equal(t, "users.get: query error [sqlite]: no such column", e.Error())
}
