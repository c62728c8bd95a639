package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const backendPostgres = "postgres"

// FromPostgres classifies an error returned by the pgx driver.
// Already classified errors pass through unchanged; nil stays nil.
func FromPostgres(op string, err error, params ...any) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	e := &Error{Op: op, Backend: backendPostgres, Detail: preview(params), Err: err}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		e.Kind, e.Reason = classifySQLState(pgErr.Code)
		if pgErr.ConstraintName != "" {
			e.Detail = joinDetail("constraint="+pgErr.ConstraintName, e.Detail)
		}
		return e
	}

	var connectErr *pgconn.ConnectError
	switch {
	case errors.As(err, &connectErr), isConnectivity(err):
		e.Kind = KindConnection
	case isTxState(err):
		e.Kind = KindTransaction
	default:
		e.Kind = KindQuery
	}
	return e
}

// classifySQLState maps a Postgres SQLSTATE onto the taxonomy.
func classifySQLState(code string) (Kind, Reason) {
	switch code {
	case "23505":
		return KindValidation, ReasonUnique
	case "23503":
		return KindValidation, ReasonForeignKey
	case "23502":
		return KindValidation, ReasonNotNull
	case "23514":
		return KindValidation, ReasonCheck
	case "40001", "40P01", "25P02", "55P03":
		return KindTransaction, ReasonNone
	case "57P01", "57P02", "57P03", "53300":
		return KindConnection, ReasonNone
	case "57014":
		return KindQuery, ReasonNone
	}
	switch {
	case strings.HasPrefix(code, "23"):
		return KindValidation, ReasonNone
	case strings.HasPrefix(code, "08"):
		return KindConnection, ReasonNone
	case strings.HasPrefix(code, "40"):
		return KindTransaction, ReasonNone
	case strings.HasPrefix(code, "22"):
		return KindValidation, ReasonNone
	}
	return KindQuery, ReasonNone
}

func joinDetail(a, b string) string {
	if b == "" {
		return a
	}
	return a + " " + b
}
