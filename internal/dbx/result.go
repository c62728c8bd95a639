package dbx

import (
	"context"
	"strings"
)

// Result is the backend-neutral outcome of a raw statement.
type Result struct {
	Rows     []map[string]any
	RowCount int64
	Command  string
}

// Query runs an arbitrary statement. Statements that produce rows are read
// into Rows with one map per row keyed by column name; others report the
// number of affected rows.
func Query(ctx context.Context, db DBTX, query string, args ...any) (*Result, error) {
	cmd := Command(query)
	if !returnsRows(cmd, query) {
		res, err := db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			n = 0
		}
		return &Result{Rows: []map[string]any{}, RowCount: n, Command: cmd}, nil
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				cp := make([]byte, len(b))
				copy(cp, b)
				row[c] = cp
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Result{Rows: out, RowCount: int64(len(out)), Command: cmd}, nil
}

// Command returns the upper-cased leading keyword of a statement.
func Command(query string) string {
	q := strings.TrimSpace(query)
	for strings.HasPrefix(q, "--") {
		nl := strings.IndexByte(q, '\n')
		if nl < 0 {
			return ""
		}
		q = strings.TrimSpace(q[nl+1:])
	}
	end := strings.IndexFunc(q, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ';'
	})
	if end < 0 {
		end = len(q)
	}
	return strings.ToUpper(q[:end])
}

func returnsRows(cmd, query string) bool {
	switch cmd {
	case "SELECT", "WITH", "PRAGMA", "VALUES", "SHOW", "EXPLAIN":
		return true
	}
	return strings.Contains(strings.ToUpper(query), "RETURNING")
}
