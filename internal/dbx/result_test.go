package dbx

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	tests := map[string]string{
		"select 1":                         "SELECT",
		"  SELECT * FROM t":                "SELECT",
		"-- note\nINSERT INTO t VALUES(1)": "INSERT",
		"with x as (select 1) select *":    "WITH",
		"pragma user_version;":             "PRAGMA",
		"":                                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Command(in), in)
	}
}

func TestQuery_SelectReturnsRowMaps(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB);
		INSERT INTO metadata VALUES ('kdf_salt', x'0102'), ('key_verifier', NULL)`)
	require.NoError(t, err)

	res, err := Query(ctx, db, `SELECT key, value FROM metadata ORDER BY key`)
	require.NoError(t, err)
	assert.Equal(t, "SELECT", res.Command)
	assert.EqualValues(t, 2, res.RowCount)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "kdf_salt", res.Rows[0]["key"])
	assert.Equal(t, []byte{1, 2}, res.Rows[0]["value"])
	assert.Nil(t, res.Rows[1]["value"])
}

func TestQuery_ExecReportsAffectedRows(t *testing.T) {
	db := openStore(t)

	res, err := Query(context.Background(), db, `INSERT INTO document_versions VALUES ('doc-1', ?, 'Draft', 0), ('doc-1', ?, 'Draft', 0)`, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "INSERT", res.Command)
	assert.EqualValues(t, 2, res.RowCount)
	assert.Empty(t, res.Rows)
}

func TestQuery_ReturningUsesQueryPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs("z").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	res, err := Query(context.Background(), db, `INSERT INTO documents(title) VALUES ($1) RETURNING id`, "z")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.EqualValues(t, 7, res.Rows[0]["id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_PropagatesError(t *testing.T) {
	db := openStore(t)

	_, err := Query(context.Background(), db, `SELECT * FROM missing_table`)
	require.Error(t, err)
}
