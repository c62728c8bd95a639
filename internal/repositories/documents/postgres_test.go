package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const upsertQuery = `(?s)^INSERT\s+INTO\s+documents.*ON\s+CONFLICT\s+\(id\)\s+DO\s+UPDATE.*WHERE\s+documents\.user_id\s*=\s*EXCLUDED\.user_id\s+RETURNING\s+created_at,\s*last_modified\s*$`

func TestUpsert_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(upsertQuery).
		WithArgs("doc-1", "u-1", "Draft", `"Hello"`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "last_modified"}).AddRow(now, now))

	doc, err := repo.Upsert(context.Background(), &models.Document{
		ID: "doc-1", UserID: "u-1", Title: "Draft", Content: json.RawMessage(`"Hello"`),
	})
	require.NoError(t, err)
	assert.Equal(t, now, doc.LastModified)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_OtherOwnerIsNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(upsertQuery).
		WithArgs("doc-1", "intruder", "x", `"x"`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Upsert(context.Background(), &models.Document{
		ID: "doc-1", UserID: "intruder", Title: "x", Content: json.RawMessage(`"x"`),
	})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpsert_ForeignKeyViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(upsertQuery).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Upsert(context.Background(), &models.Document{ID: "d", UserID: "missing", Content: json.RawMessage(`[]`)})
	assert.Equal(t, dberr.KindValidation, dberr.KindOf(err))
}

func TestGet_ScopedByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id,\s*title,\s*content.*FROM\s+documents\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`).
		WithArgs("doc-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "last_modified"}).
			AddRow("doc-1", "u-1", "Draft", []byte(`"Hello"`), now, now))

	doc, err := repo.Get(context.Background(), "u-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Draft", doc.Title)
	assert.JSONEq(t, `"Hello"`, string(doc.Content))
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^SELECT.*FROM\s+documents\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+last_modified\s+DESC\s*$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "last_modified"}).
			AddRow("b", "u-1", "B", []byte(`[]`), now, now).
			AddRow("a", "u-1", "A", []byte(`[]`), now, now.Add(-time.Hour)))

	docs, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+documents\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`).
		WithArgs("doc-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM documents`).
		WithArgs("doc-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u-1", "doc-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u-2", "doc-1"), common.ErrorNotFound)
}
