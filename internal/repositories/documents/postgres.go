package documents

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query :=
		`INSERT INTO documents (id, user_id, title, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET title = EXCLUDED.title, content = EXCLUDED.content, last_modified = now()
		 WHERE documents.user_id = EXCLUDED.user_id
		 RETURNING created_at, last_modified
		 `

	err := r.db.QueryRowContext(ctx, query, doc.ID, doc.UserID, doc.Title, string(doc.Content)).
		Scan(&doc.CreatedAt, &doc.LastModified)
	if err != nil {
		// conflict on a row owned by someone else updates nothing
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dberr.FromPostgres("documents.upsert", err, doc.ID, doc.UserID)
	}

	return doc, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Document, error) {
	query :=
		`SELECT id, user_id, title, content, created_at, last_modified FROM documents
		 WHERE id = $1 AND user_id = $2
		 `

	doc := &models.Document{}
	var content []byte
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&doc.ID, &doc.UserID, &doc.Title, &content, &doc.CreatedAt, &doc.LastModified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dberr.FromPostgres("documents.get", err, id, userID)
	}
	doc.Content = content

	return doc, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	query :=
		`SELECT id, user_id, title, content, created_at, last_modified FROM documents
		 WHERE user_id = $1
		 ORDER BY last_modified DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dberr.FromPostgres("documents.listByUser", err, userID)
	}
	defer rows.Close()

	result := []models.Document{}
	for rows.Next() {
		var doc models.Document
		var content []byte
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Title, &content, &doc.CreatedAt, &doc.LastModified); err != nil {
			return nil, dberr.FromPostgres("documents.listByUser", err, userID)
		}
		doc.Content = content
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.FromPostgres("documents.listByUser", err, userID)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM documents WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return dberr.FromPostgres("documents.delete", err, id, userID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dberr.FromPostgres("documents.delete", err, id, userID)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
