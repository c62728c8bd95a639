package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/cryptox"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/models"
)

// SQLiteRepository keeps title and content sealed at rest.
type SQLiteRepository struct {
	db     dbx.DBTX
	sealer *cryptox.Sealer
}

func NewSQLiteRepository(db dbx.DBTX, sealer *cryptox.Sealer) *SQLiteRepository {
	return &SQLiteRepository{db: db, sealer: sealer}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query := `INSERT INTO documents (id, user_id, encrypted_title, title_nonce, encrypted_content, content_nonce, created_at, last_modified)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET encrypted_title = excluded.encrypted_title,
				title_nonce = excluded.title_nonce,
				encrypted_content = excluded.encrypted_content,
				content_nonce = excluded.content_nonce,
				last_modified = excluded.last_modified
			WHERE documents.user_id = excluded.user_id`

	title, titleNonce := r.sealer.SealString(doc.Title)
	content, contentNonce := r.sealer.Seal(doc.Content)
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, query, doc.ID, doc.UserID, title, titleNonce, content, contentNonce, now, now)
	if err != nil {
		return nil, dberr.FromSQLite("documents.upsert", err, doc.ID, doc.UserID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, dberr.FromSQLite("documents.upsert", err, doc.ID, doc.UserID)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}

	var created time.Time
	err = r.db.QueryRowContext(ctx, `SELECT created_at FROM documents WHERE id = ?`, doc.ID).Scan(&created)
	if err != nil {
		return nil, dberr.FromSQLite("documents.upsert", err, doc.ID)
	}
	doc.CreatedAt = created
	doc.LastModified = now
	return doc, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID, id string) (*models.Document, error) {
	query := `SELECT id, user_id, encrypted_title, title_nonce, encrypted_content, content_nonce, created_at, last_modified
			FROM documents WHERE id = ? AND user_id = ?`

	doc, err := r.scan(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dberr.FromSQLite("documents.get", err, id, userID)
	}
	return doc, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	query := `SELECT id, user_id, encrypted_title, title_nonce, encrypted_content, content_nonce, created_at, last_modified
			FROM documents WHERE user_id = ? ORDER BY last_modified DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dberr.FromSQLite("documents.listByUser", err, userID)
	}
	defer rows.Close()

	result := []models.Document{}
	for rows.Next() {
		doc, err := r.scan(rows)
		if err != nil {
			return nil, dberr.FromSQLite("documents.listByUser", err, userID)
		}
		result = append(result, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.FromSQLite("documents.listByUser", err, userID)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return dberr.FromSQLite("documents.delete", err, id, userID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dberr.FromSQLite("documents.delete", err, id, userID)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scan(row scanner) (*models.Document, error) {
	var (
		doc                   models.Document
		title, titleNonce     []byte
		content, contentNonce []byte
	)
	if err := row.Scan(&doc.ID, &doc.UserID, &title, &titleNonce, &content, &contentNonce, &doc.CreatedAt, &doc.LastModified); err != nil {
		return nil, err
	}

	var err error
	if doc.Title, err = r.sealer.OpenString(title, titleNonce); err != nil {
		return nil, fmt.Errorf("decrypt title of %s: %w", doc.ID, err)
	}
	if doc.Content, err = r.sealer.Open(content, contentNonce); err != nil {
		return nil, fmt.Errorf("decrypt content of %s: %w", doc.ID, err)
	}
	return &doc, nil
}
