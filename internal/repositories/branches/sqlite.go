package branches

import (
	"context"
	"time"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/models"
	"github.com/google/uuid"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, b *models.Branch) (*models.Branch, error) {
	query := `INSERT INTO document_branches (id, document_id, branch_name, base_version_id, created_by, is_active, created_at)
			VALUES (?, ?, ?, ?, NULLIF(?, ''), 1, ?)`

	id := uuid.NewString()
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, query, id, b.DocumentID, b.Name, b.BaseVersionID, b.CreatedBy, now); err != nil {
		return nil, dberr.FromSQLite("branches.create", err, b.DocumentID, b.Name)
	}

	b.ID = id
	b.IsActive = true
	b.CreatedAt = now
	return b, nil
}

func (r *SQLiteRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Branch, error) {
	query := `SELECT id, document_id, branch_name, base_version_id, COALESCE(created_by, ''), is_active, created_at
			FROM document_branches WHERE document_id = ? ORDER BY created_at, branch_name`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, dberr.FromSQLite("branches.listByDocument", err, documentID)
	}
	defer rows.Close()

	result := []models.Branch{}
	for rows.Next() {
		var b models.Branch
		if err := rows.Scan(&b.ID, &b.DocumentID, &b.Name, &b.BaseVersionID, &b.CreatedBy, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, dberr.FromSQLite("branches.listByDocument", err, documentID)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.FromSQLite("branches.listByDocument", err, documentID)
	}
	return result, nil
}

func (r *SQLiteRepository) Deactivate(ctx context.Context, documentID, branchID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE document_branches SET is_active = 0 WHERE id = ? AND document_id = ?`, branchID, documentID)
	if err != nil {
		return dberr.FromSQLite("branches.deactivate", err, branchID, documentID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dberr.FromSQLite("branches.deactivate", err, branchID, documentID)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
