package branches

import (
	"context"

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

func (r *PostgresRepository) Create(ctx context.Context, b *models.Branch) (*models.Branch, error) {
	query :=
		`INSERT INTO document_branches (document_id, branch_name, base_version_id, created_by)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 RETURNING id, is_active, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, b.DocumentID, b.Name, b.BaseVersionID, b.CreatedBy).
		Scan(&b.ID, &b.IsActive, &b.CreatedAt)
	if err != nil {
		return nil, dberr.FromPostgres("branches.create", err, b.DocumentID, b.Name)
	}
	return b, nil
}

func (r *PostgresRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Branch, error) {
	query :=
		`SELECT id, document_id, branch_name, base_version_id, COALESCE(created_by, ''), is_active, created_at
		 FROM document_branches
		 WHERE document_id = $1
		 ORDER BY created_at, branch_name
		 `

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, dberr.FromPostgres("branches.listByDocument", err, documentID)
	}
	defer rows.Close()

	result := []models.Branch{}
	for rows.Next() {
		var b models.Branch
		if err := rows.Scan(&b.ID, &b.DocumentID, &b.Name, &b.BaseVersionID, &b.CreatedBy, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, dberr.FromPostgres("branches.listByDocument", err, documentID)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.FromPostgres("branches.listByDocument", err, documentID)
	}
	return result, nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, documentID, branchID string) error {
	query := `UPDATE document_branches SET is_active = FALSE WHERE id = $1 AND document_id = $2`

	res, err := r.db.ExecContext(ctx, query, branchID, documentID)
	if err != nil {
		return dberr.FromPostgres("branches.deactivate", err, branchID, documentID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dberr.FromPostgres("branches.deactivate", err, branchID, documentID)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
