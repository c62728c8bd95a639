package tags

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

func (r *PostgresRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	query :=
		`INSERT INTO version_tags (version_id, tag_name, description, created_by)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, tag.VersionID, tag.Name, tag.Description, tag.CreatedBy).
		Scan(&tag.ID, &tag.CreatedAt)
	if err != nil {
		return nil, dberr.FromPostgres("tags.create", err, tag.VersionID, tag.Name)
	}
	return tag, nil
}

func (r *PostgresRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Tag, error) {
	query :=
		`SELECT t.id, t.version_id, t.tag_name, t.description, COALESCE(t.created_by, ''), t.created_at, v.version_number
		 FROM version_tags t
		 JOIN document_versions v ON v.id = t.version_id
		 WHERE v.document_id = $1
		 ORDER BY v.version_number DESC, t.tag_name
		 `

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, dberr.FromPostgres("tags.listByDocument", err, documentID)
	}
	defer rows.Close()

	result := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.VersionID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt, &t.VersionNumber); err != nil {
			return nil, dberr.FromPostgres("tags.listByDocument", err, documentID)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.FromPostgres("tags.listByDocument", err, documentID)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, versionID, tagID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM version_tags WHERE id = $1 AND version_id = $2`, tagID, versionID)
	if err != nil {
		return dberr.FromPostgres("tags.delete", err, tagID, versionID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dberr.FromPostgres("tags.delete", err, tagID, versionID)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
