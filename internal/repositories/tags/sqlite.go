package tags

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

func (r *SQLiteRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	query := `INSERT INTO version_tags (id, version_id, tag_name, description, created_by, created_at)
			VALUES (?, ?, ?, ?, NULLIF(?, ''), ?)`

	id := uuid.NewString()
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, query, id, tag.VersionID, tag.Name, tag.Description, tag.CreatedBy, now); err != nil {
		return nil, dberr.FromSQLite("tags.create", err, tag.VersionID, tag.Name)
	}

	tag.ID = id
	tag.CreatedAt = now
	return tag, nil
}

func (r *SQLiteRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Tag, error) {
	query := `SELECT t.id, t.version_id, t.tag_name, t.description, COALESCE(t.created_by, ''), t.created_at, v.version_number
			FROM version_tags t
			JOIN document_versions v ON v.id = t.version_id
			WHERE v.document_id = ?
			ORDER BY v.version_number DESC, t.tag_name`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, dberr.FromSQLite("tags.listByDocument", err, documentID)
	}
	defer rows.Close()

	result := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.VersionID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt, &t.VersionNumber); err != nil {
			return nil, dberr.FromSQLite("tags.listByDocument", err, documentID)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.FromSQLite("tags.listByDocument", err, documentID)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, versionID, tagID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM version_tags WHERE id = ? AND version_id = ?`, tagID, versionID)
	if err != nil {
		return dberr.FromSQLite("tags.delete", err, tagID, versionID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dberr.FromSQLite("tags.delete", err, tagID, versionID)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
