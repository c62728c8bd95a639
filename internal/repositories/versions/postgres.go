package versions

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/models"
)

const pgVersionColumns = `id, document_id, version_number, title, content, commit_message,
		 created_at, COALESCE(created_by, ''), is_current_version, content_hash`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Current(ctx context.Context, documentID string) (*models.DocumentVersion, error) {
	query := `SELECT ` + pgVersionColumns + ` FROM document_versions
		 WHERE document_id = $1 AND is_current_version
		 `
	return r.one(ctx, "versions.current", query, documentID)
}

func (r *PostgresRepository) ClearCurrent(ctx context.Context, documentID string) error {
	query := `UPDATE document_versions SET is_current_version = FALSE
		 WHERE document_id = $1 AND is_current_version
		 `
	if _, err := r.db.ExecContext(ctx, query, documentID); err != nil {
		return dberr.FromPostgres("versions.clearCurrent", err, documentID)
	}
	return nil
}

func (r *PostgresRepository) MaxNumber(ctx context.Context, documentID string) (int, error) {
	query := `SELECT COALESCE(MAX(version_number), 0) FROM document_versions WHERE document_id = $1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, documentID).Scan(&n); err != nil {
		return 0, dberr.FromPostgres("versions.maxNumber", err, documentID)
	}
	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.DocumentVersion) (*models.DocumentVersion, error) {
	query :=
		`INSERT INTO document_versions
		 (document_id, version_number, title, content, commit_message, created_by, is_current_version, content_hash)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		v.DocumentID, v.VersionNumber, v.Title, string(v.Content), v.CommitMessage, v.CreatedBy, v.IsCurrentVersion, v.ContentHash).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return nil, dberr.FromPostgres("versions.create", err, v.DocumentID, v.VersionNumber)
	}
	return v, nil
}

func (r *PostgresRepository) Get(ctx context.Context, documentID, versionID string) (*models.DocumentVersion, error) {
	query := `SELECT ` + pgVersionColumns + ` FROM document_versions
		 WHERE id = $1 AND document_id = $2
		 `
	return r.one(ctx, "versions.get", query, versionID, documentID)
}

func (r *PostgresRepository) GetByNumber(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error) {
	query := `SELECT ` + pgVersionColumns + ` FROM document_versions
		 WHERE document_id = $1 AND version_number = $2
		 `
	return r.one(ctx, "versions.getByNumber", query, documentID, number)
}

func (r *PostgresRepository) GetByID(ctx context.Context, versionID string) (*models.DocumentVersion, error) {
	query := `SELECT ` + pgVersionColumns + ` FROM document_versions WHERE id = $1`
	return r.one(ctx, "versions.getByID", query, versionID)
}

func (r *PostgresRepository) History(ctx context.Context, documentID string) ([]models.VersionHistoryEntry, error) {
	query :=
		`SELECT v.id, v.document_id, v.version_number, v.title, v.content, v.commit_message,
		 v.created_at, COALESCE(v.created_by, ''), v.is_current_version, v.content_hash,
		 COALESCE(u.username, ''), COALESCE(string_agg(t.tag_name, chr(31)), '')
		 FROM document_versions v
		 LEFT JOIN users u ON u.id = v.created_by
		 LEFT JOIN version_tags t ON t.version_id = v.id
		 WHERE v.document_id = $1
		 GROUP BY v.id, u.username
		 ORDER BY v.version_number DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, dberr.FromPostgres("versions.history", err, documentID)
	}
	defer rows.Close()

	result := []models.VersionHistoryEntry{}
	for rows.Next() {
		var (
			e       models.VersionHistoryEntry
			content []byte
			tags    string
		)
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.VersionNumber, &e.Title, &content, &e.CommitMessage,
			&e.CreatedAt, &e.CreatedBy, &e.IsCurrentVersion, &e.ContentHash, &e.AuthorUserName, &tags); err != nil {
			return nil, dberr.FromPostgres("versions.history", err, documentID)
		}
		e.Content = content
		e.Tags = SplitTags(tags)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.FromPostgres("versions.history", err, documentID)
	}
	return result, nil
}

func (r *PostgresRepository) one(ctx context.Context, op, query string, args ...any) (*models.DocumentVersion, error) {
	v := &models.DocumentVersion{}
	var content []byte
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&v.ID, &v.DocumentID, &v.VersionNumber, &v.Title, &content, &v.CommitMessage,
			&v.CreatedAt, &v.CreatedBy, &v.IsCurrentVersion, &v.ContentHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrVersionNotFound
		}
		return nil, dberr.FromPostgres(op, err, args...)
	}
	v.Content = content
	return v, nil
}

// SplitTags turns an aggregated tag column into a sorted slice.
func SplitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	tags := strings.Split(s, TagSeparator)
	sort.Strings(tags)
	return tags
}
