package versions

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
	"github.com/google/uuid"
)

const sqliteVersionColumns = `v.id, v.document_id, v.version_number, v.encrypted_title, v.title_nonce,
		v.encrypted_content, v.content_nonce, v.commit_message, v.created_at,
		COALESCE(v.created_by, ''), v.is_current_version, v.content_hash`

// SQLiteRepository keeps snapshot title and content sealed at rest.
type SQLiteRepository struct {
	db     dbx.DBTX
	sealer *cryptox.Sealer
}

func NewSQLiteRepository(db dbx.DBTX, sealer *cryptox.Sealer) *SQLiteRepository {
	return &SQLiteRepository{db: db, sealer: sealer}
}

func (r *SQLiteRepository) Current(ctx context.Context, documentID string) (*models.DocumentVersion, error) {
	query := `SELECT ` + sqliteVersionColumns + ` FROM document_versions v
		WHERE v.document_id = ? AND v.is_current_version = 1`
	return r.one(ctx, "versions.current", query, documentID)
}

func (r *SQLiteRepository) ClearCurrent(ctx context.Context, documentID string) error {
	query := `UPDATE document_versions SET is_current_version = 0 WHERE document_id = ? AND is_current_version = 1`
	if _, err := r.db.ExecContext(ctx, query, documentID); err != nil {
		return dberr.FromSQLite("versions.clearCurrent", err, documentID)
	}
	return nil
}

func (r *SQLiteRepository) MaxNumber(ctx context.Context, documentID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version_number), 0) FROM document_versions WHERE document_id = ?`, documentID).Scan(&n)
	if err != nil {
		return 0, dberr.FromSQLite("versions.maxNumber", err, documentID)
	}
	return n, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, v *models.DocumentVersion) (*models.DocumentVersion, error) {
	query := `INSERT INTO document_versions
			(id, document_id, version_number, encrypted_title, title_nonce, encrypted_content, content_nonce,
			 commit_message, created_at, created_by, is_current_version, content_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?)`

	id := uuid.NewString()
	now := time.Now().UTC()
	title, titleNonce := r.sealer.SealString(v.Title)
	content, contentNonce := r.sealer.Seal(v.Content)

	_, err := r.db.ExecContext(ctx, query, id, v.DocumentID, v.VersionNumber, title, titleNonce, content, contentNonce,
		v.CommitMessage, now, v.CreatedBy, v.IsCurrentVersion, v.ContentHash)
	if err != nil {
		return nil, dberr.FromSQLite("versions.create", err, v.DocumentID, v.VersionNumber)
	}

	v.ID = id
	v.CreatedAt = now
	return v, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, documentID, versionID string) (*models.DocumentVersion, error) {
	query := `SELECT ` + sqliteVersionColumns + ` FROM document_versions v WHERE v.id = ? AND v.document_id = ?`
	return r.one(ctx, "versions.get", query, versionID, documentID)
}

func (r *SQLiteRepository) GetByNumber(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error) {
	query := `SELECT ` + sqliteVersionColumns + ` FROM document_versions v WHERE v.document_id = ? AND v.version_number = ?`
	return r.one(ctx, "versions.getByNumber", query, documentID, number)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, versionID string) (*models.DocumentVersion, error) {
	query := `SELECT ` + sqliteVersionColumns + ` FROM document_versions v WHERE v.id = ?`
	return r.one(ctx, "versions.getByID", query, versionID)
}

func (r *SQLiteRepository) History(ctx context.Context, documentID string) ([]models.VersionHistoryEntry, error) {
	query := `SELECT ` + sqliteVersionColumns + `,
			COALESCE(u.username, ''), COALESCE(group_concat(t.tag_name, char(31)), '')
			FROM document_versions v
			LEFT JOIN users u ON u.id = v.created_by
			LEFT JOIN version_tags t ON t.version_id = v.id
			WHERE v.document_id = ?
			GROUP BY v.id
			ORDER BY v.version_number DESC`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, dberr.FromSQLite("versions.history", err, documentID)
	}
	defer rows.Close()

	result := []models.VersionHistoryEntry{}
	for rows.Next() {
		var (
			e    models.VersionHistoryEntry
			tags string
		)
		v, err := r.scan(rows, &e.AuthorUserName, &tags)
		if err != nil {
			return nil, dberr.FromSQLite("versions.history", err, documentID)
		}
		e.DocumentVersion = *v
		e.Tags = SplitTags(tags)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.FromSQLite("versions.history", err, documentID)
	}
	return result, nil
}

func (r *SQLiteRepository) one(ctx context.Context, op, query string, args ...any) (*models.DocumentVersion, error) {
	v, err := r.scan(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrVersionNotFound
		}
		return nil, dberr.FromSQLite(op, err, args...)
	}
	return v, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scan(row scanner, extra ...any) (*models.DocumentVersion, error) {
	var (
		v                     models.DocumentVersion
		title, titleNonce     []byte
		content, contentNonce []byte
	)
	dest := append([]any{&v.ID, &v.DocumentID, &v.VersionNumber, &title, &titleNonce, &content, &contentNonce,
		&v.CommitMessage, &v.CreatedAt, &v.CreatedBy, &v.IsCurrentVersion, &v.ContentHash}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if v.Title, err = r.sealer.OpenString(title, titleNonce); err != nil {
		return nil, fmt.Errorf("decrypt title of version %s: %w", v.ID, err)
	}
	if v.Content, err = r.sealer.Open(content, contentNonce); err != nil {
		return nil, fmt.Errorf("decrypt content of version %s: %w", v.ID, err)
	}
	return &v, nil
}
