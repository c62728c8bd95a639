package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/models"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, id, user.Email, user.UserName, user.PasswordHash, now, now)
	if err != nil {
		return nil, dberr.FromSQLite("users.create", err, user.Email, user.UserName)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, email, username, password_hash, created_at, updated_at FROM users WHERE id = ?`
	return r.get(ctx, "users.getByID", query, id)
}

func (r *SQLiteRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT id, email, username, password_hash, created_at, updated_at FROM users
			WHERE email = ? OR username = ? LIMIT 1`
	return r.get(ctx, "users.getByLogin", query, login, login)
}

func (r *SQLiteRepository) get(ctx context.Context, op, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Email, &user.UserName, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dberr.FromSQLite(op, err, args...)
	}
	return user, nil
}
