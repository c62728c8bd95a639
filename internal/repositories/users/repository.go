// Package users stores user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/docstore/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByLogin matches either the email or the username.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}
