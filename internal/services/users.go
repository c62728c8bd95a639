package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser registers an account. The password is stored as a bcrypt hash.
func (s *DocumentStore) CreateUser(ctx context.Context, email, userName, password string) (*models.User, error) {
	email, userName = strings.TrimSpace(email), strings.TrimSpace(userName)
	if email == "" || userName == "" || password == "" {
		return nil, dberr.Validation("createUser", "Email, username and password are required", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, dberr.Validation("createUser", "Password cannot be used", err)
	}

	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	u, err := a.Users(a.Conn()).Create(ctx, &models.User{Email: email, UserName: userName, PasswordHash: string(hash)})
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, dberr.Validation("createUser", "User with this email or username already exists", err)
		}
		return nil, err
	}
	s.log.Info(ctx, "user created", "user", u.ID)
	return u, nil
}

// ValidateUser checks a password for the account matching login, which is
// either the email or the username. Unknown logins and wrong passwords both
// return common.ErrorUnauthorized.
func (s *DocumentStore) ValidateUser(ctx context.Context, login, password string) (*models.User, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	u, err := a.Users(a.Conn()).GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}

func (s *DocumentStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	return a.Users(a.Conn()).GetByID(ctx, id)
}
