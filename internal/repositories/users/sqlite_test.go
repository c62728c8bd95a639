package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/models"
	"github.com/dmitrijs2005/docstore/internal/testutil/sqlitetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_CreateAndGet(t *testing.T) {
	db := sqlitetest.Open(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{Email: "bob@example.com", UserName: "bob", PasswordHash: "h"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	byEmail, err := r.GetByLogin(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := r.GetByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.UserName)
	assert.False(t, byID.CreatedAt.IsZero())
}

func TestSQLite_DuplicateAndMissing(t *testing.T) {
	db := sqlitetest.Open(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, &models.User{Email: "a@example.com", UserName: "a", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.User{Email: "a@example.com", UserName: "other", PasswordHash: "h"})
	assert.True(t, dberr.IsUniqueViolation(err), "got %v", err)

	_, err = r.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
