package metadata

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/docstore/internal/testutil/sqlitetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepository_SetGetDelete(t *testing.T) {
	r := NewSQLiteRepository(sqlitetest.Open(t))
	ctx := context.Background()

	v, err := r.Get(ctx, "salt")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, "salt", []byte{1, 2}))
	require.NoError(t, r.Set(ctx, "salt", []byte{3}))

	v, err = r.Get(ctx, "salt")
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, v)

	require.NoError(t, r.Delete(ctx, "salt"))
	v, err = r.Get(ctx, "salt")
	require.NoError(t, err)
	assert.Nil(t, v)
}
