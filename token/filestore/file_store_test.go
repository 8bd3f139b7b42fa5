package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/token"
	"github.com/jrsteele09/go-dashboard/token/filestore"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := filestore.New(path)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, errors.ErrNotFound)

	expiresAt := time.UnixMilli(time.Now().Add(time.Hour).UnixMilli())
	require.NoError(t, store.Save(ctx, token.Stored{AccessToken: "abc", ExpiresAt: expiresAt}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A second store on the same path sees the token, as a restarted process would.
	loaded, err := filestore.New(path).Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", loaded.AccessToken)
	require.True(t, expiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := filestore.New(path).Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, errors.ErrNotFound)
}
