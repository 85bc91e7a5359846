package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfup/internal/app/client/crypto"
)

func newTestVault(t *testing.T, dir string) *crypto.Vault {
	t.Helper()

	vault, err := crypto.NewVault(filepath.Join(dir, ".store.key"))
	require.NoError(t, err)
	return vault
}

func TestSQLiteStore_SetGet(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "secure.db"), newTestVault(t, dir))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth", `{"username":"alice"}`))

	got, err := store.Get(ctx, "auth")
	require.NoError(t, err)
	assert.Equal(t, `{"username":"alice"}`, got)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "secure.db"), newTestVault(t, dir))
	require.NoError(t, err)
	defer store.Close()

	// absent key is empty value, not an error
	got, err := store.Get(context.Background(), "auth")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "secure.db"), newTestVault(t, dir))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth", "old"))
	require.NoError(t, store.Set(ctx, "auth", "new"))

	got, err := store.Get(ctx, "auth")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestSQLiteStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "secure.db"), newTestVault(t, dir))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth", "value"))
	require.NoError(t, store.Delete(ctx, "auth"))

	got, err := store.Get(ctx, "auth")
	require.NoError(t, err)
	assert.Empty(t, got)

	// deleting an absent key is a no-op
	require.NoError(t, store.Delete(ctx, "auth"))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "secure.db")
	vault := newTestVault(t, dir)
	ctx := context.Background()

	store, err := NewSQLiteStore(dbPath, vault)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "auth", "persisted"))
	require.NoError(t, store.Close())

	// the vault key file is reloaded too, so values decrypt across restarts
	reopened, err := NewSQLiteStore(dbPath, newTestVault(t, dir))
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "auth")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}
