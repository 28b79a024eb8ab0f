package db_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/habedi/tixshell/auth"
	"github.com/habedi/tixshell/db"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory builds a fresh store for the given scope. Stores built by the
// same factory for different scopes share the same backend.
type storeFactory func(scope string) auth.CredentialStore

func backends(t *testing.T) map[string]storeFactory {
	conn, err := db.Open(":memory:")
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mem := map[string]*db.MemoryCredentialRepository{}
	return map[string]storeFactory{
		"sqlite": func(scope string) auth.CredentialStore { return db.NewCredentialRepository(conn, scope) },
		"redis":  func(scope string) auth.CredentialStore { return db.NewRedisCredentialRepository(rdb, scope) },
		"memory": func(scope string) auth.CredentialStore {
			if _, ok := mem[scope]; !ok {
				mem[scope] = db.NewMemoryCredentialRepository()
			}
			return mem[scope]
		},
	}
}

func TestCredentialStores_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore("test")

			_, ok, err := store.Get(ctx, auth.KeyAccessToken)
			require.NoError(t, err)
			assert.False(t, ok, "missing key must not be reported as present")

			require.NoError(t, store.Set(ctx, auth.KeyAccessToken, "A1"))
			val, ok, err := store.Get(ctx, auth.KeyAccessToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "A1", val)

			require.NoError(t, store.Set(ctx, auth.KeyAccessToken, "A2"))
			val, _, err = store.Get(ctx, auth.KeyAccessToken)
			require.NoError(t, err)
			assert.Equal(t, "A2", val, "Set must overwrite")

			require.NoError(t, store.Remove(ctx, auth.KeyAccessToken))
			_, ok, err = store.Get(ctx, auth.KeyAccessToken)
			require.NoError(t, err)
			assert.False(t, ok)

			assert.NoError(t, store.Remove(ctx, auth.KeyAccessToken), "removing a missing key is not an error")
		})
	}
}

func TestCredentialStores_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			alice := newStore("alice")
			bob := newStore("bob")

			require.NoError(t, alice.Set(ctx, auth.KeyRefreshToken, "R-alice"))
			_, ok, err := bob.Get(ctx, auth.KeyRefreshToken)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestCredentialRepository_ReturnsErrorForUninitializedDB(t *testing.T) {
	repo := db.NewCredentialRepository(nil, "")
	_, _, err := repo.Get(context.Background(), auth.KeyAccessToken)
	assert.Error(t, err)
	assert.Error(t, repo.Set(context.Background(), auth.KeyAccessToken, "x"))
	assert.Error(t, repo.Remove(context.Background(), auth.KeyAccessToken))
}

func TestOpenRedis_FailsForUnreachableServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = db.OpenRedis(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestOpenRedis_StoresUnderScopedKey(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := db.OpenRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	store := db.NewRedisCredentialRepository(client, "")
	require.NoError(t, store.Set(context.Background(), auth.KeyAccessToken, "A1"))

	got, err := mr.Get("tixshell:default:auth_token")
	require.NoError(t, err)
	assert.Equal(t, "A1", got)
}
