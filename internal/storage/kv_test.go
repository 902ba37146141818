package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStores(t *testing.T) map[string]KV {
	return map[string]KV{
		"file":   NewFileKV(filepath.Join(t.TempDir(), "data"), zap.NewNop()),
		"memory": NewMemoryKV(),
	}
}

func TestKVRoundTrip(t *testing.T) {
	for name, kv := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := kv.Get(ctx, "authData")
			require.NoError(t, err)
			assert.False(t, ok, "fresh store should be empty")

			require.NoError(t, kv.Set(ctx, "authData", `{"a":1}`))
			v, ok, err := kv.Get(ctx, "authData")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"a":1}`, v)

			require.NoError(t, kv.Set(ctx, "authData", `{"a":2}`))
			v, _, _ = kv.Get(ctx, "authData")
			assert.Equal(t, `{"a":2}`, v)

			require.NoError(t, kv.Remove(ctx, "authData"))
			_, ok, err = kv.Get(ctx, "authData")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.NoError(t, kv.Remove(ctx, "authData"), "removing an absent key is a no-op")
		})
	}
}

func TestKVRejectsUnsafeKeys(t *testing.T) {
	for name, kv := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../etc/passwd", "a/b", "with space"} {
				assert.ErrorIs(t, kv.Set(context.Background(), key, "x"), ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestFileKVPermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	kv := NewFileKV(dir, zap.NewNop())
	require.NoError(t, kv.Set(context.Background(), "authData", "secret"))

	info, err := os.Stat(filepath.Join(dir, "authData.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should not be left behind")
}
