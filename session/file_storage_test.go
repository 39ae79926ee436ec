package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/athena-gateway/console/session"
)

func TestFileStorage(t *testing.T) {
	storage := session.NewFileStorage(filepath.Join(t.TempDir(), "tokens"))

	t.Run("missing key reads as absent", func(t *testing.T) {
		_, ok := storage.Get("token")
		require.False(t, ok)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		require.NoError(t, storage.Set("token", "abc.def.ghi"))

		value, ok := storage.Get("token")
		require.True(t, ok)
		require.Equal(t, "abc.def.ghi", value)
	})

	t.Run("remove erases the value", func(t *testing.T) {
		require.NoError(t, storage.Set("token", "abc"))
		require.NoError(t, storage.Remove("token"))

		_, ok := storage.Get("token")
		require.False(t, ok)
	})

	t.Run("removing an absent key is not an error", func(t *testing.T) {
		require.NoError(t, storage.Remove("never-set"))
	})
}
