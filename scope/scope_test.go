package scope_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/athena-gateway/console/scope"
)

func TestStore(t *testing.T) {
	t.Run("starts unset", func(t *testing.T) {
		require.Equal(t, scope.None, scope.New().Get())
	})

	t.Run("last write wins", func(t *testing.T) {
		s := scope.New()
		s.Set("project-1")
		s.Set("project-2")
		require.Equal(t, "project-2", s.Get())
	})

	t.Run("setting none clears a previous scope", func(t *testing.T) {
		s := scope.New()
		s.Set("project-1")
		s.Set(scope.None)
		require.Equal(t, scope.None, s.Get())
	})
}
