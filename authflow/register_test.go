package authflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/athena-gateway/console/api"
	"github.com/athena-gateway/console/authflow"
	conerrors "github.com/athena-gateway/console/internal/errors"
	"github.com/athena-gateway/console/scope"
)

func TestValidateRegistration(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, authflow.ValidateRegistration("password123", "password123"))
	})

	t.Run("mismatch", func(t *testing.T) {
		err := authflow.ValidateRegistration("password123", "password124")
		require.ErrorIs(t, err, conerrors.ErrPasswordMismatch)
	})

	t.Run("too short", func(t *testing.T) {
		err := authflow.ValidateRegistration("short", "short")
		require.ErrorIs(t, err, conerrors.ErrPasswordTooShort)
	})
}

func TestRegistration_Submit(t *testing.T) {
	t.Run("validation failure never reaches the network", func(t *testing.T) {
		fake := &fakeAPI{scopes: scope.New()}
		flow := authflow.NewRegistration(fake, fake.scopes)

		err := flow.Submit(context.Background(), testEmail, "short", "short", "secret")
		require.ErrorIs(t, err, conerrors.ErrPasswordTooShort)
		require.Zero(t, fake.registerCalls)
	})

	t.Run("success clears the scope and registers", func(t *testing.T) {
		fake := &fakeAPI{scopes: scope.New()}
		fake.scopes.Set("stale-project")
		flow := authflow.NewRegistration(fake, fake.scopes)

		require.NoError(t, flow.Submit(context.Background(), testEmail, "password123", "password123", "secret"))
		require.Equal(t, 1, fake.registerCalls)
		require.Equal(t, scope.None, fake.scopes.Get())
	})

	t.Run("server rejection surfaces the error", func(t *testing.T) {
		fake := &fakeAPI{scopes: scope.New(), registerErr: &api.Error{Status: 403, Message: "bad registration secret"}}
		flow := authflow.NewRegistration(fake, fake.scopes)

		err := flow.Submit(context.Background(), testEmail, "password123", "password123", "wrong")
		require.Error(t, err)
		require.Equal(t, "bad registration secret", api.ErrorMessage(err, ""))
	})
}
