package otpflow_test

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/athena-gateway/console/api"
	conerrors "github.com/athena-gateway/console/internal/errors"
	"github.com/athena-gateway/console/otpflow"
	"github.com/athena-gateway/console/scope"
	"github.com/athena-gateway/console/session"
	"github.com/athena-gateway/console/session/storagefakes"
)

// fakeEndpoints scripts one OTP backend.
type fakeEndpoints struct {
	beginResult *api.OTPSetup
	beginErr    error
	beginDelay  time.Duration

	verifyResult *api.LoginResult
	verifyErr    error

	disableErr   error
	disableCalls int
}

func (f *fakeEndpoints) Begin(context.Context) (*api.OTPSetup, error) {
	if f.beginDelay > 0 {
		time.Sleep(f.beginDelay)
	}
	return f.beginResult, f.beginErr
}

func (f *fakeEndpoints) Verify(context.Context, string) (*api.LoginResult, error) {
	return f.verifyResult, f.verifyErr
}

func (f *fakeEndpoints) Disable(context.Context, string) error {
	f.disableCalls++
	return f.disableErr
}

func freshToken(t *testing.T) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"user_id": "user-1"})
	raw, err := token.SignedString([]byte("key"))
	require.NoError(t, err)
	return raw
}

func TestSetup(t *testing.T) {
	sessions := session.New(storagefakes.NewFakeStorage(), scope.New())
	sessions.Set(freshToken(t), session.Extras{Force2FASetupRequired: true})

	endpoints := &fakeEndpoints{
		beginResult: &api.OTPSetup{Secret: "ABC123", QRCode: "cXItcG5n", AuthURL: "otpauth://totp/athena"},
	}
	setup := otpflow.NewSetup(endpoints, sessions)

	t.Run("begin moves to awaiting verification", func(t *testing.T) {
		require.NoError(t, setup.Begin(context.Background()))
		require.Equal(t, otpflow.SetupAwaitingVerification, setup.State())
		require.Equal(t, "ABC123", setup.Details().Secret)
	})

	t.Run("rejected code keeps awaiting with an error", func(t *testing.T) {
		endpoints.verifyErr = &api.Error{Status: 401, Message: "code rejected"}
		require.Error(t, setup.Verify(context.Background(), "000000"))
		require.Equal(t, otpflow.SetupAwaitingVerification, setup.State())
		require.Equal(t, "code rejected", setup.Message())
	})

	t.Run("accepted code enables and re-authenticates", func(t *testing.T) {
		endpoints.verifyErr = nil
		endpoints.verifyResult = &api.LoginResult{AccessToken: freshToken(t)}

		require.NoError(t, setup.Verify(context.Background(), "123456"))
		require.Equal(t, otpflow.SetupEnabled, setup.State())
		require.Nil(t, setup.Details())

		// The verify response re-issues the token without the grace obligation.
		require.True(t, sessions.Authenticated())
		require.False(t, sessions.Grace())
	})

	t.Run("verify before begin is rejected", func(t *testing.T) {
		fresh := otpflow.NewSetup(&fakeEndpoints{}, sessions)
		require.ErrorIs(t, fresh.Verify(context.Background(), "123456"), conerrors.ErrInvalidStage)
	})
}

func TestSetup_BeginFailure(t *testing.T) {
	sessions := session.New(storagefakes.NewFakeStorage(), scope.New())
	endpoints := &fakeEndpoints{beginErr: &api.Error{Status: 500, Message: "totp unavailable"}}
	setup := otpflow.NewSetup(endpoints, sessions)

	require.Error(t, setup.Begin(context.Background()))
	require.Equal(t, otpflow.SetupIdle, setup.State())
	require.Equal(t, "totp unavailable", setup.Message())

	// The flow stays retryable.
	endpoints.beginErr = nil
	endpoints.beginResult = &api.OTPSetup{Secret: "DEF456"}
	require.NoError(t, setup.Begin(context.Background()))
	require.Equal(t, otpflow.SetupAwaitingVerification, setup.State())
}

func TestDisable(t *testing.T) {
	t.Run("unconfirmed prompt sends nothing", func(t *testing.T) {
		endpoints := &fakeEndpoints{}
		disable := otpflow.NewDisable(endpoints)

		err := disable.Submit(context.Background(), "123456", false)
		require.ErrorIs(t, err, conerrors.ErrNotConfirmed)
		require.Zero(t, endpoints.disableCalls)
		require.False(t, disable.Done())
	})

	t.Run("failure stays retryable", func(t *testing.T) {
		endpoints := &fakeEndpoints{disableErr: &api.Error{Status: 401, Message: "code rejected"}}
		disable := otpflow.NewDisable(endpoints)

		require.Error(t, disable.Submit(context.Background(), "000000", true))
		require.False(t, disable.Done())
		require.Equal(t, "code rejected", disable.Message())

		endpoints.disableErr = nil
		require.NoError(t, disable.Submit(context.Background(), "123456", true))
		require.True(t, disable.Done())
		require.Equal(t, 2, endpoints.disableCalls)
	})
}

func TestSetup_StateReadableDuringBegin(t *testing.T) {
	sessions := session.New(storagefakes.NewFakeStorage(), scope.New())
	endpoints := &fakeEndpoints{
		beginResult: &api.OTPSetup{Secret: "GHI789"},
		beginDelay:  40 * time.Millisecond,
	}
	setup := otpflow.NewSetup(endpoints, sessions)

	done := make(chan error, 1)
	go func() {
		done <- setup.Begin(context.Background())
	}()

	// Renders keep polling the machine while the request is in flight.
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			require.Equal(t, otpflow.SetupAwaitingVerification, setup.State())
			require.Equal(t, "GHI789", setup.Details().Secret)
			require.Empty(t, setup.Message())
			return
		default:
			_ = setup.State()
			_ = setup.Message()
			_ = setup.Details()
		}
	}
}
