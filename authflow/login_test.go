package authflow_test

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/athena-gateway/console/api"
	"github.com/athena-gateway/console/authflow"
	conerrors "github.com/athena-gateway/console/internal/errors"
	"github.com/athena-gateway/console/scope"
	"github.com/athena-gateway/console/session"
	"github.com/athena-gateway/console/session/storagefakes"
)

const (
	testEmail     = "jane.doe@example.com"
	testPassword  = "password123"
	testProjectID = "project-42"
	goodCode      = "123456"
)

// fakeAPI scripts the auth endpoints and records how it was called.
type fakeAPI struct {
	loginResult *api.LoginResult
	loginErr    error
	loginDelay  time.Duration

	otpResult *api.LoginResult
	otpErr    error

	registerErr   error
	registerCalls int

	scopes      *scope.Store
	seenScopes  []string
	adminOTPs   []string
	projectOTPs []string
	projectIDs  []string
}

func (f *fakeAPI) recordScope() {
	f.seenScopes = append(f.seenScopes, f.scopes.Get())
}

func (f *fakeAPI) Login(context.Context, string, string) (*api.LoginResult, error) {
	f.recordScope()
	if f.loginDelay > 0 {
		time.Sleep(f.loginDelay)
	}
	return f.loginResult, f.loginErr
}

func (f *fakeAPI) LoginAdminOTP(_ context.Context, _, _, otpCode string) (*api.LoginResult, error) {
	f.recordScope()
	f.adminOTPs = append(f.adminOTPs, otpCode)
	return f.otpResult, f.otpErr
}

func (f *fakeAPI) LoginProjectOTP(_ context.Context, _, _, otpCode, projectID string) (*api.LoginResult, error) {
	f.recordScope()
	f.projectOTPs = append(f.projectOTPs, otpCode)
	f.projectIDs = append(f.projectIDs, projectID)
	return f.otpResult, f.otpErr
}

func (f *fakeAPI) Register(context.Context, string, string, string) error {
	f.registerCalls++
	return f.registerErr
}

type loginFixture struct {
	api      *fakeAPI
	sessions *session.Store
	scopes   *scope.Store
	flow     *authflow.Login
}

func setupLogin(t *testing.T) *loginFixture {
	t.Helper()
	scopes := scope.New()
	sessions := session.New(storagefakes.NewFakeStorage(), scopes)
	fake := &fakeAPI{scopes: scopes}
	return &loginFixture{
		api:      fake,
		sessions: sessions,
		scopes:   scopes,
		flow:     authflow.NewLogin(fake, sessions, scopes),
	}
}

func accessToken(t *testing.T) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"user_id": "user-1"})
	raw, err := token.SignedString([]byte("key"))
	require.NoError(t, err)
	return raw
}

func TestLogin_DirectAccess(t *testing.T) {
	// Scenario: valid credentials, no 2FA configured.
	f := setupLogin(t)
	f.api.loginResult = &api.LoginResult{AccessToken: accessToken(t), ProjectID: testProjectID}

	require.NoError(t, f.flow.SubmitCredentials(context.Background(), testEmail, testPassword))

	require.Equal(t, authflow.StageDone, f.flow.Stage())
	require.True(t, f.sessions.Authenticated())
	require.False(t, f.sessions.Grace())
	require.Equal(t, testProjectID, f.scopes.Get())
}

func TestLogin_GraceToken(t *testing.T) {
	f := setupLogin(t)
	f.api.loginResult = &api.LoginResult{
		GraceToken:            accessToken(t),
		Force2FASetupRequired: true,
		ProjectID:             testProjectID,
	}

	require.NoError(t, f.flow.SubmitCredentials(context.Background(), testEmail, testPassword))

	require.Equal(t, authflow.StageDone, f.flow.Stage())
	require.True(t, f.sessions.Grace())
}

func TestLogin_AdminOTPChallenge(t *testing.T) {
	f := setupLogin(t)
	f.api.loginResult = &api.LoginResult{GlobalOTPRequired: true}

	require.NoError(t, f.flow.SubmitCredentials(context.Background(), testEmail, testPassword))
	require.Equal(t, authflow.StageAdminOTP, f.flow.Stage())
	require.Contains(t, f.flow.Message(), "global admin 2FA")
	require.False(t, f.sessions.Authenticated())

	t.Run("wrong code stays on the OTP stage with an error", func(t *testing.T) {
		f.api.otpErr = &api.Error{Status: 401, Message: "invalid otp code"}
		require.Error(t, f.flow.SubmitCode(context.Background(), "000000"))
		require.Equal(t, authflow.StageAdminOTP, f.flow.Stage())
		require.Equal(t, "invalid otp code", f.flow.Message())
		require.False(t, f.sessions.Authenticated())
	})

	t.Run("correct code completes the login", func(t *testing.T) {
		f.api.otpErr = nil
		f.api.otpResult = &api.LoginResult{AccessToken: accessToken(t)}
		require.NoError(t, f.flow.SubmitCode(context.Background(), goodCode))
		require.Equal(t, authflow.StageDone, f.flow.Stage())
		require.Equal(t, []string{goodCode}, f.api.adminOTPs)
		require.True(t, f.sessions.Authenticated())
	})
}

func TestLogin_ProjectOTPChallenge(t *testing.T) {
	f := setupLogin(t)
	f.api.loginResult = &api.LoginResult{OTPRequired: true, ProjectID: testProjectID}

	require.NoError(t, f.flow.SubmitCredentials(context.Background(), testEmail, testPassword))
	require.Equal(t, authflow.StageProjectOTP, f.flow.Stage())

	f.api.otpResult = &api.LoginResult{AccessToken: accessToken(t), ProjectID: testProjectID}
	require.NoError(t, f.flow.SubmitCode(context.Background(), goodCode))

	require.Equal(t, authflow.StageDone, f.flow.Stage())
	require.Equal(t, []string{testProjectID}, f.api.projectIDs)
	require.Equal(t, testProjectID, f.scopes.Get())
}

func TestLogin_CredentialsRejected(t *testing.T) {
	f := setupLogin(t)
	f.api.loginErr = &api.Error{Status: 401, Message: "invalid credentials"}

	require.Error(t, f.flow.SubmitCredentials(context.Background(), testEmail, "wrong"))

	require.Equal(t, authflow.StageCredentials, f.flow.Stage())
	require.Equal(t, "invalid credentials", f.flow.Message())
	require.False(t, f.sessions.Authenticated())
}

func TestLogin_Cancel(t *testing.T) {
	f := setupLogin(t)
	f.api.loginResult = &api.LoginResult{OTPRequired: true, ProjectID: testProjectID}
	require.NoError(t, f.flow.SubmitCredentials(context.Background(), testEmail, testPassword))

	f.flow.Cancel()

	require.Equal(t, authflow.StageCredentials, f.flow.Stage())
	require.Empty(t, f.flow.Message())
	require.ErrorIs(t, f.flow.SubmitCode(context.Background(), goodCode), conerrors.ErrInvalidStage)
}

func TestLogin_ScopeClearedBeforeEveryCall(t *testing.T) {
	f := setupLogin(t)
	f.scopes.Set("stale-project")
	f.api.loginResult = &api.LoginResult{GlobalOTPRequired: true}
	f.api.otpResult = &api.LoginResult{AccessToken: accessToken(t)}

	require.NoError(t, f.flow.SubmitCredentials(context.Background(), testEmail, testPassword))
	f.scopes.Set("stale-again")
	require.NoError(t, f.flow.SubmitCode(context.Background(), goodCode))

	require.Equal(t, []string{scope.None, scope.None}, f.api.seenScopes)
}

func TestLogin_SubmitOutOfOrder(t *testing.T) {
	f := setupLogin(t)
	require.ErrorIs(t, f.flow.SubmitCode(context.Background(), goodCode), conerrors.ErrInvalidStage)
}

func TestLogin_StageReadableDuringSubmit(t *testing.T) {
	f := setupLogin(t)
	f.api.loginDelay = 40 * time.Millisecond
	f.api.loginResult = &api.LoginResult{AccessToken: accessToken(t)}

	done := make(chan error, 1)
	go func() {
		done <- f.flow.SubmitCredentials(context.Background(), testEmail, testPassword)
	}()

	// Renders keep polling the flow while the request is in flight.
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			require.Equal(t, authflow.StageDone, f.flow.Stage())
			require.Empty(t, f.flow.Message())
			require.True(t, f.sessions.Authenticated())
			return
		default:
			_ = f.flow.Stage()
			_ = f.flow.Message()
		}
	}
}
