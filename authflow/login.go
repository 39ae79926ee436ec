// Package authflow implements the multi-step authentication protocol:
// credentials, then optionally a global-admin or per-project second factor,
// ending in a session store update.
package authflow

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/athena-gateway/console/api"
	conerrors "github.com/athena-gateway/console/internal/errors"
	"github.com/athena-gateway/console/scope"
	"github.com/athena-gateway/console/session"
)

// API is the subset of the Athena client the login flow needs.
type API interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	LoginAdminOTP(ctx context.Context, email, password, otpCode string) (*api.LoginResult, error)
	LoginProjectOTP(ctx context.Context, email, password, otpCode, projectID string) (*api.LoginResult, error)
	Register(ctx context.Context, email, password, registrationSecret string) error
}

// Stage identifies the step the login flow is on.
type Stage int

const (
	StageCredentials Stage = iota
	StageAdminOTP
	StageProjectOTP
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageCredentials:
		return "credentials"
	case StageAdminOTP:
		return "admin-otp"
	case StageProjectOTP:
		return "project-otp"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// pending holds the data carried between the credentials step and an OTP
// step. It exists only while the flow sits on an OTP stage.
type pending struct {
	email     string
	password  string
	projectID string
}

// Login is one login attempt. It is view-local state: create one per login
// screen instance and discard it when the screen goes away. Submissions run
// in their own goroutine while renders keep reading Stage and Message, so
// the stage state is mutex-guarded. The mutex is not held across network
// calls; reads stay cheap while a request is in flight.
type Login struct {
	api      API
	sessions *session.Store
	scopes   *scope.Store

	mu      sync.Mutex
	stage   Stage
	pending *pending
	message string
}

func NewLogin(apiClient API, sessions *session.Store, scopes *scope.Store) *Login {
	return &Login{api: apiClient, sessions: sessions, scopes: scopes}
}

// Stage returns the current step.
func (l *Login) Stage() Stage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stage
}

// Message returns the inline status or error text for the current step.
func (l *Login) Message() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.message
}

// SubmitCredentials runs the first login step. Depending on the server's
// answer the flow finishes, advances to an OTP step, or stays on credentials
// with the server's error message.
func (l *Login) SubmitCredentials(ctx context.Context, email, password string) error {
	l.mu.Lock()
	if l.stage != StageCredentials {
		l.mu.Unlock()
		return conerrors.ErrInvalidStage
	}
	l.mu.Unlock()

	// No stale project header may leak into an authentication request.
	l.scopes.Set(scope.None)

	result, err := l.api.Login(ctx, email, password)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.scopes.Set(scope.None)
		l.message = api.ErrorMessage(err, "login failed")
		return err
	}

	switch {
	case result.GlobalOTPRequired:
		l.stage = StageAdminOTP
		l.pending = &pending{email: email, password: password}
		l.message = "global admin 2FA required"
	case result.OTPRequired:
		l.stage = StageProjectOTP
		l.pending = &pending{email: email, password: password, projectID: result.ProjectID}
		l.message = "project 2FA required"
	default:
		l.finish(result)
	}
	return nil
}

// SubmitCode runs the second login step with a 2FA code. A rejected code
// leaves the flow on the same OTP stage ready for retry.
func (l *Login) SubmitCode(ctx context.Context, otpCode string) error {
	l.mu.Lock()
	if l.pending == nil {
		l.mu.Unlock()
		return conerrors.ErrInvalidStage
	}
	stage, p := l.stage, *l.pending
	l.mu.Unlock()

	l.scopes.Set(scope.None)

	var result *api.LoginResult
	var err error
	switch stage {
	case StageAdminOTP:
		result, err = l.api.LoginAdminOTP(ctx, p.email, p.password, otpCode)
	case StageProjectOTP:
		result, err = l.api.LoginProjectOTP(ctx, p.email, p.password, otpCode, p.projectID)
	default:
		return conerrors.ErrInvalidStage
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.message = api.ErrorMessage(err, "invalid credentials or 2FA code")
		return err
	}

	l.finish(result)
	return nil
}

// Cancel abandons a pending OTP step and returns to the credentials step,
// dropping the stored email and password.
func (l *Login) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stage = StageCredentials
	l.pending = nil
	l.message = ""
}

// finish is called with the mutex held.
func (l *Login) finish(result *api.LoginResult) {
	l.sessions.Set(result.Token(), session.Extras{
		ProjectID:             result.ProjectID,
		Force2FASetupRequired: result.Force2FASetupRequired,
	})
	l.stage = StageDone
	l.pending = nil
	l.message = ""
	log.Info().Bool("grace", result.Force2FASetupRequired).Msg("login completed")
}
