// Package otpflow implements the two-factor enrollment and revocation state
// machines, parameterized over either the per-project or the global-admin
// OTP endpoint set.
package otpflow

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/athena-gateway/console/api"
	conerrors "github.com/athena-gateway/console/internal/errors"
	"github.com/athena-gateway/console/session"
)

// Endpoints is one OTP backend. api.ProjectOTP and api.GlobalOTP both
// satisfy it; the global variant clears the active scope before every call,
// the project variant relies on the caller having set it.
type Endpoints interface {
	Begin(ctx context.Context) (*api.OTPSetup, error)
	Verify(ctx context.Context, otpCode string) (*api.LoginResult, error)
	Disable(ctx context.Context, otpCode string) error
}

// SetupState is the enrollment machine's position.
type SetupState int

const (
	SetupIdle SetupState = iota
	SetupAwaitingVerification
	SetupEnabled
)

// Setup walks one 2FA enrollment: begin (fetch secret and QR code), then
// verify a generated code. A verify success re-authenticates the session
// with the freshly issued token, which also clears any grace obligation.
// Begin and Verify run in their own goroutine while renders read State,
// Message and Details, so the machine state is mutex-guarded; the mutex is
// not held across network calls.
type Setup struct {
	endpoints Endpoints
	sessions  *session.Store

	mu      sync.Mutex
	state   SetupState
	details *api.OTPSetup
	message string
}

func NewSetup(endpoints Endpoints, sessions *session.Store) *Setup {
	return &Setup{endpoints: endpoints, sessions: sessions}
}

func (s *Setup) State() SetupState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Setup) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Details returns the secret, QR image and auth URL. Valid only while the
// machine awaits verification.
func (s *Setup) Details() *api.OTPSetup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details
}

// Begin starts enrollment. Failure keeps the machine idle with an error.
func (s *Setup) Begin(ctx context.Context) error {
	s.mu.Lock()
	if s.state != SetupIdle {
		s.mu.Unlock()
		return conerrors.ErrInvalidStage
	}
	s.mu.Unlock()

	details, err := s.endpoints.Begin(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.message = api.ErrorMessage(err, "could not start 2FA setup")
		return err
	}

	s.state = SetupAwaitingVerification
	s.details = details
	s.message = ""
	return nil
}

// Verify confirms enrollment with a code from the authenticator app. A
// rejected code keeps the machine awaiting verification for retry.
func (s *Setup) Verify(ctx context.Context, otpCode string) error {
	s.mu.Lock()
	if s.state != SetupAwaitingVerification {
		s.mu.Unlock()
		return conerrors.ErrInvalidStage
	}
	s.mu.Unlock()

	result, err := s.endpoints.Verify(ctx, otpCode)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.message = api.ErrorMessage(err, "verification failed, is the code correct?")
		return err
	}

	s.sessions.Set(result.Token(), session.Extras{
		ProjectID:             result.ProjectID,
		Force2FASetupRequired: result.Force2FASetupRequired,
	})
	s.state = SetupEnabled
	s.details = nil
	s.message = ""
	log.Info().Msg("2fa enrollment completed")
	return nil
}
