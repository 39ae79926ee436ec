package authflow

import (
	"context"

	conerrors "github.com/athena-gateway/console/internal/errors"
	"github.com/athena-gateway/console/scope"
)

const minPasswordLength = 8

// ValidateRegistration runs the local checks that must pass before a
// registration request may touch the network.
func ValidateRegistration(password, confirmPassword string) error {
	if password != confirmPassword {
		return conerrors.ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return conerrors.ErrPasswordTooShort
	}
	return nil
}

// Registration is the single-step account creation flow.
type Registration struct {
	api    API
	scopes *scope.Store
}

func NewRegistration(apiClient API, scopes *scope.Store) *Registration {
	return &Registration{api: apiClient, scopes: scopes}
}

// Submit validates locally, then registers the account. Validation failures
// never reach the server. The caller is responsible for the delayed redirect
// to the login screen on success.
func (r *Registration) Submit(ctx context.Context, email, password, confirmPassword, registrationSecret string) error {
	if err := ValidateRegistration(password, confirmPassword); err != nil {
		return err
	}
	r.scopes.Set(scope.None)
	return r.api.Register(ctx, email, password, registrationSecret)
}
