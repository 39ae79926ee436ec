package otpflow

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/athena-gateway/console/api"
	conerrors "github.com/athena-gateway/console/internal/errors"
)

// Disable revokes 2FA for the account behind the endpoint set. The network
// call is gated on an explicit user confirmation and a current valid code;
// failure leaves the machine ready for retry. Done and Message are safe to
// read while a Submit runs in another goroutine.
type Disable struct {
	endpoints Endpoints

	mu      sync.Mutex
	done    bool
	message string
}

func NewDisable(endpoints Endpoints) *Disable {
	return &Disable{endpoints: endpoints}
}

func (d *Disable) Done() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

func (d *Disable) Message() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}

// Submit revokes 2FA. Without confirmation nothing is sent and the caller
// gets ErrNotConfirmed.
func (d *Disable) Submit(ctx context.Context, otpCode string, confirmed bool) error {
	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		return conerrors.ErrInvalidStage
	}
	d.mu.Unlock()

	if !confirmed {
		return conerrors.ErrNotConfirmed
	}

	err := d.endpoints.Disable(ctx, otpCode)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.message = api.ErrorMessage(err, "deactivation failed, is the code correct?")
		return err
	}

	d.done = true
	d.message = ""
	log.Info().Msg("2fa disabled")
	return nil
}
