package api

import (
	"context"
	"net/http"

	"github.com/athena-gateway/console/scope"
)

// OTPSetup is the response of an OTP setup begin call.
type OTPSetup struct {
	Secret  string `json:"secret"`
	QRCode  string `json:"qr_code"` // base64-encoded PNG
	AuthURL string `json:"auth_url"`
}

// OTPProfile is the 2FA status of the calling account.
type OTPProfile struct {
	Email      string `json:"email"`
	OTPEnabled bool   `json:"otp_enabled"`
}

// ProjectOTP is the project-scoped OTP endpoint set. It relies on the active
// scope already naming the project whose 2FA is being managed.
type ProjectOTP struct {
	Client *Client
}

func (p ProjectOTP) Begin(ctx context.Context) (*OTPSetup, error) {
	var setup OTPSetup
	if err := p.Client.do(ctx, http.MethodPost, "/auth/otp/setup", nil, &setup); err != nil {
		return nil, err
	}
	return &setup, nil
}

func (p ProjectOTP) Verify(ctx context.Context, otpCode string) (*LoginResult, error) {
	var result LoginResult
	err := p.Client.do(ctx, http.MethodPost, "/auth/otp/verify", map[string]string{"otp_code": otpCode}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (p ProjectOTP) Disable(ctx context.Context, otpCode string) error {
	return p.Client.do(ctx, http.MethodPost, "/auth/otp/disable", map[string]string{"otp_code": otpCode}, nil)
}

// GlobalOTP is the global-admin OTP endpoint set. It forces the active scope
// to none before every call so no project header leaks into an admin request.
type GlobalOTP struct {
	Client *Client
	Scopes *scope.Store
}

func (g GlobalOTP) Profile(ctx context.Context) (*OTPProfile, error) {
	g.Scopes.Set(scope.None)
	var profile OTPProfile
	if err := g.Client.do(ctx, http.MethodGet, "/admin/otp/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (g GlobalOTP) Begin(ctx context.Context) (*OTPSetup, error) {
	g.Scopes.Set(scope.None)
	var setup OTPSetup
	if err := g.Client.do(ctx, http.MethodPost, "/admin/otp/setup", nil, &setup); err != nil {
		return nil, err
	}
	return &setup, nil
}

func (g GlobalOTP) Verify(ctx context.Context, otpCode string) (*LoginResult, error) {
	g.Scopes.Set(scope.None)
	var result LoginResult
	err := g.Client.do(ctx, http.MethodPost, "/admin/otp/verify", map[string]string{"otp_code": otpCode}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (g GlobalOTP) Disable(ctx context.Context, otpCode string) error {
	g.Scopes.Set(scope.None)
	return g.Client.do(ctx, http.MethodPost, "/admin/otp/disable", map[string]string{"otp_code": otpCode}, nil)
}
