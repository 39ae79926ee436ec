package api

import (
	"context"
	"net/http"
)

// LoginResult is the union of the login endpoint's response shapes. Exactly
// one of the four outcomes is populated: a direct access token, a grace token
// with the mandatory-2FA flag, the global-admin OTP challenge, or the
// per-project OTP challenge.
type LoginResult struct {
	AccessToken           string `json:"access_token"`
	GraceToken            string `json:"grace_token"`
	Force2FASetupRequired bool   `json:"force_2fa_setup_required"`
	GlobalOTPRequired     bool   `json:"global_otp_required"`
	OTPRequired           bool   `json:"otp_required"`
	ProjectID             string `json:"project_id"`
}

// Token returns whichever bearer token the response carries, if any.
func (r *LoginResult) Token() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.GraceToken
}

// Login performs the first authentication step with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// LoginAdminOTP completes a global-admin login with the second factor.
func (c *Client) LoginAdminOTP(ctx context.Context, email, password, otpCode string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login/admin-otp", map[string]string{
		"email":    email,
		"password": password,
		"otp_code": otpCode,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// LoginProjectOTP completes a project-scoped login with the second factor.
// The project ID travels in the body, never as a scope header.
func (c *Client) LoginProjectOTP(ctx context.Context, email, password, otpCode, projectID string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login/otp", map[string]string{
		"email":      email,
		"password":   password,
		"otp_code":   otpCode,
		"project_id": projectID,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password, registrationSecret string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":               email,
		"password":            password,
		"registration_secret": registrationSecret,
	}, nil)
}
