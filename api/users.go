package api

import (
	"context"
	"net/http"

	conerrors "github.com/athena-gateway/console/internal/errors"
)

// Profile is the calling user's account state in the active project context.
type Profile struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
	OTPEnabled bool     `json:"otp_enabled"`
}

// ProjectUser is a member of a project.
type ProjectUser struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	IsAdmin bool     `json:"is_admin"`
	Roles   []string `json:"roles"`
}

// MyProfile fetches the caller's profile. Requires an active project scope;
// the server answers 400 when it is missing, surfaced as ErrMissingScope.
func (c *Client) MyProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		if IsStatus(err, http.StatusBadRequest) {
			return nil, conerrors.Wrapf(conerrors.ErrMissingScope, "[MyProfile] %v", err)
		}
		return nil, err
	}
	return &profile, nil
}

// ProjectUsers lists the members of a project.
func (c *Client) ProjectUsers(ctx context.Context, projectID string) ([]ProjectUser, error) {
	var users []ProjectUser
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID+"/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddProjectUser adds a user to a project by email with the given roles.
func (c *Client) AddProjectUser(ctx context.Context, projectID, email string, roles []string) (*ProjectUser, error) {
	var user ProjectUser
	err := c.do(ctx, http.MethodPost, "/projects/"+projectID+"/users", map[string]any{
		"email": email,
		"roles": roles,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProjectUserRoles replaces a member's roles.
func (c *Client) UpdateProjectUserRoles(ctx context.Context, projectID, userID string, roles []string) error {
	return c.do(ctx, http.MethodPut, "/projects/"+projectID+"/users/"+userID, map[string][]string{
		"roles": roles,
	}, nil)
}

// RemoveProjectUser removes a member from a project.
func (c *Client) RemoveProjectUser(ctx context.Context, projectID, userID string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID+"/users/"+userID, nil, nil)
}
