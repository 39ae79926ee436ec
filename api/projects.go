package api

import (
	"context"
	"net/http"
)

// Project is a tenant of the gateway.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectSettings are the per-project gateway knobs. The console only edits
// them; nothing client-side interprets the values.
type ProjectSettings struct {
	OTPRequired bool `json:"otp_required"`
	Force2FA    bool `json:"force_2fa"`
}

// ProjectDetails is the full project record.
type ProjectDetails struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Settings ProjectSettings `json:"settings"`
}

// Projects lists the projects visible to the caller.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a project with the given name.
func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	var project Project
	err := c.do(ctx, http.MethodPost, "/projects", map[string]string{"name": name}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectDetails fetches a single project.
func (c *Client) ProjectDetails(ctx context.Context, projectID string) (*ProjectDetails, error) {
	var details ProjectDetails
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// UpdateProjectSettings replaces a project's settings.
func (c *Client) UpdateProjectSettings(ctx context.Context, projectID string, settings ProjectSettings) error {
	return c.do(ctx, http.MethodPut, "/projects/"+projectID+"/settings", settings, nil)
}
