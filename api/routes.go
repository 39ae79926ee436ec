package api

import (
	"context"
	"net/http"
)

// RateLimit configures request throttling for a proxy route.
type RateLimit struct {
	Limit  int    `json:"limit"`
	Window string `json:"window"`
}

// CircuitBreaker configures failure handling for a proxy route.
type CircuitBreaker struct {
	FailureThreshold int    `json:"failure_threshold"`
	OpenTimeout      string `json:"open_timeout"`
}

// RouteConfig is the editable part of a proxy route.
type RouteConfig struct {
	Path           string         `json:"path"`
	TargetURL      string         `json:"target_url"`
	RequiredRoles  []string       `json:"required_roles"`
	CacheTTL       string         `json:"cache_ttl"`
	RateLimit      RateLimit      `json:"rate_limit"`
	CircuitBreaker CircuitBreaker `json:"circuit_breaker"`
}

// ProxyRoute is a stored proxy route.
type ProxyRoute struct {
	ID string `json:"id"`
	RouteConfig
}

// ProjectRoutes lists the proxy routes of a project.
func (c *Client) ProjectRoutes(ctx context.Context, projectID string) ([]ProxyRoute, error) {
	var routes []ProxyRoute
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID+"/routes", nil, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// CreateProjectRoute adds a proxy route to a project.
func (c *Client) CreateProjectRoute(ctx context.Context, projectID string, route RouteConfig) (*ProxyRoute, error) {
	var created ProxyRoute
	err := c.do(ctx, http.MethodPost, "/projects/"+projectID+"/routes", route, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProjectRoute replaces an existing proxy route.
func (c *Client) UpdateProjectRoute(ctx context.Context, projectID, routeID string, route RouteConfig) error {
	return c.do(ctx, http.MethodPut, "/projects/"+projectID+"/routes/"+routeID, route, nil)
}

// DeleteProjectRoute removes a proxy route from a project.
func (c *Client) DeleteProjectRoute(ctx context.Context, projectID, routeID string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID+"/routes/"+routeID, nil, nil)
}
