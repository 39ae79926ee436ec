// Package routing decides which screen the console shows: a static route
// table plus a guard that weighs session state, role and grace status.
package routing

import "strings"

// Screen identifies a console screen.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenDashboard
	ScreenProjectDetail
	ScreenProfile
	ScreenAdminProfile
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenRegister:
		return "register"
	case ScreenDashboard:
		return "dashboard"
	case ScreenProjectDetail:
		return "project-detail"
	case ScreenProfile:
		return "profile"
	case ScreenAdminProfile:
		return "admin-profile"
	}
	return "unknown"
}

// Well-known fragments. These keep the SPA's hash-fragment shape so paths in
// logs and bookmarks read the same as the web console's.
const (
	FragmentLogin        = "#/login"
	FragmentRegister     = "#/register"
	FragmentDashboard    = "#/dashboard"
	FragmentProfile      = "#/profile"
	FragmentAdminProfile = "#/admin/profile"
)

// ProjectFragment builds the fragment for a project detail screen.
func ProjectFragment(projectID string) string {
	return "#/project/" + projectID
}

// Route is one entry of the static route table. Pattern segments starting
// with ':' capture the corresponding fragment segment as the route parameter.
type Route struct {
	Pattern   string
	Screen    Screen
	Private   bool
	AdminOnly bool
}

// Table is an immutable route table, defined once at startup.
type Table struct {
	routes []Route
}

func NewTable(routes ...Route) *Table {
	return &Table{routes: routes}
}

// DefaultRoutes is the console's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: FragmentLogin, Screen: ScreenLogin},
		{Pattern: FragmentRegister, Screen: ScreenRegister},
		{Pattern: FragmentDashboard, Screen: ScreenDashboard, Private: true},
		{Pattern: "#/project/:id", Screen: ScreenProjectDetail, Private: true},
		{Pattern: FragmentProfile, Screen: ScreenProfile, Private: true},
		{Pattern: FragmentAdminProfile, Screen: ScreenAdminProfile, Private: true, AdminOnly: true},
	}
}

// match resolves a fragment against the table, returning the route and the
// captured parameter, if any.
func (t *Table) match(fragment string) (Route, string, bool) {
	for _, route := range t.routes {
		if param, ok := matchPattern(route.Pattern, fragment); ok {
			return route, param, true
		}
	}
	return Route{}, "", false
}

func matchPattern(pattern, fragment string) (string, bool) {
	if !strings.Contains(pattern, ":") {
		return "", pattern == fragment
	}

	patternParts := strings.Split(pattern, "/")
	fragmentParts := strings.Split(fragment, "/")
	if len(patternParts) != len(fragmentParts) {
		return "", false
	}

	var param string
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if fragmentParts[i] == "" {
				return "", false
			}
			param = fragmentParts[i]
			continue
		}
		if part != fragmentParts[i] {
			return "", false
		}
	}
	return param, true
}
