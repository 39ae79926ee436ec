package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/athena-gateway/console/api"
	"github.com/athena-gateway/console/routing"
)

type projectTab int

const (
	tabSettings projectTab = iota
	tabRoutes
	tabUsers
)

type projectLoadedMsg struct {
	details *api.ProjectDetails
	routes  []api.ProxyRoute
	users   []api.ProjectUser
	err     error
}

type projectActionMsg struct {
	err error
}

// routeDraft backs the route editor form. String fields keep the form simple;
// numbers are parsed on save.
type routeDraft struct {
	Path             string
	TargetURL        string
	Roles            string
	CacheTTL         string
	RateLimit        string
	RateWindow       string
	FailureThreshold string
	OpenTimeout      string
}

func draftFromRoute(route api.RouteConfig) *routeDraft {
	return &routeDraft{
		Path:             route.Path,
		TargetURL:        route.TargetURL,
		Roles:            strings.Join(route.RequiredRoles, ","),
		CacheTTL:         route.CacheTTL,
		RateLimit:        strconv.Itoa(route.RateLimit.Limit),
		RateWindow:       route.RateLimit.Window,
		FailureThreshold: strconv.Itoa(route.CircuitBreaker.FailureThreshold),
		OpenTimeout:      route.CircuitBreaker.OpenTimeout,
	}
}

func (d *routeDraft) toConfig() api.RouteConfig {
	var roles []string
	for _, role := range strings.Split(d.Roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	limit, _ := strconv.Atoi(d.RateLimit)
	threshold, _ := strconv.Atoi(d.FailureThreshold)
	return api.RouteConfig{
		Path:          d.Path,
		TargetURL:     d.TargetURL,
		RequiredRoles: roles,
		CacheTTL:      d.CacheTTL,
		RateLimit:     api.RateLimit{Limit: limit, Window: d.RateWindow},
		CircuitBreaker: api.CircuitBreaker{
			FailureThreshold: threshold,
			OpenTimeout:      d.OpenTimeout,
		},
	}
}

// userDraft backs the add-user form.
type userDraft struct {
	Email string
	Roles string
}

// ProjectModel is the per-project admin screen: settings, proxy routes and
// membership, each on its own tab.
type ProjectModel struct {
	deps      Deps
	projectID string

	details *api.ProjectDetails
	routes  []api.ProxyRoute
	users   []api.ProjectUser

	tab        projectTab
	routeTable table.Model
	userTable  table.Model

	form         *huh.Form
	settings     *api.ProjectSettings
	route        *routeDraft
	editRouteID  string
	user         *userDraft
	editUserID   string
	editingRoles *string

	errMsg string
	loaded bool
	busy   bool
}

func NewProjectModel(deps Deps, projectID string) ProjectModel {
	routeTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Path", Width: 20},
			{Title: "Target", Width: 30},
			{Title: "Roles", Width: 16},
			{Title: "Cache", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	userTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Email", Width: 30},
			{Title: "Roles", Width: 24},
		}),
		table.WithHeight(8),
	)

	return ProjectModel{
		deps:       deps,
		projectID:  projectID,
		routeTable: routeTable,
		userTable:  userTable,
	}
}

// Init pins the active scope to this project before any request goes out, so
// every call carries the right project header.
func (m ProjectModel) Init() tea.Cmd {
	deps := m.deps
	projectID := m.projectID
	return func() tea.Msg {
		deps.Scopes.Set(projectID)

		details, err := deps.API.ProjectDetails(context.Background(), projectID)
		if err != nil {
			return projectLoadedMsg{err: err}
		}
		routes, err := deps.API.ProjectRoutes(context.Background(), projectID)
		if err != nil {
			return projectLoadedMsg{err: err}
		}
		users, err := deps.API.ProjectUsers(context.Background(), projectID)
		if err != nil {
			return projectLoadedMsg{err: err}
		}
		return projectLoadedMsg{details: details, routes: routes, users: users}
	}
}

func (m ProjectModel) Update(msg tea.Msg) (ProjectModel, tea.Cmd) {
	switch msg := msg.(type) {
	case projectLoadedMsg:
		m.loaded = true
		m.busy = false
		if msg.err != nil {
			m.errMsg = api.ErrorMessage(msg.err, "could not load project")
			return m, nil
		}
		m.errMsg = ""
		m.details = msg.details
		m.routes = msg.routes
		m.users = msg.users
		m.refreshTables()
		return m, nil

	case projectActionMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = api.ErrorMessage(msg.err, "request failed")
			return m, nil
		}
		m.errMsg = ""
		return m, m.Init()

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *ProjectModel) refreshTables() {
	routeRows := make([]table.Row, 0, len(m.routes))
	for _, r := range m.routes {
		routeRows = append(routeRows, table.Row{
			r.Path, r.TargetURL, strings.Join(r.RequiredRoles, ","), r.CacheTTL,
		})
	}
	m.routeTable.SetRows(routeRows)

	userRows := make([]table.Row, 0, len(m.users))
	for _, u := range m.users {
		userRows = append(userRows, table.Row{u.Email, strings.Join(u.Roles, ",")})
	}
	m.userTable.SetRows(userRows)
}

func (m ProjectModel) updateKeys(msg tea.KeyMsg) (ProjectModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, navigate(m.deps.Nav, routing.FragmentDashboard)
	case "tab":
		m.tab = (m.tab + 1) % 3
		return m, nil
	case "1":
		m.tab = tabSettings
		return m, nil
	case "2":
		m.tab = tabRoutes
		return m, nil
	case "3":
		m.tab = tabUsers
		return m, nil
	case "r":
		m.busy = true
		return m, m.Init()
	}

	switch m.tab {
	case tabSettings:
		if msg.String() == "e" && m.details != nil {
			settings := m.details.Settings
			m.settings = &settings
			m.form = huh.NewForm(huh.NewGroup(
				huh.NewConfirm().Title("Require 2FA to sign in").Value(&m.settings.OTPRequired),
				huh.NewConfirm().Title("Force 2FA enrollment on first login").Value(&m.settings.Force2FA),
			)).WithTheme(huh.ThemeBase16())
			return m, m.form.Init()
		}

	case tabRoutes:
		switch msg.String() {
		case "n":
			m.editRouteID = ""
			m.route = draftFromRoute(api.RouteConfig{})
			m.form = m.routeForm()
			return m, m.form.Init()
		case "e":
			if route, ok := m.selectedRoute(); ok {
				m.editRouteID = route.ID
				m.route = draftFromRoute(route.RouteConfig)
				m.form = m.routeForm()
				return m, m.form.Init()
			}
			return m, nil
		case "d":
			if route, ok := m.selectedRoute(); ok {
				m.busy = true
				deps, projectID, routeID := m.deps, m.projectID, route.ID
				return m, func() tea.Msg {
					return projectActionMsg{err: deps.API.DeleteProjectRoute(context.Background(), projectID, routeID)}
				}
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.routeTable, cmd = m.routeTable.Update(msg)
		return m, cmd

	case tabUsers:
		switch msg.String() {
		case "n":
			m.user = &userDraft{}
			m.form = huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Email").Value(&m.user.Email),
				huh.NewInput().Title("Roles (comma separated)").Value(&m.user.Roles),
			)).WithTheme(huh.ThemeBase16())
			return m, m.form.Init()
		case "e":
			if user, ok := m.selectedUser(); ok {
				m.editUserID = user.ID
				roles := strings.Join(user.Roles, ",")
				m.editingRoles = &roles
				m.form = huh.NewForm(huh.NewGroup(
					huh.NewInput().Title("Roles (comma separated)").Value(m.editingRoles),
				)).WithTheme(huh.ThemeBase16())
				return m, m.form.Init()
			}
			return m, nil
		case "d":
			if user, ok := m.selectedUser(); ok {
				m.busy = true
				deps, projectID, userID := m.deps, m.projectID, user.ID
				return m, func() tea.Msg {
					return projectActionMsg{err: deps.API.RemoveProjectUser(context.Background(), projectID, userID)}
				}
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.userTable, cmd = m.userTable.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ProjectModel) routeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Path").Description("Incoming path prefix").Value(&m.route.Path),
			huh.NewInput().Title("Target URL").Value(&m.route.TargetURL),
			huh.NewInput().Title("Required roles (comma separated)").Value(&m.route.Roles),
			huh.NewInput().Title("Cache TTL").Description("e.g. 30s, empty to disable").Value(&m.route.CacheTTL),
		),
		huh.NewGroup(
			huh.NewInput().Title("Rate limit (requests)").Value(&m.route.RateLimit),
			huh.NewInput().Title("Rate window").Description("e.g. 1m").Value(&m.route.RateWindow),
			huh.NewInput().Title("Circuit breaker threshold").Value(&m.route.FailureThreshold),
			huh.NewInput().Title("Circuit breaker open timeout").Value(&m.route.OpenTimeout),
		),
	).WithTheme(huh.ThemeBase16())
}

func (m ProjectModel) updateForm(msg tea.Msg) (ProjectModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.clearForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	deps, projectID := m.deps, m.projectID
	var action tea.Cmd
	switch {
	case m.settings != nil:
		settings := *m.settings
		action = func() tea.Msg {
			return projectActionMsg{err: deps.API.UpdateProjectSettings(context.Background(), projectID, settings)}
		}

	case m.route != nil:
		config := m.route.toConfig()
		routeID := m.editRouteID
		action = func() tea.Msg {
			if routeID == "" {
				_, err := deps.API.CreateProjectRoute(context.Background(), projectID, config)
				return projectActionMsg{err: err}
			}
			return projectActionMsg{err: deps.API.UpdateProjectRoute(context.Background(), projectID, routeID, config)}
		}

	case m.user != nil:
		email := m.user.Email
		roles := splitRoles(m.user.Roles)
		action = func() tea.Msg {
			_, err := deps.API.AddProjectUser(context.Background(), projectID, email, roles)
			return projectActionMsg{err: err}
		}

	case m.editingRoles != nil:
		userID := m.editUserID
		roles := splitRoles(*m.editingRoles)
		action = func() tea.Msg {
			return projectActionMsg{err: deps.API.UpdateProjectUserRoles(context.Background(), projectID, userID, roles)}
		}
	}

	m.clearForm()
	m.busy = true
	return m, action
}

func (m *ProjectModel) clearForm() {
	m.form = nil
	m.settings = nil
	m.route = nil
	m.user = nil
	m.editingRoles = nil
	m.editRouteID = ""
	m.editUserID = ""
}

func (m ProjectModel) selectedRoute() (api.ProxyRoute, bool) {
	cursor := m.routeTable.Cursor()
	if cursor < 0 || cursor >= len(m.routes) {
		return api.ProxyRoute{}, false
	}
	return m.routes[cursor], true
}

func (m ProjectModel) selectedUser() (api.ProjectUser, bool) {
	cursor := m.userTable.Cursor()
	if cursor < 0 || cursor >= len(m.users) {
		return api.ProjectUser{}, false
	}
	return m.users[cursor], true
}

func splitRoles(raw string) []string {
	var roles []string
	for _, role := range strings.Split(raw, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

func (m ProjectModel) View() string {
	title := "PROJECT"
	if m.details != nil {
		title = "PROJECT · " + m.details.Name
	}

	if m.form != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleHeader.Render(title),
			StyleCard.Render(m.form.View()),
			StyleKey.Render("enter save · esc cancel"),
		)
	}

	lines := []string{StyleHeader.Render(title), m.tabBar()}

	switch {
	case !m.loaded:
		lines = append(lines, StyleSubtitle.Render("Loading project..."))
	case m.tab == tabSettings:
		lines = append(lines, m.settingsView())
	case m.tab == tabRoutes:
		lines = append(lines, StyleCard.Render(m.routeTable.View()),
			StyleKey.Render("n new · e edit · d delete"))
	case m.tab == tabUsers:
		lines = append(lines, StyleCard.Render(m.userTable.View()),
			StyleKey.Render("n add · e roles · d remove"))
	}

	if m.errMsg != "" {
		lines = append(lines, StyleError.Render(m.errMsg))
	}
	if m.busy {
		lines = append(lines, StyleSubtitle.Render("Working..."))
	}
	lines = append(lines, StyleKey.Render("tab switch · r refresh · esc dashboard"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m ProjectModel) tabBar() string {
	labels := []string{"[1] Settings", "[2] Routes", "[3] Users"}
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		if projectTab(i) == m.tab {
			parts = append(parts, StyleBadge.Render(label))
		} else {
			parts = append(parts, StyleKey.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, " "))
}

func (m ProjectModel) settingsView() string {
	if m.details == nil {
		return StyleSubtitle.Render("No project details")
	}
	onOff := func(v bool) string {
		if v {
			return StyleSuccess.Render("on")
		}
		return StyleSubtitle.Render("off")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left,
			StyleTitle.Render("Gateway Settings"),
			"2FA required:  "+onOff(m.details.Settings.OTPRequired),
			"Force 2FA:     "+onOff(m.details.Settings.Force2FA),
		)),
		StyleKey.Render("e edit"),
	)
}
