package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/athena-gateway/console/api"
	"github.com/athena-gateway/console/routing"
	"github.com/athena-gateway/console/scope"
	"github.com/athena-gateway/console/session"
)

// Deps bundles the stores, gateway client and navigator every screen needs.
type Deps struct {
	API      *api.Client
	Sessions *session.Store
	Scopes   *scope.Store
	Nav      *routing.Navigator
}

// NavigateMsg is sent by the navigator's render callback when the guard
// settles on a screen. The app swaps the active screen model in response.
type NavigateMsg struct {
	Screen routing.Screen
	Param  string
}

// App is the root model. It owns the active screen and rebuilds the screen
// model on every navigation, so screens always mount with fresh state.
type App struct {
	Deps Deps

	Active  routing.Screen
	mounted bool

	Width  int
	Height int

	Login        LoginModel
	Register     RegisterModel
	Dashboard    DashboardModel
	Project      ProjectModel
	Profile      ProfileModel
	AdminProfile AdminProfileModel
}

func NewApp(deps Deps) App {
	return App{Deps: deps}
}

// Init kicks off the navigator. Its render callback posts NavigateMsg back
// into the program, so the first screen arrives as a regular message.
func (a App) Init() tea.Cmd {
	return func() tea.Msg {
		a.Deps.Nav.Start()
		return nil
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.Width = msg.Width
		a.Height = msg.Height

	case NavigateMsg:
		return a.mount(msg)
	}

	return a.delegate(msg)
}

// mount replaces the active screen with a fresh model for the target screen.
func (a App) mount(msg NavigateMsg) (tea.Model, tea.Cmd) {
	a.Active = msg.Screen
	a.mounted = true

	var cmd tea.Cmd
	switch msg.Screen {
	case routing.ScreenLogin:
		a.Login = NewLoginModel(a.Deps)
		cmd = a.Login.Init()
	case routing.ScreenRegister:
		a.Register = NewRegisterModel(a.Deps)
		cmd = a.Register.Init()
	case routing.ScreenDashboard:
		a.Dashboard = NewDashboardModel(a.Deps)
		cmd = a.Dashboard.Init()
	case routing.ScreenProjectDetail:
		a.Project = NewProjectModel(a.Deps, msg.Param)
		cmd = a.Project.Init()
	case routing.ScreenProfile:
		a.Profile = NewProfileModel(a.Deps)
		cmd = a.Profile.Init()
	case routing.ScreenAdminProfile:
		a.AdminProfile = NewAdminProfileModel(a.Deps)
		cmd = a.AdminProfile.Init()
	}
	return a, cmd
}

func (a App) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !a.mounted {
		return a, nil
	}

	var cmd tea.Cmd
	switch a.Active {
	case routing.ScreenLogin:
		a.Login, cmd = a.Login.Update(msg)
	case routing.ScreenRegister:
		a.Register, cmd = a.Register.Update(msg)
	case routing.ScreenDashboard:
		a.Dashboard, cmd = a.Dashboard.Update(msg)
	case routing.ScreenProjectDetail:
		a.Project, cmd = a.Project.Update(msg)
	case routing.ScreenProfile:
		a.Profile, cmd = a.Profile.Update(msg)
	case routing.ScreenAdminProfile:
		a.AdminProfile, cmd = a.AdminProfile.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if !a.mounted {
		return StyleApp.Render(StyleSubtitle.Render("Starting console..."))
	}

	var body string
	switch a.Active {
	case routing.ScreenLogin:
		body = a.Login.View()
	case routing.ScreenRegister:
		body = a.Register.View()
	case routing.ScreenDashboard:
		body = a.Dashboard.View()
	case routing.ScreenProjectDetail:
		body = a.Project.View()
	case routing.ScreenProfile:
		body = a.Profile.View()
	case routing.ScreenAdminProfile:
		body = a.AdminProfile.View()
	}

	return StyleApp.Render(a.statusBar() + "\n" + body)
}

func (a App) statusBar() string {
	parts := []string{StyleBadge.Render("ATHENA CONSOLE")}

	state := a.Deps.Sessions.State()
	if state.Authenticated() {
		parts = append(parts, StyleSubtitle.Render("user "+state.UserID()))
		if state.Admin() {
			parts = append(parts, StyleTitle.Render("admin"))
		}
		if project := a.Deps.Scopes.Get(); project != scope.None {
			parts = append(parts, StyleKey.Render("project "+project))
		}
		if state.Grace() {
			parts = append(parts, StyleNotice.Render("2FA setup required"))
		}
	}

	bar := parts[0]
	for _, p := range parts[1:] {
		bar = lipgloss.JoinHorizontal(lipgloss.Top, bar, "  ", p)
	}
	return StyleStatusBar.Render(bar)
}

// navigate runs a fragment change off the update loop. The navigator's render
// callback feeds the resulting screen back in as a NavigateMsg.
func navigate(nav *routing.Navigator, fragment string) tea.Cmd {
	return func() tea.Msg {
		nav.Go(fragment)
		return nil
	}
}
