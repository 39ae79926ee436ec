package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/athena-gateway/console/api"
	"github.com/athena-gateway/console/internal/utils"
	"github.com/athena-gateway/console/routing"
)

type projectsLoadedMsg struct {
	projects []api.Project
	err      error
}

type projectCreatedMsg struct {
	err error
}

type projectItem struct {
	project api.Project
}

func (i projectItem) Title() string       { return i.project.Name }
func (i projectItem) Description() string { return i.project.ID }
func (i projectItem) FilterValue() string { return i.project.Name }

// DashboardModel lists the projects the user can manage and lets admins
// create new ones.
type DashboardModel struct {
	deps Deps

	list     list.Model
	creating bool
	form     *huh.Form
	newName  *string
	errMsg   string
	loaded   bool
}

func NewDashboardModel(deps Deps) DashboardModel {
	l := list.New(nil, list.NewDefaultDelegate(), 60, 16)
	l.Title = "Projects"
	l.Styles.Title = StyleTitle
	l.SetShowHelp(false)

	return DashboardModel{deps: deps, list: l}
}

func (m DashboardModel) Init() tea.Cmd {
	client := m.deps.API
	return func() tea.Msg {
		projects, err := client.Projects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.errMsg = api.ErrorMessage(msg.err, "could not load projects")
			return m, nil
		}
		m.errMsg = ""
		items := make([]list.Item, 0, len(msg.projects))
		for _, p := range msg.projects {
			items = append(items, projectItem{project: p})
		}
		return m, m.list.SetItems(items)

	case projectCreatedMsg:
		m.creating = false
		m.form = nil
		if msg.err != nil {
			m.errMsg = api.ErrorMessage(msg.err, "could not create project")
			return m, nil
		}
		return m, m.Init()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-8, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		if m.creating {
			return m.updateCreateForm(msg)
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(projectItem); ok {
				return m, navigate(m.deps.Nav, routing.ProjectFragment(item.project.ID))
			}
			return m, nil
		case "n":
			m.creating = true
			// The form writes through a heap pointer so the value survives
			// model copies between updates.
			m.newName = utils.Ptr("")
			m.form = huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Project name").Value(m.newName),
			)).WithTheme(huh.ThemeBase16())
			return m, m.form.Init()
		case "p":
			return m, navigate(m.deps.Nav, routing.FragmentProfile)
		case "a":
			return m, navigate(m.deps.Nav, routing.FragmentAdminProfile)
		case "ctrl+l":
			sessions := m.deps.Sessions
			return m, func() tea.Msg {
				sessions.Clear()
				return nil
			}
		case "r":
			return m, m.Init()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m DashboardModel) updateCreateForm(msg tea.Msg) (DashboardModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.creating = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		name := *m.newName
		m.creating = false
		m.form = nil
		if name == "" {
			return m, nil
		}
		client := m.deps.API
		return m, func() tea.Msg {
			_, err := client.CreateProject(context.Background(), name)
			return projectCreatedMsg{err: err}
		}
	}

	return m, cmd
}

func (m DashboardModel) View() string {
	if m.creating && m.form != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleHeader.Render("NEW PROJECT"),
			StyleCard.Render(m.form.View()),
			StyleKey.Render("enter save · esc cancel"),
		)
	}

	lines := []string{StyleHeader.Render("DASHBOARD")}
	if !m.loaded {
		lines = append(lines, StyleSubtitle.Render("Loading projects..."))
	} else {
		lines = append(lines, StyleCard.Render(m.list.View()))
	}
	if m.errMsg != "" {
		lines = append(lines, StyleError.Render(m.errMsg))
	}

	hints := "enter open · n new project · p profile · r refresh · ctrl+l sign out"
	if m.deps.Sessions.Admin() {
		hints += " · a admin profile"
	}
	lines = append(lines, StyleKey.Render(hints))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
