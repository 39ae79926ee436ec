package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/athena-gateway/console/api"
	conerrors "github.com/athena-gateway/console/internal/errors"
	"github.com/athena-gateway/console/internal/utils"
	"github.com/athena-gateway/console/otpflow"
	"github.com/athena-gateway/console/routing"
	"github.com/athena-gateway/console/scope"
)

type profileLoadedMsg struct {
	profile   *api.Profile
	noProject bool
	err       error
}

type otpStepMsg struct{}

type otpDisabledMsg struct {
	retry bool
}

// ProfileModel shows the caller's profile within the active project and
// manages per-project 2FA enrollment. When no project is active it adopts
// the first project the user belongs to.
type ProfileModel struct {
	deps Deps

	profile   *api.Profile
	noProject bool
	loaded    bool
	busy      bool
	errMsg    string

	setup    *otpflow.Setup
	code     textinput.Model
	disable  *otpflow.Disable
	disForm  *huh.Form
	disCode  *string
	disOK    *bool
	disabled bool
}

func NewProfileModel(deps Deps) ProfileModel {
	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.Prompt = StyleInputPrompt.Render("> ")
	code.CharLimit = 6

	return ProfileModel{
		deps:  deps,
		setup: otpflow.NewSetup(api.ProjectOTP{Client: deps.API}, deps.Sessions),
		code:  code,
	}
}

// Init resolves a project scope if none is active, then loads the profile.
func (m ProfileModel) Init() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		if deps.Scopes.Get() == scope.None {
			projects, err := deps.API.Projects(context.Background())
			if err != nil {
				return profileLoadedMsg{err: err}
			}
			if len(projects) == 0 {
				return profileLoadedMsg{noProject: true}
			}
			deps.Scopes.Set(projects[0].ID)
		}

		profile, err := deps.API.MyProfile(context.Background())
		if err != nil {
			if conerrors.Is(err, conerrors.ErrMissingScope) {
				return profileLoadedMsg{noProject: true}
			}
			return profileLoadedMsg{err: err}
		}
		return profileLoadedMsg{profile: profile}
	}
}

func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loaded = true
		m.busy = false
		m.noProject = msg.noProject
		if msg.err != nil {
			m.errMsg = api.ErrorMessage(msg.err, "could not load profile")
			return m, nil
		}
		m.errMsg = ""
		m.profile = msg.profile
		return m, nil

	case otpStepMsg:
		m.busy = false
		if m.setup.State() == otpflow.SetupAwaitingVerification {
			m.code.Focus()
		}
		if m.setup.State() == otpflow.SetupEnabled {
			// Enrollment re-authenticated the session; refresh the profile
			// so the enabled flag reflects the server.
			m.busy = true
			return m, m.Init()
		}
		return m, nil

	case otpDisabledMsg:
		m.busy = false
		if msg.retry {
			return m, nil
		}
		m.disabled = true
		m.busy = true
		return m, m.Init()

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.disForm != nil {
			return m.updateDisableForm(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m ProfileModel) updateKeys(msg tea.KeyMsg) (ProfileModel, tea.Cmd) {
	if m.setup.State() == otpflow.SetupAwaitingVerification {
		switch msg.String() {
		case "enter":
			code := m.code.Value()
			if code == "" {
				return m, nil
			}
			m.busy = true
			setup := m.setup
			return m, func() tea.Msg {
				_ = setup.Verify(context.Background(), code)
				return otpStepMsg{}
			}
		default:
			var cmd tea.Cmd
			m.code, cmd = m.code.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "esc":
		return m, navigate(m.deps.Nav, routing.FragmentDashboard)
	case "s":
		if m.profile != nil && !m.profile.OTPEnabled {
			m.busy = true
			setup := m.setup
			return m, func() tea.Msg {
				_ = setup.Begin(context.Background())
				return otpStepMsg{}
			}
		}
	case "d":
		if m.profile != nil && m.profile.OTPEnabled {
			m.disable = otpflow.NewDisable(api.ProjectOTP{Client: m.deps.API})
			m.disCode = utils.Ptr("")
			m.disOK = utils.Ptr(false)
			m.disForm = huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Current 2FA code").Value(m.disCode),
				huh.NewConfirm().Title("Really disable 2FA?").Value(m.disOK),
			)).WithTheme(huh.ThemeBase16())
			return m, m.disForm.Init()
		}
	}
	return m, nil
}

func (m ProfileModel) updateDisableForm(msg tea.Msg) (ProfileModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.disForm = nil
		return m, nil
	}

	form, cmd := m.disForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.disForm = f
	}
	if m.disForm.State != huh.StateCompleted {
		return m, cmd
	}

	code, confirmed := *m.disCode, *m.disOK
	disable := m.disable
	m.disForm = nil
	m.busy = true
	return m, func() tea.Msg {
		err := disable.Submit(context.Background(), code, confirmed)
		return otpDisabledMsg{retry: err != nil}
	}
}

func (m ProfileModel) View() string {
	lines := []string{StyleHeader.Render("PROFILE")}

	if m.deps.Sessions.Grace() {
		lines = append(lines, StyleNoticeCard.Render(lipgloss.JoinVertical(lipgloss.Left,
			StyleNotice.Render("2FA enrollment required"),
			"This account must set up two-factor authentication before",
			"using the rest of the console.",
		)))
	}

	switch {
	case !m.loaded:
		lines = append(lines, StyleSubtitle.Render("Loading profile..."))
	case m.noProject:
		lines = append(lines, StyleCard.Render(
			StyleSubtitle.Render("You are not a member of any project yet.")))
	case m.profile != nil:
		lines = append(lines, m.profileCard(), m.otpSection())
	}

	if m.disForm != nil {
		lines = append(lines, StyleCard.Render(m.disForm.View()))
	}
	if m.errMsg != "" {
		lines = append(lines, StyleError.Render(m.errMsg))
	}
	if msg := m.setup.Message(); msg != "" {
		lines = append(lines, StyleError.Render(msg))
	}
	if m.disable != nil && m.disable.Message() != "" && !m.disable.Done() {
		lines = append(lines, StyleError.Render(m.disable.Message()))
	}
	if m.disabled {
		lines = append(lines, StyleSuccess.Render("2FA disabled"))
	}
	if m.busy {
		lines = append(lines, StyleSubtitle.Render("Working..."))
	}
	lines = append(lines, StyleKey.Render("esc dashboard"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m ProfileModel) profileCard() string {
	status := StyleSubtitle.Render("disabled")
	if m.profile.OTPEnabled {
		status = StyleSuccess.Render("enabled")
	}
	return StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left,
		StyleTitle.Render("Account"),
		"Email:  "+m.profile.Email,
		"Roles:  "+rolesLine(m.profile.Roles),
		"2FA:    "+status,
	))
}

func (m ProfileModel) otpSection() string {
	switch m.setup.State() {
	case otpflow.SetupAwaitingVerification:
		details := m.setup.Details()
		return StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left,
			StyleTitle.Render("Enroll Authenticator"),
			"Secret:  "+details.Secret,
			"URL:     "+details.AuthURL,
			StyleSubtitle.Render("Add the secret to your authenticator, then enter a code:"),
			m.code.View(),
		))
	case otpflow.SetupEnabled:
		return StyleSuccess.Render("2FA enabled")
	default:
		if m.profile.OTPEnabled {
			return StyleKey.Render("d disable 2FA")
		}
		return StyleKey.Render("s set up 2FA")
	}
}

func rolesLine(roles []string) string {
	if len(roles) == 0 {
		return StyleSubtitle.Render("none")
	}
	out := roles[0]
	for _, r := range roles[1:] {
		out += ", " + r
	}
	return out
}
