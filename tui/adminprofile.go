package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/athena-gateway/console/api"
	"github.com/athena-gateway/console/internal/utils"
	"github.com/athena-gateway/console/otpflow"
	"github.com/athena-gateway/console/routing"
	"github.com/athena-gateway/console/scope"
)

type adminProfileLoadedMsg struct {
	profile *api.OTPProfile
	err     error
}

// AdminProfileModel manages the global admin 2FA credential. Everything here
// runs outside any project scope.
type AdminProfileModel struct {
	deps   Deps
	global api.GlobalOTP

	profile *api.OTPProfile
	loaded  bool
	busy    bool
	errMsg  string

	setup   *otpflow.Setup
	code    textinput.Model
	disable *otpflow.Disable
	disForm *huh.Form
	disCode *string
	disOK   *bool
}

func NewAdminProfileModel(deps Deps) AdminProfileModel {
	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.Prompt = StyleInputPrompt.Render("> ")
	code.CharLimit = 6

	global := api.GlobalOTP{Client: deps.API, Scopes: deps.Scopes}
	return AdminProfileModel{
		deps:   deps,
		global: global,
		setup:  otpflow.NewSetup(global, deps.Sessions),
		code:   code,
	}
}

// Init drops the project scope and loads the admin 2FA status.
func (m AdminProfileModel) Init() tea.Cmd {
	deps, global := m.deps, m.global
	return func() tea.Msg {
		deps.Scopes.Set(scope.None)
		profile, err := global.Profile(context.Background())
		return adminProfileLoadedMsg{profile: profile, err: err}
	}
}

func (m AdminProfileModel) Update(msg tea.Msg) (AdminProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminProfileLoadedMsg:
		m.loaded = true
		m.busy = false
		if msg.err != nil {
			m.errMsg = api.ErrorMessage(msg.err, "could not load admin profile")
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
			m.busy = true
			return m, m.Init()
		}
		return m, nil

	case otpDisabledMsg:
		m.busy = false
		if msg.retry {
			return m, nil
		}
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

func (m AdminProfileModel) updateKeys(msg tea.KeyMsg) (AdminProfileModel, tea.Cmd) {
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
			m.disable = otpflow.NewDisable(m.global)
			m.disCode = utils.Ptr("")
			m.disOK = utils.Ptr(false)
			m.disForm = huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Current admin 2FA code").Value(m.disCode),
				huh.NewConfirm().Title("Really disable admin 2FA?").Value(m.disOK),
			)).WithTheme(huh.ThemeBase16())
			return m, m.disForm.Init()
		}
	}
	return m, nil
}

func (m AdminProfileModel) updateDisableForm(msg tea.Msg) (AdminProfileModel, tea.Cmd) {
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

func (m AdminProfileModel) View() string {
	lines := []string{StyleHeader.Render("ADMIN PROFILE")}

	switch {
	case !m.loaded:
		lines = append(lines, StyleSubtitle.Render("Loading..."))
	case m.profile != nil:
		status := StyleSubtitle.Render("disabled")
		if m.profile.OTPEnabled {
			status = StyleSuccess.Render("enabled")
		}
		lines = append(lines, StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left,
			StyleTitle.Render("Global Admin 2FA"),
			"Email:  "+m.profile.Email,
			"2FA:    "+status,
		)))
		lines = append(lines, m.otpSection())
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
	if m.busy {
		lines = append(lines, StyleSubtitle.Render("Working..."))
	}
	lines = append(lines, StyleKey.Render("esc dashboard"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m AdminProfileModel) otpSection() string {
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
		return StyleSuccess.Render("Admin 2FA enabled")
	default:
		if m.profile.OTPEnabled {
			return StyleKey.Render("d disable 2FA")
		}
		return StyleKey.Render("s set up 2FA")
	}
}
