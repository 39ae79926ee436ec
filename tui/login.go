package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/athena-gateway/console/authflow"
	"github.com/athena-gateway/console/routing"
)

// loginStepMsg signals that a login flow call finished. The model re-reads
// the flow's stage and message rather than carrying state in the message.
type loginStepMsg struct{}

// LoginModel drives the multi-step sign-in: credentials first, then an OTP
// challenge when the gateway asks for one.
type LoginModel struct {
	deps Deps
	flow *authflow.Login

	email    textinput.Model
	password textinput.Model
	code     textinput.Model
	focus    int
	busy     bool
}

func NewLoginModel(deps Deps) LoginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = StyleInputPrompt.Render("> ")
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = StyleInputPrompt.Render("> ")
	password.EchoMode = textinput.EchoPassword

	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.Prompt = StyleInputPrompt.Render("> ")
	code.CharLimit = 6

	return LoginModel{
		deps:     deps,
		flow:     authflow.NewLogin(deps.API, deps.Sessions, deps.Scopes),
		email:    email,
		password: password,
		code:     code,
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginStepMsg:
		m.busy = false
		if m.flow.Stage() != authflow.StageCredentials {
			m.code.SetValue("")
			m.code.Focus()
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.flow.Stage() == authflow.StageCredentials {
			return m.updateCredentials(msg)
		}
		return m.updateChallenge(msg)
	}

	return m.updateInputs(msg)
}

func (m LoginModel) updateCredentials(msg tea.KeyMsg) (LoginModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.focus = (m.focus + 1) % 2
		if m.focus == 0 {
			m.email.Focus()
			m.password.Blur()
		} else {
			m.email.Blur()
			m.password.Focus()
		}
		return m, nil

	case "enter":
		email, password := m.email.Value(), m.password.Value()
		if email == "" || password == "" {
			return m, nil
		}
		m.busy = true
		flow := m.flow
		return m, func() tea.Msg {
			_ = flow.SubmitCredentials(context.Background(), email, password)
			return loginStepMsg{}
		}

	case "ctrl+r":
		return m, navigate(m.deps.Nav, routing.FragmentRegister)
	}

	return m.updateInputs(msg)
}

func (m LoginModel) updateChallenge(msg tea.KeyMsg) (LoginModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.flow.Cancel()
		m.code.Blur()
		m.focus = 0
		m.email.Focus()
		m.password.Blur()
		return m, nil

	case "enter":
		code := m.code.Value()
		if code == "" {
			return m, nil
		}
		m.busy = true
		flow := m.flow
		return m, func() tea.Msg {
			_ = flow.SubmitCode(context.Background(), code)
			return loginStepMsg{}
		}
	}

	return m.updateInputs(msg)
}

func (m LoginModel) updateInputs(msg tea.Msg) (LoginModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	m.code, cmd = m.code.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m LoginModel) View() string {
	var card string
	switch m.flow.Stage() {
	case authflow.StageCredentials:
		card = StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left,
			StyleTitle.Render("Sign In"),
			m.email.View(),
			m.password.View(),
		))
	case authflow.StageAdminOTP:
		card = StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left,
			StyleTitle.Render("Admin 2FA"),
			StyleSubtitle.Render("Enter the code from your authenticator app"),
			m.code.View(),
		))
	case authflow.StageProjectOTP:
		card = StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left,
			StyleTitle.Render("Project 2FA"),
			StyleSubtitle.Render("This project requires a one-time code"),
			m.code.View(),
		))
	default:
		card = StyleSubtitle.Render("Signing in...")
	}

	lines := []string{StyleHeader.Render("SIGN IN"), card}
	if msg := m.flow.Message(); msg != "" {
		lines = append(lines, StyleError.Render(msg))
	}
	if m.busy {
		lines = append(lines, StyleSubtitle.Render("Contacting gateway..."))
	}
	lines = append(lines, StyleKey.Render("enter submit · tab switch field · ctrl+r register · esc back · ctrl+c quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
