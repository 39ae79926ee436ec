package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/athena-gateway/console/api"
	"github.com/athena-gateway/console/authflow"
	"github.com/athena-gateway/console/routing"
)

type registerResultMsg struct {
	err error
}

// registerRedirectMsg fires after the post-signup pause and sends the user
// back to the sign-in screen.
type registerRedirectMsg struct{}

const registerRedirectDelay = 2 * time.Second

// RegisterModel collects the signup form. Passwords are validated locally
// before anything goes over the wire.
type RegisterModel struct {
	deps Deps
	flow *authflow.Registration

	inputs []textinput.Model
	focus  int
	busy   bool
	done   bool
	errMsg string
}

const (
	regEmail = iota
	regPassword
	regConfirm
	regSecret
)

func NewRegisterModel(deps Deps) RegisterModel {
	mk := func(placeholder string, secret bool) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Prompt = StyleInputPrompt.Render("> ")
		if secret {
			in.EchoMode = textinput.EchoPassword
		}
		return in
	}

	inputs := []textinput.Model{
		mk("email", false),
		mk("password", true),
		mk("confirm password", true),
		mk("registration secret", true),
	}
	inputs[regEmail].Focus()

	return RegisterModel{
		deps:   deps,
		flow:   authflow.NewRegistration(deps.API, deps.Scopes),
		inputs: inputs,
	}
}

func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = api.ErrorMessage(msg.err, msg.err.Error())
			return m, nil
		}
		m.done = true
		return m, tea.Tick(registerRedirectDelay, func(time.Time) tea.Msg {
			return registerRedirectMsg{}
		})

	case registerRedirectMsg:
		return m, navigate(m.deps.Nav, routing.FragmentLogin)

	case tea.KeyMsg:
		if m.busy || m.done {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.setFocus(m.focus + 1), nil
		case "shift+tab", "up":
			return m.setFocus(m.focus - 1), nil
		case "esc":
			return m, navigate(m.deps.Nav, routing.FragmentLogin)
		case "enter":
			return m.submit()
		}
	}

	return m.updateInputs(msg)
}

func (m RegisterModel) setFocus(focus int) RegisterModel {
	n := len(m.inputs)
	m.focus = ((focus % n) + n) % n
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m RegisterModel) submit() (RegisterModel, tea.Cmd) {
	email := m.inputs[regEmail].Value()
	password := m.inputs[regPassword].Value()
	confirm := m.inputs[regConfirm].Value()
	secret := m.inputs[regSecret].Value()
	if email == "" {
		return m, nil
	}

	m.busy = true
	m.errMsg = ""
	flow := m.flow
	return m, func() tea.Msg {
		return registerResultMsg{err: flow.Submit(context.Background(), email, password, confirm, secret)}
	}
}

func (m RegisterModel) updateInputs(msg tea.Msg) (RegisterModel, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m RegisterModel) View() string {
	if m.done {
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleHeader.Render("CREATE ACCOUNT"),
			StyleSuccess.Render("Account created. Redirecting to sign in..."),
		)
	}

	fields := make([]string, 0, len(m.inputs))
	for i := range m.inputs {
		fields = append(fields, m.inputs[i].View())
	}

	lines := []string{
		StyleHeader.Render("CREATE ACCOUNT"),
		StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left,
			append([]string{StyleTitle.Render("Sign Up")}, fields...)...)),
	}
	if m.errMsg != "" {
		lines = append(lines, StyleError.Render(m.errMsg))
	}
	if m.busy {
		lines = append(lines, StyleSubtitle.Render("Submitting..."))
	}
	lines = append(lines, StyleKey.Render("enter submit · tab next field · esc back to sign in"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
