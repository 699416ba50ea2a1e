package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/evanli/vaultkeep/internal/flow"
)

// loginResultMsg carries the login collaborator's resolution back onto
// the event loop.
type loginResultMsg struct {
	authenticated bool
	err           error
}

// loginModel renders the single-step login form on top of the flow.Login
// state machine. Both fields are visible at once; there is no step gate.
type loginModel struct {
	form     *flow.Login
	username textinput.Model
	password textinput.Model
	focused  int // 0 = username, 1 = password
	backend  Authenticator
	log      *zap.Logger
}

func newLoginModel(backend Authenticator, log *zap.Logger) loginModel {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Your master password - keep it safe!"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginModel{
		form:     flow.NewLogin(log),
		username: username,
		password: password,
		backend:  backend,
		log:      log,
	}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.form.Resolve(msg.authenticated, msg.err)
		if m.form.State() == flow.LoginComplete {
			username := m.form.Username()
			return m, func() tea.Msg { return sessionStartedMsg{username: username} }
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+l":
			return m, func() tea.Msg { return gotoOnboardingMsg{} }

		case "ctrl+v":
			if m.password.EchoMode == textinput.EchoPassword {
				m.password.EchoMode = textinput.EchoNormal
			} else {
				m.password.EchoMode = textinput.EchoPassword
			}
			return m, nil

		case "tab", "shift+tab":
			m.focused = 1 - m.focused
			if m.focused == 0 {
				m.password.Blur()
				return m, m.username.Focus()
			}
			m.username.Blur()
			return m, m.password.Focus()

		case "enter":
			cred, ok := m.form.Submit()
			if !ok {
				return m, nil
			}
			backend := m.backend
			return m, func() tea.Msg {
				authenticated, err := backend.Authenticate(context.Background(), cred.Username, cred.MasterPassword)
				return loginResultMsg{authenticated: authenticated, err: err}
			}
		}
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.username, cmd = m.username.Update(msg)
		m.form.SetUsername(m.username.Value())
	} else {
		m.password, cmd = m.password.Update(msg)
		m.form.SetPassword(m.password.Value())
	}
	return m, cmd
}

func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Vault Login") + "\n")
	b.WriteString(subtitleStyle.Render("Enter your credentials to unlock your vault") + "\n\n")

	b.WriteString(labelStyle.Render("Username") + "\n")
	b.WriteString(m.username.View() + "\n\n")
	b.WriteString(labelStyle.Render("Master Password") + "\n")
	b.WriteString(m.password.View() + "\n")

	if err := m.form.Err(); err != "" {
		b.WriteString("\n" + errorStyle.Render(err) + "\n")
	}
	if m.form.Submitting() {
		b.WriteString("\n" + subtitleStyle.Render("Unlocking vault...") + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("enter unlock · tab switch field · ctrl+v show/hide · ctrl+l create account · ctrl+c quit"))

	return boxStyle.Render(b.String())
}
