package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/evanli/vaultkeep/internal/flow"
	"github.com/evanli/vaultkeep/internal/strength"
)

// accountCreatedMsg carries the outcome of the account-creation call back
// onto the event loop.
type accountCreatedMsg struct{ err error }

// onboardingModel renders the two-step account wizard on top of the
// flow.Onboarding state machine. The machine decides; the model only
// collects keystrokes and draws.
type onboardingModel struct {
	wizard   *flow.Onboarding
	username textinput.Model
	password textinput.Model
	backend  AccountCreator
	log      *zap.Logger
}

func newOnboardingModel(backend AccountCreator, log *zap.Logger) onboardingModel {
	username := textinput.New()
	username.Placeholder = "Choose a username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Create your master password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return onboardingModel{
		wizard:   flow.NewOnboarding(log),
		username: username,
		password: password,
		backend:  backend,
		log:      log,
	}
}

func (m onboardingModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m onboardingModel) Update(msg tea.Msg) (onboardingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountCreatedMsg:
		m.wizard.Resolve(msg.err)
		if m.wizard.State() == flow.OnboardingComplete {
			username := m.wizard.Username()
			return m, func() tea.Msg { return sessionStartedMsg{username: username} }
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+l":
			// "I already have an account"
			return m, func() tea.Msg { return gotoLoginMsg{} }

		case "ctrl+v":
			if m.password.EchoMode == textinput.EchoPassword {
				m.password.EchoMode = textinput.EchoNormal
			} else {
				m.password.EchoMode = textinput.EchoPassword
			}
			return m, nil

		case "enter":
			if m.wizard.State() == flow.CollectingUsername {
				if m.wizard.Advance() {
					m.username.Blur()
					return m, m.password.Focus()
				}
				return m, nil
			}
			cred, ok := m.wizard.Submit()
			if !ok {
				return m, nil
			}
			backend := m.backend
			return m, func() tea.Msg {
				err := backend.CreateAccount(context.Background(), cred.Username, cred.MasterPassword)
				return accountCreatedMsg{err: err}
			}
		}
	}

	// Route remaining input to the focused field and feed the new value
	// into the machine so the checklists recompute per keystroke.
	var cmd tea.Cmd
	if m.wizard.State() == flow.CollectingUsername {
		m.username, cmd = m.username.Update(msg)
		m.wizard.SetUsername(m.username.Value())
	} else {
		m.password, cmd = m.password.Update(msg)
		m.wizard.SetPassword(m.password.Value())
	}
	return m, cmd
}

func (m onboardingModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Welcome to Vault!") + "\n")
	b.WriteString(subtitleStyle.Render("Create your account to get started") + "\n\n")

	b.WriteString(labelStyle.Render("Username") + "\n")
	b.WriteString(m.username.View() + "\n")
	uc := m.wizard.UsernameCriteria()
	b.WriteString(checklistLine(uc.Length, "Username must be at least 4 characters") + "\n")
	b.WriteString(checklistLine(uc.LegalChars, "Username must only contain letters and numbers") + "\n")

	if m.wizard.State() != flow.CollectingUsername {
		b.WriteString("\n" + labelStyle.Render("Master Password") + "\n")
		b.WriteString(m.password.View() + "\n")
		pc := m.wizard.PasswordCriteria()
		b.WriteString(checklistLine(pc.Length, "Password must be at least 8 characters") + "\n")
		b.WriteString(checklistLine(pc.Uppercase, "Password must have at least one uppercase letter") + "\n")
		b.WriteString(checklistLine(pc.Symbol, "Password must have at least one symbol") + "\n")
		b.WriteString(checklistLine(pc.Number, "Password must have at least one number") + "\n")

		res := strength.Evaluate(m.wizard.Password())
		b.WriteString("\nStrength: " + strengthStyles[res.Score].Render(string(res.Label)) + "\n")
	}

	if err := m.wizard.Err(); err != "" {
		b.WriteString("\n" + errorStyle.Render(err) + "\n")
	}
	if m.wizard.Submitting() {
		b.WriteString("\n" + subtitleStyle.Render("Creating account...") + "\n")
	}

	action := "continue"
	if m.wizard.State() != flow.CollectingUsername {
		action = "create account"
	}
	b.WriteString("\n" + helpStyle.Render("enter "+action+" · ctrl+v show/hide · ctrl+l log in instead · ctrl+c quit"))

	return boxStyle.Render(b.String())
}
