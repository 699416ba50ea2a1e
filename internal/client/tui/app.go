// Package tui implements the interactive terminal client: the onboarding
// wizard, the login form, and the single-page vault session. All state
// transitions run on the bubbletea event loop; the only asynchronous
// boundary is the auth backend, reached through tea commands whose results
// come back as messages.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/evanli/vaultkeep/internal/vault"
)

// AccountCreator is the account-creation collaborator consumed by the
// onboarding wizard.
type AccountCreator interface {
	CreateAccount(ctx context.Context, username, masterPassword string) error
}

// Authenticator is the login collaborator consumed by the login form.
type Authenticator interface {
	Authenticate(ctx context.Context, username, masterPassword string) (bool, error)
}

// Backend is the full auth collaborator surface the client needs.
type Backend interface {
	AccountCreator
	Authenticator
}

type screen int

const (
	screenOnboarding screen = iota
	screenLogin
	screenVault
)

// Messages that move the app between screens.
type (
	// sessionStartedMsg is emitted when either flow reaches Complete; it
	// carries the authenticated username into the vault session.
	sessionStartedMsg struct{ username string }
	gotoLoginMsg      struct{}
	gotoOnboardingMsg struct{}
)

// App is the root bubbletea model routing between screens.
type App struct {
	screen     screen
	onboarding onboardingModel
	login      loginModel
	vault      vaultModel
	backend    Backend
	log        *zap.Logger
	width      int
	height     int
}

// NewApp returns the root model, opening on the onboarding screen like the
// original client.
func NewApp(backend Backend, log *zap.Logger) App {
	if log == nil {
		log = zap.NewNop()
	}
	return App{
		screen:     screenOnboarding,
		onboarding: newOnboardingModel(backend, log),
		login:      newLoginModel(backend, log),
		backend:    backend,
		log:        log,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.onboarding.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case sessionStartedMsg:
		// The vault is volatile: a fresh session always starts from the
		// seeded state.
		a.vault = newVaultModel(vault.NewSeededStore(msg.username, a.log))
		a.screen = screenVault
		a.log.Info("vault session started", zap.String("username", msg.username))
		return a, nil

	case gotoLoginMsg:
		a.login = newLoginModel(a.backend, a.log)
		a.screen = screenLogin
		return a, a.login.Init()

	case gotoOnboardingMsg:
		a.onboarding = newOnboardingModel(a.backend, a.log)
		a.screen = screenOnboarding
		return a, a.onboarding.Init()
	}

	var cmd tea.Cmd
	switch a.screen {
	case screenOnboarding:
		a.onboarding, cmd = a.onboarding.Update(msg)
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
	case screenVault:
		a.vault, cmd = a.vault.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	switch a.screen {
	case screenLogin:
		return a.login.View()
	case screenVault:
		return a.vault.View()
	default:
		return a.onboarding.View()
	}
}
