package flow

import (
	"go.uber.org/zap"

	"github.com/evanli/vaultkeep/internal/models"
)

// LoginState identifies the phase of the login form.
type LoginState int

const (
	// CollectingCredentials is the single combined username/password step.
	CollectingCredentials LoginState = iota + 1
	// LoginComplete is the terminal state after a successful authentication.
	LoginComplete
)

// Login drives the single-step login form. Unlike onboarding it validates
// presence only: login checks an existing credential, it does not re-impose
// the creation-time strength rules.
type Login struct {
	state      LoginState
	username   string
	password   string
	errMsg     string
	submitting bool
	log        *zap.Logger
}

// NewLogin returns a login form collecting credentials. log may be nil.
func NewLogin(log *zap.Logger) *Login {
	if log == nil {
		log = zap.NewNop()
	}
	return &Login{state: CollectingCredentials, log: log}
}

// State returns the current login phase.
func (l *Login) State() LoginState { return l.state }

// Err returns the current validation message, or "" when there is none.
func (l *Login) Err() string { return l.errMsg }

// Submitting reports whether an authentication call is in flight.
func (l *Login) Submitting() bool { return l.submitting }

// Username returns the current username field value.
func (l *Login) Username() string { return l.username }

// Password returns the current master-password field value.
func (l *Login) Password() string { return l.password }

// SetUsername records a keystroke-level change to the username field.
func (l *Login) SetUsername(v string) { l.username = v }

// SetPassword records a keystroke-level change to the password field.
func (l *Login) SetPassword(v string) { l.password = v }

// Submit validates that both fields are present and, if so, hands the
// credential pair to the caller and enters the submitting sub-state.
// The messages distinguish which field is missing; the username is checked
// first when both are empty.
func (l *Login) Submit() (models.VaultAccount, bool) {
	if l.state != CollectingCredentials || l.submitting {
		return models.VaultAccount{}, false
	}
	if l.username == "" {
		l.errMsg = MsgUsernameRequired
		return models.VaultAccount{}, false
	}
	if l.password == "" {
		l.errMsg = MsgPasswordRequired
		return models.VaultAccount{}, false
	}
	l.errMsg = ""
	l.submitting = true
	return models.VaultAccount{Username: l.username, MasterPassword: l.password}, true
}

// Resolve applies the outcome of the login collaborator. err reports a
// transport-level failure; authenticated reports the backend's verdict when
// the call went through. Either failure returns the form to
// CollectingCredentials with a message; success completes it. Resolve is a
// no-op unless a submission is in flight, so a resolution arriving after
// the form was torn down is discarded.
func (l *Login) Resolve(authenticated bool, err error) {
	if !l.submitting {
		l.log.Debug("login resolution with no submission in flight")
		return
	}
	l.submitting = false
	if err != nil {
		l.errMsg = MsgServerUnreachable
		return
	}
	if !authenticated {
		l.errMsg = MsgInvalidLogin
		return
	}
	l.errMsg = ""
	l.state = LoginComplete
}
