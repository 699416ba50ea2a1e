// Package flow holds the validation state machines that gate the onboarding
// wizard and the login form. The machines own no I/O: the caller runs the
// collaborator call after a successful Submit and feeds the outcome back
// through Resolve, so an in-flight call that outlives the form is safely
// discarded.
package flow

import (
	"errors"

	"go.uber.org/zap"

	"github.com/evanli/vaultkeep/internal/criteria"
	"github.com/evanli/vaultkeep/internal/models"
)

// OnboardingState identifies a step of the account-creation wizard.
type OnboardingState int

const (
	// CollectingUsername is the initial username step.
	CollectingUsername OnboardingState = iota + 1
	// CollectingPassword is the master-password step.
	CollectingPassword
	// OnboardingComplete is the terminal state after the account
	// collaborator succeeds.
	OnboardingComplete
)

// User-facing validation messages. A new attempt always replaces the
// previous one; there is no accumulation.
const (
	MsgUsernameRequired  = "Username is required"
	MsgPasswordRequired  = "Password is required"
	MsgUsernameCriteria  = "Please meet all username requirements"
	MsgPasswordCriteria  = "Please meet all password requirements"
	MsgInvalidLogin      = "Invalid username or password"
	MsgServerUnreachable = "Could not reach the server, please try again"
)

// ErrUnreachable marks a transport-level collaborator failure. Resolvers
// surface MsgServerUnreachable for it instead of the raw dial error; any
// other error carries a message already meant for the user.
var ErrUnreachable = errors.New("server unreachable")

// Onboarding drives the two-step account-creation wizard:
// CollectingUsername -> CollectingPassword -> OnboardingComplete. There is
// no backward transition from the password step; that matches the original
// flow and is a known UX gap rather than a defect.
type Onboarding struct {
	state      OnboardingState
	username   string
	password   string
	errMsg     string
	submitting bool
	log        *zap.Logger
}

// NewOnboarding returns a wizard in the username step. log may be nil.
func NewOnboarding(log *zap.Logger) *Onboarding {
	if log == nil {
		log = zap.NewNop()
	}
	return &Onboarding{state: CollectingUsername, log: log}
}

// State returns the current wizard step.
func (o *Onboarding) State() OnboardingState { return o.state }

// Err returns the current validation message, or "" when there is none.
func (o *Onboarding) Err() string { return o.errMsg }

// Submitting reports whether a collaborator call is in flight.
func (o *Onboarding) Submitting() bool { return o.submitting }

// Username returns the current username field value.
func (o *Onboarding) Username() string { return o.username }

// Password returns the current master-password field value.
func (o *Onboarding) Password() string { return o.password }

// SetUsername records a keystroke-level change to the username field.
func (o *Onboarding) SetUsername(v string) { o.username = v }

// SetPassword records a keystroke-level change to the password field.
func (o *Onboarding) SetPassword(v string) { o.password = v }

// UsernameCriteria recomputes the username checklist from the current value.
func (o *Onboarding) UsernameCriteria() criteria.UsernameCriteria {
	return criteria.ForUsername(o.username)
}

// PasswordCriteria recomputes the password checklist from the current value.
func (o *Onboarding) PasswordCriteria() criteria.PasswordCriteria {
	return criteria.ForPassword(o.password)
}

// Advance moves from the username step to the password step. It requires a
// non-empty username that satisfies every username criterion; otherwise the
// wizard stays put and surfaces a message. Returns true on transition.
func (o *Onboarding) Advance() bool {
	if o.state != CollectingUsername {
		return false
	}
	if o.username == "" {
		o.errMsg = MsgUsernameRequired
		return false
	}
	if !o.UsernameCriteria().Satisfied() {
		o.errMsg = MsgUsernameCriteria
		return false
	}
	o.errMsg = ""
	o.state = CollectingPassword
	return true
}

// Submit validates the password step and, if every criterion is met, hands
// the completed credential pair to the caller and enters the submitting
// sub-state, which blocks duplicate submissions until Resolve is called.
func (o *Onboarding) Submit() (models.VaultAccount, bool) {
	if o.state != CollectingPassword || o.submitting {
		return models.VaultAccount{}, false
	}
	if !o.PasswordCriteria().Satisfied() {
		o.errMsg = MsgPasswordCriteria
		return models.VaultAccount{}, false
	}
	o.errMsg = ""
	o.submitting = true
	return models.VaultAccount{Username: o.username, MasterPassword: o.password}, true
}

// Resolve applies the outcome of the account-creation collaborator. A nil
// error completes the wizard; otherwise the wizard stays in the password
// step with the failure surfaced. Transport failures (ErrUnreachable) map
// to the generic MsgServerUnreachable; other errors carry the server's
// rejection message verbatim. Resolve is a no-op unless a submission is in
// flight, so a late resolution against a torn-down form is harmless.
func (o *Onboarding) Resolve(err error) {
	if !o.submitting {
		o.log.Debug("onboarding resolution with no submission in flight")
		return
	}
	o.submitting = false
	if errors.Is(err, ErrUnreachable) {
		o.errMsg = MsgServerUnreachable
		return
	}
	if err != nil {
		o.errMsg = err.Error()
		return
	}
	o.errMsg = ""
	o.state = OnboardingComplete
}
