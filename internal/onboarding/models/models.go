// Package models holds the onboarding domain types: the closed state
// enumeration, the per-user session record, and the data collected along the
// flow. The state machine in the service package is the only writer.
package models

import "time"

// State is one step of the onboarding flow. Sessions only ever hold a value
// from this enumeration; transitions never produce anything else.
type State string

const (
	// StateStart is the transient entry step. It emits nothing itself and
	// immediately advances to the first collection prompt.
	StateStart State = "start"

	StateCollectFirstName State = "collect_first_name"
	StateCollectLastName  State = "collect_last_name"
	StateAskHasComputer   State = "ask_has_computer"
	StateAskBilingual     State = "ask_bilingual"
	StateAskLanguages     State = "ask_languages"
	StateAskLocation      State = "ask_location"
	StateAskEmail         State = "ask_email"

	// StatePreContractDeclaration announces the contractor agreement and
	// auto-advances into the waiting state below.
	StatePreContractDeclaration State = "pre_contract_declaration"
	StateAwaitingSignCommand    State = "awaiting_sign_command"
	// StateAwaitingSignatureConfirmation waits for `contract signed`. Its
	// instructions are delivered by the signing pipeline, never on entry.
	StateAwaitingSignatureConfirmation State = "awaiting_signature_confirmation"

	// StateAskAddContacts is a routing placeholder: entering it emits no
	// prompt. The preceding handler sends the add-contacts instructions
	// itself, so a direct advance here must stay silent.
	StateAskAddContacts State = "ask_add_contacts"

	StateProvideTrainingMaterials State = "provide_training_materials"
	StateAwaitingTrainingDone     State = "awaiting_training_done"

	// StateFinalWelcome sends the final instructions and auto-advances to
	// completed, which removes the session in the same operation.
	StateFinalWelcome State = "final_welcome"
	StateCompleted    State = "completed"
)

var allStates = map[State]struct{}{
	StateStart:                         {},
	StateCollectFirstName:              {},
	StateCollectLastName:               {},
	StateAskHasComputer:                {},
	StateAskBilingual:                  {},
	StateAskLanguages:                  {},
	StateAskLocation:                   {},
	StateAskEmail:                      {},
	StatePreContractDeclaration:        {},
	StateAwaitingSignCommand:           {},
	StateAwaitingSignatureConfirmation: {},
	StateAskAddContacts:                {},
	StateProvideTrainingMaterials:      {},
	StateAwaitingTrainingDone:          {},
	StateFinalWelcome:                  {},
	StateCompleted:                     {},
}

// Valid reports membership in the declared enumeration.
func (s State) Valid() bool {
	_, ok := allStates[s]
	return ok
}

// Terminal reports whether the state ends the flow. A session is removed in
// the same operation that reaches a terminal state, so stored sessions are
// never terminal.
func (s State) Terminal() bool {
	return s == StateCompleted
}

// Collected accumulates the answers a hire gives along the flow. Fields are
// monotonic: nothing is cleared except by destroying the whole session.
type Collected struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	HasComputer bool   `json:"has_computer"`
	Bilingual   bool   `json:"bilingual"`
	Languages   string `json:"languages,omitempty"`
	Location    string `json:"location,omitempty"`
	Email       string `json:"email,omitempty"`
	// AddedContacts records the self-reported answer; a "no" nudges but does
	// not block.
	AddedContacts bool   `json:"added_contacts"`
	AgreementID   string `json:"agreement_id,omitempty"`
	TrainingDone  bool   `json:"training_done"`

	// Staff notification outcome, kept for informational replies after the
	// summary has been sent.
	NotifyAttempted bool     `json:"notify_attempted"`
	NotifiedStaff   []string `json:"notified_staff,omitempty"`
	FailedStaff     []string `json:"failed_staff,omitempty"`
}

// Session is the per-user onboarding record. At most one exists per user ID
// at any time, and it lives only as long as the flow is in progress.
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	State     State     `json:"state"`
	Collected Collected `json:"collected"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session at the flow entry point.
func NewSession(userID, username string, now time.Time) Session {
	return Session{
		UserID:    userID,
		Username:  username,
		State:     StateStart,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// User is the state machine's view of a messaging gateway identity.
type User struct {
	ID       string
	Username string
	Bot      bool
}

// ChannelKind distinguishes direct messages from everything else; the flow
// only ever reacts to DMs.
type ChannelKind string

const (
	ChannelDM    ChannelKind = "dm"
	ChannelGuild ChannelKind = "guild"
)
