package service

import (
	"strings"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/pkg/email"
)

// FlowConfig is the static environment the flow's wording and eligibility
// rules depend on. It is plain data so the transition core stays pure.
type FlowConfig struct {
	StaffContactName   string
	SupportContactName string
	DevContactName     string
	// StaffConfigured is false when no staff recipients are set; several
	// messages change wording to tell the hire to notify someone manually.
	StaffConfigured bool

	ManualURL       string
	VideoURL        string
	RecordingsURL   string
	ServerInviteURL string

	Blocked []BlockedLocation
}

// BlockedLocation is a jurisdiction the flow must reject, matched against
// the location answer by full name or abbreviation, case-insensitively.
type BlockedLocation struct {
	Name         string
	Abbreviation string
}

// Flow is the pure transition core of the onboarding state machine. It never
// performs I/O: Reduce interprets one inbound message and describes what
// should happen; the engine in this package executes it.
type Flow struct {
	cfg FlowConfig
}

func NewFlow(cfg FlowConfig) *Flow {
	return &Flow{cfg: cfg}
}

// Effect is an external action the engine must perform before the flow can
// continue. Transitions request at most one.
type Effect int

const (
	EffectNone Effect = iota
	// EffectSignContract runs the signing pipeline and, on success, delivers
	// the signing link and advances the session.
	EffectSignContract
	// EffectNotifyStaff sends the collected-data summary to each configured
	// staff recipient, then advances to the final welcome.
	EffectNotifyStaff
)

// RemoveReason explains why a session left the table.
type RemoveReason string

const (
	RemoveCompleted        RemoveReason = "completed"
	RemoveNoComputer       RemoveReason = "no_computer"
	RemoveBlockedLocation  RemoveReason = "blocked_location"
	RemoveReset            RemoveReason = "reset"
	RemoveUserUnresolvable RemoveReason = "user_unresolvable"
)

// Outcome is the full result of interpreting one inbound message.
type Outcome struct {
	// Session carries any field/state mutations. Meaningless when Create or
	// Remove is set.
	Session models.Session
	// Create asks the engine to open a fresh session for the author.
	Create bool
	// Replies are sent to the user in order, before any prompt for Advance.
	Replies []string
	// Advance names the state to enter (emitting its entry prompt); the zero
	// value means stay put.
	Advance models.State
	Effect  Effect
	Remove  bool
	Reason  RemoveReason
}

func stay(sess models.Session, replies ...string) Outcome {
	return Outcome{Session: sess, Replies: replies}
}

// Reduce interprets one trimmed inbound message against the current session.
// found reports whether a session exists for this user at all.
func (f *Flow) Reduce(sess models.Session, found bool, raw string) Outcome {
	input := strings.TrimSpace(raw)

	if cmd, ok := models.ParseCommand(input); ok {
		return f.reduceCommand(sess, found, cmd)
	}

	if !found {
		return Outcome{Replies: []string{f.greetingHint()}}
	}

	return f.reduceAnswer(sess, input)
}

func (f *Flow) reduceCommand(sess models.Session, found bool, cmd models.Command) Outcome {
	switch cmd {
	case models.CmdStart:
		if found {
			return stay(sess, f.alreadyActiveMessage())
		}
		return Outcome{Create: true}

	case models.CmdReset:
		if !found {
			return Outcome{Replies: []string{f.nothingToResetMessage()}}
		}
		return Outcome{
			Session: sess,
			Replies: []string{f.resetMessage()},
			Remove:  true,
			Reason:  RemoveReset,
		}

	case models.CmdComplete:
		// Retired in the current flow revision; always informational.
		return Outcome{Session: sess, Replies: []string{f.completeRetiredMessage()}}

	case models.CmdSignContract:
		if found && sess.State == models.StateAwaitingSignCommand {
			return Outcome{Session: sess, Effect: EffectSignContract}
		}
		return Outcome{Session: sess, Replies: []string{f.signContractUnavailableMessage(found)}}

	case models.CmdContractSigned:
		if found && sess.State == models.StateAwaitingSignatureConfirmation {
			// The add-contacts step is a silent routing placeholder, so its
			// instructions travel with this reply rather than as an entry
			// prompt.
			return Outcome{
				Session: sess,
				Replies: []string{f.addContactsInstructions()},
				Advance: models.StateAskAddContacts,
			}
		}
		return Outcome{Session: sess, Replies: []string{f.contractSignedUnavailableMessage(found)}}
	}

	return stay(sess)
}

func (f *Flow) reduceAnswer(sess models.Session, input string) Outcome {
	switch sess.State {
	case models.StateCollectFirstName:
		if input == "" {
			return stay(sess, f.firstNameRetryMessage())
		}
		sess.Collected.FirstName = input
		return Outcome{Session: sess, Advance: models.StateCollectLastName}

	case models.StateCollectLastName:
		if input == "" {
			return stay(sess, f.lastNameRetryMessage())
		}
		sess.Collected.LastName = input
		return Outcome{Session: sess, Advance: models.StateAskHasComputer}

	case models.StateAskHasComputer:
		yes, ok := parseYesNo(input)
		if !ok {
			return stay(sess, f.invalidYesNoMessage())
		}
		sess.Collected.HasComputer = yes
		if !yes {
			return Outcome{
				Session: sess,
				Replies: []string{f.noComputerRejectionMessage()},
				Remove:  true,
				Reason:  RemoveNoComputer,
			}
		}
		return Outcome{Session: sess, Advance: models.StateAskBilingual}

	case models.StateAskBilingual:
		yes, ok := parseYesNo(input)
		if !ok {
			return stay(sess, f.invalidYesNoMessage())
		}
		sess.Collected.Bilingual = yes
		if yes {
			return Outcome{Session: sess, Advance: models.StateAskLanguages}
		}
		return Outcome{Session: sess, Advance: models.StateAskLocation}

	case models.StateAskLanguages:
		sess.Collected.Languages = input
		return Outcome{Session: sess, Advance: models.StateAskLocation}

	case models.StateAskLocation:
		sess.Collected.Location = input
		if f.locationBlocked(input) {
			return Outcome{
				Session: sess,
				Replies: []string{f.blockedLocationRejectionMessage()},
				Remove:  true,
				Reason:  RemoveBlockedLocation,
			}
		}
		return Outcome{Session: sess, Advance: models.StateAskEmail}

	case models.StateAskEmail:
		if !email.Valid(input) {
			return stay(sess, f.invalidEmailMessage())
		}
		sess.Collected.Email = input
		return Outcome{Session: sess, Advance: models.StatePreContractDeclaration}

	case models.StateAwaitingSignCommand:
		return stay(sess, f.signContractReminderMessage())

	case models.StateAwaitingSignatureConfirmation:
		return stay(sess, f.contractSignedReminderMessage())

	case models.StateAskAddContacts:
		yes, ok := parseYesNo(input)
		if !ok {
			return stay(sess, f.invalidYesNoMessage())
		}
		sess.Collected.AddedContacts = yes
		out := Outcome{Session: sess, Advance: models.StateProvideTrainingMaterials}
		if !yes {
			out.Replies = []string{f.addContactsReminderMessage()}
		}
		return out

	case models.StateAwaitingTrainingDone:
		if !strings.EqualFold(input, "done") {
			return stay(sess, f.trainingNudgeMessage())
		}
		sess.Collected.TrainingDone = true
		return Outcome{Session: sess, Effect: EffectNotifyStaff}
	}

	// A session in a transient state never receives input directly (the
	// engine retries the pending advance instead); anything else falls back
	// to a neutral nudge.
	return stay(sess, f.alreadyActiveMessage())
}

// EntryPrompt returns the message emitted when a session enters the given
// state. Waiting states whose instructions are delivered by the preceding
// handler return ok=false and stay silent.
func (f *Flow) EntryPrompt(s models.State) (string, bool) {
	switch s {
	case models.StateCollectFirstName:
		return f.welcomeMessage(), true
	case models.StateCollectLastName:
		return f.lastNamePrompt(), true
	case models.StateAskHasComputer:
		return f.hasComputerPrompt(), true
	case models.StateAskBilingual:
		return f.bilingualPrompt(), true
	case models.StateAskLanguages:
		return f.languagesPrompt(), true
	case models.StateAskLocation:
		return f.locationPrompt(), true
	case models.StateAskEmail:
		return f.emailPrompt(), true
	case models.StatePreContractDeclaration:
		return f.contractDeclarationMessage(), true
	case models.StateProvideTrainingMaterials:
		return f.trainingMaterialsMessage(), true
	case models.StateFinalWelcome:
		return f.finalWelcomeMessage(), true
	}
	return "", false
}

// AutoNext returns the state automatically entered after the entry prompt of
// s has been delivered. Announcement steps chain into their waiting state;
// the final welcome chains into completion.
func (f *Flow) AutoNext(s models.State) (models.State, bool) {
	switch s {
	case models.StateStart:
		return models.StateCollectFirstName, true
	case models.StatePreContractDeclaration:
		return models.StateAwaitingSignCommand, true
	case models.StateProvideTrainingMaterials:
		return models.StateAwaitingTrainingDone, true
	case models.StateFinalWelcome:
		return models.StateCompleted, true
	}
	return "", false
}

func parseYesNo(input string) (value, ok bool) {
	switch strings.ToLower(input) {
	case "y":
		return true, true
	case "n":
		return false, true
	}
	return false, false
}

func (f *Flow) locationBlocked(input string) bool {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, b := range f.cfg.Blocked {
		if normalized == strings.ToLower(b.Name) {
			return true
		}
		if b.Abbreviation != "" && normalized == strings.ToLower(b.Abbreviation) {
			return true
		}
	}
	return false
}
