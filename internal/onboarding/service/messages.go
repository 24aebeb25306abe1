package service

import (
	"fmt"
	"strings"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
)

// All user-facing wording lives here so the transition logic stays free of
// string assembly and the copy can be reviewed in one place.

func (f *Flow) welcomeMessage() string {
	return "Welcome to the New Hire Onboarding Process!\n" +
		"I'm your friendly training bot. I'll guide you through the initial steps.\n\n" +
		"Please reply directly to my messages here in our DM.\n\n" +
		"1. What is your first name?"
}

func (f *Flow) firstNameRetryMessage() string {
	return "Please tell me your first name."
}

func (f *Flow) lastNamePrompt() string {
	return "2. And what is your last name?"
}

func (f *Flow) lastNameRetryMessage() string {
	return "Please tell me your last name."
}

func (f *Flow) hasComputerPrompt() string {
	return "3. Do you have a computer or laptop (not an iPad or tablet) that you will be using for work? (Y/N)"
}

func (f *Flow) bilingualPrompt() string {
	return "4. Are you bilingual? (Y/N)"
}

func (f *Flow) languagesPrompt() string {
	return "Great! What languages do you speak fluently (besides English, if applicable)?"
}

func (f *Flow) locationPrompt() string {
	return "5. In which state are you located?"
}

func (f *Flow) emailPrompt() string {
	return "6. What is your primary email address?"
}

func (f *Flow) contractDeclarationMessage() string {
	return "7. Before training can begin, you need to review and sign your independent contractor agreement.\n" +
		"I will prepare a personal signing link for you through our e-signature provider.\n\n" +
		"When you are ready to receive your link, type `sign contract`."
}

func (f *Flow) signContractReminderMessage() string {
	return "When you are ready to receive your personal signing link, type `sign contract`."
}

func (f *Flow) signingLinkMessage(url string) string {
	return "Here is your personal signing link:\n" + url + "\n\n" +
		"Please open it, review the agreement carefully, and sign.\n" +
		"Once you have signed, type `contract signed` so we can continue."
}

func (f *Flow) signingFailedMessage() string {
	return "Sorry, I wasn't able to prepare your signing link just now. " +
		"Please try `sign contract` again in a few minutes. " +
		fmt.Sprintf("If this keeps happening, let %s know.", f.cfg.DevContactName)
}

func (f *Flow) contractSignedReminderMessage() string {
	return "Once you have signed the agreement at your personal link, type `contract signed`. " +
		"If you no longer have the link, type `sign contract` to get a new one."
}

func (f *Flow) addContactsInstructions() string {
	contacts := []string{"- " + f.cfg.SupportContactName}
	if f.cfg.StaffConfigured {
		contacts = append(contacts, "- "+f.cfg.StaffContactName)
	}

	return "Thank you for signing!\n\n" +
		"8. Please go into the MAIN CHAT of our server and add the following users as friends:\n" +
		strings.Join(contacts, "\n") + "\n\n" +
		"Have you done this? (Y/N)"
}

func (f *Flow) addContactsReminderMessage() string {
	names := f.cfg.SupportContactName
	if f.cfg.StaffConfigured {
		names += " and " + f.cfg.StaffContactName
	}
	return fmt.Sprintf("Please ensure you add %s as friends. This is important for team communication.", names)
}

func (f *Flow) trainingMaterialsMessage() string {
	return "9. Next, please complete the following training materials:\n" +
		"   - Read the Training Manual: " + f.cfg.ManualURL + "\n" +
		"   - Watch the Training Video: " + f.cfg.VideoURL + "\n" +
		"   - Listen to Training Recordings: " + f.cfg.RecordingsURL + "\n\n" +
		"Once you have completed ALL of these, please reply with 'DONE'."
}

func (f *Flow) trainingNudgeMessage() string {
	return "Please type 'DONE' once you have completed all training materials."
}

func (f *Flow) finalWelcomeMessage() string {
	return "Welcome aboard officially!\n\n" +
		"Your final steps are:\n" +
		fmt.Sprintf("1. Please contact %s for your next assignments and to get fully integrated.\n", f.cfg.StaffContactName) +
		fmt.Sprintf("2. %s is your human contact for project specific questions and quality control.\n", f.cfg.SupportContactName) +
		"3. Join the main server here if you haven't already: " + f.cfg.ServerInviteURL + "\n\n" +
		"This concludes your automated onboarding. Good luck!"
}

func (f *Flow) invalidYesNoMessage() string {
	return "Invalid input. Please answer Y or N."
}

func (f *Flow) invalidEmailMessage() string {
	return "That doesn't look like a valid email address. Please try again."
}

func (f *Flow) noComputerRejectionMessage() string {
	return "A computer or laptop (not an iPad or tablet) is required for this role. " +
		"Unfortunately, we cannot proceed with your onboarding at this time without the necessary equipment. " +
		"Please contact your hiring manager if you have any questions or to discuss your situation."
}

func (f *Flow) blockedLocationRejectionMessage() string {
	return "Thank you for your interest. Unfortunately, at this time, we are unable to proceed with your application " +
		"as we do not currently meet the minimum requirements to operate in your state. We appreciate your understanding."
}

func (f *Flow) greetingHint() string {
	return "Hello! To begin the onboarding process, please type `start`."
}

func (f *Flow) alreadyActiveMessage() string {
	return "You are already in the onboarding process. Please reply to my last question or type `reset` if you wish to start over."
}

func (f *Flow) resetMessage() string {
	return "Your onboarding state has been reset. Type `start` to begin again."
}

func (f *Flow) nothingToResetMessage() string {
	return "You are not currently in an onboarding process to reset."
}

func (f *Flow) completeRetiredMessage() string {
	return "The `complete` command is no longer used. I'll walk you through every remaining step automatically — " +
		"just keep answering my questions here."
}

func (f *Flow) signContractUnavailableMessage(hasSession bool) string {
	if !hasSession {
		return "There's nothing to sign yet. Type `start` to begin the onboarding process."
	}
	return "You can use `sign contract` once we reach the agreement step. Please continue with the current question."
}

func (f *Flow) contractSignedUnavailableMessage(hasSession bool) string {
	if !hasSession {
		return "There's no agreement in progress. Type `start` to begin the onboarding process."
	}
	return "You can use `contract signed` after I've sent you your signing link. Please continue with the current step."
}

// summaryMessage is the fixed block forwarded to each staff recipient when a
// hire finishes training. Collected data appears here verbatim.
func (f *Flow) summaryMessage(sess models.Session) string {
	c := sess.Collected

	var b strings.Builder
	fmt.Fprintf(&b, "New Hire Onboarding Information for: %s (%s)\n", sess.Username, sess.UserID)
	b.WriteString("--------------------------------------------------\n")
	fmt.Fprintf(&b, "Name: %s %s\n", c.FirstName, c.LastName)
	fmt.Fprintf(&b, "Has Computer/Laptop: %s\n", yesNo(c.HasComputer))
	fmt.Fprintf(&b, "Bilingual: %s\n", yesNo(c.Bilingual))
	if c.Languages != "" {
		fmt.Fprintf(&b, "Languages: %s\n", c.Languages)
	}
	fmt.Fprintf(&b, "State: %s\n", orNA(c.Location))
	fmt.Fprintf(&b, "Email: %s\n", orNA(c.Email))
	fmt.Fprintf(&b, "Agreement ID: %s\n", orNA(c.AgreementID))
	fmt.Fprintf(&b, "Added Contacts: %s\n", yesNoUnconfirmed(c.AddedContacts))
	b.WriteString("Training Completed: Yes\n")
	b.WriteString("--------------------------------------------------\n")
	b.WriteString("This user has completed the automated onboarding steps. " +
		"Please verify them and grant access to the main server when ready.")
	return b.String()
}

// notifyOutcomeMessage tells the hire what happened to the summary delivery.
func (f *Flow) notifyOutcomeMessage(c models.Collected) string {
	switch {
	case len(c.NotifiedStaff) > 0:
		msg := fmt.Sprintf(
			"Thank you! I've forwarded your information to %s for verification.",
			strings.Join(c.NotifiedStaff, " and "),
		)
		if len(c.FailedStaff) > 0 {
			msg += fmt.Sprintf(
				"\n\nNote: I also encountered issues notifying: %s. Please let an admin know if necessary.",
				strings.Join(c.FailedStaff, ", "),
			)
		}
		return msg

	case len(c.FailedStaff) > 0:
		return fmt.Sprintf(
			"Thank you for completing the training. I attempted to notify %s but encountered issues: %s.\n"+
				"Please inform them manually that you've completed this stage.",
			f.cfg.StaffContactName,
			strings.Join(c.FailedStaff, ", "),
		)

	default:
		return "Thank you! Training completion noted. (No staff contact is configured for direct notification.)\n" +
			"Please inform your hiring manager or supervisor that you have completed this stage."
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func yesNoUnconfirmed(v bool) string {
	if v {
		return "Yes"
	}
	return "No, or not confirmed"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
