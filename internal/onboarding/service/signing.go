package service

import (
	"context"
	"fmt"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/pkg/email"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/audit"
)

// runSigningPipeline executes the four-step signing flow for a session
// parked at awaiting_sign_command. Every failure collapses into one generic
// retryable message and leaves the state untouched, so re-issuing
// `sign contract` reruns the pipeline from authentication.
func (s *Service) runSigningPipeline(ctx context.Context, sess *models.Session) {
	url, agreementID, err := s.executeSigning(ctx, sess.Collected)
	if err != nil {
		s.logger.ErrorContext(ctx, "signing pipeline failed",
			"user_id", sess.UserID,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementSigningRun("failure")
		}
		if sendErr := s.gateway.SendDM(ctx, sess.UserID, s.flow.signingFailedMessage()); sendErr != nil {
			if s.dropUnresolvable(ctx, sess.UserID, true, sendErr) {
				return
			}
			s.logger.WarnContext(ctx, "signing failure reply not delivered", "user_id", sess.UserID, "error", sendErr)
		}
		s.persist(ctx, *sess)
		return
	}

	sess.Collected.AgreementID = agreementID
	if s.metrics != nil {
		s.metrics.IncrementSigningRun("success")
	}
	s.emitAudit(ctx, sess.UserID, audit.ActionAgreementCreated, "")

	if err := s.gateway.SendDM(ctx, sess.UserID, s.flow.signingLinkMessage(url)); err != nil {
		if s.dropUnresolvable(ctx, sess.UserID, true, err) {
			return
		}
		// The agreement exists but the hire never saw the link. Stay in
		// awaiting_sign_command so the command can be reissued; the recorded
		// agreement ID is simply superseded by the next run.
		s.logger.WarnContext(ctx, "signing link not delivered", "user_id", sess.UserID, "error", err)
		s.persist(ctx, *sess)
		return
	}

	sess.State = models.StateAwaitingSignatureConfirmation
	s.persist(ctx, *sess)
}

func (s *Service) executeSigning(ctx context.Context, c models.Collected) (signingURL, agreementID string, err error) {
	token, err := s.signer.Authenticate(ctx)
	if err != nil {
		return "", "", fmt.Errorf("authenticate: %w", err)
	}

	documentID, err := s.signer.UploadTemplate(ctx, token, s.templatePath)
	if err != nil {
		return "", "", fmt.Errorf("upload template: %w", err)
	}

	first, last := c.FirstName, c.LastName
	if first == "" || last == "" {
		first, last = email.DeriveNameFromEmail(c.Email)
	}

	title := fmt.Sprintf("Independent Contractor Agreement - %s %s", first, last)
	agreementID, err = s.signer.CreateAgreement(ctx, token, documentID, title, c.Email, first, last)
	if err != nil {
		return "", "", fmt.Errorf("create agreement: %w", err)
	}

	signingURL, err = s.signer.GetSigningURL(ctx, token, agreementID, c.Email)
	if err != nil {
		return "", "", fmt.Errorf("get signing url: %w", err)
	}

	return signingURL, agreementID, nil
}
