package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/audit"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/sentinel"
)

// notifyStaff delivers the collected-data summary to every configured staff
// recipient. Delivery is strictly best-effort: one recipient failing never
// blocks another, and the hire advances to the final welcome regardless of
// the outcome. Per-recipient results are recorded on the session for the
// outcome reply.
func (s *Service) notifyStaff(ctx context.Context, sess *models.Session) {
	c := &sess.Collected
	c.NotifyAttempted = len(s.staffIDs) > 0

	summary := s.flow.summaryMessage(*sess)

	for _, staffID := range s.staffIDs {
		descriptor, err := s.notifyOne(ctx, staffID, summary)
		if err != nil {
			c.FailedStaff = append(c.FailedStaff, descriptor)
			if s.metrics != nil {
				s.metrics.IncrementStaffNotification("failure")
			}
			s.logger.WarnContext(ctx, "staff notification failed",
				"staff_id", staffID,
				"user_id", sess.UserID,
				"error", err,
			)
			continue
		}

		c.NotifiedStaff = append(c.NotifiedStaff, descriptor)
		if s.metrics != nil {
			s.metrics.IncrementStaffNotification("success")
		}
	}

	s.emitAudit(ctx, sess.UserID, audit.ActionStaffNotified, "")

	if err := s.gateway.SendDM(ctx, sess.UserID, s.flow.notifyOutcomeMessage(*c)); err != nil {
		if s.dropUnresolvable(ctx, sess.UserID, true, err) {
			return
		}
		s.logger.WarnContext(ctx, "notification outcome reply failed", "user_id", sess.UserID, "error", err)
		s.persist(ctx, *sess)
		return
	}

	s.advance(ctx, sess, models.StateFinalWelcome)
}

// notifyOne resolves and messages a single staff recipient, returning a
// human-readable descriptor for the outcome bookkeeping either way.
func (s *Service) notifyOne(ctx context.Context, staffID, summary string) (string, error) {
	user, err := s.gateway.FetchUser(ctx, staffID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return fmt.Sprintf("user %s (not found)", staffID), err
		}
		return fmt.Sprintf("user %s (lookup error)", staffID), err
	}

	if err := s.gateway.SendDM(ctx, staffID, summary); err != nil {
		if errors.Is(err, sentinel.ErrForbidden) {
			return fmt.Sprintf("%s (DMs disabled)", user.Username), err
		}
		return fmt.Sprintf("%s (delivery error)", user.Username), err
	}

	return user.Username, nil
}
