// Package service implements the onboarding state machine. The pure
// transition core lives in flow.go; the Service here executes its outcomes
// against the session store, the messaging gateway, and the signing adapter.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/metrics"
	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/ports"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/audit"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/sentinel"
)

type Service struct {
	store   ports.SessionStore
	gateway ports.Gateway
	signer  ports.Signer
	flow    *Flow

	templatePath string
	staffIDs     []string
	botUserID    string

	logger         *slog.Logger
	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics

	locks *userLocks
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithStaffRecipients sets the user IDs that receive the completion summary.
func WithStaffRecipients(ids []string) Option {
	return func(s *Service) {
		s.staffIDs = ids
	}
}

// WithSigningTemplate sets the contract template uploaded for each agreement.
func WithSigningTemplate(path string) Option {
	return func(s *Service) {
		s.templatePath = path
	}
}

// WithBotUserID lets the dispatcher drop the bot's own messages defensively
// even if the gateway echoes them back.
func WithBotUserID(id string) Option {
	return func(s *Service) {
		s.botUserID = id
	}
}

func New(store ports.SessionStore, gateway ports.Gateway, signer ports.Signer, flow *Flow, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("messaging gateway is required")
	}
	if signer == nil {
		return nil, fmt.Errorf("signing adapter is required")
	}
	if flow == nil {
		return nil, fmt.Errorf("flow is required")
	}

	svc := &Service{
		store:   store,
		gateway: gateway,
		signer:  signer,
		flow:    flow,
		logger:  slog.Default(),
		locks:   newUserLocks(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// HandleMessage is the single entry point for inbound events. It is the
// failure boundary of the whole machine: every external call below it is
// caught, logged, and converted to at most one user-facing message, so no
// error ever propagates back into the transport.
//
// Messages from different users may be handled concurrently; messages from
// the same user are serialized so each one runs to completion before the
// next is interpreted.
func (s *Service) HandleMessage(ctx context.Context, authorID string, channel models.ChannelKind, content string) {
	if channel != models.ChannelDM || authorID == "" || authorID == s.botUserID {
		return
	}

	unlock := s.locks.lock(authorID)
	defer unlock()

	sess, err := s.store.Get(ctx, authorID)
	found := err == nil
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.ErrorContext(ctx, "session lookup failed", "user_id", authorID, "error", err)
		return
	}

	// A session parked in a transient state means a prompt delivery stalled;
	// any non-command message retries the pending advance instead of being
	// interpreted as an answer.
	if _, isCmd := models.ParseCommand(content); !isCmd && found {
		if _, auto := s.flow.AutoNext(sess.State); auto {
			s.advance(ctx, &sess, sess.State)
			return
		}
	}

	out := s.flow.Reduce(sess, found, content)

	if out.Create {
		s.startSession(ctx, authorID)
		return
	}

	for _, reply := range out.Replies {
		if err := s.gateway.SendDM(ctx, authorID, reply); err != nil {
			if s.dropUnresolvable(ctx, authorID, found, err) {
				return
			}
			s.logger.WarnContext(ctx, "reply delivery failed", "user_id", authorID, "error", err)
			// Removal below must still happen; only advancement stalls.
			if !out.Remove {
				if found {
					s.persist(ctx, out.Session)
				}
				return
			}
		}
	}

	switch out.Effect {
	case EffectSignContract:
		s.runSigningPipeline(ctx, &out.Session)
		return
	case EffectNotifyStaff:
		s.notifyStaff(ctx, &out.Session)
		return
	}

	if out.Remove {
		s.removeSession(ctx, out.Session, out.Reason)
		return
	}

	if out.Advance != "" {
		s.advance(ctx, &out.Session, out.Advance)
		return
	}

	if found {
		s.persist(ctx, out.Session)
	}
}

// startSession resolves the author and opens a fresh session. An unresolvable
// author is dropped silently; there is nobody to message.
func (s *Service) startSession(ctx context.Context, userID string) {
	user, err := s.gateway.FetchUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "start ignored, user unresolvable", "user_id", userID)
		} else {
			s.logger.ErrorContext(ctx, "user lookup failed", "user_id", userID, "error", err)
		}
		return
	}

	sess := models.NewSession(userID, user.Username, time.Now())

	if s.metrics != nil {
		s.metrics.IncrementStarted()
	}
	s.emitAudit(ctx, userID, audit.ActionSessionStarted, "")

	s.advance(ctx, &sess, models.StateStart)
}

// advance moves the session into the given state, emitting entry prompts and
// following auto-advance chains until the flow parks in a waiting state or
// completes. A failed prompt delivery leaves the state where it was; the
// session stalls until the next inbound event retries it.
func (s *Service) advance(ctx context.Context, sess *models.Session, to models.State) {
	for {
		if text, ok := s.flow.EntryPrompt(to); ok {
			if err := s.gateway.SendDM(ctx, sess.UserID, text); err != nil {
				if s.dropUnresolvable(ctx, sess.UserID, true, err) {
					return
				}
				s.logger.WarnContext(ctx, "prompt delivery failed, session stalled",
					"user_id", sess.UserID,
					"state", string(sess.State),
					"error", err,
				)
				s.persist(ctx, *sess)
				return
			}
		}

		sess.State = to

		if to == models.StateCompleted {
			s.completeSession(ctx, *sess)
			return
		}

		next, ok := s.flow.AutoNext(to)
		if !ok {
			s.persist(ctx, *sess)
			return
		}
		to = next
	}
}

func (s *Service) persist(ctx context.Context, sess models.Session) {
	if err := s.store.Put(ctx, sess); err != nil {
		s.logger.ErrorContext(ctx, "session persist failed", "user_id", sess.UserID, "error", err)
		return
	}
	s.refreshActiveGauge(ctx)
}

func (s *Service) removeSession(ctx context.Context, sess models.Session, reason RemoveReason) {
	if err := s.store.Delete(ctx, sess.UserID); err != nil {
		s.logger.ErrorContext(ctx, "session delete failed", "user_id", sess.UserID, "error", err)
	}

	switch reason {
	case RemoveReset:
		if s.metrics != nil {
			s.metrics.IncrementReset()
		}
		s.emitAudit(ctx, sess.UserID, audit.ActionSessionReset, "")
	case RemoveNoComputer, RemoveBlockedLocation:
		if s.metrics != nil {
			s.metrics.IncrementDisqualified(string(reason))
		}
		s.emitAudit(ctx, sess.UserID, audit.ActionSessionDisqualified, string(reason))
	case RemoveUserUnresolvable:
		s.emitAudit(ctx, sess.UserID, audit.ActionSessionReset, string(reason))
	}

	s.refreshActiveGauge(ctx)
}

// completeSession removes the session in the same operation that delivered
// the final message, so no later inbound message can observe the completed
// state.
func (s *Service) completeSession(ctx context.Context, sess models.Session) {
	if err := s.store.Delete(ctx, sess.UserID); err != nil {
		s.logger.ErrorContext(ctx, "session delete failed", "user_id", sess.UserID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.IncrementCompleted()
	}
	s.emitAudit(ctx, sess.UserID, audit.ActionSessionCompleted, "")
	s.refreshActiveGauge(ctx)
	s.logger.InfoContext(ctx, "onboarding completed", "user_id", sess.UserID, "username", sess.Username)
}

// dropUnresolvable handles the lookup-failure taxonomy: when the user behind
// a session can no longer be resolved, the session is removed with a log
// entry and no user-facing message, since there is nobody to reach.
func (s *Service) dropUnresolvable(ctx context.Context, userID string, hadSession bool, err error) bool {
	if !errors.Is(err, sentinel.ErrNotFound) {
		return false
	}
	s.logger.WarnContext(ctx, "user no longer resolvable, dropping session", "user_id", userID)
	if hadSession {
		s.removeSession(ctx, models.Session{UserID: userID}, RemoveUserUnresolvable)
	}
	return true
}

func (s *Service) refreshActiveGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if count, err := s.store.Count(ctx); err == nil {
		s.metrics.SetActiveSessions(count)
	}
}

func (s *Service) emitAudit(ctx context.Context, userID, action, reason string) {
	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		UserID:    userID,
		Action:    action,
		Reason:    reason,
	})
}
