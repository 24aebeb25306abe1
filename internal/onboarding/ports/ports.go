// Package ports defines the interfaces the onboarding engine consumes.
// Interfaces live here, on the consumer side, so stores and adapters can be
// swapped without touching the state machine.
package ports

import (
	"context"
	"log/slog"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/audit"
	"github.com/BrandonDavidJones1/hire-bot/pkg/requestcontext"
)

// SessionStore owns the session table. Implementations return
// sentinel.ErrNotFound (possibly wrapped) when no session exists.
type SessionStore interface {
	Get(ctx context.Context, userID string) (models.Session, error)
	Put(ctx context.Context, session models.Session) error
	Delete(ctx context.Context, userID string) error
	Count(ctx context.Context) (int, error)
}

// Gateway is the messaging transport: identity resolution plus direct-message
// delivery. SendDM returns sentinel.ErrNotFound when the user is no longer
// resolvable and sentinel.ErrForbidden when delivery is blocked.
type Gateway interface {
	FetchUser(ctx context.Context, userID string) (models.User, error)
	SendDM(ctx context.Context, userID, text string) error
}

// Signer is the document-signing service adapter. The four operations form
// one pipeline; the engine never retries inside it.
type Signer interface {
	Authenticate(ctx context.Context) (string, error)
	UploadTemplate(ctx context.Context, token, path string) (string, error)
	CreateAgreement(ctx context.Context, token, documentID, title, signerEmail, firstName, lastName string) (string, error)
	GetSigningURL(ctx context.Context, token, agreementID, signerEmail string) (string, error)
}

// AuditPublisher emits flow milestone events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LogAudit logs a milestone and forwards it to the audit publisher when one
// is configured. Publisher failures are logged, never propagated.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.Event, attrs ...any) {
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	args := append(attrs,
		"event", event.Action,
		"user_id", event.UserID,
		"log_type", "audit",
	)
	if logger != nil {
		logger.InfoContext(ctx, event.Action, args...)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}
