// Package audit defines the milestone event model emitted by the onboarding
// flow. Keep it transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"time"
)

// Event captures one flow milestone for a user.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	// Reason qualifies terminal actions (e.g. which eligibility rule fired).
	Reason string `json:"reason,omitempty"`
	// RequestID correlates the event with the inbound gateway request.
	RequestID string `json:"request_id,omitempty"`
}

// Flow milestone actions.
const (
	ActionSessionStarted      = "session_started"
	ActionSessionReset        = "session_reset"
	ActionSessionDisqualified = "session_disqualified"
	ActionAgreementCreated    = "agreement_created"
	ActionStaffNotified       = "staff_notified"
	ActionSessionCompleted    = "session_completed"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID string) ([]Event, error)
}
