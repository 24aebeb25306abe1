// Package channel provides a best-effort, non-blocking audit publisher backed
// by an in-process channel. Pair it with worker.Worker and a store.
//
// Milestone events are operational breadcrumbs, not compliance records, so a
// full inbox drops the event with a warning instead of blocking the flow.
package channel

import (
	"context"
	"log/slog"

	audit "github.com/BrandonDavidJones1/hire-bot/pkg/platform/audit"
)

const defaultBuffer = 256

type Publisher struct {
	inbox  chan audit.Event
	logger *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithBuffer(n int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, n)
	}
}

func New(opts ...Option) *Publisher {
	p := &Publisher{
		inbox: make(chan audit.Event, defaultBuffer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Inbox exposes the consuming side for a worker.
func (p *Publisher) Inbox() <-chan audit.Event {
	return p.inbox
}

// Emit enqueues the event without blocking the caller.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	select {
	case p.inbox <- event:
		return nil
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit inbox full, dropping event",
				"action", event.Action,
				"user_id", event.UserID,
			)
		}
		return nil
	}
}
