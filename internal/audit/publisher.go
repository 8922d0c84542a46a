package audit

import (
	"context"
	"log/slog"

	"sprout/pkg/requestcontext"
)

// Sink receives events after durable persistence. Stream satisfies this.
type Sink interface {
	Enqueue(event Event)
}

// Publisher enriches events from the request context, appends them to the
// durable store, and fans out to the optional stream sink. The store append
// is fail-closed so an audited operation cannot succeed without its event.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

func NewPublisher(store Store, sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, sink: sink, logger: logger}
}

// Publish enriches and persists an event. The caller sets Action, ActorID,
// ActorRole, and the entity IDs; everything else comes from the context.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	event.Timestamp = requestcontext.Now(ctx)
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.DeviceName(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.logger.Error("audit append failed",
			"action", event.Action, "actor_id", event.ActorID, "error", err)
		return err
	}

	if p.sink != nil {
		p.sink.Enqueue(event)
	}
	return nil
}
