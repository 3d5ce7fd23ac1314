package audit

import (
	"context"

	"compass/pkg/requestcontext"
)

// Publisher stamps and forwards audit events to a sink. It is the single
// entry point domain services use, so enrichment stays in one place.
type Publisher struct {
	sink Sink
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink}
}

// Emit fills in the timestamp and correlation ID when absent and appends the
// event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	return p.sink.Append(ctx, event)
}
