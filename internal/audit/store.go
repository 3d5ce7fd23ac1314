package audit

import (
	"context"

	"compass/pkg/domain"
)

// Sink accepts audit events for durable delivery. Append-only: there is no
// update or delete.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a sink that also supports retrieval, for backends that keep the
// trail queryable (memory, SQL). Fire-and-forget sinks like Kafka implement
// only Sink.
type Store interface {
	Sink
	ListByUser(ctx context.Context, userID domain.UserID) ([]Event, error)
}
