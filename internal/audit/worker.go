package audit

import (
	"context"
)

// ChannelSink turns a channel into a Sink so publishing never blocks on the
// durable backend. Pair it with a Worker draining the other end.
type ChannelSink chan Event

func (s ChannelSink) Append(ctx context.Context, event Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s <- event:
		return nil
	}
}

// Worker consumes audit events from a channel and persists them, keeping
// background delivery testable without wiring queue implementations.
type Worker struct {
	sink  Sink
	inbox <-chan Event
}

func NewWorker(sink Sink, inbox <-chan Event) *Worker {
	return &Worker{sink: sink, inbox: inbox}
}

// Run drains the inbox until the context is canceled. Delivery failures stop
// the worker; the supervisor decides whether to restart.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
