package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and persists them. It keeps
// background processing testable without wiring queue implementations into
// request handling.
type Worker struct {
	sink   Appender
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Appender, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run drains the inbox until the context is canceled. Sink failures are
// logged and the event dropped; audit must never take the service down.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "append audit event",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
