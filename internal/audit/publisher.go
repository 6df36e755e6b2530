package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"whisperwall/pkg/requestcontext"
)

// Publisher stamps events and hands them to the worker's inbox. Emit never
// blocks a request: a full inbox is an error the caller logs, not a stall.
type Publisher struct {
	inbox chan<- Event
}

func NewPublisher(inbox chan<- Event) *Publisher {
	return &Publisher{inbox: inbox}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		return fmt.Errorf("audit inbox full, dropping %s", event.Action)
	}
}
