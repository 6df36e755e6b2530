// Package audit captures structured events for the actions that matter in
// an identity system: account creation, login outcomes, session lifecycle,
// and secret submissions. Events are transport-agnostic so sinks can fan out.
package audit

import (
	"context"
	"time"
)

// Action names the auditable events.
type Action string

const (
	EventUserCreated     Action = "user_created"
	EventLoginSucceeded  Action = "login_succeeded"
	EventLoginFailed     Action = "login_failed"
	EventSessionCreated  Action = "session_created"
	EventSessionRevoked  Action = "session_revoked"
	EventSecretSubmitted Action = "secret_submitted"
)

// Event is emitted from domain logic. UserID is zero for failed attempts
// where no identity was established.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	UserID    int64     `json:"user_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Decision  string    `json:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Appender is an audit sink. Implementations must be safe for concurrent
// use; the worker is the only writer in the default wiring but tests append
// directly.
type Appender interface {
	Append(ctx context.Context, event Event) error
}
