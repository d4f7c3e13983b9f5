package agent

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client defines the contract for forwarding chat turns to the agent backend.
// Implementations make exactly one outbound call per invocation; retries, if
// any, belong to the caller.
type Client interface {
	SendTurn(reqCtx context.Context, req TurnRequest) (*TurnReply, error)
	ListAgents(reqCtx context.Context) ([]Agent, error)
}

// TurnRequest is the payload forwarded to the agent backend for one turn.
type TurnRequest struct {
	Message        string            `json:"message"`
	ConversationID string            `json:"conversation_id"`
	UserID         string            `json:"user_id"`
	AgentID        *string           `json:"-"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// TurnReply captures the backend's structured reply. Everything beyond the
// response text is passed through untouched.
type TurnReply struct {
	Response  string          `json:"response"`
	AgentID   string          `json:"agent_id,omitempty"`
	Citations json.RawMessage `json:"citations,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// Agent describes one entry of the backend's agent catalog.
type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Specialty   string `json:"specialty,omitempty"`
}

// BackendError is returned for every failed backend call. StatusCode is zero
// for network-level failures (timeouts, refused connections); otherwise it is
// the HTTP status the backend answered with, and Detail carries the backend's
// error detail when its body could be parsed.
type BackendError struct {
	StatusCode int
	Detail     string
	Err        error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("agent backend unreachable: %v", e.Err)
	}
	return fmt.Sprintf("agent backend error: %d %s", e.StatusCode, e.Detail)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error {
	return e.Err
}
