package requests

// CreateConversationRequest models POST /v1/conversations input.
type CreateConversationRequest struct {
	Title            string  `json:"title" binding:"required"`
	Description      *string `json:"description,omitempty"`
	ConversationType string  `json:"conversation_type,omitempty"`
}

// UpdateConversationRequest models PATCH /v1/conversations/:conversation_id
// input. All fields are optional; absent fields are left untouched.
type UpdateConversationRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// AppendMessageRequest models POST /v1/conversations/:conversation_id/messages input.
type AppendMessageRequest struct {
	Role    string  `json:"role" binding:"required"`
	Content string  `json:"content" binding:"required"`
	AgentID *string `json:"agent_id,omitempty"`
}

// ChatRequest models POST /v1/conversations/:conversation_id/chat input.
type ChatRequest struct {
	Message  string            `json:"message" binding:"required"`
	AgentID  *string           `json:"agent_id,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
