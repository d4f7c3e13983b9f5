package handlers

import (
	"github.com/rs/zerolog"

	"pathwise-server/services/guidance-api/internal/domain/agent"
	"pathwise-server/services/guidance-api/internal/domain/chat"
	"pathwise-server/services/guidance-api/internal/domain/conversation"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Conversation *ConversationHandler
	Chat         *ChatHandler
	Agent        *AgentHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	conversationService conversation.Service,
	chatService chat.Service,
	agentClient agent.Client,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Conversation: NewConversationHandler(conversationService, log),
		Chat:         NewChatHandler(chatService, log),
		Agent:        NewAgentHandler(agentClient, log),
	}
}
