package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pathwise-server/services/guidance-api/internal/domain/chat"
	"pathwise-server/services/guidance-api/internal/infrastructure/auth"
	"pathwise-server/services/guidance-api/internal/interfaces/httpserver/requests"
	"pathwise-server/services/guidance-api/internal/interfaces/httpserver/responses"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
)

// ChatHandler exposes the chat turn endpoint.
type ChatHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// SendTurn handles POST /v1/conversations/:conversation_id/chat
// @Summary Send a chat message and receive the agent reply
// @Description Proxies the message to the agent backend and records both
// @Description halves of the turn in the conversation log. The reply is
// @Description returned even when recording fails; the persisted flag in the
// @Description response says whether the log write succeeded.
// @Tags Chat
// @Accept json
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Param request body requests.ChatRequest true "Chat turn"
// @Success 201 {object} responses.ChatPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse
// @Router /v1/conversations/{conversation_id}/chat [post]
func (h *ChatHandler) SendTurn(c *gin.Context) {
	userID := auth.Subject(c)
	if userID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "chat-turn-unauthorized")
		return
	}

	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "message is required", "chat-turn-invalid-body")
		return
	}

	result, err := h.service.SendTurn(c.Request.Context(), chat.TurnParams{
		UserID:         userID,
		ConversationID: c.Param("conversation_id"),
		Message:        req.Message,
		AgentID:        req.AgentID,
		Metadata:       req.Metadata,
	})
	if err != nil {
		responses.HandleError(c, err, "chat turn failed")
		return
	}

	c.JSON(http.StatusCreated, responses.FromTurnResult(result))
}
