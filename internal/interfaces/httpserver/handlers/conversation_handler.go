package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pathwise-server/services/guidance-api/internal/domain/conversation"
	"pathwise-server/services/guidance-api/internal/infrastructure/auth"
	"pathwise-server/services/guidance-api/internal/interfaces/httpserver/requests"
	"pathwise-server/services/guidance-api/internal/interfaces/httpserver/responses"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
)

// ConversationHandler exposes HTTP entrypoints for conversation CRUD and the
// message log.
type ConversationHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// Create handles POST /v1/conversations
// @Summary Create a conversation
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body requests.CreateConversationRequest true "Create request"
// @Success 201 {object} responses.ConversationPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/conversations [post]
func (h *ConversationHandler) Create(c *gin.Context) {
	userID := auth.Subject(c)
	if userID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "create-conversation-unauthorized")
		return
	}

	var req requests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "title is required", "create-conversation-invalid-body")
		return
	}

	conv, err := h.service.Create(c.Request.Context(), conversation.CreateParams{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.ConversationType,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create conversation")
		return
	}

	c.JSON(http.StatusCreated, responses.FromConversation(conv))
}

// List handles GET /v1/conversations
// @Summary List the caller's conversations, most recent activity first
// @Tags Conversations
// @Produce json
// @Success 200 {array} responses.ConversationPayload
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	userID := auth.Subject(c)
	if userID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "list-conversations-unauthorized")
		return
	}

	convs, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}

	c.JSON(http.StatusOK, responses.FromConversations(convs))
}

// Get handles GET /v1/conversations/:conversation_id
// @Summary Get a conversation with its message log
// @Tags Conversations
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} responses.ConversationDetail
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{conversation_id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	userID := auth.Subject(c)
	if userID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "get-conversation-unauthorized")
		return
	}

	id := c.Param("conversation_id")
	conv, messages, err := h.service.GetWithMessages(c.Request.Context(), id, userID)
	if err != nil {
		responses.HandleError(c, err, "failed to fetch conversation")
		return
	}

	c.JSON(http.StatusOK, responses.ConversationDetail{
		Conversation: responses.FromConversation(conv),
		Messages:     responses.FromMessages(messages),
	})
}

// ListMessages handles GET /v1/conversations/:conversation_id/messages
// @Summary List a conversation's messages in creation order
// @Tags Conversations
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {array} responses.MessagePayload
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{conversation_id}/messages [get]
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	userID := auth.Subject(c)
	if userID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "list-messages-unauthorized")
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), c.Param("conversation_id"), userID)
	if err != nil {
		responses.HandleError(c, err, "failed to fetch conversation messages")
		return
	}

	c.JSON(http.StatusOK, responses.FromMessages(messages))
}

// AppendMessage handles POST /v1/conversations/:conversation_id/messages
// @Summary Append a message to a conversation
// @Tags Conversations
// @Accept json
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Param request body requests.AppendMessageRequest true "Message"
// @Success 201 {object} responses.MessagePayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{conversation_id}/messages [post]
func (h *ConversationHandler) AppendMessage(c *gin.Context) {
	userID := auth.Subject(c)
	if userID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "append-message-unauthorized")
		return
	}

	var req requests.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "role and content are required", "append-message-invalid-body")
		return
	}

	msg, err := h.service.AppendMessage(c.Request.Context(), conversation.AppendMessageParams{
		UserID:         userID,
		ConversationID: c.Param("conversation_id"),
		Role:           conversation.MessageRole(req.Role),
		Content:        req.Content,
		AgentID:        req.AgentID,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to append message")
		return
	}

	c.JSON(http.StatusCreated, responses.FromMessage(msg))
}

// Update handles PATCH /v1/conversations/:conversation_id
// @Summary Update conversation metadata (title, description, status)
// @Tags Conversations
// @Accept json
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Param request body requests.UpdateConversationRequest true "Update request"
// @Success 200 {object} responses.ConversationPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{conversation_id} [patch]
func (h *ConversationHandler) Update(c *gin.Context) {
	userID := auth.Subject(c)
	if userID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "update-conversation-unauthorized")
		return
	}

	var req requests.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "update-conversation-invalid-body")
		return
	}

	fields := conversation.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := conversation.Status(*req.Status)
		fields.Status = &status
	}

	conv, err := h.service.Update(c.Request.Context(), c.Param("conversation_id"), userID, fields)
	if err != nil {
		responses.HandleError(c, err, "failed to update conversation")
		return
	}

	c.JSON(http.StatusOK, responses.FromConversation(conv))
}

// Stats handles GET /v1/dashboard/stats
// @Summary Dashboard statistics for the caller's conversations
// @Tags Dashboard
// @Produce json
// @Success 200 {object} conversation.Stats
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/dashboard/stats [get]
func (h *ConversationHandler) Stats(c *gin.Context) {
	userID := auth.Subject(c)
	if userID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "dashboard-stats-unauthorized")
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "failed to compute dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
