package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pathwise-server/services/guidance-api/internal/domain/agent"
	"pathwise-server/services/guidance-api/internal/infrastructure/auth"
	"pathwise-server/services/guidance-api/internal/interfaces/httpserver/responses"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
)

// AgentHandler proxies agent discovery to the backend.
type AgentHandler struct {
	client agent.Client
	log    zerolog.Logger
}

// NewAgentHandler constructs the handler.
func NewAgentHandler(client agent.Client, log zerolog.Logger) *AgentHandler {
	return &AgentHandler{
		client: client,
		log:    log.With().Str("handler", "agent").Logger(),
	}
}

// List handles GET /v1/agents
// @Summary List agents available on the backend
// @Tags Agents
// @Produce json
// @Success 200 {array} agent.Agent
// @Failure 401 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse
// @Router /v1/agents [get]
func (h *AgentHandler) List(c *gin.Context) {
	userID := auth.Subject(c)
	if userID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "list-agents-unauthorized")
		return
	}

	agents, err := h.client.ListAgents(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list agents")
		return
	}

	c.JSON(http.StatusOK, agents)
}
