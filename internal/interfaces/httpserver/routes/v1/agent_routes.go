package v1

import (
	"github.com/gin-gonic/gin"

	"pathwise-server/services/guidance-api/internal/interfaces/httpserver/handlers"
)

func registerAgentRoutes(router gin.IRoutes, handler *handlers.AgentHandler) {
	router.GET("/agents", handler.List)
}

func registerDashboardRoutes(router gin.IRoutes, handler *handlers.ConversationHandler) {
	router.GET("/dashboard/stats", handler.Stats)
}
