package v1

import (
	"github.com/gin-gonic/gin"

	"pathwise-server/services/guidance-api/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(router gin.IRoutes, handler *handlers.ConversationHandler, chatHandler *handlers.ChatHandler) {
	router.POST("/conversations", handler.Create)
	router.GET("/conversations", handler.List)
	router.GET("/conversations/:conversation_id", handler.Get)
	router.PATCH("/conversations/:conversation_id", handler.Update)
	router.GET("/conversations/:conversation_id/messages", handler.ListMessages)
	router.POST("/conversations/:conversation_id/messages", handler.AppendMessage)
	router.POST("/conversations/:conversation_id/chat", chatHandler.SendTurn)
}
