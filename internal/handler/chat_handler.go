package handler

import (
	"net/http"
	"strconv"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/model"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
	auth        *middleware.Auth
}

func NewChatHandler(chatService service.ChatService, auth *middleware.Auth) *ChatHandler {
	return &ChatHandler{chatService: chatService, auth: auth}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := h.auth.RequireRole(model.RoleAdmin, model.RoleSales, model.RoleStockman)

	chat := router.Group("/api/chat")
	{
		chat.GET("/messages", anyRole, h.List)
		chat.POST("/messages", anyRole, h.Post)
		chat.DELETE("/messages", h.auth.RequireRole(model.RoleAdmin), h.Clear)
	}
}

// List returns recent chat messages, oldest first
// @Summary      List chat messages
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "Max messages (default 200)"
// @Success      200    {object}  response.Response{data=[]model.ChatMessage}
// @Router       /api/chat/messages [get]
func (h *ChatHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

	messages, err := h.chatService.List(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, messages))
}

// Post sends a chat message, broadcast to all connected clients
// @Summary      Post chat message
// @Tags         chat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.PostMessageRequest  true  "Message"
// @Success      201      {object}  response.Response{data=model.ChatMessage}
// @Router       /api/chat/messages [post]
func (h *ChatHandler) Post(c *gin.Context) {
	var req service.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	message, err := h.chatService.Post(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, message))
}

// Clear wipes the chat history
// @Summary      Clear chat
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/chat/messages [delete]
func (h *ChatHandler) Clear(c *gin.Context) {
	if err := h.chatService.Clear(c.Request.Context(), actorFrom(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "chat cleared"}))
}
