package handlers

import (
	"net/http"

	"movie-booking/internal/models"
	"movie-booking/internal/services"
	"movie-booking/internal/utils"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat always answers with a reply; provider failures keep the reply text and
// switch the status to 500.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(utils.BindingMessage(err)))
		return
	}

	reply, err := h.chatService.Reply(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ChatResponse{Reply: reply})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}
