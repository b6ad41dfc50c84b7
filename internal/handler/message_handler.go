package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/repository"
	"agencydesk/internal/service/thread"
)

type MessageHandler struct {
	messages      *repository.MessageRepository
	threadService *thread.Service
	logger        *zap.Logger
}

func NewMessageHandler(messages *repository.MessageRepository, threadService *thread.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, threadService: threadService, logger: logger}
}

// List handles GET /api/admin/projects/:id/messages
func (h *MessageHandler) List(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := h.messages.FindByProjectID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list messages", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Send handles POST /api/admin/projects/:id/messages
func (h *MessageHandler) Send(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject and body are required"})
		return
	}

	messageID, err := h.threadService.SendOutbound(c.Request.Context(), id, req.Subject, req.Body)
	if err != nil {
		h.logger.Error("Failed to send outbound message", zap.Int("project_id", id), zap.Error(err))
		respondError(c, err, "failed to send message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message_id": messageID})
}
