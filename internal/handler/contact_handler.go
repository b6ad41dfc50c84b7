package handler

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/repository"
)

type ContactHandler struct {
	contacts *repository.ContactRepository
	logger   *zap.Logger
}

func NewContactHandler(contacts *repository.ContactRepository, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// Create handles POST /api/contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and message are required"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	id, err := h.contacts.Insert(c.Request.Context(), &model.ContactQuery{
		Name:    req.Name,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.logger.Error("Failed to save contact query", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save contact query"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact_id": id})
}

// List handles GET /api/admin/contact
func (h *ContactHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	queries, total, err := h.contacts.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list contact queries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list contact queries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": queries, "total": total})
}

// MarkHandled handles POST /api/admin/contact/:id/handled
func (h *ContactHandler) MarkHandled(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.contacts.MarkHandled(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to mark contact query handled")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Delete handles DELETE /api/admin/contact/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete contact query")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
