package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/service/inquiry"
)

type InquiryHandler struct {
	inquiryService *inquiry.Service
	logger         *zap.Logger
}

func NewInquiryHandler(inquiryService *inquiry.Service, logger *zap.Logger) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService, logger: logger}
}

// Create handles POST /api/inquiries
func (h *InquiryHandler) Create(c *gin.Context) {
	var req inquiry.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projectID, err := h.inquiryService.Create(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create inquiry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create inquiry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project_id": projectID})
}
