package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/repository"
	"agencydesk/internal/service/invoice"
	"agencydesk/pkg/metrics"
)

type QuoteHandler struct {
	quotes         *repository.QuoteRepository
	invoiceService *invoice.Service
	logger         *zap.Logger
}

func NewQuoteHandler(quotes *repository.QuoteRepository, invoiceService *invoice.Service, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, invoiceService: invoiceService, logger: logger}
}

// List handles GET /api/admin/quotes
func (h *QuoteHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	quotes, total, err := h.quotes.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list quotes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list quotes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": quotes, "total": total})
}

// Get handles GET /api/admin/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	q, err := h.quotes.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch quote")
		return
	}

	c.JSON(http.StatusOK, q)
}

// Create handles POST /api/admin/quotes for manually raised quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req struct {
		Subject   string  `json:"subject"`
		Amount    float64 `json:"amount"`
		ProjectID int     `json:"project_id"`
		ClientID  int     `json:"client_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Subject) == "" || req.Amount <= 0 || req.ProjectID < 1 || req.ClientID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject, amount, project_id and client_id are required"})
		return
	}

	id, err := h.quotes.Insert(c.Request.Context(), &model.Quote{
		Subject:   req.Subject,
		Amount:    req.Amount,
		Status:    model.QuoteStatusPending,
		ProjectID: req.ProjectID,
		ClientID:  req.ClientID,
	})
	if err != nil {
		h.logger.Error("Failed to create quote", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create quote"})
		return
	}

	metrics.IncrementQuoteCreated("manual")
	c.JSON(http.StatusCreated, gin.H{"quote_id": id})
}

// Send handles POST /api/admin/quotes/:id/send
func (h *QuoteHandler) Send(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Send(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to send invoice", zap.Int("quote_id", id), zap.Error(err))
		respondError(c, err, "failed to send invoice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// MarkPaid handles POST /api/admin/quotes/:id/paid
func (h *QuoteHandler) MarkPaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.quotes.MarkPaid(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to mark quote paid")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "paid"})
}
