package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/service/delivery"
	"agencydesk/internal/service/inbound"
	"agencydesk/internal/webhook"
	"agencydesk/pkg/metrics"
)

// WebhookHandler terminates provider webhooks. Every request is answered 200
// once its payload is readable; failures are logged and counted instead of
// surfaced, because providers retry non-2xx responses and the retries would
// only replay work we already rejected.
type WebhookHandler struct {
	inboundService  *inbound.Service
	deliveryService *delivery.Service
	logger          *zap.Logger
}

func NewWebhookHandler(inboundService *inbound.Service, deliveryService *delivery.Service, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		inboundService:  inboundService,
		deliveryService: deliveryService,
		logger:          logger,
	}
}

// Inbound handles POST /webhooks/inbound/:provider
func (h *WebhookHandler) Inbound(c *gin.Context) {
	provider := c.Param("provider")

	adapter, err := webhook.Select(provider)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}

	email, err := adapter.Parse(c.Request)
	if err != nil {
		metrics.IncrementWebhookReceived(provider, "failed")
		h.logger.Warn("Unparseable inbound webhook",
			zap.String("provider", provider),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	res, err := h.inboundService.Process(c.Request.Context(), provider, email)
	if err != nil {
		metrics.IncrementWebhookReceived(provider, "failed")
		h.logger.Error("Inbound email processing failed",
			zap.String("provider", provider),
			zap.String("from", email.From),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"status": "failed"})
		return
	}

	if res.Duplicate {
		metrics.IncrementWebhookReceived(provider, "duplicate")
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	metrics.IncrementWebhookReceived(provider, "processed")
	c.JSON(http.StatusOK, gin.H{
		"status":      "processed",
		"project_id":  res.ProjectID,
		"message_id":  res.MessageID,
		"new_project": res.NewProject,
	})
}

// Delivery handles POST /webhooks/delivery
func (h *WebhookHandler) Delivery(c *gin.Context) {
	event, err := webhook.ParseDelivery(c.Request)
	if err != nil {
		h.logger.Info("Ignoring delivery event", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err := h.deliveryService.Apply(c.Request.Context(), event.ProviderID, event.Status); err != nil {
		h.logger.Error("Failed to apply delivery status",
			zap.String("provider_id", event.ProviderID),
			zap.String("status", event.Status),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"status": "failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
