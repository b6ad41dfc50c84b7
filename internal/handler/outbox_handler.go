package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/pkg/outbox"
)

// OutboxHandler exposes the outbox table for operational inspection.
// Replay only resets an event to pending; the worker's dispatcher
// publishes it on its next poll.
type OutboxHandler struct {
	repo   *outbox.Repository
	logger *zap.Logger
}

func NewOutboxHandler(repo *outbox.Repository, logger *zap.Logger) *OutboxHandler {
	return &OutboxHandler{repo: repo, logger: logger}
}

// ListFailed handles GET /api/admin/outbox/failed?limit=100
func (h *OutboxHandler) ListFailed(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	events, err := h.repo.GetFailedEvents(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list failed outbox events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list failed events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// Replay handles POST /api/admin/outbox/replay?id=xxx
func (h *OutboxHandler) Replay(c *gin.Context) {
	idStr := c.Query("id")
	if idStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id parameter"})
		return
	}

	eventID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id parameter"})
		return
	}

	if err := h.repo.ReplayEvent(c.Request.Context(), eventID); err != nil {
		h.logger.Error("Failed to replay event",
			zap.Int64("event_id", eventID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to replay event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "replayed", "event_id": eventID})
}
