package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	mqcontracts "agencydesk/contracts/mq"
	"agencydesk/internal/mailer"
	"agencydesk/pkg/metrics"
	"agencydesk/pkg/util"
)

// Mailer is the sending surface notification handlers need.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachments ...mailer.Attachment) (string, error)
}

const maxHandlerRetries = 5

type InquiryCreatedHandler struct {
	mailer     Mailer
	adminEmail string
	deduper    *util.Deduper
	retries    *util.RetryCounter
	logger     *zap.Logger
}

func NewInquiryCreatedHandler(mailer Mailer, adminEmail string, deduper *util.Deduper, retries *util.RetryCounter, logger *zap.Logger) *InquiryCreatedHandler {
	return &InquiryCreatedHandler{
		mailer:     mailer,
		adminEmail: adminEmail,
		deduper:    deduper,
		retries:    retries,
		logger:     logger,
	}
}

// HandleInquiryCreated emails the admin about a new inquiry.
func (h *InquiryCreatedHandler) HandleInquiryCreated(ctx context.Context, raw json.RawMessage) error {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic in HandleInquiryCreated", zap.Any("panic", r))
		}
	}()

	var p mqcontracts.InquiryCreatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal inquiry created payload (non-retryable)", zap.Error(err))
		return nil
	}

	key := fmt.Sprintf("%d", p.ProjectID)
	if !h.deduper.AcquireOnce(ctx, "notify:inquiry", key) {
		h.logger.Info("Duplicate inquiry notification skipped", zap.Int("project_id", p.ProjectID))
		return nil
	}

	subject := fmt.Sprintf("New inquiry: %s (%s)", p.ClientName, p.ServiceType)
	body := fmt.Sprintf(
		"New project inquiry.\n\nClient: %s <%s>\nService: %s\nProject ID: %d\nReceived: %s\n",
		p.ClientName, p.ClientEmail, p.ServiceType, p.ProjectID, p.CreatedAt.Format(time.RFC3339),
	)

	if _, err := h.mailer.Send(ctx, h.adminEmail, subject, body); err != nil {
		return h.handleSendError(ctx, "inquiry", key, p.ProjectID, err)
	}

	metrics.RecordMQConsumeLatency(mqcontracts.RoutingInquiryCreated, "notify.inquiry_created", time.Since(start))
	h.logger.Info("Inquiry notification sent", zap.Int("project_id", p.ProjectID))
	return nil
}

func (h *InquiryCreatedHandler) handleSendError(ctx context.Context, handlerName, key string, projectID int, err error) error {
	isRetryable, errType := util.IsRetryableError(err)
	h.logger.Error("Failed to send inquiry notification",
		zap.Int("project_id", projectID),
		zap.String("error_type", errType),
		zap.Bool("retryable", isRetryable),
		zap.Error(err),
	)
	if !isRetryable {
		return nil
	}

	count, cerr := h.retries.IncrementAndGet(ctx, util.FormatRetryKey(handlerName, key))
	if cerr == nil && !util.ShouldRetry(count, maxHandlerRetries, isRetryable) {
		h.logger.Error("Giving up on inquiry notification after max retries",
			zap.Int("project_id", projectID),
			zap.Int64("attempts", count),
		)
		return nil
	}
	return err
}
