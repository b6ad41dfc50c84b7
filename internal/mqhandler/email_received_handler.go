package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	mqcontracts "agencydesk/contracts/mq"
	"agencydesk/pkg/metrics"
	"agencydesk/pkg/util"
)

type EmailReceivedHandler struct {
	mailer     Mailer
	adminEmail string
	deduper    *util.Deduper
	retries    *util.RetryCounter
	logger     *zap.Logger
}

func NewEmailReceivedHandler(mailer Mailer, adminEmail string, deduper *util.Deduper, retries *util.RetryCounter, logger *zap.Logger) *EmailReceivedHandler {
	return &EmailReceivedHandler{
		mailer:     mailer,
		adminEmail: adminEmail,
		deduper:    deduper,
		retries:    retries,
		logger:     logger,
	}
}

// HandleEmailReceived emails the admin when a client email lands on a project.
func (h *EmailReceivedHandler) HandleEmailReceived(ctx context.Context, raw json.RawMessage) error {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic in HandleEmailReceived", zap.Any("panic", r))
		}
	}()

	var p mqcontracts.EmailReceivedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal email received payload (non-retryable)", zap.Error(err))
		return nil
	}

	key := fmt.Sprintf("%d", p.MessageID)
	if !h.deduper.AcquireOnce(ctx, "notify:email", key) {
		h.logger.Info("Duplicate email notification skipped", zap.Int("message_id", p.MessageID))
		return nil
	}

	subject := fmt.Sprintf("New client email: %s", p.Subject)
	if p.NewProject {
		subject = fmt.Sprintf("New sender, project created: %s", p.Subject)
	}
	body := fmt.Sprintf(
		"Client email received.\n\nFrom: %s\nSubject: %s\nProject ID: %d\nReceived: %s\n",
		p.Sender, p.Subject, p.ProjectID, p.ReceivedAt.Format(time.RFC3339),
	)

	if _, err := h.mailer.Send(ctx, h.adminEmail, subject, body); err != nil {
		isRetryable, errType := util.IsRetryableError(err)
		h.logger.Error("Failed to send email notification",
			zap.Int("message_id", p.MessageID),
			zap.String("error_type", errType),
			zap.Bool("retryable", isRetryable),
			zap.Error(err),
		)
		if !isRetryable {
			return nil
		}
		count, cerr := h.retries.IncrementAndGet(ctx, util.FormatRetryKey("email_received", key))
		if cerr == nil && !util.ShouldRetry(count, maxHandlerRetries, isRetryable) {
			h.logger.Error("Giving up on email notification after max retries",
				zap.Int("message_id", p.MessageID),
				zap.Int64("attempts", count),
			)
			return nil
		}
		return err
	}

	metrics.RecordMQConsumeLatency(mqcontracts.RoutingEmailReceived, "notify.email_received", time.Since(start))
	h.logger.Info("Email notification sent",
		zap.Int("project_id", p.ProjectID),
		zap.Int("message_id", p.MessageID),
	)
	return nil
}
