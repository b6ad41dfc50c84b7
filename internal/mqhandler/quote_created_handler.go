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

type QuoteCreatedHandler struct {
	mailer     Mailer
	adminEmail string
	deduper    *util.Deduper
	retries    *util.RetryCounter
	logger     *zap.Logger
}

func NewQuoteCreatedHandler(mailer Mailer, adminEmail string, deduper *util.Deduper, retries *util.RetryCounter, logger *zap.Logger) *QuoteCreatedHandler {
	return &QuoteCreatedHandler{
		mailer:     mailer,
		adminEmail: adminEmail,
		deduper:    deduper,
		retries:    retries,
		logger:     logger,
	}
}

// HandleQuoteCreated emails the admin that a quote is pending and ready to send.
func (h *QuoteCreatedHandler) HandleQuoteCreated(ctx context.Context, raw json.RawMessage) error {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic in HandleQuoteCreated", zap.Any("panic", r))
		}
	}()

	var p mqcontracts.QuoteCreatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal quote created payload (non-retryable)", zap.Error(err))
		return nil
	}

	key := fmt.Sprintf("%d", p.QuoteID)
	if !h.deduper.AcquireOnce(ctx, "notify:quote", key) {
		h.logger.Info("Duplicate quote notification skipped", zap.Int("quote_id", p.QuoteID))
		return nil
	}

	subject := fmt.Sprintf("Quote pending: %s", p.Subject)
	body := fmt.Sprintf(
		"A quote was created and is awaiting dispatch.\n\nQuote ID: %d\nProject ID: %d\nSubject: %s\nAmount: %.2f\n",
		p.QuoteID, p.ProjectID, p.Subject, p.Amount,
	)

	if _, err := h.mailer.Send(ctx, h.adminEmail, subject, body); err != nil {
		isRetryable, errType := util.IsRetryableError(err)
		h.logger.Error("Failed to send quote notification",
			zap.Int("quote_id", p.QuoteID),
			zap.String("error_type", errType),
			zap.Bool("retryable", isRetryable),
			zap.Error(err),
		)
		if !isRetryable {
			return nil
		}
		count, cerr := h.retries.IncrementAndGet(ctx, util.FormatRetryKey("quote_created", key))
		if cerr == nil && !util.ShouldRetry(count, maxHandlerRetries, isRetryable) {
			h.logger.Error("Giving up on quote notification after max retries",
				zap.Int("quote_id", p.QuoteID),
				zap.Int64("attempts", count),
			)
			return nil
		}
		return err
	}

	metrics.RecordMQConsumeLatency(mqcontracts.RoutingQuoteCreated, "notify.quote_created", time.Since(start))
	h.logger.Info("Quote notification sent", zap.Int("quote_id", p.QuoteID))
	return nil
}
