package mqhandler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	mqcontracts "agencydesk/contracts/mq"
	"agencydesk/pkg/metrics"
)

// QuoteSentHandler keeps an audit trail of dispatched invoices in the worker
// log. Nothing downstream consumes the event yet.
type QuoteSentHandler struct {
	logger *zap.Logger
}

func NewQuoteSentHandler(logger *zap.Logger) *QuoteSentHandler {
	return &QuoteSentHandler{logger: logger}
}

func (h *QuoteSentHandler) HandleQuoteSent(ctx context.Context, raw json.RawMessage) error {
	start := time.Now()

	var p mqcontracts.QuoteSentPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal quote sent payload (non-retryable)", zap.Error(err))
		return nil
	}

	metrics.RecordMQConsumeLatency(mqcontracts.RoutingQuoteSent, "audit.quote_sent", time.Since(start))
	h.logger.Info("Invoice dispatched",
		zap.Int("quote_id", p.QuoteID),
		zap.Int("project_id", p.ProjectID),
		zap.String("invoice_number", p.InvoiceNumber),
		zap.Time("sent_at", p.SentAt),
	)
	return nil
}
