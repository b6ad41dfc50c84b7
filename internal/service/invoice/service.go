package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agencydesk/internal/mailer"
	"agencydesk/internal/model"
	"agencydesk/pkg/metrics"
)

type QuoteStore interface {
	FindByID(ctx context.Context, id int) (*model.Quote, error)
	MarkSent(ctx context.Context, quoteID int, invoiceNumber string, sentAt time.Time, msg *model.Message) error
}

type ProjectStore interface {
	FindByID(ctx context.Context, id int) (*model.Project, error)
}

type ClientStore interface {
	FindByID(ctx context.Context, id int) (*model.Client, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachments ...mailer.Attachment) (string, error)
}

// Service renders and dispatches invoice emails for pending quotes.
//
// The send is a three-stage saga: render, dispatch, record. Render and
// dispatch have no database side effects, so a failure at either stage
// leaves the quote pending and the operation safely repeatable. The record
// stage commits the pending->sent transition, the outbound message and the
// quote.sent event in one transaction.
type Service struct {
	quotes   QuoteStore
	projects ProjectStore
	clients  ClientStore
	renderer Renderer
	mailer   Mailer
	from     string
	logger   *zap.Logger
}

func NewService(quotes QuoteStore, projects ProjectStore, clients ClientStore, renderer Renderer, m Mailer, from string, logger *zap.Logger) *Service {
	return &Service{
		quotes:   quotes,
		projects: projects,
		clients:  clients,
		renderer: renderer,
		mailer:   m,
		from:     from,
		logger:   logger,
	}
}

// Send emails the invoice for a pending quote and transitions it to sent.
func (s *Service) Send(ctx context.Context, quoteID int) error {
	start := time.Now()

	q, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return err
	}
	if q.Status != model.QuoteStatusPending {
		return model.ErrInvalidStatus
	}

	p, err := s.projects.FindByID(ctx, q.ProjectID)
	if err != nil {
		return err
	}
	c, err := s.clients.FindByID(ctx, q.ClientID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.Email) == "" {
		return model.ErrMissingRecipient
	}

	invoiceNumber := fmt.Sprintf("INV-%s", strings.ToUpper(uuid.NewString()[:8]))
	now := time.Now()

	pdf, err := s.renderer.Render(Data{
		InvoiceNumber: invoiceNumber,
		Quote:         q,
		Project:       p,
		Client:        c,
		IssuedAt:      now,
	})
	if err != nil {
		metrics.RecordInvoiceSendDuration("failed", time.Since(start))
		return err
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nPlease find attached invoice %s for %s (%.2f).\n\nThank you.",
		c.Name, invoiceNumber, q.Subject, q.Amount,
	)

	providerID, err := s.mailer.Send(ctx, c.Email, q.Subject, body, mailer.Attachment{
		Filename:    fmt.Sprintf("%s.pdf", invoiceNumber),
		ContentType: "application/pdf",
		Content:     pdf,
	})
	if err != nil {
		// Quote stays pending; the send can be retried from the dashboard.
		metrics.RecordInvoiceSendDuration("failed", time.Since(start))
		return err
	}

	err = s.quotes.MarkSent(ctx, quoteID, invoiceNumber, now, &model.Message{
		ProjectID:  q.ProjectID,
		Sender:     s.from,
		Subject:    q.Subject,
		Body:       body,
		ProviderID: providerID,
	})
	if err != nil {
		metrics.RecordInvoiceSendDuration("failed", time.Since(start))
		return err
	}

	metrics.RecordInvoiceSendDuration("success", time.Since(start))
	s.logger.Info("Invoice sent",
		zap.Int("quote_id", quoteID),
		zap.String("invoice_number", invoiceNumber),
		zap.String("to", c.Email),
		zap.String("provider_id", providerID),
	)

	return nil
}
