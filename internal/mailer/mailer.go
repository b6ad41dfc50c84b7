package mailer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"agencydesk/config"
	"agencydesk/pkg/circuitbreaker"
	"agencydesk/pkg/retry"
)

// Attachment is a file to include in an outbound email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Mailer sends transactional email over SMTP. Sends run behind a circuit
// breaker with bounded retries; a returned error means the message was
// definitely not accepted by the provider.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	breaker  *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
	timeout  time.Duration
	logger   *zap.Logger
}

func New(cfg config.SMTPConfig, logger *zap.Logger) *Mailer {
	return &Mailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:     cfg.From,
		breaker:  circuitbreaker.New(circuitbreaker.DefaultConfig()),
		retryCfg: retry.DefaultConfig(),
		timeout:  15 * time.Second,
		logger:   logger,
	}
}

// Send dispatches a message and returns the provider message id assigned to
// it. The id is stamped into the Message-ID header so delivery-status
// webhooks can be matched back to the stored message.
func (m *Mailer) Send(ctx context.Context, to, subject, body string, attachments ...Attachment) (string, error) {
	providerID := uuid.NewString()

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", fmt.Sprintf("<%s@agencydesk>", providerID))
	msg.SetBody("text/plain", body)

	for _, a := range attachments {
		content := a.Content
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	err := retry.Do(ctx, m.retryCfg, func() error {
		return m.breaker.Execute(func() error {
			return m.sendWithTimeout(ctx, msg)
		})
	})
	if err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return "", fmt.Errorf("smtp send failed: %w", err)
	}

	m.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("provider_id", providerID),
	)
	return providerID, nil
}

// sendWithTimeout bounds DialAndSend, which has no context support of its own.
func (m *Mailer) sendWithTimeout(ctx context.Context, msg *gomail.Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
