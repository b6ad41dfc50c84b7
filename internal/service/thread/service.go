package thread

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"agencydesk/internal/mailer"
	"agencydesk/internal/model"
)

type ProjectStore interface {
	FindByID(ctx context.Context, id int) (*model.Project, error)
}

type ClientStore interface {
	FindByID(ctx context.Context, id int) (*model.Client, error)
}

type MessageStore interface {
	AppendOutbound(ctx context.Context, msg *model.Message) (int, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachments ...mailer.Attachment) (string, error)
}

// Service sends admin replies on a project's email thread.
type Service struct {
	projects ProjectStore
	clients  ClientStore
	messages MessageStore
	mailer   Mailer
	from     string
	logger   *zap.Logger
}

func NewService(projects ProjectStore, clients ClientStore, messages MessageStore, m Mailer, from string, logger *zap.Logger) *Service {
	return &Service{
		projects: projects,
		clients:  clients,
		messages: messages,
		mailer:   m,
		from:     from,
		logger:   logger,
	}
}

// SendOutbound emails the project's client and appends the outbound message
// to the thread. The message is only recorded after a confirmed send.
func (s *Service) SendOutbound(ctx context.Context, projectID int, subject, body string) (int, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return 0, err
	}
	c, err := s.clients.FindByID(ctx, p.ClientID)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(c.Email) == "" {
		return 0, model.ErrMissingRecipient
	}

	providerID, err := s.mailer.Send(ctx, c.Email, subject, body)
	if err != nil {
		return 0, err
	}

	messageID, err := s.messages.AppendOutbound(ctx, &model.Message{
		ProjectID:  projectID,
		Sender:     s.from,
		Subject:    subject,
		Body:       body,
		ProviderID: providerID,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Outbound message sent",
		zap.Int("project_id", projectID),
		zap.Int("message_id", messageID),
		zap.String("to", c.Email),
	)

	return messageID, nil
}
