package inbound

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/repository"
	"agencydesk/pkg/metrics"
)

const lastMessageMaxLen = 120

type Store interface {
	ReconcileInbound(ctx context.Context, in repository.InboundReconcile) (*repository.ReconcileResult, error)
}

type AttachmentStore interface {
	AddAttachment(ctx context.Context, a *model.Attachment) (int, error)
}

type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

type Deduper interface {
	AcquireOnce(ctx context.Context, scope, key string) bool
}

// Fetcher downloads provider-hosted attachment content.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpFetcher struct {
	client *http.Client
}

func (f httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment fetch returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Result reports what reconciliation did with an inbound email.
type Result struct {
	Duplicate  bool
	ProjectID  int
	MessageID  int
	NewProject bool
}

// Service reconciles inbound email with projects by sender address.
type Service struct {
	store       Store
	attachments AttachmentStore
	uploader    Uploader
	deduper     Deduper
	fetcher     Fetcher
	logger      *zap.Logger
}

func NewService(store Store, attachments AttachmentStore, uploader Uploader, deduper Deduper, logger *zap.Logger) *Service {
	return &Service{
		store:       store,
		attachments: attachments,
		uploader:    uploader,
		deduper:     deduper,
		fetcher:     httpFetcher{client: &http.Client{Timeout: 10 * time.Second}},
		logger:      logger,
	}
}

// WithFetcher overrides the attachment fetcher.
func (s *Service) WithFetcher(f Fetcher) *Service {
	s.fetcher = f
	return s
}

// Process attaches an inbound email to the sender's most recent project,
// creating one when the sender is unknown. Attachment failures are isolated:
// one bad attachment never blocks the message or its siblings.
func (s *Service) Process(ctx context.Context, provider string, email *Email) (*Result, error) {
	addr, name, err := NormalizeAddress(email.From)
	if err != nil {
		return nil, err
	}

	if email.ProviderEventID != "" && !s.deduper.AcquireOnce(ctx, "inbound:"+provider, email.ProviderEventID) {
		return &Result{Duplicate: true}, nil
	}

	body := email.Text
	if body == "" {
		body = email.HTML
	}

	res, err := s.store.ReconcileInbound(ctx, repository.InboundReconcile{
		Sender:      addr,
		SenderName:  name,
		Subject:     email.Subject,
		Body:        body,
		LastMessage: truncate(email.Subject, lastMessageMaxLen),
		ReceivedAt:  time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Inbound email reconciled",
		zap.String("provider", provider),
		zap.String("sender", addr),
		zap.Int("project_id", res.ProjectID),
		zap.Int("message_id", res.MessageID),
		zap.Bool("new_project", res.NewProject),
	)

	s.processAttachments(ctx, res.MessageID, email.Attachments)

	return &Result{
		ProjectID:  res.ProjectID,
		MessageID:  res.MessageID,
		NewProject: res.NewProject,
	}, nil
}

func (s *Service) processAttachments(ctx context.Context, messageID int, attachments []Attachment) {
	for _, a := range attachments {
		if err := s.processAttachment(ctx, messageID, a); err != nil {
			metrics.IncrementAttachmentUpload("failed")
			s.logger.Warn("Skipping attachment",
				zap.Int("message_id", messageID),
				zap.String("filename", a.Filename),
				zap.Error(err),
			)
			continue
		}
		metrics.IncrementAttachmentUpload("success")
	}
}

func (s *Service) processAttachment(ctx context.Context, messageID int, a Attachment) error {
	var data []byte
	var err error

	switch {
	case a.URL != "":
		data, err = s.fetcher.Fetch(ctx, a.URL)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
	case a.Content != "":
		data, err = base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return fmt.Errorf("base64 decode failed: %w", err)
		}
	default:
		return fmt.Errorf("attachment %q has no content", a.Filename)
	}

	url, err := s.uploader.Upload(ctx, a.Filename, a.ContentType, data)
	if err != nil {
		return err
	}

	_, err = s.attachments.AddAttachment(ctx, &model.Attachment{
		MessageID:   messageID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		SizeBytes:   int64(len(data)),
		URL:         url,
	})
	if err != nil {
		return fmt.Errorf("failed to persist attachment: %w", err)
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
