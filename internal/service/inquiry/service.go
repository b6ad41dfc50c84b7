package inquiry

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"agencydesk/internal/model"
)

type Store interface {
	CreateInquiry(ctx context.Context, client *model.Client, project *model.Project, milestones []model.Milestone) (int, error)
}

// Request is a public inquiry form submission.
type Request struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Company     string  `json:"company"`
	ServiceType string  `json:"service_type"`
	Message     string  `json:"message"`
	TotalPrice  float64 `json:"total_price"`
}

// Validate reports the first missing or malformed required field.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.ServiceType) == "" {
		return errors.New("service_type is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	return nil
}

// Service turns inquiry submissions into clients and projects.
type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create finds or creates the client by email and opens a project with the
// default milestone template. Returns the new project's ID.
func (s *Service) Create(ctx context.Context, req *Request) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	client := &model.Client{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		Source:  "inquiry",
	}

	milestones := model.DefaultMilestones()
	project := &model.Project{
		ServiceType:  req.ServiceType,
		Title:        fmt.Sprintf("%s project for %s", req.ServiceType, client.Name),
		Description:  req.Message,
		PaymentModel: model.PaymentModelMilestone,
		TotalPrice:   req.TotalPrice,
		Progress:     model.ComputeProgress(milestones),
	}

	projectID, err := s.store.CreateInquiry(ctx, client, project, milestones)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Inquiry created",
		zap.Int("project_id", projectID),
		zap.String("client_email", client.Email),
		zap.String("service_type", req.ServiceType),
	)

	return projectID, nil
}
