package milestone

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/pkg/metrics"
)

type ProjectStore interface {
	FindWithMilestones(ctx context.Context, projectID int) (*model.Project, error)
}

type MilestoneStore interface {
	Complete(ctx context.Context, projectID, position int, completedAt time.Time, quote *model.Quote) (int, error)
}

// Service drives milestone completion and the quote it mints.
type Service struct {
	projects   ProjectStore
	milestones MilestoneStore
	amount     AmountStrategy
	logger     *zap.Logger
}

func NewService(projects ProjectStore, milestones MilestoneStore, amount AmountStrategy, logger *zap.Logger) *Service {
	return &Service{
		projects:   projects,
		milestones: milestones,
		amount:     amount,
		logger:     logger,
	}
}

// Complete marks the milestone at position done and creates its quote.
// Returns the new quote's ID, model.ErrNotFound when the project or position
// does not exist, or model.ErrAlreadyCompleted on a repeat completion.
func (s *Service) Complete(ctx context.Context, projectID, position int) (int, error) {
	p, err := s.projects.FindWithMilestones(ctx, projectID)
	if err != nil {
		return 0, err
	}

	if position < 0 || position >= len(p.Milestones) {
		return 0, model.ErrNotFound
	}
	m := p.Milestones[position]
	if m.Completed {
		return 0, model.ErrAlreadyCompleted
	}

	quote := &model.Quote{
		Subject:   fmt.Sprintf("Payment for Milestone: %s", m.Label),
		Amount:    s.amount(p.TotalPrice, p.Milestones, position),
		Status:    model.QuoteStatusPending,
		ProjectID: p.ID,
		ClientID:  p.ClientID,
	}

	quoteID, err := s.milestones.Complete(ctx, projectID, position, time.Now(), quote)
	if err != nil {
		return 0, err
	}

	metrics.IncrementQuoteCreated("milestone")
	s.logger.Info("Milestone completed, quote created",
		zap.Int("project_id", projectID),
		zap.Int("position", position),
		zap.String("label", m.Label),
		zap.Int("quote_id", quoteID),
		zap.Float64("amount", quote.Amount),
	)

	return quoteID, nil
}
