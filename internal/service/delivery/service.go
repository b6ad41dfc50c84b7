package delivery

import (
	"context"

	"go.uber.org/zap"
)

type MessageStore interface {
	UpdateDeliveryStatus(ctx context.Context, providerID, status string) (int64, error)
}

// Service applies provider delivery-status events to stored messages.
type Service struct {
	messages MessageStore
	logger   *zap.Logger
}

func NewService(messages MessageStore, logger *zap.Logger) *Service {
	return &Service{messages: messages, logger: logger}
}

// Apply updates every message carrying providerID. An event that matches
// nothing is logged and dropped; the provider may deliver status for mail we
// never recorded.
func (s *Service) Apply(ctx context.Context, providerID, status string) error {
	rows, err := s.messages.UpdateDeliveryStatus(ctx, providerID, status)
	if err != nil {
		return err
	}

	if rows == 0 {
		s.logger.Warn("Delivery event matched no messages",
			zap.String("provider_id", providerID),
			zap.String("status", status),
		)
		return nil
	}

	s.logger.Info("Delivery status updated",
		zap.String("provider_id", providerID),
		zap.String("status", status),
		zap.Int64("messages", rows),
	)
	return nil
}
