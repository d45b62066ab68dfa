package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"
	"bookingdesk/internal/sse"
)

type Service struct {
	store repository.NotificationRepository
	hub   *sse.Hub
	log   *zap.Logger
}

func NewService(store repository.NotificationRepository, hub *sse.Hub, logger *zap.Logger) *Service {
	return &Service{store: store, hub: hub, log: logger}
}

// Create stores the notification and pushes it to the recipient's streams.
func (s *Service) Create(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if !domain.IsValidRole(notification.RecipientRole) {
		return model.Notification{}, domain.ErrInvalidRole
	}
	if notification.Title == "" || notification.RecipientID == "" {
		return model.Notification{}, domain.ErrInvalidNotification
	}
	created, err := s.store.CreateNotification(ctx, notification)
	if err != nil {
		s.log.Error("store create notification failed",
			zap.String("recipient_id", notification.RecipientID),
			zap.String("recipient_role", notification.RecipientRole),
			zap.String("title", notification.Title),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	s.hub.Broadcast(created)
	return created, nil
}

func (s *Service) Unread(ctx context.Context, recipient model.Principal) ([]model.Notification, error) {
	unread, err := s.store.ListUnread(ctx, recipient.Role, recipient.ID)
	if err != nil {
		s.log.Error("store list unread failed", zap.String("recipient_id", recipient.ID), zap.Error(err))
		return nil, err
	}
	return unread, nil
}

func (s *Service) UnreadCount(ctx context.Context, recipient model.Principal) (int, error) {
	count, err := s.store.CountUnread(ctx, recipient.Role, recipient.ID)
	if err != nil {
		s.log.Error("store count unread failed", zap.String("recipient_id", recipient.ID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (s *Service) MarkRead(ctx context.Context, recipient model.Principal, id string) error {
	if err := s.store.MarkRead(ctx, recipient.Role, recipient.ID, id); err != nil {
		return fmt.Errorf("mark %s read: %w", id, err)
	}
	return nil
}
