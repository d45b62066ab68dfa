package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/model"
)

func (s *Store) CreateNotification(_ context.Context, notification model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	notification.IsRead = false
	s.notifications = append(s.notifications, notification)
	return notification, nil
}

func (s *Store) ListUnread(_ context.Context, role, recipientID string) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []model.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		record := s.notifications[i]
		if record.IsRead || !addressedTo(record, role, recipientID) {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}

func (s *Store) CountUnread(ctx context.Context, role, recipientID string) (int, error) {
	unread, err := s.ListUnread(ctx, role, recipientID)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

// MarkRead is idempotent for notifications that are already read.
func (s *Store) MarkRead(_ context.Context, role, recipientID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		record := &s.notifications[i]
		if record.ID != id {
			continue
		}
		if !addressedTo(*record, role, recipientID) {
			return domain.ErrForbidden
		}
		record.IsRead = true
		return nil
	}
	return domain.ErrNotFound
}

func addressedTo(n model.Notification, role, recipientID string) bool {
	return n.RecipientRole == role && n.RecipientID == recipientID
}
