package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bookingdesk/internal/config"
	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"
	"bookingdesk/internal/service/notify"
)

type Service struct {
	store    repository.BookingRepository
	notify   *notify.Service
	pageSize int
	log      *zap.Logger
}

func NewService(cfg *config.Config, store repository.BookingRepository, notifications *notify.Service, logger *zap.Logger) *Service {
	pageSize := cfg.StubPageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Service{store: store, notify: notifications, pageSize: pageSize, log: logger}
}

// Page returns the 1-based page of principal's bookings. Pages past the end
// are empty but still report the real total.
func (s *Service) Page(ctx context.Context, principal model.Principal, page int) (dto.PageResponse[model.Booking], error) {
	if page < 1 {
		page = 1
	}
	items, total, err := s.store.ListBookings(ctx, principal, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		s.log.Error("store list bookings failed", zap.String("principal_id", principal.ID), zap.Int("page", page), zap.Error(err))
		return dto.PageResponse[model.Booking]{}, err
	}
	totalPages := (total + s.pageSize - 1) / s.pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	return dto.PageResponse[model.Booking]{
		Data:        items,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// Create books a service for user and notifies the user and, when
// assigned, the technician.
func (s *Service) Create(ctx context.Context, user model.Principal, b model.Booking) (model.Booking, error) {
	if user.Role != domain.RoleUser {
		return model.Booking{}, fmt.Errorf("create booking as %s: %w", user.Role, domain.ErrForbidden)
	}
	b.UserID = user.ID
	created, err := s.store.CreateBooking(ctx, b)
	if err != nil {
		return model.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	s.announce(ctx, model.Notification{
		Title:         "Booking received",
		Message:       "Your " + created.ServiceName + " booking is " + created.Status,
		Type:          domain.NotificationTypeBooking,
		RecipientID:   user.ID,
		RecipientRole: domain.RoleUser,
	})
	if created.TechnicianID != "" {
		s.announce(ctx, model.Notification{
			Title:         "New booking assigned",
			Message:       created.ServiceName + " at " + created.Address,
			Type:          domain.NotificationTypeBooking,
			RecipientID:   created.TechnicianID,
			RecipientRole: domain.RoleTechnician,
		})
	}
	return created, nil
}

func (s *Service) announce(ctx context.Context, n model.Notification) {
	if _, err := s.notify.Create(ctx, n); err != nil {
		s.log.Warn("booking notification failed", zap.String("recipient_id", n.RecipientID), zap.Error(err))
	}
}
