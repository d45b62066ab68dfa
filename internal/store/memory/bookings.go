package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/model"
)

func (s *Store) CreateBooking(_ context.Context, booking model.Booking) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.Status == "" {
		booking.Status = model.BookingStatusPending
	}
	if booking.ScheduledAt.IsZero() {
		booking.ScheduledAt = time.Now().UTC()
	}
	s.bookings = append(s.bookings, booking)
	return booking, nil
}

func (s *Store) ListBookings(_ context.Context, principal model.Principal, offset, limit int) ([]model.Booking, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var visible []model.Booking
	for i := len(s.bookings) - 1; i >= 0; i-- {
		b := s.bookings[i]
		if visibleTo(b, principal) {
			visible = append(visible, b)
		}
	}
	total := len(visible)
	if offset >= total {
		return []model.Booking{}, total, nil
	}
	end := min(offset+limit, total)
	return append([]model.Booking{}, visible[offset:end]...), total, nil
}

func visibleTo(b model.Booking, p model.Principal) bool {
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleTechnician:
		return b.TechnicianID == p.ID
	default:
		return b.UserID == p.ID
	}
}
