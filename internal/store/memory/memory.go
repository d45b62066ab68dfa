package memory

import (
	"sync"

	"go.uber.org/zap"

	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"
)

// Store keeps notifications, bookings, profiles and coupons in process
// memory. It backs the stub API only.
type Store struct {
	mu            sync.Mutex
	notifications []model.Notification
	bookings      []model.Booking
	profiles      map[string]model.Technician
	coupons       map[string]model.Coupon
	log           *zap.Logger
}

var (
	_ repository.NotificationRepository = (*Store)(nil)
	_ repository.BookingRepository      = (*Store)(nil)
	_ repository.AccountRepository      = (*Store)(nil)
)

func New(logger *zap.Logger) *Store {
	return &Store{
		profiles: make(map[string]model.Technician),
		coupons:  make(map[string]model.Coupon),
		log:      logger,
	}
}
