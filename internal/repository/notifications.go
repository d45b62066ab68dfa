package repository

import (
	"context"

	"bookingdesk/internal/model"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error)
	ListUnread(ctx context.Context, role, recipientID string) ([]model.Notification, error)
	CountUnread(ctx context.Context, role, recipientID string) (int, error)
	MarkRead(ctx context.Context, role, recipientID, id string) error
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking model.Booking) (model.Booking, error)
	// ListBookings returns one page of the bookings visible to principal,
	// newest first, plus the total number of visible bookings.
	ListBookings(ctx context.Context, principal model.Principal, offset, limit int) ([]model.Booking, int, error)
}

// AccountRepository holds profiles and the admin-managed coupons.
type AccountRepository interface {
	// Profile returns domain.ErrNotFound when nothing was saved for the
	// principal yet.
	Profile(ctx context.Context, role, principalID string) (model.Technician, error)
	SaveProfile(ctx context.Context, profile model.Technician) (model.Technician, error)
	ListCoupons(ctx context.Context) ([]model.Coupon, error)
	UpsertCoupon(ctx context.Context, coupon model.Coupon) (model.Coupon, error)
	DeleteCoupon(ctx context.Context, code string) error
}
