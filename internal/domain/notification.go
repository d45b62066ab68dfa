package domain

import "errors"

const (
	RoleUser       = "user"
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

const (
	NotificationTypeBooking = "booking"
	NotificationTypePayment = "payment"
	NotificationTypeRating  = "rating"
	NotificationTypeSystem  = "system"
)

var (
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidNotification = errors.New("invalid notification")
	ErrNotConnected        = errors.New("transport not connected")
	ErrNotAuthenticated    = errors.New("no authenticated principal")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCoupon       = errors.New("invalid coupon")
)

// Room is the realtime delivery key for one recipient.
func Room(role, principalID string) string {
	return role + ":" + principalID
}

func IsValidRole(value string) bool {
	switch value {
	case RoleUser, RoleTechnician, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsKnownNotificationType reports whether value is one of the tags the API
// documents. The tag is free-form on the wire, so callers only use this for
// display decisions, never for rejecting payloads.
func IsKnownNotificationType(value string) bool {
	switch value {
	case NotificationTypeBooking, NotificationTypePayment, NotificationTypeRating, NotificationTypeSystem:
		return true
	default:
		return false
	}
}
