package dto

import (
	"time"

	"bookingdesk/internal/model"
)

type CreateBookingRequest struct {
	ServiceName  string    `json:"serviceName" binding:"required"`
	Address      string    `json:"address"`
	Price        float64   `json:"price" binding:"gte=0"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	TechnicianID string    `json:"technicianId"`
}

func (r CreateBookingRequest) Booking() model.Booking {
	return model.Booking{
		ServiceName:  r.ServiceName,
		Address:      r.Address,
		Price:        r.Price,
		ScheduledAt:  r.ScheduledAt,
		TechnicianID: r.TechnicianID,
	}
}

type UpdateProfileRequest struct {
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty" binding:"omitempty,email"`
	Phone     string   `json:"phone,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Available *bool    `json:"available,omitempty"`
}

type CouponRequest struct {
	DiscountPercent int       `json:"discountPercent"`
	ExpiresAt       time.Time `json:"expiresAt"`
	Active          bool      `json:"active"`
}
