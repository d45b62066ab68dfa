package model

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusAccepted  = "accepted"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID           string    `json:"id"`
	ServiceName  string    `json:"serviceName"`
	Status       string    `json:"status"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Address      string    `json:"address"`
	Price        float64   `json:"price"`
	UserID       string    `json:"userId"`
	TechnicianID string    `json:"technicianId,omitempty"`
}
