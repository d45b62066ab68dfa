package model

import "time"

type Notification struct {
	ID            string    `json:"id" validate:"required"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"createdAt"`
	RecipientID   string    `json:"recipientId" validate:"required"`
	RecipientRole string    `json:"recipientRole" validate:"required,oneof=user technician admin"`
	IsRead        bool      `json:"isRead"`
}
