package dto

import "bookingdesk/internal/model"

// Envelope is the {success, data} wrapper every notification endpoint uses.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type UnreadCount struct {
	UnreadCount int `json:"unreadCount"`
}

type PageResponse[T any] struct {
	Data        []T `json:"data"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

type CreateNotificationRequest struct {
	Title         string `json:"title"`
	Message       string `json:"message"`
	Type          string `json:"type"`
	RecipientID   string `json:"recipientId"`
	RecipientRole string `json:"recipientRole"`
}

type TokenRequest struct {
	PrincipalID string `json:"principalId"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Realtime channel payloads.

type ConnectedEvent struct {
	ConnectionID string `json:"connectionId"`
}

type AuthRequest struct {
	PrincipalID string `json:"principalId"`
	Role        string `json:"role"`
}

type ReadSignal struct {
	NotificationID string `json:"notificationId"`
}

// NotificationFromRequest is shared by the stub API handlers.
func NotificationFromRequest(req CreateNotificationRequest) model.Notification {
	return model.Notification{
		Title:         req.Title,
		Message:       req.Message,
		Type:          req.Type,
		RecipientID:   req.RecipientID,
		RecipientRole: req.RecipientRole,
	}
}
