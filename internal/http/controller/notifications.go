package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
)

func (h *Handler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if req.RecipientID == "" || req.RecipientRole == "" || req.Title == "" {
		badRequest(c, "recipientId, recipientRole, title are required")
		return
	}
	created, err := h.svc.Create(c.Request.Context(), dto.NotificationFromRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			badRequest(c, "recipientRole must be one of: user, technician, admin")
		case errors.Is(err, domain.ErrInvalidNotification):
			badRequest(c, "invalid notification")
		default:
			h.log.Error("create notification failed",
				zap.String("recipient_id", req.RecipientID),
				zap.String("title", req.Title),
				zap.Error(err),
			)
			internalError(c, "failed to create notification")
		}
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope[any]{Success: true, Data: created})
}

func (h *Handler) ListUnread(c *gin.Context) {
	unread, err := h.svc.Unread(c.Request.Context(), principal(c))
	if err != nil {
		internalError(c, "failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, dto.Envelope[any]{Success: true, Data: unread})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context(), principal(c))
	if err != nil {
		internalError(c, "failed to count notifications")
		return
	}
	c.JSON(http.StatusOK, dto.Envelope[dto.UnreadCount]{Success: true, Data: dto.UnreadCount{UnreadCount: count}})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.MarkRead(c.Request.Context(), principal(c), id); err != nil {
		storeError(c, err, "failed to mark notification read")
		return
	}
	c.JSON(http.StatusOK, dto.Envelope[any]{Success: true})
}
