package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
)

func (h *Handler) ListBookings(c *gin.Context) {
	page := 1
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(c, "page must be a positive integer")
			return
		}
		page = n
	}
	result, err := h.bookings.Page(c.Request.Context(), principal(c), page)
	if err != nil {
		internalError(c, "failed to list bookings")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "serviceName is required")
		return
	}
	created, err := h.bookings.Create(c.Request.Context(), principal(c), req.Booking())
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "only users can book"})
			return
		}
		h.log.Error("create booking failed", zap.Error(err))
		internalError(c, "failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope[any]{Success: true, Data: created})
}
