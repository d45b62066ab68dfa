package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/model"
)

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.accounts.Profile(c.Request.Context(), principal(c))
	if err != nil {
		internalError(c, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, dto.Envelope[model.Technician]{Success: true, Data: p})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid profile")
		return
	}
	p, err := h.accounts.UpdateProfile(c.Request.Context(), principal(c), req)
	if err != nil {
		h.log.Error("update profile failed", zap.Error(err))
		internalError(c, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, dto.Envelope[model.Technician]{Success: true, Data: p})
}

func (h *Handler) ListCoupons(c *gin.Context) {
	coupons, err := h.accounts.Coupons(c.Request.Context())
	if err != nil {
		internalError(c, "failed to list coupons")
		return
	}
	c.JSON(http.StatusOK, dto.Envelope[[]model.Coupon]{Success: true, Data: coupons})
}

func (h *Handler) UpsertCoupon(c *gin.Context) {
	var req dto.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	saved, err := h.accounts.UpsertCoupon(c.Request.Context(), model.Coupon{
		Code:            c.Param("code"),
		DiscountPercent: req.DiscountPercent,
		ExpiresAt:       req.ExpiresAt,
		Active:          req.Active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCoupon) {
			badRequest(c, "discountPercent must be between 1 and 100")
			return
		}
		h.log.Error("upsert coupon failed", zap.String("code", c.Param("code")), zap.Error(err))
		internalError(c, "failed to save coupon")
		return
	}
	c.JSON(http.StatusOK, dto.Envelope[model.Coupon]{Success: true, Data: saved})
}

func (h *Handler) DeleteCoupon(c *gin.Context) {
	if err := h.accounts.DeleteCoupon(c.Request.Context(), c.Param("code")); err != nil {
		storeError(c, err, "failed to delete coupon")
		return
	}
	c.JSON(http.StatusOK, dto.Envelope[any]{Success: true})
}
