package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"bookingdesk/internal/dto"
	"bookingdesk/internal/model"
)

// FetchProfile returns the caller's profile. Users and admins only carry the
// embedded principal fields.
func (c *Client) FetchProfile(ctx context.Context) (model.Technician, error) {
	var resp dto.Envelope[model.Technician]
	if err := c.doJSON(ctx, http.MethodGet, "/profile", nil, &resp); err != nil {
		return model.Technician{}, fmt.Errorf("fetch profile: %w", err)
	}
	if !resp.Success {
		return model.Technician{}, fmt.Errorf("fetch profile: %w", unsuccessful(resp.Message))
	}
	return resp.Data, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (model.Technician, error) {
	var resp dto.Envelope[model.Technician]
	if err := c.doJSON(ctx, http.MethodPut, "/profile", req, &resp); err != nil {
		return model.Technician{}, fmt.Errorf("update profile: %w", err)
	}
	if !resp.Success {
		return model.Technician{}, fmt.Errorf("update profile: %w", unsuccessful(resp.Message))
	}
	return resp.Data, nil
}

func (c *Client) FetchCoupons(ctx context.Context) ([]model.Coupon, error) {
	var resp dto.Envelope[[]model.Coupon]
	if err := c.doJSON(ctx, http.MethodGet, "/coupons", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch coupons: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch coupons: %w", unsuccessful(resp.Message))
	}
	return resp.Data, nil
}

// SaveCoupon creates or replaces the coupon under coupon.Code and returns the
// stored copy, whose code the server normalises.
func (c *Client) SaveCoupon(ctx context.Context, coupon model.Coupon) (model.Coupon, error) {
	var resp dto.Envelope[model.Coupon]
	body := dto.CouponRequest{DiscountPercent: coupon.DiscountPercent, ExpiresAt: coupon.ExpiresAt, Active: coupon.Active}
	if err := c.doJSON(ctx, http.MethodPut, "/coupons/"+url.PathEscape(coupon.Code), body, &resp); err != nil {
		return model.Coupon{}, fmt.Errorf("save coupon %s: %w", coupon.Code, err)
	}
	if !resp.Success {
		return model.Coupon{}, fmt.Errorf("save coupon %s: %w", coupon.Code, unsuccessful(resp.Message))
	}
	return resp.Data, nil
}

func (c *Client) DeleteCoupon(ctx context.Context, code string) error {
	var resp dto.Envelope[json.RawMessage]
	if err := c.doJSON(ctx, http.MethodDelete, "/coupons/"+url.PathEscape(code), nil, &resp); err != nil {
		return fmt.Errorf("delete coupon %s: %w", code, err)
	}
	if !resp.Success {
		return fmt.Errorf("delete coupon %s: %w", code, unsuccessful(resp.Message))
	}
	return nil
}
