package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/model"
	"bookingdesk/internal/session"
)

// AccountAPI is the profile and coupon surface of the REST API.
type AccountAPI interface {
	FetchProfile(ctx context.Context) (model.Technician, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (model.Technician, error)
	FetchCoupons(ctx context.Context) ([]model.Coupon, error)
	SaveCoupon(ctx context.Context, coupon model.Coupon) (model.Coupon, error)
	DeleteCoupon(ctx context.Context, code string) error
}

// loadAccount refreshes the profile and, for admins, the coupon list. Both
// are best effort; the token claims already describe the principal.
func (c *Client) loadAccount(ctx context.Context, p model.Principal) {
	if err := c.RefreshProfile(ctx); err != nil {
		c.logger.Warn("profile refresh failed", zap.Error(err))
	}
	if p.Role != domain.RoleAdmin {
		return
	}
	if err := c.LoadCoupons(ctx); err != nil {
		c.logger.Warn("loading coupons failed", zap.Error(err))
	}
}

// RefreshProfile replaces the session slice of the current principal with the
// profile the API holds. The session token is kept.
func (c *Client) RefreshProfile(ctx context.Context) error {
	if _, err := c.session.RequirePrincipal(); err != nil {
		return err
	}
	profile, err := c.accounts.FetchProfile(ctx)
	if err != nil {
		return err
	}
	return c.applyProfile(profile)
}

func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (model.Technician, error) {
	if _, err := c.session.RequirePrincipal(); err != nil {
		return model.Technician{}, err
	}
	profile, err := c.accounts.UpdateProfile(ctx, req)
	if err != nil {
		return model.Technician{}, err
	}
	if err := c.applyProfile(profile); err != nil {
		return model.Technician{}, err
	}
	return profile, nil
}

func (c *Client) applyProfile(profile model.Technician) error {
	current, _ := c.session.Current()
	if profile.ID != current.ID || profile.Role != current.Role {
		return fmt.Errorf("profile %s/%s does not match session %s/%s: %w",
			profile.Role, profile.ID, current.Role, current.ID, domain.ErrForbidden)
	}
	action, err := session.ProfileAction(profile)
	if err != nil {
		return err
	}
	c.session.Dispatch(action)
	return nil
}

func (c *Client) LoadCoupons(ctx context.Context) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	coupons, err := c.accounts.FetchCoupons(ctx)
	if err != nil {
		return err
	}
	c.session.Dispatch(session.CouponsLoaded{Coupons: coupons})
	return nil
}

func (c *Client) SaveCoupon(ctx context.Context, coupon model.Coupon) (model.Coupon, error) {
	if err := c.requireAdmin(); err != nil {
		return model.Coupon{}, err
	}
	saved, err := c.accounts.SaveCoupon(ctx, coupon)
	if err != nil {
		return model.Coupon{}, err
	}
	c.session.Dispatch(session.CouponUpserted{Coupon: saved})
	return saved, nil
}

func (c *Client) RemoveCoupon(ctx context.Context, code string) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.accounts.DeleteCoupon(ctx, code); err != nil {
		return err
	}
	c.session.Dispatch(session.CouponRemoved{Code: strings.ToUpper(strings.TrimSpace(code))})
	return nil
}

func (c *Client) requireAdmin() error {
	p, err := c.session.RequirePrincipal()
	if err != nil {
		return err
	}
	if p.Role != domain.RoleAdmin {
		return fmt.Errorf("coupons as %s: %w", p.Role, domain.ErrForbidden)
	}
	return nil
}
