package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"
)

type Service struct {
	store repository.AccountRepository
	log   *zap.Logger
}

func NewService(store repository.AccountRepository, logger *zap.Logger) *Service {
	return &Service{store: store, log: logger}
}

// Profile returns the saved profile of caller, or one built from the token
// claims when nothing was saved yet.
func (s *Service) Profile(ctx context.Context, caller model.Principal) (model.Technician, error) {
	p, err := s.store.Profile(ctx, caller.Role, caller.ID)
	if errors.Is(err, domain.ErrNotFound) {
		caller.Token = ""
		return model.Technician{Principal: caller}, nil
	}
	if err != nil {
		return model.Technician{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// UpdateProfile applies the non-empty fields of req. Skills and availability
// only apply to technicians.
func (s *Service) UpdateProfile(ctx context.Context, caller model.Principal, req dto.UpdateProfileRequest) (model.Technician, error) {
	p, err := s.Profile(ctx, caller)
	if err != nil {
		return model.Technician{}, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		p.Name = name
	}
	if req.Email != "" {
		p.Email = req.Email
	}
	if req.Phone != "" {
		p.Phone = req.Phone
	}
	if caller.Role == domain.RoleTechnician {
		if req.Skills != nil {
			p.Skills = req.Skills
		}
		if req.Available != nil {
			p.Available = *req.Available
		}
	}

	saved, err := s.store.SaveProfile(ctx, p)
	if err != nil {
		return model.Technician{}, fmt.Errorf("save profile: %w", err)
	}
	s.log.Info("profile updated", zap.String("principal_id", caller.ID), zap.String("role", caller.Role))
	return saved, nil
}

func (s *Service) Coupons(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.store.ListCoupons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return coupons, nil
}

func (s *Service) UpsertCoupon(ctx context.Context, coupon model.Coupon) (model.Coupon, error) {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if coupon.Code == "" || coupon.DiscountPercent < 1 || coupon.DiscountPercent > 100 {
		return model.Coupon{}, domain.ErrInvalidCoupon
	}
	saved, err := s.store.UpsertCoupon(ctx, coupon)
	if err != nil {
		return model.Coupon{}, fmt.Errorf("upsert coupon %s: %w", coupon.Code, err)
	}
	return saved, nil
}

func (s *Service) DeleteCoupon(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := s.store.DeleteCoupon(ctx, code); err != nil {
		return fmt.Errorf("delete coupon %s: %w", code, err)
	}
	return nil
}
