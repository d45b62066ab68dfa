package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/model"
)

func (s *Store) Profile(_ context.Context, role, principalID string) (model.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[domain.Room(role, principalID)]
	if !ok {
		return model.Technician{}, domain.ErrNotFound
	}
	p.Skills = slices.Clone(p.Skills)
	return p, nil
}

func (s *Store) SaveProfile(_ context.Context, profile model.Technician) (model.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.Token = ""
	profile.Skills = slices.Clone(profile.Skills)
	s.profiles[domain.Room(profile.Role, profile.ID)] = profile
	return profile, nil
}

// ListCoupons returns coupons ordered by code.
func (s *Store) ListCoupons(_ context.Context) ([]model.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coupons := slices.Collect(maps.Values(s.coupons))
	slices.SortFunc(coupons, func(a, b model.Coupon) int { return cmp.Compare(a.Code, b.Code) })
	if coupons == nil {
		coupons = []model.Coupon{}
	}
	return coupons, nil
}

func (s *Store) UpsertCoupon(_ context.Context, coupon model.Coupon) (model.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[coupon.Code] = coupon
	return coupon, nil
}

func (s *Store) DeleteCoupon(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coupons[code]; !ok {
		return domain.ErrNotFound
	}
	delete(s.coupons, code)
	return nil
}
