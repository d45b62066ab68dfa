package session

import (
	"fmt"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/model"
)

// Action is a message the store reduces into a new State.
type Action interface {
	action()
}

type (
	UserLoggedIn  struct{ User model.Principal }
	UserUpdated   struct{ User model.Principal }
	UserLoggedOut struct{}

	TechnicianLoggedIn  struct{ Technician model.Technician }
	TechnicianUpdated   struct{ Technician model.Technician }
	TechnicianLoggedOut struct{}

	AdminLoggedIn  struct{ Admin model.Principal }
	AdminUpdated   struct{ Admin model.Principal }
	AdminLoggedOut struct{}

	CouponsLoaded  struct{ Coupons []model.Coupon }
	CouponUpserted struct{ Coupon model.Coupon }
	CouponRemoved  struct{ Code string }

	// LoggedOut clears every slice.
	LoggedOut struct{}
)

func (UserLoggedIn) action()        {}
func (UserUpdated) action()         {}
func (UserLoggedOut) action()       {}
func (TechnicianLoggedIn) action()  {}
func (TechnicianUpdated) action()   {}
func (TechnicianLoggedOut) action() {}
func (AdminLoggedIn) action()       {}
func (AdminUpdated) action()        {}
func (AdminLoggedOut) action()      {}
func (CouponsLoaded) action()       {}
func (CouponUpserted) action()      {}
func (CouponRemoved) action()       {}
func (LoggedOut) action()           {}

// LoginAction picks the login action for p's role.
func LoginAction(p model.Principal) (Action, error) {
	switch p.Role {
	case domain.RoleUser:
		return UserLoggedIn{User: p}, nil
	case domain.RoleTechnician:
		return TechnicianLoggedIn{Technician: model.Technician{Principal: p}}, nil
	case domain.RoleAdmin:
		return AdminLoggedIn{Admin: p}, nil
	default:
		return nil, fmt.Errorf("login %q: %w", p.Role, domain.ErrInvalidRole)
	}
}

// ProfileAction picks the update action for a profile fetched from the API.
func ProfileAction(p model.Technician) (Action, error) {
	switch p.Role {
	case domain.RoleUser:
		return UserUpdated{User: p.Principal}, nil
	case domain.RoleTechnician:
		return TechnicianUpdated{Technician: p}, nil
	case domain.RoleAdmin:
		return AdminUpdated{Admin: p.Principal}, nil
	default:
		return nil, fmt.Errorf("profile %q: %w", p.Role, domain.ErrInvalidRole)
	}
}
