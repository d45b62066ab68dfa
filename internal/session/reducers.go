package session

import (
	"slices"

	"bookingdesk/internal/model"
)

type UserSlice struct {
	Current *model.Principal
}

type TechnicianSlice struct {
	Current *model.Technician
}

type AdminSlice struct {
	Current *model.Principal
	Coupons []model.Coupon
}

// State is never mutated in place. Reducers return a new value and share
// untouched slices with the previous one.
type State struct {
	User       UserSlice
	Technician TechnicianSlice
	Admin      AdminSlice
}

type reducer func(State, Action) State

var reducers = []reducer{reduceUser, reduceTechnician, reduceAdmin, reduceLogout}

func reduce(s State, a Action) State {
	for _, r := range reducers {
		s = r(s, a)
	}
	return s
}

func reduceUser(s State, a Action) State {
	switch act := a.(type) {
	case UserLoggedIn:
		u := act.User
		s.User = UserSlice{Current: &u}
	case UserUpdated:
		u := act.User
		if s.User.Current != nil && u.Token == "" {
			u.Token = s.User.Current.Token
		}
		s.User = UserSlice{Current: &u}
	case UserLoggedOut:
		s.User = UserSlice{}
	}
	return s
}

func reduceTechnician(s State, a Action) State {
	switch act := a.(type) {
	case TechnicianLoggedIn:
		t := cloneTechnician(act.Technician)
		s.Technician = TechnicianSlice{Current: &t}
	case TechnicianUpdated:
		t := cloneTechnician(act.Technician)
		if s.Technician.Current != nil && t.Token == "" {
			t.Token = s.Technician.Current.Token
		}
		s.Technician = TechnicianSlice{Current: &t}
	case TechnicianLoggedOut:
		s.Technician = TechnicianSlice{}
	}
	return s
}

func reduceAdmin(s State, a Action) State {
	switch act := a.(type) {
	case AdminLoggedIn:
		p := act.Admin
		s.Admin = AdminSlice{Current: &p, Coupons: s.Admin.Coupons}
	case AdminUpdated:
		p := act.Admin
		if s.Admin.Current != nil && p.Token == "" {
			p.Token = s.Admin.Current.Token
		}
		s.Admin = AdminSlice{Current: &p, Coupons: s.Admin.Coupons}
	case AdminLoggedOut:
		s.Admin = AdminSlice{}
	case CouponsLoaded:
		s.Admin = AdminSlice{Current: s.Admin.Current, Coupons: slices.Clone(act.Coupons)}
	case CouponUpserted:
		coupons := slices.Clone(s.Admin.Coupons)
		idx := slices.IndexFunc(coupons, func(c model.Coupon) bool { return c.Code == act.Coupon.Code })
		if idx >= 0 {
			coupons[idx] = act.Coupon
		} else {
			coupons = append(coupons, act.Coupon)
		}
		s.Admin = AdminSlice{Current: s.Admin.Current, Coupons: coupons}
	case CouponRemoved:
		coupons := slices.DeleteFunc(slices.Clone(s.Admin.Coupons), func(c model.Coupon) bool {
			return c.Code == act.Code
		})
		s.Admin = AdminSlice{Current: s.Admin.Current, Coupons: coupons}
	}
	return s
}

func reduceLogout(s State, a Action) State {
	if _, ok := a.(LoggedOut); ok {
		return State{}
	}
	return s
}

func cloneTechnician(t model.Technician) model.Technician {
	t.Skills = slices.Clone(t.Skills)
	return t
}
