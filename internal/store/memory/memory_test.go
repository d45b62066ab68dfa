package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/model"
)

func TestStore_Notifications(t *testing.T) {
	ctx := context.Background()
	s := New(zap.NewNop())

	first, err := s.CreateNotification(ctx, model.Notification{Title: "one", RecipientID: "u1", RecipientRole: domain.RoleUser})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	_, err = s.CreateNotification(ctx, model.Notification{Title: "two", RecipientID: "u1", RecipientRole: domain.RoleUser})
	require.NoError(t, err)
	_, err = s.CreateNotification(ctx, model.Notification{Title: "other", RecipientID: "u1", RecipientRole: domain.RoleTechnician})
	require.NoError(t, err)

	unread, err := s.ListUnread(ctx, domain.RoleUser, "u1")
	require.NoError(t, err)
	require.Len(t, unread, 2)
	require.Equal(t, "two", unread[0].Title)

	require.NoError(t, s.MarkRead(ctx, domain.RoleUser, "u1", first.ID))
	require.NoError(t, s.MarkRead(ctx, domain.RoleUser, "u1", first.ID))

	count, err := s.CountUnread(ctx, domain.RoleUser, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.ErrorIs(t, s.MarkRead(ctx, domain.RoleUser, "u1", "missing"), domain.ErrNotFound)
	require.ErrorIs(t, s.MarkRead(ctx, domain.RoleUser, "u2", first.ID), domain.ErrForbidden)
}

func TestStore_BookingsArePagedPerPrincipal(t *testing.T) {
	ctx := context.Background()
	s := New(zap.NewNop())
	for i := 0; i < 5; i++ {
		_, err := s.CreateBooking(ctx, model.Booking{ServiceName: fmt.Sprintf("job-%d", i), UserID: "u1", TechnicianID: "t1"})
		require.NoError(t, err)
	}
	_, err := s.CreateBooking(ctx, model.Booking{ServiceName: "elsewhere", UserID: "u2"})
	require.NoError(t, err)

	user := model.Principal{ID: "u1", Role: domain.RoleUser}
	page, total, err := s.ListBookings(ctx, user, 0, 2)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Equal(t, []string{"job-4", "job-3"}, []string{page[0].ServiceName, page[1].ServiceName})
	require.Equal(t, model.BookingStatusPending, page[0].Status)

	page, _, err = s.ListBookings(ctx, user, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)

	page, _, err = s.ListBookings(ctx, user, 10, 2)
	require.NoError(t, err)
	require.Empty(t, page)

	_, total, err = s.ListBookings(ctx, model.Principal{ID: "t1", Role: domain.RoleTechnician}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 5, total)

	_, total, err = s.ListBookings(ctx, model.Principal{ID: "a1", Role: domain.RoleAdmin}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 6, total)
}

func TestStore_Profiles(t *testing.T) {
	ctx := context.Background()
	s := New(zap.NewNop())

	_, err := s.Profile(ctx, domain.RoleTechnician, "t1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	saved, err := s.SaveProfile(ctx, model.Technician{
		Principal: model.Principal{ID: "t1", Role: domain.RoleTechnician, Name: "Tom", Token: "secret"},
		Skills:    []string{"plumbing"},
	})
	require.NoError(t, err)
	require.Empty(t, saved.Token)

	got, err := s.Profile(ctx, domain.RoleTechnician, "t1")
	require.NoError(t, err)
	require.Equal(t, "Tom", got.Name)
	require.Equal(t, []string{"plumbing"}, got.Skills)

	_, err = s.Profile(ctx, domain.RoleUser, "t1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Coupons(t *testing.T) {
	ctx := context.Background()
	s := New(zap.NewNop())

	empty, err := s.ListCoupons(ctx)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	_, err = s.UpsertCoupon(ctx, model.Coupon{Code: "SPRING", DiscountPercent: 10})
	require.NoError(t, err)
	_, err = s.UpsertCoupon(ctx, model.Coupon{Code: "AUTUMN", DiscountPercent: 5})
	require.NoError(t, err)
	_, err = s.UpsertCoupon(ctx, model.Coupon{Code: "SPRING", DiscountPercent: 20})
	require.NoError(t, err)

	coupons, err := s.ListCoupons(ctx)
	require.NoError(t, err)
	require.Len(t, coupons, 2)
	require.Equal(t, "AUTUMN", coupons[0].Code)
	require.Equal(t, 20, coupons[1].DiscountPercent)

	require.NoError(t, s.DeleteCoupon(ctx, "AUTUMN"))
	require.ErrorIs(t, s.DeleteCoupon(ctx, "AUTUMN"), domain.ErrNotFound)
}
