package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookingdesk/internal/config"
	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/model"
	"bookingdesk/internal/session"
)

type accountAPIMock struct {
	mock.Mock
}

func (m *accountAPIMock) FetchProfile(ctx context.Context) (model.Technician, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Technician), args.Error(1)
}

func (m *accountAPIMock) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (model.Technician, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.Technician), args.Error(1)
}

func (m *accountAPIMock) FetchCoupons(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	coupons, _ := args.Get(0).([]model.Coupon)
	return coupons, args.Error(1)
}

func (m *accountAPIMock) SaveCoupon(ctx context.Context, coupon model.Coupon) (model.Coupon, error) {
	args := m.Called(ctx, coupon)
	return args.Get(0).(model.Coupon), args.Error(1)
}

func (m *accountAPIMock) DeleteCoupon(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func newAccountClient(t *testing.T, id, role string, api AccountAPI) *Client {
	t.Helper()
	logger := zap.NewNop()
	store := session.NewStore(logger)
	_, err := store.LoginWithToken(signedToken(t, id, role))
	require.NoError(t, err)
	return NewClient(&config.Config{}, logger, store, nil, nil, nil, nil, api, nil)
}

func TestRefreshProfileUpdatesSessionSlice(t *testing.T) {
	api := new(accountAPIMock)
	api.On("FetchProfile", mock.Anything).Return(model.Technician{
		Principal: model.Principal{ID: "t1", Name: "Tess Tech", Role: domain.RoleTechnician},
		Skills:    []string{"hvac"},
	}, nil).Once()
	c := newAccountClient(t, "t1", domain.RoleTechnician, api)
	token := c.Session().Token()

	require.NoError(t, c.RefreshProfile(context.Background()))

	st := c.Session().State()
	require.Equal(t, "Tess Tech", st.Technician.Current.Name)
	require.Equal(t, []string{"hvac"}, st.Technician.Current.Skills)
	require.Equal(t, token, c.Session().Token())
	api.AssertExpectations(t)
}

func TestRefreshProfileRejectsOtherPrincipal(t *testing.T) {
	api := new(accountAPIMock)
	api.On("FetchProfile", mock.Anything).Return(model.Technician{
		Principal: model.Principal{ID: "u2", Role: domain.RoleUser},
	}, nil).Once()
	c := newAccountClient(t, "u1", domain.RoleUser, api)

	err := c.RefreshProfile(context.Background())

	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Equal(t, "Tess", c.Session().State().User.Current.Name)
}

func TestCouponsRequireAdmin(t *testing.T) {
	api := new(accountAPIMock)
	c := newAccountClient(t, "u1", domain.RoleUser, api)

	require.ErrorIs(t, c.LoadCoupons(context.Background()), domain.ErrForbidden)
	api.AssertNotCalled(t, "FetchCoupons", mock.Anything)
}

func TestAdminCouponLifecycle(t *testing.T) {
	ctx := context.Background()
	api := new(accountAPIMock)
	api.On("FetchCoupons", mock.Anything).Return([]model.Coupon{{Code: "SPRING", DiscountPercent: 15}}, nil).Once()
	api.On("SaveCoupon", mock.Anything, model.Coupon{Code: "summer", DiscountPercent: 20}).
		Return(model.Coupon{Code: "SUMMER", DiscountPercent: 20}, nil).Once()
	api.On("DeleteCoupon", mock.Anything, "spring").Return(nil).Once()
	api.On("DeleteCoupon", mock.Anything, "gone").Return(errors.New("boom")).Once()
	c := newAccountClient(t, "a1", domain.RoleAdmin, api)

	require.NoError(t, c.LoadCoupons(ctx))
	_, err := c.SaveCoupon(ctx, model.Coupon{Code: "summer", DiscountPercent: 20})
	require.NoError(t, err)
	require.NoError(t, c.RemoveCoupon(ctx, "spring"))
	require.Error(t, c.RemoveCoupon(ctx, "gone"))

	require.Equal(t, []model.Coupon{{Code: "SUMMER", DiscountPercent: 20}}, c.Session().State().Admin.Coupons)
	api.AssertExpectations(t)
}

func TestLoadAccountToleratesFailures(t *testing.T) {
	api := new(accountAPIMock)
	api.On("FetchProfile", mock.Anything).Return(model.Technician{}, errors.New("down")).Once()
	api.On("FetchCoupons", mock.Anything).Return(nil, errors.New("down")).Once()
	c := newAccountClient(t, "a1", domain.RoleAdmin, api)
	p, err := c.Session().RequirePrincipal()
	require.NoError(t, err)

	c.loadAccount(context.Background(), p)

	require.Equal(t, "a1", c.Session().State().Admin.Current.ID)
	require.Empty(t, c.Session().State().Admin.Coupons)
	api.AssertExpectations(t)
}
