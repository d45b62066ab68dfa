package app

import (
	"context"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookingdesk/internal/auth"
	"bookingdesk/internal/config"
	"bookingdesk/internal/credential"
	"bookingdesk/internal/domain"
	"bookingdesk/internal/model"
	"bookingdesk/internal/session"
)

func signedToken(t *testing.T, id, role string) string {
	t.Helper()
	token, err := auth.Sign("test-secret", model.Principal{ID: id, Role: role, Name: "Tess"}, time.Hour)
	require.NoError(t, err)
	return token
}

func newSignInClient(cfg *config.Config, tokens TokenStore) *Client {
	logger := zap.NewNop()
	return NewClient(cfg, logger, session.NewStore(logger), tokens, nil, nil, nil, nil, nil)
}

func TestStartWithoutTokenFails(t *testing.T) {
	tokens := credential.NewTokenStore(keyring.NewArrayKeyring(nil))
	c := newSignInClient(&config.Config{}, tokens)

	err := c.Start(context.Background())
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestSignInPersistsConfiguredToken(t *testing.T) {
	token := signedToken(t, "t1", domain.RoleTechnician)
	tokens := credential.NewTokenStore(keyring.NewArrayKeyring(nil))
	c := newSignInClient(&config.Config{APIToken: token}, tokens)

	p, err := c.signIn()
	require.NoError(t, err)
	require.Equal(t, "t1", p.ID)
	require.Equal(t, domain.RoleTechnician, p.Role)

	stored, err := tokens.Load()
	require.NoError(t, err)
	require.Equal(t, token, stored)
}

func TestSignInFallsBackToStoredToken(t *testing.T) {
	token := signedToken(t, "a1", domain.RoleAdmin)
	tokens := credential.NewTokenStore(keyring.NewArrayKeyring(nil))
	require.NoError(t, tokens.Save(token))
	c := newSignInClient(&config.Config{}, tokens)

	p, err := c.signIn()
	require.NoError(t, err)
	require.Equal(t, "a1", p.ID)
	require.Equal(t, token, c.Session().Token())
}

func TestSignInRejectsMalformedToken(t *testing.T) {
	c := newSignInClient(&config.Config{APIToken: "not-a-jwt"}, nil)

	_, err := c.signIn()
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
