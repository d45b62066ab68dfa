package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bookingdesk/internal/apiclient"
	"bookingdesk/internal/config"
	"bookingdesk/internal/credential"
	"bookingdesk/internal/domain"
	"bookingdesk/internal/inbox"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/model"
	"bookingdesk/internal/notifier"
	"bookingdesk/internal/paging"
	"bookingdesk/internal/session"
	"bookingdesk/internal/transport"
)

// TokenStore persists the session token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Client is the composition root of the terminal client.
type Client struct {
	cfg       *config.Config
	logger    *zap.Logger
	session   *session.Store
	tokens    TokenStore
	transport transport.Transport
	inbox     *inbox.Inbox
	bookings  *paging.Pager[model.Booking]
	accounts  AccountAPI
	metrics   *metrics.Metrics

	metricsServer *http.Server
}

func NewClient(
	cfg *config.Config,
	logger *zap.Logger,
	store *session.Store,
	tokens TokenStore,
	tr transport.Transport,
	ib *inbox.Inbox,
	bookings *paging.Pager[model.Booking],
	accounts AccountAPI,
	m *metrics.Metrics,
) *Client {
	return &Client{
		cfg:       cfg,
		logger:    logger,
		session:   store,
		tokens:    tokens,
		transport: tr,
		inbox:     ib,
		bookings:  bookings,
		accounts:  accounts,
		metrics:   m,
	}
}

// Start signs in, refreshes the account, loads the first bookings page and
// attaches the inbox to the realtime channel. Only a missing or malformed token is fatal; a
// realtime failure is logged and the client keeps running on REST data.
func (c *Client) Start(ctx context.Context) error {
	p, err := c.signIn()
	if err != nil {
		return err
	}
	c.serveMetrics()

	c.loadAccount(ctx, p)
	c.bookings.Start(ctx)

	connectCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()
	if err := c.inbox.Start(connectCtx, p.ID, p.Role); err != nil {
		c.logger.Warn("realtime unavailable", zap.Error(err))
	}
	return nil
}

func (c *Client) signIn() (model.Principal, error) {
	token := c.cfg.APIToken
	fromConfig := token != ""
	if !fromConfig && c.tokens != nil {
		stored, err := c.tokens.Load()
		if err != nil && !errors.Is(err, credential.ErrNoToken) {
			c.logger.Warn("reading stored token failed", zap.Error(err))
		}
		token = stored
	}
	if token == "" {
		return model.Principal{}, fmt.Errorf("sign in: set API_TOKEN: %w", domain.ErrNotAuthenticated)
	}

	p, err := c.session.LoginWithToken(token)
	if err != nil {
		return model.Principal{}, err
	}
	if fromConfig && c.tokens != nil {
		if err := c.tokens.Save(token); err != nil {
			c.logger.Warn("storing token failed", zap.Error(err))
		}
	}
	return p, nil
}

func (c *Client) serveMetrics() {
	if c.cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.metrics.Handler())
	c.metricsServer = &http.Server{
		Addr:              c.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := c.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
}

// Logout drops the session and the stored token.
func (c *Client) Logout() {
	c.inbox.Stop()
	c.session.Logout()
	if c.tokens != nil {
		if err := c.tokens.Clear(); err != nil {
			c.logger.Warn("clearing token failed", zap.Error(err))
		}
	}
}

func (c *Client) Shutdown(ctx context.Context) error {
	c.inbox.Stop()
	err := c.transport.Close()
	if c.metricsServer != nil {
		err = errors.Join(err, c.metricsServer.Shutdown(ctx))
	}
	return err
}

func (c *Client) Inbox() *inbox.Inbox {
	return c.inbox
}

func (c *Client) Bookings() *paging.Pager[model.Booking] {
	return c.bookings
}

func (c *Client) Session() *session.Store {
	return c.session
}

func (c *Client) Config() *config.Config {
	return c.cfg
}

func (c *Client) Logger() *zap.Logger {
	return c.logger
}

// Providers used by the wire injectors.

func ProvideTokenStore(logger *zap.Logger) TokenStore {
	store, err := credential.Open()
	if err != nil {
		logger.Warn("keyring unavailable, token will not persist", zap.Error(err))
		return nil
	}
	return store
}

func ProvideNotifier(cfg *config.Config, logger *zap.Logger) notifier.Notifier {
	return notifier.NewLogNotifier(cfg.DesktopNotifications, logger)
}

func ProvideBookingsPager(cfg *config.Config, api *apiclient.Client, logger *zap.Logger, m *metrics.Metrics) *paging.Pager[model.Booking] {
	return paging.New(api.FetchBookings, cfg.BookingsInitialPage, logger, m)
}
