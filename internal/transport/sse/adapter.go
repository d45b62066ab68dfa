// Package sse implements transport.Transport over Server-Sent Events.
package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	sselib "github.com/r3labs/sse/v2"
	"go.uber.org/zap"
	"gopkg.in/cenkalti/backoff.v1"

	"bookingdesk/internal/config"
	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/model"
	"bookingdesk/internal/notifier"
	"bookingdesk/internal/transport"
)

const signalTimeout = 10 * time.Second

var errStreamClosed = errors.New("stream closed by server")

type TokenSource interface {
	Token() string
}

type Adapter struct {
	baseURL     string
	http        *http.Client
	notifier    notifier.Notifier
	validate    *validator.Validate
	log         *zap.Logger
	metrics     *metrics.Metrics
	maxInterval time.Duration

	mu              sync.Mutex
	started         bool
	closed          bool
	connID          string
	ready           chan struct{}
	readyOnce       sync.Once
	principalID     string
	role            string
	handler         transport.Handler
	permissionAsked bool
	cancel          context.CancelFunc
	done            chan struct{}

	signals sync.WaitGroup
}

var _ transport.Transport = (*Adapter)(nil)

func New(cfg *config.Config, tokens TokenSource, n notifier.Notifier, logger *zap.Logger, m *metrics.Metrics) *Adapter {
	maxInterval := cfg.ReconnectMaxInterval
	if maxInterval <= 0 {
		maxInterval = 30 * time.Second
	}
	return &Adapter{
		baseURL:     strings.TrimRight(cfg.APIBaseURL, "/"),
		http:        &http.Client{Transport: bearerTransport{next: http.DefaultTransport, tokens: tokens}},
		notifier:    n,
		validate:    validator.New(),
		log:         logger,
		metrics:     m,
		maxInterval: maxInterval,
		ready:       make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Connect starts the stream loop on first use and blocks until the server
// has assigned a connection id or ctx ends. The loop keeps retrying in the
// background after a ctx timeout.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return domain.ErrNotConnected
	}
	if !a.started {
		a.started = true
		streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		a.cancel = cancel
		go a.run(streamCtx)
	}
	askPermission := !a.permissionAsked && a.notifier != nil
	a.permissionAsked = true
	a.mu.Unlock()

	if askPermission && a.notifier.Permission() == notifier.PermissionDefault {
		if _, err := a.notifier.RequestPermission(ctx); err != nil {
			a.log.Warn("notification permission request failed", zap.Error(err))
		}
	}

	select {
	case <-a.ready:
		return nil
	case <-a.done:
		return domain.ErrNotConnected
	case <-ctx.Done():
		return fmt.Errorf("connect: %w", ctx.Err())
	}
}

func (a *Adapter) Authenticate(ctx context.Context, principalID, role string) error {
	if !domain.IsValidRole(role) {
		return fmt.Errorf("authenticate %q: %w", role, domain.ErrInvalidRole)
	}
	a.mu.Lock()
	if !a.started || a.closed {
		a.mu.Unlock()
		return domain.ErrNotConnected
	}
	a.principalID = principalID
	a.role = role
	connID := a.connID
	a.mu.Unlock()

	if connID == "" {
		// sent by the stream loop once connected
		return nil
	}
	return a.sendAuth(ctx, connID, principalID, role)
}

func (a *Adapter) Subscribe(h transport.Handler) {
	a.mu.Lock()
	a.handler = h
	a.mu.Unlock()
}

func (a *Adapter) Unsubscribe() {
	a.mu.Lock()
	a.handler = nil
	a.mu.Unlock()
}

func (a *Adapter) MarkRead(notificationID string) {
	a.metrics.IncMarkRead()

	a.mu.Lock()
	connID := a.connID
	if a.closed || connID == "" {
		a.mu.Unlock()
		a.metrics.IncMarkReadFailure()
		a.log.Warn("mark read signal dropped, not connected", zap.String("notification_id", notificationID))
		return
	}
	a.signals.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.signals.Done()
		ctx, cancel := context.WithTimeout(context.Background(), signalTimeout)
		defer cancel()
		path := "/realtime/" + url.PathEscape(connID) + "/read"
		if err := a.post(ctx, path, dto.ReadSignal{NotificationID: notificationID}); err != nil {
			a.metrics.IncMarkReadFailure()
			a.log.Warn("mark read signal failed",
				zap.String("notification_id", notificationID),
				zap.Error(err),
			)
		}
	}()
}

// Close stops the stream and waits for pending mark-read signals.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	started := a.started
	cancel := a.cancel
	a.handler = nil
	a.mu.Unlock()

	if started {
		cancel()
		<-a.done
	}
	a.signals.Wait()
	return nil
}

// run owns the subscription. Reconnection is left to the sse client and its
// backoff strategy; it returns only once ctx is done.
func (a *Adapter) run(ctx context.Context) {
	defer close(a.done)

	reconnect := backoff.NewExponentialBackOff()
	reconnect.InitialInterval = min(reconnect.InitialInterval, a.maxInterval)
	reconnect.MaxInterval = a.maxInterval
	reconnect.MaxElapsedTime = 0

	client := sselib.NewClient(a.baseURL + "/realtime/stream")
	client.Connection = a.http
	client.ReconnectStrategy = backoff.WithContext(reconnect, ctx)
	client.ResponseValidator = checkStream
	client.ReconnectNotify = func(err error, wait time.Duration) {
		a.metrics.IncReconnect()
		a.log.Warn("realtime stream lost, reconnecting", zap.Error(err), zap.Duration("wait", wait))
	}
	client.OnDisconnect(func(*sselib.Client) {
		a.mu.Lock()
		a.connID = ""
		a.mu.Unlock()
	})

	err := client.SubscribeRawWithContext(ctx, func(ev *sselib.Event) {
		if hint := parseRetry(ev.Retry); hint > 0 {
			reconnect.InitialInterval = min(hint, a.maxInterval)
		}
		switch string(ev.Event) {
		case "connected":
			if a.onConnected(ctx, ev.Data) {
				reconnect.Reset()
			}
		case "notification":
			a.dispatch(ev.Data)
		}
	})
	if err != nil && ctx.Err() == nil {
		a.log.Error("realtime subscription ended", zap.Error(err))
	}
}

// checkStream rejects non-200 answers and turns a server-side close into an
// error, so the client reconnects instead of treating it as a finished
// subscription.
func checkStream(_ *sselib.Client, resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return fmt.Errorf("stream status %d", resp.StatusCode)
	}
	resp.Body = closedAsError{resp.Body}
	return nil
}

type closedAsError struct {
	io.ReadCloser
}

func (b closedAsError) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if errors.Is(err, io.EOF) {
		err = errStreamClosed
	}
	return n, err
}

func parseRetry(raw []byte) time.Duration {
	ms, err := strconv.Atoi(string(raw))
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func (a *Adapter) onConnected(ctx context.Context, data []byte) bool {
	var payload dto.ConnectedEvent
	if err := json.Unmarshal(data, &payload); err != nil || payload.ConnectionID == "" {
		a.log.Warn("invalid connected event", zap.ByteString("data", data), zap.Error(err))
		return false
	}

	a.mu.Lock()
	a.connID = payload.ConnectionID
	principalID, role := a.principalID, a.role
	a.mu.Unlock()
	a.readyOnce.Do(func() { close(a.ready) })
	a.log.Info("realtime stream connected", zap.String("connection_id", payload.ConnectionID))

	if principalID == "" {
		return true
	}
	authCtx, cancel := context.WithTimeout(ctx, signalTimeout)
	defer cancel()
	if err := a.sendAuth(authCtx, payload.ConnectionID, principalID, role); err != nil {
		a.log.Warn("re-authentication failed", zap.Error(err))
	}
	return true
}

func (a *Adapter) dispatch(data []byte) {
	var n model.Notification
	if err := json.Unmarshal(data, &n); err != nil {
		a.metrics.IncPushDropped()
		a.log.Warn("undecodable notification event", zap.Error(err))
		return
	}
	if err := a.validate.Struct(n); err != nil {
		a.metrics.IncPushDropped()
		a.log.Warn("notification event rejected",
			zap.String("id", n.ID),
			zap.Error(fmt.Errorf("%w: %v", domain.ErrInvalidNotification, err)),
		)
		return
	}
	a.metrics.IncPushReceived()

	a.mu.Lock()
	handler := a.handler
	a.mu.Unlock()

	if a.notifier != nil && a.notifier.Permission() == notifier.PermissionGranted {
		if err := a.notifier.Show(n.Title, n.Message); err != nil {
			a.log.Warn("show notification failed", zap.Error(err))
		}
	}
	if handler != nil {
		handler(n)
	}
}

func (a *Adapter) sendAuth(ctx context.Context, connID, principalID, role string) error {
	path := "/realtime/" + url.PathEscape(connID) + "/auth"
	if err := a.post(ctx, path, dto.AuthRequest{PrincipalID: principalID, Role: role}); err != nil {
		return fmt.Errorf("authenticate %s: %w", principalID, err)
	}
	return nil
}

func (a *Adapter) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// bearerTransport adds the current session token to every request, the
// stream included.
type bearerTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func (t bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.next.RoundTrip(req)
}
