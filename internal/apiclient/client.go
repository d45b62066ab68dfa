package apiclient

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bookingdesk/internal/config"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/model"
	"bookingdesk/internal/paging"
)

// ErrUnsuccessful is returned when the API answers with success:false.
var ErrUnsuccessful = errors.New("api reported failure")

// TokenSource yields the bearer token of the current principal, or "".
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
	log     *zap.Logger
}

func New(cfg *config.Config, tokens TokenSource, logger *zap.Logger) *Client {
	limit := rate.Inf
	if cfg.APIRateLimit > 0 {
		limit = rate.Limit(cfg.APIRateLimit)
	}
	burst := cfg.APIRateBurst
	if burst <= 0 {
		burst = 1
	}
	transport := breakerTransport{
		next: http.DefaultTransport,
		cb:   newBreaker(cfg, logger),
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http: &http.Client{
			Timeout:   defaultTimeout(cfg.RequestTimeout),
			Transport: otelhttp.NewTransport(transport),
		},
		limiter: rate.NewLimiter(limit, burst),
		tokens:  tokens,
		log:     logger,
	}
}

func (c *Client) FetchUnreadNotifications(ctx context.Context) ([]model.Notification, error) {
	var resp dto.Envelope[[]model.Notification]
	if err := c.doJSON(ctx, http.MethodGet, "/notifications/unread", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch unread notifications: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch unread notifications: %w", unsuccessful(resp.Message))
	}
	return resp.Data, nil
}

func (c *Client) FetchUnreadCount(ctx context.Context) (int, error) {
	var resp dto.Envelope[dto.UnreadCount]
	if err := c.doJSON(ctx, http.MethodGet, "/notifications/unread-count", nil, &resp); err != nil {
		return 0, fmt.Errorf("fetch unread count: %w", err)
	}
	if !resp.Success {
		return 0, fmt.Errorf("fetch unread count: %w", unsuccessful(resp.Message))
	}
	return resp.Data.UnreadCount, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	var resp dto.Envelope[json.RawMessage]
	path := "/notifications/" + url.PathEscape(id) + "/read"
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, &resp); err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	if !resp.Success {
		return fmt.Errorf("mark notification %s read: %w", id, unsuccessful(resp.Message))
	}
	return nil
}

// FetchBookings has the paging.FetchFunc shape so it can back a pager as is.
func (c *Client) FetchBookings(ctx context.Context, page int) (paging.Page[model.Booking], error) {
	var resp dto.PageResponse[model.Booking]
	path := "/bookings?page=" + strconv.Itoa(page)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return paging.Page[model.Booking]{}, fmt.Errorf("fetch bookings page %d: %w", page, err)
	}
	return paging.Page[model.Booking]{
		Items:       resp.Data,
		TotalPages:  resp.TotalPages,
		CurrentPage: resp.CurrentPage,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func unsuccessful(message string) error {
	if message == "" {
		return ErrUnsuccessful
	}
	return fmt.Errorf("%w: %s", ErrUnsuccessful, message)
}
