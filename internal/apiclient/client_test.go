package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookingdesk/internal/config"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		APIBaseURL:         baseURL,
		RequestTimeout:     2 * time.Second,
		BreakerMaxFailures: 2,
		BreakerInterval:    time.Minute,
		BreakerTimeout:     time.Minute,
	}
}

func TestClient_FetchUnreadNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/notifications/unread", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"a","title":"t","recipientId":"u1","recipientRole":"user","isRead":false}]}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), staticToken("tok"), zap.NewNop())
	list, err := c.FetchUnreadNotifications(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "a", list[0].ID)
	require.Equal(t, "user", list[0].RecipientRole)
}

func TestClient_FetchUnreadCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notifications/unread-count", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"unreadCount":3}}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil, zap.NewNop())
	n, err := c.FetchUnreadCount(context.Background())

	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestClient_UnsuccessfulEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"nope"}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil, zap.NewNop())
	_, err := c.FetchUnreadCount(context.Background())

	require.ErrorIs(t, err, ErrUnsuccessful)
	require.Contains(t, err.Error(), "nope")
}

func TestClient_MarkNotificationRead(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil, zap.NewNop())
	require.NoError(t, c.MarkNotificationRead(context.Background(), "n-1"))
	require.Equal(t, http.MethodPatch, gotMethod)
	require.Equal(t, "/notifications/n-1/read", gotPath)
}

func TestClient_FetchBookings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bookings", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"data":[{"id":"b1","serviceName":"plumbing","status":"pending"}],"totalPages":4,"currentPage":2}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil, zap.NewNop())
	page, err := c.FetchBookings(context.Background(), 2)

	require.NoError(t, err)
	require.Equal(t, 2, page.CurrentPage)
	require.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Items, 1)
	require.Equal(t, "plumbing", page.Items[0].ServiceName)
}

func TestClient_ClientErrorIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil, zap.NewNop())
	_, err := c.FetchUnreadNotifications(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusUnauthorized, statusErr.Status)
	require.Equal(t, "missing token", statusErr.Body)
}

func TestClient_BreakerOpensAfterServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil, zap.NewNop())
	for i := 0; i < 2; i++ {
		_, err := c.FetchUnreadCount(context.Background())
		require.Error(t, err)
	}

	_, err := c.FetchUnreadCount(context.Background())
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, int32(2), hits.Load())
}
