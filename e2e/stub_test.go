package e2e

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookingdesk/internal/config"
	"bookingdesk/internal/dto"
	httpserver "bookingdesk/internal/http"
	"bookingdesk/internal/http/controller"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/service/account"
	"bookingdesk/internal/service/booking"
	"bookingdesk/internal/service/notify"
	"bookingdesk/internal/sse"
	"bookingdesk/internal/store/memory"
)

func ginTestMode() {
	gin.SetMode(gin.TestMode)
}

type stub struct {
	url  string
	repo *memory.Store
}

// startStub runs the stub API on an httptest server for the duration of t.
func startStub(t *testing.T) stub {
	t.Helper()
	ginTestMode()

	cfg := &config.Config{
		OTELServiceName: "bookingdesk-e2e",
		StubJWTSecret:   "e2e-secret",
		SSEHeartbeat:    5 * time.Second,
		StubPageSize:    5,
	}
	logger := zap.NewNop()
	m := metrics.NewServer()
	repo := memory.New(logger)
	hub := sse.NewHub(m)
	svc := notify.NewService(repo, hub, logger)
	bookings := booking.NewService(cfg, repo, svc, logger)
	accounts := account.NewService(repo, logger)
	handler := controller.NewHandler(cfg, svc, bookings, accounts, hub, logger)
	router := httpserver.NewRouter(handler, cfg, m, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return stub{url: server.URL, repo: repo}
}

func issueToken(t *testing.T, baseURL, principalID, role string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/auth/token", "", dto.TokenRequest{
		PrincipalID: principalID,
		Role:        role,
		Name:        principalID,
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// notifyAs sends a notification as admin and returns its id.
func notifyAs(t *testing.T, baseURL, adminToken string, req dto.CreateNotificationRequest) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/notifications", adminToken, req)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	return body.Data.ID
}

type sseEvent struct {
	event string
	data  string
}

type sseStream struct {
	reader *bufio.Reader
}

func newSSEStream(body io.Reader) *sseStream {
	return &sseStream{reader: bufio.NewReader(body)}
}

// next reads one event, skipping comments and field-less blocks.
func (s *sseStream) next(timeout time.Duration) (sseEvent, error) {
	type result struct {
		ev  sseEvent
		err error
	}
	ch := make(chan result, 1)

	go func() {
		var ev sseEvent
		var dataLines []string
		for {
			line, err := s.reader.ReadString('\n')
			if err != nil {
				ch <- result{sseEvent{}, err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					ev.data = strings.Join(dataLines, "\n")
					ch <- result{ev, nil}
					return
				}
				continue
			}
			if strings.HasPrefix(line, ":") {
				continue
			}
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	select {
	case res := <-ch:
		return res.ev, res.err
	case <-time.After(timeout):
		return sseEvent{}, context.DeadlineExceeded
	}
}
