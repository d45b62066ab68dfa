package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookingdesk/internal/auth"
	"bookingdesk/internal/domain"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/model"
)

func newEngine(t *testing.T, m *metrics.Server) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ZapLogger(zap.NewNop()), Metrics(m), ZapRecovery(zap.NewNop()))
	secured := r.Group("/", JWTAuth("secret"))
	secured.GET("/me", func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.String(http.StatusOK, p.ID)
	})
	secured.GET("/admin", RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	r := newEngine(t, metrics.NewServer())
	token, err := auth.Sign("secret", model.Principal{ID: "u1", Role: domain.RoleUser}, time.Hour)
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	require.Equal(t, http.StatusUnauthorized, get(r, "/me", "garbage").Code)

	rec := get(r, "/me", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u1", rec.Body.String())

	require.Equal(t, http.StatusForbidden, get(r, "/admin", token).Code)
}

func TestRecoveryAndMetrics(t *testing.T) {
	m := metrics.NewServer()
	r := newEngine(t, m)

	rec := get(r, "/panic", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal error")

	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/panic", "500")))
}
