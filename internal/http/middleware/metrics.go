package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"bookingdesk/internal/metrics"
)

func Metrics(m *metrics.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
