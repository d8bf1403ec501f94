package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/metrics"
)

// Metrics counts requests by method, route pattern and status.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		m.HTTPRequests.WithLabelValues(c.Request.Method, routeOf(c), strconv.Itoa(c.Writer.Status())).Inc()
	}
}
