package middleware

import (
	"club-management-system/internal/global/metrics"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics 按路由模板统计请求耗时，未匹配的路由归为 unmatched
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
