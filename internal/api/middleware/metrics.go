package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records one finished request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// Metrics labels requests by their route pattern so path parameters do not
// explode the label set. Unmatched paths share one label.
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		obs.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
