package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one access line per request. Query strings carry filter
// selections and are left out.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "-"
		}
		log.Printf("[HTTP] request_id=%s method=%s path=%s route=%s status=%d bytes=%d latency_ms=%.3f ip=%s",
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.Path,
			route,
			c.Writer.Status(),
			c.Writer.Size(),
			float64(time.Since(start).Microseconds())/1000.0,
			c.ClientIP(),
		)
		for _, e := range c.Errors {
			log.Printf("[HTTP] request_id=%s error=%v", GetRequestID(c), e.Err)
		}
	}
}
