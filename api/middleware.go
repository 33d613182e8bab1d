package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"xdpwall/infrastructure/log"
)

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(loggerMiddleware())
}

func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Logger.Infof("API request. status: %d, method: %s, path: %s, ip: %s, latency_ms: %d",
			c.Writer.Status(), c.Request.Method, path, c.ClientIP(), time.Since(start).Milliseconds())
	}
}
