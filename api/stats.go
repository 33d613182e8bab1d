package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getStats handles GET /api/v1/stats
func (s *Server) getStats(c *gin.Context) {
	res := StatsResponse{Updater: s.updater.Stats()}
	if s.dataplane != nil {
		res.Lost = s.dataplane.Lost()
		res.Decisions = s.dataplane.Decisions()
	}
	c.JSON(http.StatusOK, res)
}
