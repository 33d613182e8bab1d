package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"xdpwall/infrastructure/log"
)

func getMemMB() (uint64, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return v.Used / 1024 / 1024, nil
}

// getCPUPercent compares against the previous call instead of sampling for an interval.
func getCPUPercent() (float64, error) {
	p, err := cpu.Percent(0, false)
	if err != nil || len(p) == 0 {
		return 0, err
	}
	return p[0], nil
}

// getHealth handles GET /api/v1/health
func (s *Server) getHealth(c *gin.Context) {
	res := HealthResponse{Status: "ok"}
	if s.dataplane != nil {
		res.XDPAttached = s.dataplane.Attached()
	}

	var err error
	if res.CPUPercent, err = getCPUPercent(); err != nil {
		log.Logger.Warnf("failed to get cpu usage: %+v", err)
	}
	if res.MemoryMB, err = getMemMB(); err != nil {
		log.Logger.Warnf("failed to get memory usage: %+v", err)
	}
	c.JSON(http.StatusOK, res)
}
