package api

import "xdpwall/handler"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status      string  `json:"status"`
	XDPAttached bool    `json:"xdp_attached"`
	CPUPercent  float64 `json:"cpu_percent"`
	MemoryMB    uint64  `json:"memory_mb"`
}

type PolicyEntry struct {
	Address string `json:"address"`
	Action  string `json:"action"`
}

type PolicyListResponse struct {
	Policies []PolicyEntry `json:"policies"`
	Count    int           `json:"count"`
	Capacity int           `json:"capacity"`
}

type PolicyRequest struct {
	Address string `json:"address" binding:"required"`
	Action  string `json:"action" binding:"required"`
}

type StatsResponse struct {
	Updater   handler.UpdaterStats `json:"updater"`
	Lost      uint64               `json:"lost_records"`
	Decisions map[string]uint64    `json:"decisions,omitempty"`
}
