// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	service "github.com/okian/tiki/internal/app"
)

// StatsProvider exposes the service's operational snapshot.
type StatsProvider interface {
	GetStats() service.Stats
}

// statsResponse mirrors the service statistics on the wire.
type statsResponse struct {
	Started        bool `json:"started"`
	WorkerCount    int  `json:"worker_count"`
	QueueCapacity  int  `json:"queue_capacity"`
	QueueLength    int  `json:"queue_length"`
	MomentsTracked int  `json:"moments_tracked"`
}

// StatsHandler serves the service statistics snapshot.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a stats handler over the provider.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s := h.stats.GetStats()
	writeJSON(w, http.StatusOK, statsResponse{
		Started:        s.Started,
		WorkerCount:    s.WorkerCount,
		QueueCapacity:  s.QueueCapacity,
		QueueLength:    s.QueueLength,
		MomentsTracked: s.MomentsTracked,
	})
}
