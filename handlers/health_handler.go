package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
)

// HealthCheckResponse represents health check status
type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Store     string    `json:"store"`
	Database  string    `json:"database,omitempty"`
	Sessions  int       `json:"sessions"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// HealthCheck handles health check requests
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Store:     backend,
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
	}
	if hub != nil {
		response.Sessions = hub.ClientCount()
	}

	code := http.StatusOK
	if pingStore != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := pingStore(ctx); err != nil {
			response.Status = "unhealthy"
			response.Database = "disconnected"
			code = http.StatusServiceUnavailable
		} else {
			response.Database = "connected"
		}
	}

	utils.RespondWithJSON(w, code, response)
}
