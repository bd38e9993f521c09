package handlers

import (
	"context"
	"net/http"
	"time"

	applog "artmatch/internal/log"
)

const healthTimeout = 2 * time.Second

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

// Health reports readiness for infrastructure probes. It answers 503 when the
// configured database cannot be reached.
func Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "disabled", Time: time.Now().UTC()}
	status := http.StatusOK

	if database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp.Database = "up"
		sqlDB, err := database.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			applog.Warn(r.Context(), "health check database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "down"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}
