package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
}

// Handler returns a plain HTTP handler reporting liveness. It never calls GitHub, so a
// rate-limited token does not fail the probe.
func Handler(version string) http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(Response{
			Status:  "healthy",
			Version: version,
			Uptime:  time.Since(started).Round(time.Second).String(),
		})
	}
}
