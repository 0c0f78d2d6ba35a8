package handler

import (
	"encoding/json"
	"net/http"
	"posecam/internal/logger"
)

// StatsProvider exposes a JSON-serialisable snapshot of pipeline statistics.
type StatsProvider interface {
	StatsSnapshot() any
}

// StatsHandler returns the current pipeline statistics as JSON.
func StatsHandler(provider StatsProvider, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(provider.StatsSnapshot()); err != nil {
			logger.Error("Failed to encode stats: %v", err)
		}
	}
}
