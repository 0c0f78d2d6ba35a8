package route

import (
	"net/http"
	"posecam/internal/config"
	"posecam/internal/handler"
	"posecam/internal/logger"
	"posecam/internal/middleware"
	ws "posecam/internal/service/websocket"
)

// SetupRoutes registers the viewer API and log endpoints and wraps the mux
// with the token middleware.
func SetupRoutes(cfg *config.Config, logger *logger.Logger, hub *ws.HubService, stats handler.StatsProvider) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(hub, logger))
	mux.HandleFunc("/api/stats", handler.StatsHandler(stats, logger))
	mux.HandleFunc("/logs/", handler.LogsHandler(logger))

	return middleware.TokenMiddleware(cfg.ViewerToken, mux)
}
