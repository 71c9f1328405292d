package handlers

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"trashspot-backend/internal/cache"
	"trashspot-backend/internal/websocket"
	"trashspot-backend/pkg/utils"
)

// Health handles GET /health. The database ping decides liveness; cache
// and websocket figures are informational.
func Health(db *sqlx.DB, store *cache.Store, hub *websocket.Hub) http.HandlerFunc {
	start := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			utils.Error(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}

		body := map[string]interface{}{
			"status":         "healthy",
			"uptime_seconds": int(time.Since(start).Seconds()),
		}
		if store != nil {
			body["cache"] = store.GetStats()
		}
		if hub != nil {
			body["websocket_clients"] = hub.GetClientCount()
		}

		utils.Success(w, body)
	}
}
