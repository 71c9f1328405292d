package handlers

import (
	"log"
	"net/http"
	"strconv"

	"trashspot-backend/internal/config"
	"trashspot-backend/internal/services/airesearch"
	"trashspot-backend/pkg/utils"
)

// TriggerResearch handles POST /api/v1/ai/research (admin only). The
// cycle runs synchronously; the caller receives the cycle summary.
func TriggerResearch(svc *airesearch.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.RunCycle(r.Context())
		if err != nil {
			log.Printf("❌ Manual research cycle failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "research cycle failed")
			return
		}

		utils.Success(w, result)
	}
}

// GetResearchHistory handles GET /api/v1/ai/research-history (admin only).
func GetResearchHistory(svc *airesearch.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				utils.Error(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}

		records, err := svc.History(limit)
		if err != nil {
			log.Printf("❌ Research history lookup failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "history lookup failed")
			return
		}

		utils.Success(w, map[string]interface{}{
			"history": records,
			"count":   len(records),
		})
	}
}

// GetAIStatus handles GET /api/v1/ai/status (admin only).
func GetAIStatus(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, map[string]interface{}{
			"enabled":              cfg.AIUpdateEnabled,
			"schedule":             cfg.AIUpdateCron,
			"mock_mode":            cfg.MockAIMode(),
			"openai_configured":    cfg.OpenAIConfigured(),
			"anthropic_configured": cfg.AnthropicConfigured(),
		})
	}
}
