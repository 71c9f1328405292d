package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trashspot-backend/internal/models"
	"trashspot-backend/internal/services"
	"trashspot-backend/pkg/utils"
)

// GetAreas handles GET /api/v1/areas.
func GetAreas(svc *services.AreaService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		areas, err := svc.GetAll()
		if err != nil {
			log.Printf("❌ Areas lookup failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "areas lookup failed")
			return
		}

		utils.Success(w, map[string]interface{}{
			"areas": areas,
			"count": len(areas),
		})
	}
}

// GetArea handles GET /api/v1/areas/{id}.
func GetArea(svc *services.AreaService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "id is required")
			return
		}

		area, err := svc.GetByID(id)
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "area not found")
			return
		}
		if err != nil {
			log.Printf("❌ Area lookup failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "area lookup failed")
			return
		}

		utils.Success(w, area.ToResponse())
	}
}

// GetAreaBins handles GET /api/v1/areas/{id}/trash-bins and its legacy
// alias GET /api/v1/trash-bins/area/{id}.
func GetAreaBins(svc *services.AreaService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "id is required")
			return
		}

		var trashTypes, facilityTypes []string
		if raw := r.URL.Query().Get("trash_types"); raw != "" {
			trashTypes = splitCSV(raw)
			for _, t := range trashTypes {
				if !models.IsValidTrashType(t) {
					utils.Error(w, http.StatusBadRequest, "unknown trash type "+t)
					return
				}
			}
		}
		if raw := r.URL.Query().Get("facility_types"); raw != "" {
			facilityTypes = splitCSV(raw)
			for _, f := range facilityTypes {
				if !models.IsValidFacilityType(f) {
					utils.Error(w, http.StatusBadRequest, "unknown facility type "+f)
					return
				}
			}
		}

		bins, err := svc.BinsInArea(id, trashTypes, facilityTypes)
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "area not found")
			return
		}
		if err != nil {
			log.Printf("❌ Area bins lookup failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "area bins lookup failed")
			return
		}

		utils.Success(w, map[string]interface{}{
			"trash_bins": bins,
			"count":      len(bins),
		})
	}
}
