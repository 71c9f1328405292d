package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trashspot-backend/internal/models"
	"trashspot-backend/internal/services"
	"trashspot-backend/internal/websocket"
	"trashspot-backend/pkg/utils"
)

const (
	defaultRadiusMeters = 500
	minRadiusMeters     = 100
	maxRadiusMeters     = 5000

	defaultSearchLimit = 50
	maxSearchLimit     = 100

	maxUploadBytes = 5 << 20
)

// SearchTrashBins handles GET /api/v1/trash-bins/search.
func SearchTrashBins(svc *services.TrashBinService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseSearchParams(r)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		bins, err := svc.SearchNearby(*params)
		if err != nil {
			log.Printf("❌ Search failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "search failed")
			return
		}

		utils.Success(w, map[string]interface{}{
			"trash_bins": bins,
			"count":      len(bins),
			"radius":     params.RadiusMeters,
			"center":     models.Location{Lat: params.Lat, Lng: params.Lng},
		})
	}
}

func parseSearchParams(r *http.Request) (*services.SearchParams, error) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return nil, fmt.Errorf("lat is required and must be a number")
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return nil, fmt.Errorf("lng is required and must be a number")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("lat/lng out of range")
	}

	radius := defaultRadiusMeters
	if raw := q.Get("radius"); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("radius must be an integer")
		}
		if radius < minRadiusMeters || radius > maxRadiusMeters {
			return nil, fmt.Errorf("radius must be between %d and %d meters", minRadiusMeters, maxRadiusMeters)
		}
	}

	limit := defaultSearchLimit
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("limit must be an integer")
		}
		if limit < 1 || limit > maxSearchLimit {
			return nil, fmt.Errorf("limit must be between 1 and %d", maxSearchLimit)
		}
	}

	var trashTypes []string
	if raw := q.Get("trash_types"); raw != "" {
		trashTypes = splitCSV(raw)
		for _, t := range trashTypes {
			if !models.IsValidTrashType(t) {
				return nil, fmt.Errorf("unknown trash type %q", t)
			}
		}
	}

	var facilityTypes []string
	if raw := q.Get("facility_types"); raw != "" {
		facilityTypes = splitCSV(raw)
		for _, f := range facilityTypes {
			if !models.IsValidFacilityType(f) {
				return nil, fmt.Errorf("unknown facility type %q", f)
			}
		}
	}

	var minQuality *float64
	raw := q.Get("min_quality_score")
	if raw == "" {
		// Shorter alias kept for older clients.
		raw = q.Get("min_quality")
	}
	if raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return nil, fmt.Errorf("min_quality_score must be between 0 and 1")
		}
		minQuality = &v
	}

	return &services.SearchParams{
		Lat:             lat,
		Lng:             lng,
		RadiusMeters:    radius,
		TrashTypes:      trashTypes,
		FacilityTypes:   facilityTypes,
		MinQualityScore: minQuality,
		Limit:           limit,
	}, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetTrashBin handles GET /api/v1/trash-bins/{id}.
func GetTrashBin(svc *services.TrashBinService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "id is required")
			return
		}

		detail, err := svc.GetByID(id)
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "trash bin not found")
			return
		}
		if err != nil {
			log.Printf("❌ Bin lookup failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		utils.Success(w, detail)
	}
}

type feedbackRequest struct {
	TrashBinID   string   `json:"trash_bin_id"`
	FeedbackType string   `json:"feedback_type"`
	Content      *string  `json:"content"`
	UserLat      *float64 `json:"user_lat"`
	UserLng      *float64 `json:"user_lng"`
}

// SubmitFeedback handles POST /api/v1/trash-bins/feedback, where the body
// carries trash_bin_id, and the nested POST /api/v1/trash-bins/{id}/feedback
// alias. The body is either JSON or multipart form data with an optional
// photo.
func SubmitFeedback(svc *services.TrashBinService, quality *services.QualityService, uploadDir string, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		binID := chi.URLParam(r, "id")

		var req feedbackRequest
		var imageURL *string

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				utils.Error(w, http.StatusBadRequest, "invalid multipart body")
				return
			}
			req.TrashBinID = r.FormValue("trash_bin_id")
			req.FeedbackType = r.FormValue("feedback_type")
			if c := r.FormValue("content"); c != "" {
				req.Content = &c
			}
			if v, err := strconv.ParseFloat(r.FormValue("user_lat"), 64); err == nil {
				req.UserLat = &v
			}
			if v, err := strconv.ParseFloat(r.FormValue("user_lng"), 64); err == nil {
				req.UserLng = &v
			}

			file, header, err := r.FormFile("image")
			if err == nil {
				defer file.Close()
				url, saveErr := saveUpload(file, header, uploadDir)
				if saveErr != nil {
					utils.Error(w, http.StatusBadRequest, saveErr.Error())
					return
				}
				imageURL = &url
			}
		} else {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				utils.Error(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		if binID == "" {
			binID = req.TrashBinID
		}
		if binID == "" {
			utils.Error(w, http.StatusBadRequest, "trash_bin_id is required")
			return
		}
		if !models.IsValidFeedbackType(req.FeedbackType) {
			utils.Error(w, http.StatusBadRequest, "invalid feedback_type")
			return
		}
		if req.Content != nil && len(*req.Content) > 1000 {
			utils.Error(w, http.StatusBadRequest, "content exceeds 1000 characters")
			return
		}
		if (req.UserLat == nil) != (req.UserLng == nil) {
			utils.Error(w, http.StatusBadRequest, "user_lat and user_lng must be given together")
			return
		}
		if req.UserLat != nil {
			if *req.UserLat < -90 || *req.UserLat > 90 || *req.UserLng < -180 || *req.UserLng > 180 {
				utils.Error(w, http.StatusBadRequest, "user_lat/user_lng out of range")
				return
			}
		}

		feedbackID, err := svc.SubmitFeedback(services.FeedbackInput{
			TrashBinID:   binID,
			FeedbackType: req.FeedbackType,
			Content:      req.Content,
			UserLat:      req.UserLat,
			UserLng:      req.UserLng,
			ImageURL:     imageURL,
		})
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "trash bin not found")
			return
		}
		if err != nil {
			log.Printf("❌ Feedback submission failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "feedback submission failed")
			return
		}

		// Existence-affecting feedback gets a full recompute right away
		// instead of waiting for the nightly pass.
		if req.FeedbackType == models.FeedbackRemoved || req.FeedbackType == models.FeedbackClosed {
			if err := quality.RecomputeBin(binID, "user_feedback"); err != nil {
				log.Printf("⚠️  Immediate recompute failed for bin %s: %v", binID, err)
			}
		}

		if hub != nil {
			hub.Broadcast("feedback_submitted", map[string]interface{}{
				"trash_bin_id":  binID,
				"feedback_type": req.FeedbackType,
			}, "")
		}

		utils.Created(w, map[string]string{"feedback_id": feedbackID})
	}
}

// saveUpload writes an image attachment to the upload directory under a
// random name and returns its public URL path.
func saveUpload(file multipart.File, header *multipart.FileHeader, uploadDir string) (string, error) {
	if header.Size > maxUploadBytes {
		return "", fmt.Errorf("image exceeds 5MB limit")
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("only image uploads are accepted")
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("upload directory unavailable")
	}

	dst, err := os.Create(filepath.Join(uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to store image")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxUploadBytes)); err != nil {
		return "", fmt.Errorf("failed to store image")
	}

	return "/uploads/" + name, nil
}
