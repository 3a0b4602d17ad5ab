package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/models"
	"github.com/raushankrgupta/fitmate/store"
	"github.com/raushankrgupta/fitmate/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// PredictRequest is the body of POST /predictions/predict.
type PredictRequest struct {
	OutfitID string `json:"outfit_id"`
}

// HistoryResponse represents one page of fit results.
type HistoryResponse struct {
	Results     []models.FitResult `json:"results"`
	Total       int64              `json:"total"`
	CurrentPage int                `json:"current_page"`
	TotalPages  int                `json:"total_pages"`
}

// PredictHandler scores one of the caller's outfits against their
// measurements and stores the result.
func (h *Handler) PredictHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Predict Fit API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req PredictRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	outfitID, err := primitive.ObjectIDFromHex(req.OutfitID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid outfit ID", http.StatusBadRequest)
		return
	}

	o, err := h.store.GetOutfit(r.Context(), userID, outfitID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, &logMessageBuilder, "Outfit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch outfit", http.StatusInternalServerError)
		return
	}

	m, err := h.store.GetMeasurement(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, &logMessageBuilder, msgMeasurementsRequired, http.StatusBadRequest)
		return
	}
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch measurements", http.StatusInternalServerError)
		return
	}

	result := h.predictor.Predict(r.Context(), m.Set(), o.Set())
	fr := models.NewFitResult(userID, o.ID, result, h.now())
	if err := h.store.CreateFitResult(r.Context(), &fr); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save fit result", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Outfit %s scored %.1f (%s)", o.ID.Hex(), fr.Score, fr.Status))
	utils.RespondJSON(w, http.StatusCreated, fr)
}

// HistoryHandler pages through the caller's fit results, newest first,
// optionally filtered by fit_status.
func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Fit History API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page := queryInt(r, "page", 1)
	limit := min(queryInt(r, "limit", defaultHistoryLimit), maxHistoryLimit)

	var filter store.FitResultFilter
	if s := r.URL.Query().Get("fit_status"); s != "" {
		status := fitting.Status(s)
		if !status.Valid() {
			utils.RespondError(w, &logMessageBuilder, "Invalid fit_status", http.StatusBadRequest)
			return
		}
		filter.Statuses = []fitting.Status{status}
	}

	total, err := h.store.CountFitResults(r.Context(), userID, filter)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch data", http.StatusInternalServerError)
		return
	}

	filter.Skip = pageSkip(page, limit)
	filter.Limit = int64(limit)
	results, err := h.store.ListFitResults(r.Context(), userID, filter)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch data", http.StatusInternalServerError)
		return
	}

	// Ensure empty slice is returned as [] instead of null
	if results == nil {
		results = []models.FitResult{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	utils.RespondJSON(w, http.StatusOK, HistoryResponse{
		Results:     results,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	})
}

// pageSkip returns the offset of page, saturating instead of overflowing.
func pageSkip(page, limit int) int64 {
	p, l := int64(page-1), int64(limit)
	if p > math.MaxInt64/l {
		return math.MaxInt64
	}
	return p * l
}
