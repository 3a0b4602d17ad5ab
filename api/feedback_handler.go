package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/fitmate/models"
	"github.com/raushankrgupta/fitmate/store"
	"github.com/raushankrgupta/fitmate/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackRequest is the body of POST /predictions/{id}/feedback.
type FeedbackRequest struct {
	ActualScore *float64 `json:"actual_score"`
	Comment     string   `json:"comment"`
}

// FeedbackHandler records how a scored outfit actually fit. The current
// measurements of both sides are snapshotted with it for training.
func (h *Handler) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Fit Feedback API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}
	resultID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid fit result ID", http.StatusBadRequest)
		return
	}

	var req FeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ActualScore == nil || *req.ActualScore < 0 || *req.ActualScore > 100 {
		utils.RespondError(w, &logMessageBuilder, "actual_score between 0 and 100 is required", http.StatusBadRequest)
		return
	}

	fr, err := h.store.GetFitResult(r.Context(), userID, resultID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, &logMessageBuilder, "Fit result not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch fit result", http.StatusInternalServerError)
		return
	}

	o, err := h.store.GetOutfit(r.Context(), userID, fr.OutfitID)
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

	feedback := &models.FitFeedback{
		UserID:             userID,
		OutfitID:           o.ID,
		FitResultID:        fr.ID,
		UserMeasurements:   m.Set(),
		OutfitMeasurements: o.Set(),
		ActualScore:        *req.ActualScore,
		Comment:            strings.TrimSpace(req.Comment),
		CreatedAt:          h.now(),
	}
	if err := h.store.CreateFeedback(r.Context(), feedback); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Error saving feedback", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Feedback recorded for fit result %s", fr.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, feedback)
}
