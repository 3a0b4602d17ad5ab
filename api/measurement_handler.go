package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/fitmate/bodyshape"
	"github.com/raushankrgupta/fitmate/models"
	"github.com/raushankrgupta/fitmate/store"
	"github.com/raushankrgupta/fitmate/utils"
)

const msgMeasurementsRequired = "Please add your measurements first"

// MeasurementRequest is the body of POST and PUT /measurements. Absent fields
// are left unchanged on update. Setting body_shape pins it; leaving it out
// lets it be classified from the measurements.
type MeasurementRequest struct {
	Height    *float64 `json:"height"`
	Weight    *float64 `json:"weight"`
	Chest     *float64 `json:"chest"`
	Waist     *float64 `json:"waist"`
	Hips      *float64 `json:"hips"`
	Shoulder  *float64 `json:"shoulder"`
	Gender    *string  `json:"gender"`
	BodyShape *string  `json:"body_shape"`
	SkinTone  *string  `json:"skin_tone"`
}

// BodyShapeResponse is returned by GET /measurements/body-shape.
type BodyShapeResponse struct {
	BodyShape  string             `json:"body_shape"`
	Overridden bool               `json:"overridden"`
	Guidance   bodyshape.Guidance `json:"guidance"`
	Message    string             `json:"message,omitempty"`
}

func positive(name string, v *float64) error {
	if v != nil && *v <= 0 {
		return fmt.Errorf("%s must be greater than zero", name)
	}
	return nil
}

// apply validates req and copies the provided fields onto m.
func (req MeasurementRequest) apply(m *models.Measurement) error {
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"height", req.Height}, {"weight", req.Weight}, {"chest", req.Chest},
		{"waist", req.Waist}, {"hips", req.Hips}, {"shoulder", req.Shoulder},
	} {
		if err := positive(f.name, f.v); err != nil {
			return err
		}
	}
	if req.Gender != nil && !models.ValidGender(*req.Gender) {
		return errors.New("gender must be male, female or other")
	}
	if req.BodyShape != nil && *req.BodyShape != "" {
		if _, ok := bodyshape.Parse(*req.BodyShape); !ok {
			return fmt.Errorf("unknown body shape %q", *req.BodyShape)
		}
	}

	if req.Height != nil {
		m.Height = *req.Height
	}
	if req.Weight != nil {
		m.Weight = *req.Weight
	}
	if req.Chest != nil {
		m.Chest = req.Chest
	}
	if req.Waist != nil {
		m.Waist = req.Waist
	}
	if req.Hips != nil {
		m.Hips = req.Hips
	}
	if req.Shoulder != nil {
		m.Shoulder = req.Shoulder
	}
	if req.Gender != nil {
		m.Gender = *req.Gender
	}
	if req.SkinTone != nil {
		m.SkinTone = *req.SkinTone
	}

	if req.BodyShape != nil && *req.BodyShape != "" {
		m.BodyShape = *req.BodyShape
		m.BodyShapeOverride = true
	} else {
		m.BodyShapeOverride = false
	}
	m.RefreshBodyShape()
	return nil
}

// GetMeasurementHandler returns the caller's measurements, or null when none
// are stored.
func (h *Handler) GetMeasurementHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Get Measurements API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	m, err := h.store.GetMeasurement(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch measurements", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, m)
}

// CreateMeasurementHandler stores the caller's first set of measurements.
func (h *Handler) CreateMeasurementHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Create Measurements API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req MeasurementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Height == nil || req.Weight == nil || req.Gender == nil {
		utils.RespondError(w, &logMessageBuilder, "Height, Weight and Gender are required", http.StatusBadRequest)
		return
	}

	now := h.now()
	m := &models.Measurement{UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := req.apply(m); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.CreateMeasurement(r.Context(), m); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.RespondError(w, &logMessageBuilder, "Measurements already exist. Use PUT to update.", http.StatusBadRequest)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save measurements", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Measurements saved, body shape %q", m.BodyShape))
	utils.RespondJSON(w, http.StatusCreated, m)
}

// UpdateMeasurementHandler changes the provided fields of the caller's
// measurements and reclassifies the body shape.
func (h *Handler) UpdateMeasurementHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Update Measurements API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req MeasurementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	m, err := h.store.GetMeasurement(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, &logMessageBuilder, "Measurements not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch measurements", http.StatusInternalServerError)
		return
	}

	if err := req.apply(m); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	m.UpdatedAt = h.now()

	if err := h.store.UpdateMeasurement(r.Context(), m); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save measurements", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, m)
}

// BodyShapeHandler returns the caller's body shape and its styling guidance.
func (h *Handler) BodyShapeHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Body Shape API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
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

	shape, ok := m.Shape()
	if !ok {
		utils.RespondJSON(w, http.StatusOK, BodyShapeResponse{
			Message: "Chest, waist and hips are needed to determine your body shape",
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, BodyShapeResponse{
		BodyShape:  string(shape),
		Overridden: m.BodyShapeOverride,
		Guidance:   bodyshape.GuidanceFor(shape),
	})
}
