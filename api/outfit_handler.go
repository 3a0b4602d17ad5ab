package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/raushankrgupta/fitmate/models"
	"github.com/raushankrgupta/fitmate/store"
	"github.com/raushankrgupta/fitmate/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxImageUpload = 10 << 20
	// room for multipart boundaries and headers around the image part
	multipartOverhead = 1 << 20
)

// OutfitRequest is the body of POST and PUT /outfits. Absent fields are left
// unchanged on update.
type OutfitRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	ImageKey    *string  `json:"image_key"`
	Category    *string  `json:"category"`
	Occasion    *string  `json:"occasion"`
	Season      *string  `json:"season"`
	Brand       *string  `json:"brand"`
	Color       *string  `json:"color"`
	Length      *float64 `json:"outfit_length"`
	Chest       *float64 `json:"outfit_chest"`
	Waist       *float64 `json:"outfit_waist"`
	Hips        *float64 `json:"outfit_hips"`
	Shoulder    *float64 `json:"outfit_shoulder"`
	IsFavorite  *bool    `json:"is_favorite"`
	IsPublic    *bool    `json:"is_public"`
	TimesWorn   *int     `json:"times_worn"`
}

// OutfitListResponse is returned by GET /outfits.
type OutfitListResponse struct {
	Outfits []models.Outfit `json:"outfits"`
	Count   int             `json:"count"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func (req OutfitRequest) apply(o *models.Outfit) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return errors.New("name must not be empty")
	}
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		return fmt.Errorf("invalid category %q", *req.Category)
	}
	if req.Occasion != nil && *req.Occasion != "" && !models.ValidOccasion(*req.Occasion) {
		return fmt.Errorf("invalid occasion %q", *req.Occasion)
	}
	if req.Season != nil && *req.Season != "" && !models.ValidSeason(*req.Season) {
		return fmt.Errorf("invalid season %q", *req.Season)
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"outfit_length", req.Length}, {"outfit_chest", req.Chest}, {"outfit_waist", req.Waist},
		{"outfit_hips", req.Hips}, {"outfit_shoulder", req.Shoulder},
	} {
		if err := positive(f.name, f.v); err != nil {
			return err
		}
	}
	if req.TimesWorn != nil && *req.TimesWorn < 0 {
		return errors.New("times_worn must not be negative")
	}

	setString(&o.Name, req.Name)
	setString(&o.Description, req.Description)
	setString(&o.ImageKey, req.ImageKey)
	setString(&o.Category, req.Category)
	setString(&o.Occasion, req.Occasion)
	setString(&o.Season, req.Season)
	setString(&o.Brand, req.Brand)
	setString(&o.Color, req.Color)
	if req.Length != nil {
		o.Length = req.Length
	}
	if req.Chest != nil {
		o.Chest = req.Chest
	}
	if req.Waist != nil {
		o.Waist = req.Waist
	}
	if req.Hips != nil {
		o.Hips = req.Hips
	}
	if req.Shoulder != nil {
		o.Shoulder = req.Shoulder
	}
	if req.IsFavorite != nil {
		o.IsFavorite = *req.IsFavorite
	}
	if req.IsPublic != nil {
		o.IsPublic = *req.IsPublic
	}
	if req.TimesWorn != nil {
		o.TimesWorn = *req.TimesWorn
	}
	return nil
}

// withImageURL fills ImageURL from ImageKey when an image bucket is set.
func (h *Handler) withImageURL(ctx context.Context, o *models.Outfit) {
	if o.ImageKey == "" {
		return
	}
	o.ImageURL = utils.PresignImageURLs(ctx, h.images, []string{o.ImageKey})[0]
}

// pathObjectID parses the {id} path value.
func pathObjectID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(r.PathValue("id"))
}

// loadOutfit resolves the {id} outfit for the caller and writes the error
// response itself when it cannot.
func (h *Handler) loadOutfit(w http.ResponseWriter, r *http.Request, logBuf *strings.Builder) (*models.Outfit, bool) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logBuf, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	outfitID, err := pathObjectID(r)
	if err != nil {
		utils.RespondError(w, logBuf, "Invalid outfit ID", http.StatusBadRequest)
		return nil, false
	}
	o, err := h.store.GetOutfit(r.Context(), userID, outfitID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, logBuf, "Outfit not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		utils.AddToLogMessage(logBuf, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, logBuf, "Failed to fetch outfit", http.StatusInternalServerError)
		return nil, false
	}
	return o, true
}

// ListOutfitsHandler lists the caller's outfits, newest first, optionally
// filtered by occasion and season.
func (h *Handler) ListOutfitsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[List Outfits API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var filter store.OutfitFilter
	if occasion := r.URL.Query().Get("occasion"); occasion != "" {
		if !models.ValidOccasion(occasion) {
			utils.RespondError(w, &logMessageBuilder, "Invalid occasion", http.StatusBadRequest)
			return
		}
		filter.Occasion = occasion
	}
	if season := r.URL.Query().Get("season"); season != "" {
		if !models.ValidSeason(season) {
			utils.RespondError(w, &logMessageBuilder, "Invalid season", http.StatusBadRequest)
			return
		}
		filter.Seasons = []string{season}
	}

	outfits, err := h.store.ListOutfits(r.Context(), userID, filter)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch outfits", http.StatusInternalServerError)
		return
	}
	if outfits == nil {
		outfits = []models.Outfit{}
	}
	for i := range outfits {
		h.withImageURL(r.Context(), &outfits[i])
	}
	utils.RespondJSON(w, http.StatusOK, OutfitListResponse{Outfits: outfits, Count: len(outfits)})
}

// CreateOutfitHandler adds an outfit to the caller's wardrobe.
func (h *Handler) CreateOutfitHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Create Outfit API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req OutfitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == nil {
		utils.RespondError(w, &logMessageBuilder, "Name is required", http.StatusBadRequest)
		return
	}

	now := h.now()
	o := &models.Outfit{
		UserID:     userID,
		Category:   models.CategoryFullOutfit,
		UploadedAt: now,
		UpdatedAt:  now,
	}
	if err := req.apply(o); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.CreateOutfit(r.Context(), o); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save outfit", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Outfit %s created", o.ID.Hex()))
	h.withImageURL(r.Context(), o)
	utils.RespondJSON(w, http.StatusCreated, o)
}

// GetOutfitHandler returns one of the caller's outfits.
func (h *Handler) GetOutfitHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Get Outfit API]")

	o, ok := h.loadOutfit(w, r, &logMessageBuilder)
	if !ok {
		return
	}
	h.withImageURL(r.Context(), o)
	utils.RespondJSON(w, http.StatusOK, o)
}

// UpdateOutfitHandler changes the provided fields of one of the caller's
// outfits.
func (h *Handler) UpdateOutfitHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Update Outfit API]")

	var req OutfitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	o, ok := h.loadOutfit(w, r, &logMessageBuilder)
	if !ok {
		return
	}
	if err := req.apply(o); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	o.UpdatedAt = h.now()

	if err := h.store.UpdateOutfit(r.Context(), o); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save outfit", http.StatusInternalServerError)
		return
	}
	h.withImageURL(r.Context(), o)
	utils.RespondJSON(w, http.StatusOK, o)
}

// DeleteOutfitHandler removes an outfit and its fit history.
func (h *Handler) DeleteOutfitHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Outfit API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}
	outfitID, err := pathObjectID(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid outfit ID", http.StatusBadRequest)
		return
	}

	err = h.store.DeleteOutfit(r.Context(), userID, outfitID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, &logMessageBuilder, "Outfit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to delete outfit", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Outfit deleted successfully"})
}

// UploadOutfitImageHandler stores the multipart "image" file in the image
// bucket and records its key on the outfit.
func (h *Handler) UploadOutfitImageHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Upload Outfit Image API]")

	if h.images == nil {
		utils.RespondError(w, &logMessageBuilder, "Image storage is not configured", http.StatusServiceUnavailable)
		return
	}

	o, ok := h.loadOutfit(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	if r.ContentLength > maxImageUpload+multipartOverhead {
		utils.RespondError(w, &logMessageBuilder, "Image must be 10MB or smaller", http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUpload+multipartOverhead)
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, &logMessageBuilder, "Image must be 10MB or smaller", http.StatusRequestEntityTooLarge)
			return
		}
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	if header.Size > maxImageUpload {
		utils.RespondError(w, &logMessageBuilder, "Image must be 10MB or smaller", http.StatusRequestEntityTooLarge)
		return
	}

	objectKey := fmt.Sprintf("outfits/%s/%s%s", o.UserID.Hex(), uuid.New().String(), filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := h.images.Upload(r.Context(), file, objectKey, contentType); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, err.Error())
		utils.RespondError(w, &logMessageBuilder, "Error uploading image", http.StatusInternalServerError)
		return
	}

	o.ImageKey = objectKey
	o.UpdatedAt = h.now()
	if err := h.store.UpdateOutfit(r.Context(), o); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save outfit", http.StatusInternalServerError)
		return
	}
	h.withImageURL(r.Context(), o)
	utils.RespondJSON(w, http.StatusOK, o)
}
