package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/fitmate/models"
	"github.com/raushankrgupta/fitmate/recommender"
	"github.com/raushankrgupta/fitmate/utils"
)

// RecommendationsResponse wraps a ranked outfit list.
type RecommendationsResponse struct {
	Recommendations []recommender.Recommendation `json:"recommendations"`
	Count           int                          `json:"count"`
}

func (h *Handler) respondRecommendations(w http.ResponseWriter, r *http.Request, recs []recommender.Recommendation) {
	if recs == nil {
		recs = []recommender.Recommendation{}
	}
	for i := range recs {
		h.withImageURL(r.Context(), &recs[i].Outfit)
	}
	utils.RespondJSON(w, http.StatusOK, RecommendationsResponse{Recommendations: recs, Count: len(recs)})
}

// RecommendationsHandler ranks the caller's wardrobe by occasion, season or,
// with neither given, body shape falling back to past fit.
func (h *Handler) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Recommendations API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q := recommender.Query{
		Occasion: r.URL.Query().Get("occasion"),
		Season:   r.URL.Query().Get("season"),
		Limit:    queryInt(r, "limit", recommender.DefaultLimit),
	}
	if q.Occasion != "" && !models.ValidOccasion(q.Occasion) {
		utils.RespondError(w, &logMessageBuilder, "Invalid occasion", http.StatusBadRequest)
		return
	}
	if q.Season != "" && !models.ValidSeason(q.Season) {
		utils.RespondError(w, &logMessageBuilder, "Invalid season", http.StatusBadRequest)
		return
	}

	recs, err := h.recommender.Recommend(r.Context(), userID, q)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Recommendation failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to build recommendations", http.StatusInternalServerError)
		return
	}
	h.respondRecommendations(w, r, recs)
}

// SimilarOutfitsHandler lists outfits resembling the {id} outfit.
func (h *Handler) SimilarOutfitsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessages(r.Context(), h.log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Similar Outfits API]")

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

	recs, err := h.recommender.Similar(r.Context(), userID, outfitID, queryInt(r, "limit", recommender.DefaultLimit))
	if errors.Is(err, recommender.ErrOutfitNotFound) {
		utils.RespondError(w, &logMessageBuilder, "Outfit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Recommendation failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to build recommendations", http.StatusInternalServerError)
		return
	}
	h.respondRecommendations(w, r, recs)
}
