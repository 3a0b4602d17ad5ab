// Package api exposes the fit engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/logger"
	"github.com/raushankrgupta/fitmate/recommender"
	"github.com/raushankrgupta/fitmate/store"
	"github.com/raushankrgupta/fitmate/utils"
)

const maxJSONBody = 1 << 20

// FitPredictor scores how an outfit fits a body. Predict never fails.
type FitPredictor interface {
	Predict(ctx context.Context, user, outfit fitting.Set) fitting.Result
	ModelLoaded(ctx context.Context) bool
}

// Options carries the collaborators of a Handler.
type Options struct {
	Store       store.Store
	Predictor   FitPredictor
	Recommender *recommender.Recommender
	Images      *utils.ImageBucket // optional; nil disables image upload
	Logger      logger.Logger
	JWTSecret   string
	TokenTTL    time.Duration
}

// Handler serves every HTTP route.
type Handler struct {
	store       store.Store
	predictor   FitPredictor
	recommender *recommender.Recommender
	images      *utils.ImageBucket
	log         logger.Logger
	jwtSecret   string
	tokenTTL    time.Duration
	now         func() time.Time
}

func NewHandler(opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	rec := opts.Recommender
	if rec == nil {
		rec = recommender.New(opts.Store, log)
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handler{
		store:       opts.Store,
		predictor:   opts.Predictor,
		recommender: rec,
		images:      opts.Images,
		log:         log,
		jwtSecret:   opts.JWTSecret,
		tokenTTL:    ttl,
		now:         time.Now,
	}
}

// Routes returns the HTTP handler for the whole API.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.HealthHandler)

	mux.HandleFunc("POST /auth/signup", h.SignupHandler)
	mux.HandleFunc("POST /auth/login", h.LoginHandler)

	mux.HandleFunc("GET /measurements", h.AuthMiddleware(h.GetMeasurementHandler))
	mux.HandleFunc("POST /measurements", h.AuthMiddleware(h.CreateMeasurementHandler))
	mux.HandleFunc("PUT /measurements", h.AuthMiddleware(h.UpdateMeasurementHandler))
	mux.HandleFunc("GET /measurements/body-shape", h.AuthMiddleware(h.BodyShapeHandler))

	mux.HandleFunc("GET /outfits", h.AuthMiddleware(h.ListOutfitsHandler))
	mux.HandleFunc("POST /outfits", h.AuthMiddleware(h.CreateOutfitHandler))
	mux.HandleFunc("GET /outfits/{id}", h.AuthMiddleware(h.GetOutfitHandler))
	mux.HandleFunc("PUT /outfits/{id}", h.AuthMiddleware(h.UpdateOutfitHandler))
	mux.HandleFunc("DELETE /outfits/{id}", h.AuthMiddleware(h.DeleteOutfitHandler))
	mux.HandleFunc("POST /outfits/{id}/image", h.AuthMiddleware(h.UploadOutfitImageHandler))

	mux.HandleFunc("POST /predictions/predict", h.AuthMiddleware(h.PredictHandler))
	mux.HandleFunc("GET /predictions/history", h.AuthMiddleware(h.HistoryHandler))
	mux.HandleFunc("POST /predictions/{id}/feedback", h.AuthMiddleware(h.FeedbackHandler))

	mux.HandleFunc("GET /recommendations", h.AuthMiddleware(h.RecommendationsHandler))
	mux.HandleFunc("GET /recommendations/similar/{id}", h.AuthMiddleware(h.SimilarOutfitsHandler))

	return requestIDMiddleware(corsMiddleware(utils.LatencyMiddleware(h.log)(mux)))
}

// HealthHandler reports liveness and whether the trained fit model is in use.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"model_loaded": h.predictor != nil && h.predictor.ModelLoaded(r.Context()),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst)
}

// queryInt returns the positive integer query parameter name, or def.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
