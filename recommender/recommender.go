// Package recommender ranks a user's wardrobe by body shape, occasion, season,
// similarity to another outfit or past fit quality.
package recommender

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/logger"
	"github.com/raushankrgupta/fitmate/models"
	"github.com/raushankrgupta/fitmate/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLimit caps every list when the caller passes a non-positive limit.
const DefaultLimit = 10

const (
	bodyShapeBase      = 70.0
	fullGarmentBonus   = 10.0
	favoriteBonus      = 20.0
	bodyShapeMinScore  = 50.0
	defaultFitScore    = 75.0
	seasonalScore      = 80.0
	similarityMinScore = 0.3
)

// ErrOutfitNotFound is returned by Similar when the reference outfit does not
// exist for the user.
var ErrOutfitNotFound = errors.New("outfit not found")

// Recommendation is one ranked outfit. It is never stored.
type Recommendation struct {
	Outfit models.Outfit `json:"outfit"`
	Score  float64       `json:"score"`
	Reason string        `json:"reason"`
}

// Wardrobe is the read side of the store the recommender needs.
type Wardrobe interface {
	GetMeasurement(ctx context.Context, userID primitive.ObjectID) (*models.Measurement, error)
	GetOutfit(ctx context.Context, userID, outfitID primitive.ObjectID) (*models.Outfit, error)
	ListOutfits(ctx context.Context, userID primitive.ObjectID, filter store.OutfitFilter) ([]models.Outfit, error)
	ListFitResults(ctx context.Context, userID primitive.ObjectID, filter store.FitResultFilter) ([]models.FitResult, error)
}

// Query selects the default recommendation path. Occasion takes precedence
// over Season; with neither set, body shape is tried before best fit.
type Query struct {
	Occasion string
	Season   string
	Limit    int
}

// Recommender computes rankings fresh on every call.
type Recommender struct {
	wardrobe Wardrobe
	log      logger.Logger
}

func New(wardrobe Wardrobe, log logger.Logger) *Recommender {
	if log == nil {
		log = logger.NewNop()
	}
	return &Recommender{wardrobe: wardrobe, log: log}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

func truncate(recs []Recommendation, limit int) []Recommendation {
	if len(recs) > limit {
		return recs[:limit]
	}
	return recs
}

// Recommend runs the occasion, season or default path for q.
func (r *Recommender) Recommend(ctx context.Context, userID primitive.ObjectID, q Query) ([]Recommendation, error) {
	switch {
	case q.Occasion != "":
		return r.ByOccasion(ctx, userID, q.Occasion, q.Limit)
	case q.Season != "":
		return r.BySeason(ctx, userID, q.Season, q.Limit)
	}

	recs, err := r.ByBodyShape(ctx, userID, q.Limit)
	if err != nil {
		return nil, err
	}
	if len(recs) > 0 {
		return recs, nil
	}
	r.log.Debugf(ctx, "no body shape recommendations, using best fitting outfits")
	return r.BestFitting(ctx, userID, q.Limit)
}

// ByBodyShape scores every outfit against the user's classified body shape.
// Without a stored shape the result is empty.
func (r *Recommender) ByBodyShape(ctx context.Context, userID primitive.ObjectID, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)

	m, err := r.wardrobe.GetMeasurement(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get measurement: %w", err)
	}
	shape, ok := m.Shape()
	if !ok {
		return nil, nil
	}

	outfits, err := r.wardrobe.ListOutfits(ctx, userID, store.OutfitFilter{})
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}

	var recs []Recommendation
	for _, o := range outfits {
		score := bodyShapeScore(o)
		if score <= bodyShapeMinScore {
			continue
		}
		recs = append(recs, Recommendation{
			Outfit: o,
			Score:  score,
			Reason: fmt.Sprintf("Good match for your %s body shape", shape),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	return truncate(recs, limit), nil
}

func bodyShapeScore(o models.Outfit) float64 {
	score := bodyShapeBase
	if o.Category == models.CategoryDress || o.Category == models.CategoryFullOutfit {
		score += fullGarmentBonus
	}
	if o.IsFavorite {
		score += favoriteBonus
	}
	if score > 100 {
		score = 100
	}
	return score
}

// ByOccasion lists outfits for occasion, most worn first, scored by the
// latest fit result for each outfit.
func (r *Recommender) ByOccasion(ctx context.Context, userID primitive.ObjectID, occasion string, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)

	outfits, err := r.wardrobe.ListOutfits(ctx, userID, store.OutfitFilter{Occasion: occasion, ByUsage: true})
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}
	if len(outfits) > limit {
		outfits = outfits[:limit]
	}

	latest, err := r.latestScores(ctx, userID)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(outfits))
	for _, o := range outfits {
		score, ok := latest[o.ID]
		if !ok {
			score = defaultFitScore
		}
		recs = append(recs, Recommendation{
			Outfit: o,
			Score:  score,
			Reason: fmt.Sprintf("Great for %s occasions", occasion),
		})
	}
	return recs, nil
}

func (r *Recommender) latestScores(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]float64, error) {
	results, err := r.wardrobe.ListFitResults(ctx, userID, store.FitResultFilter{})
	if err != nil {
		return nil, fmt.Errorf("list fit results: %w", err)
	}
	latest := make(map[primitive.ObjectID]float64, len(results))
	for _, res := range results {
		if _, seen := latest[res.OutfitID]; !seen {
			latest[res.OutfitID] = res.Score
		}
	}
	return latest, nil
}

// BySeason lists outfits for season or marked all-season, most worn first.
func (r *Recommender) BySeason(ctx context.Context, userID primitive.ObjectID, season string, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)

	seasons := []string{season}
	if season != models.SeasonAll {
		seasons = append(seasons, models.SeasonAll)
	}
	outfits, err := r.wardrobe.ListOutfits(ctx, userID, store.OutfitFilter{Seasons: seasons, ByUsage: true})
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}
	if len(outfits) > limit {
		outfits = outfits[:limit]
	}

	recs := make([]Recommendation, 0, len(outfits))
	for _, o := range outfits {
		recs = append(recs, Recommendation{
			Outfit: o,
			Score:  seasonalScore,
			Reason: fmt.Sprintf("Perfect for %s", season),
		})
	}
	return recs, nil
}

// Similar ranks the user's other outfits by attribute agreement with the
// reference outfit.
func (r *Recommender) Similar(ctx context.Context, userID, outfitID primitive.ObjectID, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)

	ref, err := r.wardrobe.GetOutfit(ctx, userID, outfitID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOutfitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get outfit: %w", err)
	}

	outfits, err := r.wardrobe.ListOutfits(ctx, userID, store.OutfitFilter{})
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}

	var recs []Recommendation
	for _, o := range outfits {
		if o.ID == ref.ID {
			continue
		}
		sim := Similarity(*ref, o)
		if sim <= similarityMinScore {
			continue
		}
		recs = append(recs, Recommendation{Outfit: o, Score: sim, Reason: similarityReason(*ref, o)})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	return truncate(recs, limit), nil
}

// BestFitting lists outfits whose stored fit results are perfect or good,
// highest score first.
func (r *Recommender) BestFitting(ctx context.Context, userID primitive.ObjectID, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)

	results, err := r.wardrobe.ListFitResults(ctx, userID, store.FitResultFilter{
		Statuses: []fitting.Status{fitting.StatusPerfect, fitting.StatusGood},
		ByScore:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("list fit results: %w", err)
	}

	outfits, err := r.wardrobe.ListOutfits(ctx, userID, store.OutfitFilter{})
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Outfit, len(outfits))
	for _, o := range outfits {
		byID[o.ID] = o
	}

	recs := make([]Recommendation, 0, limit)
	for _, res := range results {
		if len(recs) == limit {
			break
		}
		o, ok := byID[res.OutfitID]
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			Outfit: o,
			Score:  res.Score,
			Reason: fmt.Sprintf("Excellent fit (%s)", res.Status),
		})
	}
	return recs, nil
}
