package recommender

import (
	"context"
	"testing"
	"time"

	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/models"
	"github.com/raushankrgupta/fitmate/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type wardrobeFixture struct {
	t      *testing.T
	store  *store.MemoryStore
	userID primitive.ObjectID
	now    time.Time
}

func newFixture(t *testing.T) *wardrobeFixture {
	return &wardrobeFixture{
		t:      t,
		store:  store.NewMemoryStore(),
		userID: primitive.NewObjectID(),
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// outfit adds an outfit uploaded one minute after the previous one.
func (f *wardrobeFixture) outfit(o models.Outfit) models.Outfit {
	f.now = f.now.Add(time.Minute)
	o.UserID = f.userID
	o.UploadedAt = f.now
	require.NoError(f.t, f.store.CreateOutfit(context.Background(), &o))
	return o
}

func (f *wardrobeFixture) fitResult(outfitID primitive.ObjectID, score float64) {
	f.now = f.now.Add(time.Minute)
	r := models.NewFitResult(f.userID, outfitID, fitting.Result{Score: score, Status: fitting.StatusForScore(score)}, f.now)
	require.NoError(f.t, f.store.CreateFitResult(context.Background(), &r))
}

func (f *wardrobeFixture) measurement(shape string) {
	m := &models.Measurement{UserID: f.userID, BodyShape: shape, BodyShapeOverride: true}
	require.NoError(f.t, f.store.CreateMeasurement(context.Background(), m))
}

func names(recs []Recommendation) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r.Outfit.Name)
	}
	return out
}

func TestByBodyShape(t *testing.T) {
	ctx := context.Background()

	t.Run("no measurement", func(t *testing.T) {
		f := newFixture(t)
		f.outfit(models.Outfit{Name: "tee", Category: models.CategoryTop})

		recs, err := New(f.store, nil).ByBodyShape(ctx, f.userID, 0)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("no stored shape", func(t *testing.T) {
		f := newFixture(t)
		f.measurement("")
		f.outfit(models.Outfit{Name: "tee", Category: models.CategoryTop})

		recs, err := New(f.store, nil).ByBodyShape(ctx, f.userID, 0)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("scored and ordered", func(t *testing.T) {
		f := newFixture(t)
		f.measurement("hourglass")
		f.outfit(models.Outfit{Name: "tee", Category: models.CategoryTop})
		f.outfit(models.Outfit{Name: "fav-dress", Category: models.CategoryDress, IsFavorite: true})
		f.outfit(models.Outfit{Name: "suit", Category: models.CategoryFullOutfit})
		f.outfit(models.Outfit{Name: "fav-jeans", Category: models.CategoryBottom, IsFavorite: true})

		recs, err := New(f.store, nil).ByBodyShape(ctx, f.userID, 0)
		require.NoError(t, err)

		assert.Equal(t, []string{"fav-dress", "fav-jeans", "suit", "tee"}, names(recs))
		assert.Equal(t, []float64{100, 90, 80, 70}, []float64{recs[0].Score, recs[1].Score, recs[2].Score, recs[3].Score})
		assert.Equal(t, "Good match for your hourglass body shape", recs[0].Reason)
	})

	t.Run("limit", func(t *testing.T) {
		f := newFixture(t)
		f.measurement("oval")
		for i := 0; i < 12; i++ {
			f.outfit(models.Outfit{Name: "tee", Category: models.CategoryTop})
		}

		recs, err := New(f.store, nil).ByBodyShape(ctx, f.userID, 0)
		require.NoError(t, err)
		assert.Len(t, recs, DefaultLimit)

		recs, err = New(f.store, nil).ByBodyShape(ctx, f.userID, 3)
		require.NoError(t, err)
		assert.Len(t, recs, 3)
	})
}

func TestByOccasion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	blazer := f.outfit(models.Outfit{Name: "blazer", Occasion: "formal", TimesWorn: 2})
	f.outfit(models.Outfit{Name: "gown", Occasion: "formal", TimesWorn: 7})
	f.outfit(models.Outfit{Name: "hoodie", Occasion: "casual", TimesWorn: 20})

	f.fitResult(blazer.ID, 60)
	f.fitResult(blazer.ID, 92)

	recs, err := New(f.store, nil).ByOccasion(ctx, f.userID, "formal", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"gown", "blazer"}, names(recs))

	assert.Equal(t, 75.0, recs[0].Score)
	assert.Equal(t, 92.0, recs[1].Score)
	assert.Equal(t, "Great for formal occasions", recs[0].Reason)
}

func TestBySeason(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.outfit(models.Outfit{Name: "linen", Season: "summer", TimesWorn: 1})
	f.outfit(models.Outfit{Name: "jeans", Season: models.SeasonAll, TimesWorn: 4})
	f.outfit(models.Outfit{Name: "coat", Season: "winter", TimesWorn: 9})

	recs, err := New(f.store, nil).BySeason(ctx, f.userID, "summer", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"jeans", "linen"}, names(recs))
	for _, r := range recs {
		assert.Equal(t, 80.0, r.Score)
		assert.Equal(t, "Perfect for summer", r.Reason)
	}

	recs, err = New(f.store, nil).BySeason(ctx, f.userID, models.SeasonAll, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"jeans"}, names(recs))
}

func TestSimilarity(t *testing.T) {
	full := models.Outfit{Category: "dress", Occasion: "formal", Color: "Navy", Season: "winter", Brand: "Zara"}

	tests := []struct {
		name string
		b    models.Outfit
		want float64
	}{
		{name: "self", b: full, want: 1.0},
		{name: "case-insensitive color and brand", b: models.Outfit{Category: "dress", Occasion: "formal", Color: "navy", Season: "winter", Brand: "ZARA"}, want: 1.0},
		{name: "category only", b: models.Outfit{Category: "dress"}, want: 0.3},
		{name: "nothing shared", b: models.Outfit{Category: "top", Occasion: "casual"}, want: 0},
		{name: "occasion and season", b: models.Outfit{Category: "top", Occasion: "formal", Season: "winter"}, want: 0.35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(full, tt.b), 1e-9)
		})
	}

	t.Run("empty attributes do not match", func(t *testing.T) {
		a := models.Outfit{Category: "top"}
		assert.InDelta(t, 0.3, Similarity(a, a), 1e-9)
	})
}

func TestSimilar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ref := f.outfit(models.Outfit{Name: "ref", Category: "dress", Occasion: "formal", Color: "Navy", Brand: "Zara"})
	f.outfit(models.Outfit{Name: "twin", Category: "dress", Occasion: "formal", Color: "navy", Brand: "zara"})
	f.outfit(models.Outfit{Name: "same-cat", Category: "dress"})
	f.outfit(models.Outfit{Name: "cat-occasion", Category: "dress", Occasion: "formal"})
	f.outfit(models.Outfit{Name: "color-brand", Category: "top", Color: "NAVY", Brand: "Zara"})

	recs, err := New(f.store, nil).Similar(ctx, f.userID, ref.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"twin", "cat-occasion", "color-brand"}, names(recs))
	assert.Equal(t, "Same category (Dress), Same occasion (Formal), Same color (Navy), Same brand (Zara)", recs[0].Reason)
	assert.Equal(t, "Same category (Dress), Same occasion (Formal)", recs[1].Reason)
	assert.Equal(t, "Same color (Navy), Same brand (Zara)", recs[2].Reason)
	for _, r := range recs {
		assert.NotEqual(t, ref.ID, r.Outfit.ID)
	}

	_, err = New(f.store, nil).Similar(ctx, f.userID, primitive.NewObjectID(), 0)
	assert.ErrorIs(t, err, ErrOutfitNotFound)

	_, err = New(f.store, nil).Similar(ctx, primitive.NewObjectID(), ref.ID, 0)
	assert.ErrorIs(t, err, ErrOutfitNotFound)
}

func TestSimilarityReason(t *testing.T) {
	assert.Equal(t, "Similar style", similarityReason(
		models.Outfit{Category: "top", Season: "winter"},
		models.Outfit{Category: "bottom", Season: "winter"},
	))
	assert.Equal(t, "Same category (Full Outfit)", similarityReason(
		models.Outfit{Category: models.CategoryFullOutfit},
		models.Outfit{Category: models.CategoryFullOutfit},
	))
}

func TestBestFitting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.outfit(models.Outfit{Name: "a"})
	b := f.outfit(models.Outfit{Name: "b"})
	c := f.outfit(models.Outfit{Name: "c"})

	f.fitResult(a.ID, 78)
	f.fitResult(b.ID, 96)
	f.fitResult(c.ID, 40)
	f.fitResult(a.ID, 88)

	recs, err := New(f.store, nil).BestFitting(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "a"}, names(recs))
	assert.Equal(t, "Excellent fit (perfect)", recs[0].Reason)
	assert.Equal(t, "Excellent fit (good)", recs[1].Reason)

	recs, err = New(f.store, nil).BestFitting(ctx, f.userID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names(recs))
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to best fitting without a body shape", func(t *testing.T) {
		f := newFixture(t)
		o := f.outfit(models.Outfit{Name: "tee", Category: models.CategoryTop})
		f.fitResult(o.ID, 91)

		recs, err := New(f.store, nil).Recommend(ctx, f.userID, Query{})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Excellent fit (perfect)", recs[0].Reason)
	})

	t.Run("body shape first", func(t *testing.T) {
		f := newFixture(t)
		f.measurement("triangle")
		f.outfit(models.Outfit{Name: "tee", Category: models.CategoryTop})

		recs, err := New(f.store, nil).Recommend(ctx, f.userID, Query{})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Good match for your triangle body shape", recs[0].Reason)
	})

	t.Run("occasion wins over season", func(t *testing.T) {
		f := newFixture(t)
		f.outfit(models.Outfit{Name: "gym", Occasion: "sports", Season: "summer"})
		f.outfit(models.Outfit{Name: "beach", Occasion: "casual", Season: "summer"})

		recs, err := New(f.store, nil).Recommend(ctx, f.userID, Query{Occasion: "sports", Season: "summer"})
		require.NoError(t, err)
		assert.Equal(t, []string{"gym"}, names(recs))
	})

	t.Run("empty wardrobe", func(t *testing.T) {
		f := newFixture(t)
		recs, err := New(f.store, nil).Recommend(ctx, f.userID, Query{})
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}
