package store

import (
	"context"
	"testing"
	"time"

	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := &models.User{Name: "Asha", Email: "asha@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.False(t, u.ID.IsZero())

	err := s.CreateUser(ctx, &models.User{Email: "ASHA@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "Asha@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreMeasurements(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	userID := primitive.NewObjectID()

	_, err := s.GetMeasurement(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	m := &models.Measurement{UserID: userID, Chest: fitting.Cm(90)}
	require.NoError(t, s.CreateMeasurement(ctx, m))
	assert.ErrorIs(t, s.CreateMeasurement(ctx, &models.Measurement{UserID: userID}), ErrDuplicate)

	m.Chest = fitting.Cm(95)
	require.NoError(t, s.UpdateMeasurement(ctx, m))

	got, err := s.GetMeasurement(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 95.0, got.Set().ChestValue())

	other := &models.Measurement{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}
	assert.ErrorIs(t, s.UpdateMeasurement(ctx, other), ErrNotFound)
}

func TestMemoryStoreOutfitOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	userID := primitive.NewObjectID()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	add := func(name, occasion, season string, worn int, age time.Duration) {
		require.NoError(t, s.CreateOutfit(ctx, &models.Outfit{
			UserID: userID, Name: name, Occasion: occasion, Season: season,
			TimesWorn: worn, UploadedAt: base.Add(-age),
		}))
	}
	add("old-formal", "formal", "winter", 5, 3*time.Hour)
	add("new-formal", "formal", "summer", 1, time.Hour)
	add("mid-casual", "casual", models.SeasonAll, 9, 2*time.Hour)
	require.NoError(t, s.CreateOutfit(ctx, &models.Outfit{UserID: primitive.NewObjectID(), Name: "someone-else"}))

	names := func(outfits []models.Outfit) []string {
		var out []string
		for _, o := range outfits {
			out = append(out, o.Name)
		}
		return out
	}

	all, err := s.ListOutfits(ctx, userID, OutfitFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"new-formal", "mid-casual", "old-formal"}, names(all))

	formal, err := s.ListOutfits(ctx, userID, OutfitFilter{Occasion: "formal", ByUsage: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"old-formal", "new-formal"}, names(formal))

	summer, err := s.ListOutfits(ctx, userID, OutfitFilter{Seasons: []string{"summer", models.SeasonAll}, ByUsage: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid-casual", "new-formal"}, names(summer))
}

func TestMemoryStoreDeleteOutfitRemovesFitResults(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	userID := primitive.NewObjectID()

	keep := &models.Outfit{UserID: userID, Name: "keep"}
	drop := &models.Outfit{UserID: userID, Name: "drop"}
	require.NoError(t, s.CreateOutfit(ctx, keep))
	require.NoError(t, s.CreateOutfit(ctx, drop))

	now := time.Now()
	for _, o := range []*models.Outfit{keep, drop, drop} {
		r := models.NewFitResult(userID, o.ID, fitting.Result{Score: 80, Status: fitting.StatusGood}, now)
		require.NoError(t, s.CreateFitResult(ctx, &r))
	}

	assert.ErrorIs(t, s.DeleteOutfit(ctx, primitive.NewObjectID(), drop.ID), ErrNotFound)
	require.NoError(t, s.DeleteOutfit(ctx, userID, drop.ID))

	results, err := s.ListFitResults(ctx, userID, FitResultFilter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, keep.ID, results[0].OutfitID)

	_, err = s.GetOutfit(ctx, userID, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFitResultPaging(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	userID := primitive.NewObjectID()
	outfitID := primitive.NewObjectID()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	scores := []float64{55, 95, 80, 30, 80}
	for i, score := range scores {
		r := models.NewFitResult(userID, outfitID, fitting.Result{Score: score, Status: fitting.StatusForScore(score)}, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.CreateFitResult(ctx, &r))
	}

	scoresOf := func(results []models.FitResult) []float64 {
		var out []float64
		for _, r := range results {
			out = append(out, r.Score)
		}
		return out
	}

	tests := []struct {
		name   string
		filter FitResultFilter
		want   []float64
		count  int64
	}{
		{name: "newest first", filter: FitResultFilter{}, want: []float64{80, 30, 80, 95, 55}, count: 5},
		{name: "by score", filter: FitResultFilter{ByScore: true}, want: []float64{95, 80, 80, 55, 30}, count: 5},
		{name: "page two", filter: FitResultFilter{Skip: 2, Limit: 2}, want: []float64{80, 95}, count: 5},
		{name: "past the end", filter: FitResultFilter{Skip: 10}, want: nil, count: 5},
		{
			name:   "good or better",
			filter: FitResultFilter{Statuses: []fitting.Status{fitting.StatusPerfect, fitting.StatusGood}, ByScore: true},
			want:   []float64{95, 80, 80},
			count:  3,
		},
		{name: "tight only", filter: FitResultFilter{Statuses: []fitting.Status{fitting.StatusTight}}, want: []float64{30}, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListFitResults(ctx, userID, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, scoresOf(got))

			count, err := s.CountFitResults(ctx, userID, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.count, count)
		})
	}
}
