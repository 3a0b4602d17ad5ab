package fitting

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelSaveFailStore refuses to write the model artifact.
type modelSaveFailStore struct {
	*mapStore
}

func (s modelSaveFailStore) Save(ctx context.Context, name string, data []byte) error {
	if name == ModelArtifact {
		return errors.New("disk full")
	}
	return s.mapStore.Save(ctx, name, data)
}

func TestTrainFailedModelSaveKeepsPreviousPair(t *testing.T) {
	old := Regressor{Version: modelArtifactVersion, Weights: make([]float64, FeatureCount), Intercept: 50}
	base := storeWithModel(t, old, identityScaler(FeatureCount))
	oldModel := base.objects[ModelArtifact]
	oldScaler := base.objects[ScalerArtifact]
	samples, labels := syntheticSamples()

	ok := Train(context.Background(), modelSaveFailStore{base}, samples, labels, nil)

	assert.False(t, ok)
	assert.Equal(t, oldModel, base.objects[ModelArtifact])
	assert.Equal(t, oldScaler, base.objects[ScalerArtifact])

	p := NewPredictor(base, nil)
	require.True(t, p.ModelLoaded(context.Background()))
	got := p.Predict(context.Background(), NewSet(100, 85, 104, 42), NewSet(100, 85, 104, 42))
	assert.Equal(t, 50.0, got.Score)
}

func TestTrainTagsArtifactsWithRunID(t *testing.T) {
	store := newMapStore()
	samples, labels := syntheticSamples()
	require.True(t, Train(context.Background(), store, samples, labels, nil))

	var reg Regressor
	require.NoError(t, json.Unmarshal(store.objects[ModelArtifact], &reg))
	var sc Scaler
	require.NoError(t, json.Unmarshal(store.objects[ScalerArtifact], &sc))
	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, reg.ID, sc.ModelID)
}

func TestPredictorRejectsMismatchedScaler(t *testing.T) {
	reg := Regressor{Version: modelArtifactVersion, ID: "run-a", Weights: make([]float64, FeatureCount), Intercept: 50}
	sc := identityScaler(FeatureCount)
	sc.ModelID = "run-b"
	p := NewPredictor(storeWithModel(t, reg, sc), nil)

	assert.False(t, p.ModelLoaded(context.Background()))
	c := predictorCases[1]
	assert.Equal(t, RuleScorer{}.Score(c.user, c.outfit), p.Predict(context.Background(), c.user, c.outfit))
}

func TestFileStoreSaveReplacesWithoutTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Save(context.Background(), ScalerArtifact, []byte(`{"v":1}`)))
	require.NoError(t, store.Save(context.Background(), ScalerArtifact, []byte(`{"v":2}`)))

	data, err := store.Load(context.Background(), ScalerArtifact)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ScalerArtifact, entries[0].Name())
}
