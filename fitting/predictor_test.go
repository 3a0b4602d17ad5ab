package fitting

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	loadErr error
	loads   int
}

func newMapStore() *mapStore {
	return &mapStore{objects: map[string][]byte{}}
}

func (m *mapStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	data, ok := m.objects[name]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	return data, nil
}

func (m *mapStore) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return nil
}

func identityScaler(width int) Scaler {
	s := Scaler{Mean: make([]float64, width), Scale: make([]float64, width)}
	for i := range s.Scale {
		s.Scale[i] = 1
	}
	return s
}

func storeWithModel(t *testing.T, reg Regressor, sc Scaler) *mapStore {
	t.Helper()
	store := newMapStore()
	rawModel, err := json.Marshal(reg)
	require.NoError(t, err)
	rawScaler, err := json.Marshal(sc)
	require.NoError(t, err)
	store.objects[ModelArtifact] = rawModel
	store.objects[ScalerArtifact] = rawScaler
	return store
}

var predictorCases = []struct {
	user   Set
	outfit Set
}{
	{Set{Chest: Cm(95), Waist: Cm(80), Hips: Cm(98)}, Set{Chest: Cm(95), Waist: Cm(80), Hips: Cm(98)}},
	{Set{Chest: Cm(90), Waist: Cm(70), Hips: Cm(95)}, Set{Chest: Cm(100), Waist: Cm(70), Hips: Cm(95)}},
	{NewSet(110, 100, 104, 48), NewSet(96, 88, 100, 44)},
	{Set{Chest: Cm(90)}, Set{}},
}

func TestPredictorWithoutModelMatchesRules(t *testing.T) {
	for _, store := range []ArtifactStore{nil, newMapStore(), NewFileStore(t.TempDir())} {
		p := NewPredictor(store, nil)
		for _, c := range predictorCases {
			assert.Equal(t, RuleScorer{}.Score(c.user, c.outfit), p.Predict(context.Background(), c.user, c.outfit))
		}
		assert.False(t, p.ModelLoaded(context.Background()))
	}
}

func TestPredictorFallsBackOnStoreError(t *testing.T) {
	store := newMapStore()
	store.loadErr = errors.New("bucket unreachable")
	p := NewPredictor(store, nil)

	c := predictorCases[1]
	assert.Equal(t, RuleScorer{}.Score(c.user, c.outfit), p.Predict(context.Background(), c.user, c.outfit))
}

func TestPredictorFallsBackOnCorruptArtifact(t *testing.T) {
	store := newMapStore()
	store.objects[ModelArtifact] = []byte("{not json")
	store.objects[ScalerArtifact] = []byte("{}")
	p := NewPredictor(store, nil)

	c := predictorCases[2]
	assert.Equal(t, RuleScorer{}.Score(c.user, c.outfit), p.Predict(context.Background(), c.user, c.outfit))
}

func TestPredictorFallsBackWhenInvocationFails(t *testing.T) {
	// weights do not match the feature vector, so every invocation fails
	reg := Regressor{Version: modelArtifactVersion, Weights: []float64{1, 2, 3}, Intercept: 50}
	p := NewPredictor(storeWithModel(t, reg, identityScaler(FeatureCount)), nil)

	require.True(t, p.ModelLoaded(context.Background()))
	for _, c := range predictorCases {
		assert.Equal(t, RuleScorer{}.Score(c.user, c.outfit), p.Predict(context.Background(), c.user, c.outfit))
	}
}

func TestPredictorRejectsUnknownVersion(t *testing.T) {
	reg := Regressor{Version: 99, Weights: make([]float64, FeatureCount)}
	p := NewPredictor(storeWithModel(t, reg, identityScaler(FeatureCount)), nil)
	assert.False(t, p.ModelLoaded(context.Background()))
}

func TestPredictorUsesModel(t *testing.T) {
	tests := []struct {
		name       string
		intercept  float64
		user       Set
		outfit     Set
		wantScore  float64
		wantStatus Status
		wantRecs   string
	}{
		{
			name:       "clamped high score",
			intercept:  150,
			user:       NewSet(95, 80, 98, 44),
			outfit:     NewSet(95, 80, 98, 44),
			wantScore:  100,
			wantStatus: StatusPerfect,
			wantRecs:   "Perfect fit! This outfit matches your measurements excellently.",
		},
		{
			name:       "good score",
			intercept:  80,
			user:       NewSet(95, 80, 98, 44),
			outfit:     NewSet(97, 80, 98, 44),
			wantScore:  80,
			wantStatus: StatusGood,
			wantRecs:   "Good fit! This outfit should work well for you.",
		},
		{
			name:       "clamped low score",
			intercept:  -20,
			user:       NewSet(95, 80, 98, 44),
			outfit:     NewSet(95, 80, 98, 44),
			wantScore:  0,
			wantStatus: StatusTight,
			wantRecs:   "This outfit may require some adjustments.",
		},
		{
			name:       "per-area guidance",
			intercept:  60,
			user:       NewSet(90, 80, 95, 44),
			outfit:     NewSet(97.5, 72, 101, 44),
			wantScore:  60,
			wantStatus: StatusLoose,
			wantRecs:   "Chest area may be loose by 7.5 cm\nWaist may be tight by 8.0 cm\nHip area may be loose by 6.0 cm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := Regressor{Version: modelArtifactVersion, Weights: make([]float64, FeatureCount), Intercept: tt.intercept}
			p := NewPredictor(storeWithModel(t, reg, identityScaler(FeatureCount)), nil)

			got := p.Predict(context.Background(), tt.user, tt.outfit)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantRecs, got.Recommendations)
		})
	}
}

func TestPredictorLoadsOnce(t *testing.T) {
	store := newMapStore()
	p := NewPredictor(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Predict(context.Background(), predictorCases[1].user, predictorCases[1].outfit)
		}()
	}
	wg.Wait()

	// one attempt for the model artifact, which is missing
	assert.Equal(t, 1, store.loads)
}
