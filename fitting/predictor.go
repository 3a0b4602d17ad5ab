package fitting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/raushankrgupta/fitmate/logger"
)

// ErrModelUnavailable means no trained model is loaded.
var ErrModelUnavailable = errors.New("fit model unavailable")

type loadedModel struct {
	scaler    *Scaler
	regressor *Regressor
}

// modelOutcome is the result of one model invocation. When ok is false the
// caller must use the rule-based scorer; reason says why.
type modelOutcome struct {
	score  float64
	ok     bool
	reason error
}

// Predictor scores fit with a trained model when one is available and falls
// back to RuleScorer otherwise. Artifacts are loaded at most once; after that
// the Predictor is read-only and safe for concurrent use.
type Predictor struct {
	store ArtifactStore
	rules RuleScorer
	log   logger.Logger

	once  sync.Once
	model *loadedModel
}

// NewPredictor returns a Predictor reading artifacts from store. A nil store
// yields a rule-based-only predictor.
func NewPredictor(store ArtifactStore, log logger.Logger) *Predictor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Predictor{store: store, log: log}
}

// Load reads the model and scaler artifacts. Only the first call does any
// work; it is also triggered lazily by Predict.
func (p *Predictor) Load(ctx context.Context) {
	p.once.Do(func() {
		m, err := p.loadArtifacts(context.WithoutCancel(ctx))
		if err != nil {
			p.log.Warnf(ctx, "fit model not loaded, using rule-based scoring: %v", err)
			return
		}
		p.model = m
		p.log.Infof(ctx, "fit model loaded (%d features)", len(m.regressor.Weights))
	})
}

// ModelLoaded reports whether a trained model is in use.
func (p *Predictor) ModelLoaded(ctx context.Context) bool {
	p.Load(ctx)
	return p.model != nil
}

func (p *Predictor) loadArtifacts(ctx context.Context) (*loadedModel, error) {
	if p.store == nil {
		return nil, ErrModelUnavailable
	}

	rawModel, err := p.store.Load(ctx, ModelArtifact)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ModelArtifact, err)
	}
	rawScaler, err := p.store.Load(ctx, ScalerArtifact)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ScalerArtifact, err)
	}

	var reg Regressor
	if err := json.Unmarshal(rawModel, &reg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ModelArtifact, err)
	}
	var sc Scaler
	if err := json.Unmarshal(rawScaler, &sc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ScalerArtifact, err)
	}
	if reg.Version != modelArtifactVersion {
		return nil, fmt.Errorf("unsupported model version %d", reg.Version)
	}
	if sc.ModelID != reg.ID {
		return nil, fmt.Errorf("%s belongs to model %q, not %q", ScalerArtifact, sc.ModelID, reg.ID)
	}
	return &loadedModel{scaler: &sc, regressor: &reg}, nil
}

func (p *Predictor) invoke(features []float64) modelOutcome {
	if p.model == nil {
		return modelOutcome{reason: ErrModelUnavailable}
	}
	scaled, err := p.model.scaler.Transform(features)
	if err != nil {
		return modelOutcome{reason: err}
	}
	score, err := p.model.regressor.Predict(scaled)
	if err != nil {
		return modelOutcome{reason: err}
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return modelOutcome{reason: fmt.Errorf("model returned non-finite score %v", score)}
	}
	return modelOutcome{score: score, ok: true}
}

// Predict has the same contract as RuleScorer.Score. It never fails: any
// model problem degrades to the rule-based result for this call.
func (p *Predictor) Predict(ctx context.Context, user, outfit Set) Result {
	p.Load(ctx)

	outcome := p.invoke(ExtractFeatures(user, outfit))
	if !outcome.ok {
		if !errors.Is(outcome.reason, ErrModelUnavailable) {
			p.log.Warnf(ctx, "fit model prediction failed, falling back to rules: %v", outcome.reason)
		}
		return p.rules.Score(user, outfit)
	}

	score := clampScore(outcome.score)
	status := StatusForScore(score)
	return Result{
		Score:           score,
		Status:          status,
		Recommendations: modelRecommendations(user, outfit, status),
	}
}

func modelRecommendations(user, outfit Set, status Status) string {
	var lines []string
	for _, a := range scoredAreas {
		diff := a.get(outfit) - a.get(user)
		if math.Abs(diff) <= diffThreshold {
			continue
		}
		direction := "loose"
		if diff < 0 {
			direction = "tight"
		}
		lines = append(lines, fmt.Sprintf("%s may be %s by %.1f cm", a.mlLabel, direction, math.Abs(diff)))
	}

	if len(lines) == 0 {
		switch status {
		case StatusPerfect:
			lines = append(lines, "Perfect fit! This outfit matches your measurements excellently.")
		case StatusGood:
			lines = append(lines, "Good fit! This outfit should work well for you.")
		default:
			lines = append(lines, "This outfit may require some adjustments.")
		}
	}
	return strings.Join(lines, "\n")
}
