package fitting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/raushankrgupta/fitmate/logger"
)

const minTrainingSamples = 2

// Train fits a scaler and regressor on feature vectors and score labels and
// saves both to store. Failures are logged and reported as false.
func Train(ctx context.Context, store ArtifactStore, samples [][]float64, labels []float64, log logger.Logger) bool {
	if log == nil {
		log = logger.NewNop()
	}
	if err := train(ctx, store, samples, labels); err != nil {
		log.Errorf(ctx, "fit model training failed: %v", err)
		return false
	}
	log.Infof(ctx, "fit model trained on %d samples", len(samples))
	return true
}

func train(ctx context.Context, store ArtifactStore, samples [][]float64, labels []float64) error {
	if store == nil {
		return fmt.Errorf("no artifact store configured")
	}
	if len(samples) < minTrainingSamples {
		return fmt.Errorf("need at least %d samples, got %d", minTrainingSamples, len(samples))
	}
	if len(samples) != len(labels) {
		return fmt.Errorf("got %d samples and %d labels", len(samples), len(labels))
	}
	for i, row := range samples {
		if len(row) != FeatureCount {
			return fmt.Errorf("sample %d has %d features, want %d", i, len(row), FeatureCount)
		}
	}
	for i, y := range labels {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return fmt.Errorf("label %d is not finite", i)
		}
	}

	scaler, err := FitScaler(samples)
	if err != nil {
		return fmt.Errorf("fit scaler: %w", err)
	}
	scaled := make([][]float64, len(samples))
	for i, row := range samples {
		if scaled[i], err = scaler.Transform(row); err != nil {
			return err
		}
	}
	reg, err := FitRegressor(scaled, labels)
	if err != nil {
		return fmt.Errorf("fit regressor: %w", err)
	}

	// Both artifacts carry the run id so a mismatched pair is rejected on load.
	runID := uuid.New().String()
	scaler.ModelID = runID
	reg.ID = runID

	rawScaler, err := json.Marshal(scaler)
	if err != nil {
		return fmt.Errorf("encode scaler: %w", err)
	}
	rawModel, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return savePair(ctx, store, rawScaler, rawModel)
}

// savePair writes the scaler and then the model. If the model cannot be
// written the previous scaler is put back, leaving the old pair in place.
func savePair(ctx context.Context, store ArtifactStore, rawScaler, rawModel []byte) error {
	prevScaler, err := store.Load(ctx, ScalerArtifact)
	if err != nil && !errors.Is(err, ErrArtifactNotFound) {
		return fmt.Errorf("read current %s: %w", ScalerArtifact, err)
	}

	if err := store.Save(ctx, ScalerArtifact, rawScaler); err != nil {
		return err
	}
	if err := store.Save(ctx, ModelArtifact, rawModel); err != nil {
		if prevScaler == nil {
			return err
		}
		if restoreErr := store.Save(ctx, ScalerArtifact, prevScaler); restoreErr != nil {
			return errors.Join(err, fmt.Errorf("restore %s: %w", ScalerArtifact, restoreErr))
		}
		return err
	}
	return nil
}
