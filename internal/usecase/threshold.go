package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/repository"
)

// EvaluateThresholds compares every probability in results against the
// threshold stored under "<label>_threshold". A label without a threshold
// is an error: the settings store and label set have drifted apart.
func EvaluateThresholds(results entity.PredictionResult, thresholds map[string]float64) (map[entity.Label]entity.Evaluation, error) {
	out := make(map[entity.Label]entity.Evaluation, len(results))
	for _, label := range results.Labels() {
		threshold, ok := thresholds[label.ThresholdKey()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingThreshold, label.ThresholdKey())
		}
		if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
			return nil, fmt.Errorf("%w: %s=%v", ErrInvalidThreshold, label.ThresholdKey(), threshold)
		}
		out[label] = entity.NewEvaluation(results[label], threshold)
	}
	return out, nil
}

// ThresholdProvider supplies the current per-label thresholds
type ThresholdProvider interface {
	Thresholds(ctx context.Context) (map[string]float64, error)
}

type thresholdStore struct {
	settingRepo repository.SettingRepository
}

// NewThresholdStore creates a ThresholdProvider reading the settings table on every call
func NewThresholdStore(settingRepo repository.SettingRepository) ThresholdProvider {
	return &thresholdStore{settingRepo: settingRepo}
}

func (s *thresholdStore) Thresholds(ctx context.Context) (map[string]float64, error) {
	settings, err := s.settingRepo.ListThresholds(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(settings))
	for _, st := range settings {
		v, err := entity.ParseThreshold(st.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidThreshold, st.Name, err)
		}
		out[st.Name] = v
	}
	return out, nil
}
