package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/service"
)

// DefaultTargetLanguage is the language the classifiers were trained on
const DefaultTargetLanguage = "en"

// PredictUsecase defines the interface for message classification
type PredictUsecase interface {
	// Predict scores message against every registered label
	Predict(ctx context.Context, message string) (entity.PredictionResult, error)

	// Labels returns the label set every prediction covers
	Labels() []entity.Label
}

type predictUsecase struct {
	registry   *ModelRegistry
	translator service.Translator
	target     string
	logger     *zap.Logger
}

// NewPredictUsecase creates a new predict usecase
func NewPredictUsecase(registry *ModelRegistry, translator service.Translator, targetLanguage string, logger *zap.Logger) PredictUsecase {
	if targetLanguage == "" {
		targetLanguage = DefaultTargetLanguage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &predictUsecase{
		registry:   registry,
		translator: translator,
		target:     targetLanguage,
		logger:     logger,
	}
}

func (u *predictUsecase) Labels() []entity.Label {
	return u.registry.Labels()
}

func (u *predictUsecase) Predict(ctx context.Context, message string) (entity.PredictionResult, error) {
	text := service.Normalize(message)
	if text == "" {
		return nil, ErrInvalidInput
	}

	start := time.Now()
	translated, err := u.translator.Translate(ctx, text, service.AutoDetect, u.target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslation, err)
	}
	u.logger.Debug("Message translated",
		zap.Int("normalized_len", len(text)),
		zap.Int("translated_len", len(translated)),
		zap.Duration("duration", time.Since(start)),
	)

	// Each label writes only its own slot, so no locking is needed.
	labels := u.registry.Labels()
	scores := make([]float64, len(labels))

	g, gctx := errgroup.WithContext(ctx)
	for i, label := range labels {
		i, label := i, label
		model, _ := u.registry.Get(label)
		g.Go(func() error {
			score, err := model.Classifier.Predict(gctx, model.Tokenizer.Sequence(translated))
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInference, label, err)
			}
			if math.IsNaN(score) || score < 0 || score > 1 {
				return fmt.Errorf("%w: %s: probability %v outside [0,1]", ErrInference, label, score)
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(entity.PredictionResult, len(labels))
	for i, label := range labels {
		result[label] = scores[i]
	}

	u.logger.Debug("Message classified",
		zap.Any("result", result),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}
