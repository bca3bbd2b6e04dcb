package inference

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/service"
	"github.com/MolodoyDEV/diploma/internal/usecase"
)

// LoaderConfig locates the per-label artifacts
type LoaderConfig struct {
	ModelsDir      string
	TokenizersDir  string
	Labels         []entity.Label
	SequenceLength int
	Runtime        RuntimeSettings
}

// ModelPath returns <models dir>/<label>.onnx
func (c LoaderConfig) ModelPath(label entity.Label) string {
	return filepath.Join(c.ModelsDir, string(label)+".onnx")
}

// TokenizerPath returns <tokenizers dir>/<label>.json
func (c LoaderConfig) TokenizerPath(label entity.Label) string {
	return filepath.Join(c.TokenizersDir, string(label)+".json")
}

type closableClassifier interface {
	service.Classifier
	Close()
}

type classifierFactory func(label entity.Label, path string) (closableClassifier, error)

// ModelSet holds the loaded models and the resources backing them
type ModelSet struct {
	Models      []usecase.LabelModel
	classifiers []closableClassifier
}

// Close releases every classifier session
func (s *ModelSet) Close() {
	for _, c := range s.classifiers {
		c.Close()
	}
}

// LoadModels loads a tokenizer and an ONNX classifier for every label.
// Either all labels load or an error is returned and nothing is kept.
func LoadModels(cfg LoaderConfig, logger *zap.Logger) (*ModelSet, error) {
	if err := InitRuntime(cfg.Runtime.SharedLibraryPath); err != nil {
		return nil, err
	}

	return loadModels(cfg, func(label entity.Label, path string) (closableClassifier, error) {
		return NewONNXClassifier(string(label), path, cfg.SequenceLength, cfg.Runtime)
	}, logger)
}

func loadModels(cfg LoaderConfig, newClassifier classifierFactory, logger *zap.Logger) (*ModelSet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Labels) == 0 {
		return nil, errors.New("no labels configured")
	}

	for _, label := range cfg.Labels {
		for _, path := range []string{cfg.ModelPath(label), cfg.TokenizerPath(label)} {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("label %s: %w", label, err)
			}
		}
	}

	set := &ModelSet{}
	for _, label := range cfg.Labels {
		tokenizer, err := LoadKerasTokenizer(cfg.TokenizerPath(label), cfg.SequenceLength)
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("label %s: load tokenizer: %w", label, err)
		}

		classifier, err := newClassifier(label, cfg.ModelPath(label))
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("label %s: load model: %w", label, err)
		}
		set.classifiers = append(set.classifiers, classifier)

		set.Models = append(set.Models, usecase.LabelModel{
			Label:      label,
			Tokenizer:  tokenizer,
			Classifier: classifier,
		})

		logger.Info("Loaded model",
			zap.String("label", label.String()),
			zap.String("model", cfg.ModelPath(label)),
			zap.Int("vocabulary", len(tokenizer.wordIndex)),
		)
	}

	return set, nil
}
