package usecase

import (
	"fmt"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/service"
)

// LabelModel pairs a label with its dedicated tokenizer and classifier
type LabelModel struct {
	Label      entity.Label
	Tokenizer  service.Tokenizer
	Classifier service.Classifier
}

// ModelRegistry holds the loaded models, one per label.
// It is built once at startup and only read afterwards.
type ModelRegistry struct {
	labels []entity.Label
	models map[entity.Label]LabelModel
}

// NewModelRegistry validates models and builds a registry preserving their order
func NewModelRegistry(models []LabelModel) (*ModelRegistry, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("model registry: no models")
	}

	r := &ModelRegistry{
		labels: make([]entity.Label, 0, len(models)),
		models: make(map[entity.Label]LabelModel, len(models)),
	}
	for _, m := range models {
		if m.Label == "" {
			return nil, fmt.Errorf("model registry: empty label")
		}
		if m.Tokenizer == nil || m.Classifier == nil {
			return nil, fmt.Errorf("model registry: label %s is missing its tokenizer or classifier", m.Label)
		}
		if _, dup := r.models[m.Label]; dup {
			return nil, fmt.Errorf("model registry: duplicate label %s", m.Label)
		}
		r.labels = append(r.labels, m.Label)
		r.models[m.Label] = m
	}

	return r, nil
}

// Labels returns the registered labels in registration order; nil for a nil registry
func (r *ModelRegistry) Labels() []entity.Label {
	if r == nil {
		return nil
	}
	out := make([]entity.Label, len(r.labels))
	copy(out, r.labels)
	return out
}

// Get returns the model registered for label
func (r *ModelRegistry) Get(label entity.Label) (LabelModel, bool) {
	m, ok := r.models[label]
	return m, ok
}

// Len returns the number of registered labels
func (r *ModelRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.labels)
}
