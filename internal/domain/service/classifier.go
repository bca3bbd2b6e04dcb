package service

import "context"

// Tokenizer maps text to a fixed-length sequence of token ids
// using a pre-fitted vocabulary. Implementations are immutable.
type Tokenizer interface {
	Sequence(text string) []int64
}

// Classifier scores a padded token sequence for a single label
type Classifier interface {
	// Predict returns the probability in [0,1] that the sequence belongs to the label
	Predict(ctx context.Context, sequence []int64) (float64, error)
}
