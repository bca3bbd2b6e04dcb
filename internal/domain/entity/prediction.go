package entity

import "sort"

// PredictionResult maps each label to the classifier probability in [0,1]
type PredictionResult map[Label]float64

// Labels returns the result's labels in lexical order
func (p PredictionResult) Labels() []Label {
	labels := make([]Label, 0, len(p))
	for l := range p {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// Evaluation is a probability compared against its label threshold
type Evaluation struct {
	Probability float64 `json:"probability"`
	Threshold   float64 `json:"threshold"`
	Triggered   bool    `json:"triggered"`
}

// NewEvaluation compares probability against threshold, inclusive
func NewEvaluation(probability, threshold float64) Evaluation {
	return Evaluation{
		Probability: probability,
		Threshold:   threshold,
		Triggered:   probability >= threshold,
	}
}
