// Package classify provides trainable static-pose classifiers over feature
// vectors, with a portable export/import model format.
package classify

import (
	"errors"
	"sort"
)

// Sentinel errors shared by the classifier implementations.
var (
	// ErrNotTrained is returned by Predict on a classifier with no fitted
	// or imported model.
	ErrNotTrained = errors.New("classifier not trained")

	// ErrInvalidInput is returned for malformed training or prediction
	// input: empty sets, sample/label length mismatch, dimension mismatch.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTypeMismatch is returned by Import when the persisted record's
	// type tag does not match the classifier variant.
	ErrTypeMismatch = errors.New("model type mismatch")

	// ErrIncompatibleModel is returned when an imported model's feature
	// dimension does not match the dimension the caller will feed it.
	ErrIncompatibleModel = errors.New("incompatible model")
)

// Prediction is the result of classifying one feature vector.
type Prediction struct {
	Label      string             `json:"label"`
	Confidence float64            `json:"confidence"`
	Probs      map[string]float64 `json:"probs"`
}

// Classifier is the capability set shared by the static-pose classifier
// variants. The variant set is closed: KNN and Logistic.
type Classifier interface {
	// Fit replaces the model with one trained on the given samples.
	Fit(samples [][]float64, labels []string) error

	// Predict classifies one feature vector against the fitted model.
	Predict(x []float64) (*Prediction, error)

	// Classes returns the sorted distinct labels of the fitted model,
	// or nil if untrained.
	Classes() []string

	// Export serializes the fitted model into a portable tagged record.
	Export() (*Model, error)

	// Import replaces the model with a previously exported record. The
	// record's type tag must match the variant.
	Import(m *Model) error
}

// distinctSorted returns the sorted set of distinct labels.
func distinctSorted(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
