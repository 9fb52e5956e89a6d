package classify

import (
	"encoding/json"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DefaultK is the neighbor count used when none is configured.
const DefaultK = 5

// KNN is a k-nearest-neighbor classifier over feature vectors. Fit stores
// the training set verbatim; Predict votes by plurality among the k nearest
// samples under squared Euclidean distance. Deterministic for a fixed
// training order.
type KNN struct {
	k       int
	samples [][]float64
	labels  []string
	classes []string
	dim     int
}

// knnParams is the variant-specific payload of an exported KNN model.
type knnParams struct {
	K       int         `json:"k"`
	Samples [][]float64 `json:"samples"`
	Labels  []string    `json:"labels"`
}

// NewKNN creates an untrained KNN classifier. A non-positive k selects
// DefaultK.
func NewKNN(k int) *KNN {
	if k <= 0 {
		k = DefaultK
	}
	return &KNN{k: k}
}

// Fit stores the training set. Samples must be non-empty, match labels in
// length, and share one feature dimension.
func (c *KNN) Fit(samples [][]float64, labels []string) error {
	if len(samples) == 0 {
		return fmt.Errorf("%w: empty training set", ErrInvalidInput)
	}
	if len(samples) != len(labels) {
		return fmt.Errorf("%w: %d samples but %d labels", ErrInvalidInput, len(samples), len(labels))
	}

	dim := len(samples[0])
	for i, s := range samples {
		if len(s) != dim {
			return fmt.Errorf("%w: sample %d has dimension %d, expected %d", ErrInvalidInput, i, len(s), dim)
		}
	}

	c.samples = samples
	c.labels = labels
	c.classes = distinctSorted(labels)
	c.dim = dim
	return nil
}

// neighbor pairs a training sample's squared distance with its label.
type neighbor struct {
	dist  float64
	label string
}

// Predict classifies x by plurality vote among the k nearest training
// samples. Ties favor the label of the nearer neighbor. Confidence is the
// winning vote fraction; Probs holds the vote fraction for every known
// class, zero included.
func (c *KNN) Predict(x []float64) (*Prediction, error) {
	if len(c.samples) == 0 {
		return nil, ErrNotTrained
	}
	if len(x) != c.dim {
		return nil, fmt.Errorf("%w: vector has dimension %d, model expects %d", ErrInvalidInput, len(x), c.dim)
	}

	neighbors := make([]neighbor, len(c.samples))
	for i, s := range c.samples {
		d := floats.Distance(x, s, 2)
		neighbors[i] = neighbor{dist: d * d, label: c.labels[i]}
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].dist < neighbors[j].dist
	})

	k := c.k
	if k > len(neighbors) {
		k = len(neighbors)
	}

	votes := make(map[string]int, k)
	for _, n := range neighbors[:k] {
		votes[n.label]++
	}

	// Scan in distance order so a vote tie goes to the nearer neighbor.
	best := ""
	bestVotes := 0
	for _, n := range neighbors[:k] {
		if votes[n.label] > bestVotes {
			best = n.label
			bestVotes = votes[n.label]
		}
	}

	probs := make(map[string]float64, len(c.classes))
	for _, class := range c.classes {
		probs[class] = float64(votes[class]) / float64(k)
	}

	return &Prediction{
		Label:      best,
		Confidence: float64(bestVotes) / float64(k),
		Probs:      probs,
	}, nil
}

// Classes returns the sorted distinct labels of the fitted model.
func (c *KNN) Classes() []string {
	return c.classes
}

// Dim returns the feature dimension of the fitted model, or 0 if untrained.
func (c *KNN) Dim() int {
	return c.dim
}

// Export serializes the fitted model as a tagged record.
func (c *KNN) Export() (*Model, error) {
	if len(c.samples) == 0 {
		return nil, ErrNotTrained
	}

	params, err := json.Marshal(knnParams{K: c.k, Samples: c.samples, Labels: c.labels})
	if err != nil {
		return nil, fmt.Errorf("export knn: %w", err)
	}

	return &Model{
		Type:    TypeKNN,
		Classes: c.classes,
		Params:  params,
	}, nil
}

// Import replaces the model with a previously exported record.
func (c *KNN) Import(m *Model) error {
	if m.Type != TypeKNN {
		return fmt.Errorf("%w: got %q, expected %q", ErrTypeMismatch, m.Type, TypeKNN)
	}

	var params knnParams
	if err := json.Unmarshal(m.Params, &params); err != nil {
		return fmt.Errorf("import knn: %w", err)
	}
	if params.K > 0 {
		c.k = params.K
	}
	return c.Fit(params.Samples, params.Labels)
}
