package sequence

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ayusman/mudra/internal/classify"
)

// DefaultK is the neighbor count used when none is configured.
const DefaultK = 3

// Prediction is the result of classifying one sequence. MinDistance is the
// smallest DTW cost found across the training set, usable as an out-of-band
// outlier signal.
type Prediction struct {
	classify.Prediction
	MinDistance float64 `json:"min_distance"`
}

// Classifier is a DTW nearest-neighbor classifier over sequences of feature
// vectors. It mirrors the static classifier contract, including the
// export/import record shape.
type Classifier struct {
	k      int
	window int

	sequences [][][]float64
	labels    []string
	classes   []string
	dim       int
}

// dtwParams is the variant-specific payload of an exported model.
type dtwParams struct {
	K         int           `json:"k"`
	Window    int           `json:"window"`
	Sequences [][][]float64 `json:"sequences"`
	Labels    []string      `json:"labels"`
}

// New creates an untrained sequence classifier. A non-positive k selects
// DefaultK; a non-positive window selects the default per-pair band width.
func New(k, window int) *Classifier {
	if k <= 0 {
		k = DefaultK
	}
	return &Classifier{k: k, window: window}
}

// Fit stores the training sequences verbatim. Every frame across every
// sequence must share one feature dimension.
func (c *Classifier) Fit(sequences [][][]float64, labels []string) error {
	if len(sequences) == 0 {
		return fmt.Errorf("%w: empty training set", classify.ErrInvalidInput)
	}
	if len(sequences) != len(labels) {
		return fmt.Errorf("%w: %d sequences but %d labels", classify.ErrInvalidInput, len(sequences), len(labels))
	}

	dim := 0
	for i, seq := range sequences {
		if len(seq) == 0 {
			return fmt.Errorf("%w: sequence %d is empty", classify.ErrInvalidInput, i)
		}
		for j, frame := range seq {
			if dim == 0 {
				dim = len(frame)
			}
			if len(frame) != dim {
				return fmt.Errorf("%w: sequence %d frame %d has dimension %d, expected %d",
					classify.ErrInvalidInput, i, j, len(frame), dim)
			}
		}
	}

	c.sequences = sequences
	c.labels = labels
	c.classes = distinctSorted(labels)
	c.dim = dim
	return nil
}

// neighbor pairs a training sequence's DTW cost with its label.
type neighbor struct {
	dist  float64
	label string
}

// Predict classifies a sequence by plurality vote among the k training
// sequences with the lowest DTW cost; ties favor the nearer neighbor.
func (c *Classifier) Predict(seq [][]float64) (*Prediction, error) {
	if len(c.sequences) == 0 {
		return nil, classify.ErrNotTrained
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", classify.ErrInvalidInput)
	}
	for i, frame := range seq {
		if len(frame) != c.dim {
			return nil, fmt.Errorf("%w: frame %d has dimension %d, model expects %d",
				classify.ErrInvalidInput, i, len(frame), c.dim)
		}
	}

	neighbors := make([]neighbor, len(c.sequences))
	for i, trained := range c.sequences {
		d, err := Distance(seq, trained, c.window)
		if err != nil {
			return nil, err
		}
		neighbors[i] = neighbor{dist: d, label: c.labels[i]}
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
		Prediction: classify.Prediction{
			Label:      best,
			Confidence: float64(bestVotes) / float64(k),
			Probs:      probs,
		},
		MinDistance: neighbors[0].dist,
	}, nil
}

// Classes returns the sorted distinct labels of the fitted model.
func (c *Classifier) Classes() []string {
	return c.classes
}

// Dim returns the feature dimension of the fitted model, or 0 if untrained.
func (c *Classifier) Dim() int {
	return c.dim
}

// Export serializes the fitted model as a tagged record.
func (c *Classifier) Export() (*classify.Model, error) {
	if len(c.sequences) == 0 {
		return nil, classify.ErrNotTrained
	}

	params, err := json.Marshal(dtwParams{
		K:         c.k,
		Window:    c.window,
		Sequences: c.sequences,
		Labels:    c.labels,
	})
	if err != nil {
		return nil, fmt.Errorf("export dtw: %w", err)
	}

	return &classify.Model{
		Type:    classify.TypeDTW,
		Classes: c.classes,
		Params:  params,
	}, nil
}

// Import replaces the model with a previously exported record.
func (c *Classifier) Import(m *classify.Model) error {
	if m.Type != classify.TypeDTW {
		return fmt.Errorf("%w: got %q, expected %q", classify.ErrTypeMismatch, m.Type, classify.TypeDTW)
	}

	var params dtwParams
	if err := json.Unmarshal(m.Params, &params); err != nil {
		return fmt.Errorf("import dtw: %w", err)
	}
	if params.K > 0 {
		c.k = params.K
	}
	c.window = params.Window
	return c.Fit(params.Sequences, params.Labels)
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
