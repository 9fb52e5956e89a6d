package classify

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Defaults for the logistic trainer.
const (
	DefaultLearningRate = 0.1
	DefaultIterations   = 300
)

// Logistic is a one-vs-rest logistic regression classifier: one independent
// binary logistic model per class, trained by full-batch gradient descent.
//
// The probability map returned by Predict renormalizes the independent
// sigmoid scores by their sum. This is not a true softmax distribution;
// consumers depend on the existing scale, so the renormalization is kept
// as is.
type Logistic struct {
	learningRate float64
	iterations   int

	// weights holds, per class, dim coefficients followed by the bias term.
	weights map[string][]float64
	classes []string
	dim     int
}

// logisticParams is the variant-specific payload of an exported model.
type logisticParams struct {
	Weights map[string][]float64 `json:"weights"`
	Dim     int                  `json:"dim"`
}

// NewLogistic creates an untrained classifier. Non-positive arguments
// select the defaults.
func NewLogistic(learningRate float64, iterations int) *Logistic {
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Logistic{learningRate: learningRate, iterations: iterations}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Fit trains one binary logistic model per distinct label. Weights start at
// zero; each step applies the full-batch logistic-loss gradient scaled by
// 1/N.
func (c *Logistic) Fit(samples [][]float64, labels []string) error {
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

	classes := distinctSorted(labels)
	weights := make(map[string][]float64, len(classes))
	n := float64(len(samples))

	for _, class := range classes {
		w := make([]float64, dim+1)
		grad := make([]float64, dim+1)

		for iter := 0; iter < c.iterations; iter++ {
			for i := range grad {
				grad[i] = 0
			}

			for i, x := range samples {
				target := 0.0
				if labels[i] == class {
					target = 1.0
				}
				p := sigmoid(floats.Dot(w[:dim], x) + w[dim])
				diff := p - target
				for j, v := range x {
					grad[j] += diff * v
				}
				grad[dim] += diff
			}

			for j := range w {
				w[j] -= c.learningRate * grad[j] / n
			}
		}

		weights[class] = w
	}

	c.weights = weights
	c.classes = classes
	c.dim = dim
	return nil
}

// Predict scores x against every class model. The predicted label is the
// argmax sigmoid score (first in sorted class order on an exact tie);
// Confidence is that raw score and Probs is each score divided by the sum
// of all scores.
func (c *Logistic) Predict(x []float64) (*Prediction, error) {
	if len(c.weights) == 0 {
		return nil, ErrNotTrained
	}
	if len(x) != c.dim {
		return nil, fmt.Errorf("%w: vector has dimension %d, model expects %d", ErrInvalidInput, len(x), c.dim)
	}

	scores := make(map[string]float64, len(c.classes))
	var sum float64
	best := ""
	bestScore := math.Inf(-1)

	for _, class := range c.classes {
		w := c.weights[class]
		score := sigmoid(floats.Dot(w[:c.dim], x) + w[c.dim])
		scores[class] = score
		sum += score
		if score > bestScore {
			best = class
			bestScore = score
		}
	}

	probs := make(map[string]float64, len(c.classes))
	for class, score := range scores {
		if sum > 0 {
			probs[class] = score / sum
		}
	}

	return &Prediction{
		Label:      best,
		Confidence: bestScore,
		Probs:      probs,
	}, nil
}

// Classes returns the sorted distinct labels of the fitted model.
func (c *Logistic) Classes() []string {
	return c.classes
}

// Dim returns the feature dimension of the fitted model, or 0 if untrained.
func (c *Logistic) Dim() int {
	return c.dim
}

// Export serializes the fitted model as a tagged record.
func (c *Logistic) Export() (*Model, error) {
	if len(c.weights) == 0 {
		return nil, ErrNotTrained
	}

	params, err := json.Marshal(logisticParams{Weights: c.weights, Dim: c.dim})
	if err != nil {
		return nil, fmt.Errorf("export logistic: %w", err)
	}

	return &Model{
		Type:    TypeLogistic,
		Classes: c.classes,
		Params:  params,
	}, nil
}

// Import replaces the model with a previously exported record.
func (c *Logistic) Import(m *Model) error {
	if m.Type != TypeLogistic {
		return fmt.Errorf("%w: got %q, expected %q", ErrTypeMismatch, m.Type, TypeLogistic)
	}

	var params logisticParams
	if err := json.Unmarshal(m.Params, &params); err != nil {
		return fmt.Errorf("import logistic: %w", err)
	}
	if len(params.Weights) == 0 {
		return fmt.Errorf("%w: no class weights", ErrInvalidInput)
	}

	classes := make([]string, 0, len(params.Weights))
	for class, w := range params.Weights {
		if len(w) != params.Dim+1 {
			return fmt.Errorf("%w: class %q has %d weights, expected %d", ErrInvalidInput, class, len(w), params.Dim+1)
		}
		classes = append(classes, class)
	}

	c.weights = params.Weights
	c.classes = distinctSorted(classes)
	c.dim = params.Dim
	return nil
}
