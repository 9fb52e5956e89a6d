package classify

import (
	"errors"
	"math"
	"testing"
)

// separableSet is a small two-class problem with a wide margin.
func separableSet() ([][]float64, []string) {
	samples := [][]float64{
		{0.0, 0.1}, {0.2, 0.0}, {0.1, 0.2}, {0.0, 0.0},
		{5.0, 5.1}, {5.2, 5.0}, {5.1, 5.2}, {5.0, 5.0},
	}
	labels := []string{"low", "low", "low", "low", "high", "high", "high", "high"}
	return samples, labels
}

func TestLogistic_FitValidation(t *testing.T) {
	tests := []struct {
		name    string
		samples [][]float64
		labels  []string
	}{
		{"empty", nil, nil},
		{"length mismatch", [][]float64{{1, 2}}, []string{"a", "b"}},
		{"dimension mismatch", [][]float64{{1, 2}, {1, 2, 3}}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLogistic(0, 0)
			err := c.Fit(tt.samples, tt.labels)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLogistic_PredictBeforeFit(t *testing.T) {
	c := NewLogistic(0, 0)
	_, err := c.Predict([]float64{1, 2})
	if !errors.Is(err, ErrNotTrained) {
		t.Errorf("expected ErrNotTrained, got %v", err)
	}
}

func TestLogistic_SeparableClasses(t *testing.T) {
	samples, labels := separableSet()

	c := NewLogistic(0.5, 500)
	if err := c.Fit(samples, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	for i, sample := range samples {
		pred, err := c.Predict(sample)
		if err != nil {
			t.Fatalf("predict failed: %v", err)
		}
		if pred.Label != labels[i] {
			t.Errorf("sample %d: expected %q, got %q", i, labels[i], pred.Label)
		}
		if pred.Confidence < 0.5 {
			t.Errorf("sample %d: expected confidence >= 0.5, got %f", i, pred.Confidence)
		}
	}
}

func TestLogistic_ProbabilityRenormalization(t *testing.T) {
	// The probability map is each sigmoid score divided by the score sum,
	// not a softmax; the map must sum to 1 even though the raw confidence
	// does not participate in any distribution.
	samples, labels := separableSet()

	c := NewLogistic(0.5, 500)
	if err := c.Fit(samples, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	pred, err := c.Predict([]float64{0.1, 0.1})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}

	var sum float64
	for _, p := range pred.Probs {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("expected probabilities to sum to 1, got %f", sum)
	}

	// Confidence is the raw winning sigmoid score, which is larger than
	// the renormalized probability whenever the other class scores > 0.
	if pred.Confidence < pred.Probs[pred.Label] {
		t.Errorf("expected raw confidence %f >= renormalized probability %f",
			pred.Confidence, pred.Probs[pred.Label])
	}
}

func TestLogistic_DeterministicTraining(t *testing.T) {
	samples, labels := separableSet()

	c1 := NewLogistic(0.5, 200)
	c2 := NewLogistic(0.5, 200)
	if err := c1.Fit(samples, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if err := c2.Fit(samples, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	for i, sample := range samples {
		p1, _ := c1.Predict(sample)
		p2, _ := c2.Predict(sample)
		if p1.Label != p2.Label || p1.Confidence != p2.Confidence {
			t.Errorf("sample %d: training is not deterministic", i)
		}
	}
}

func TestLogistic_ExportImportRoundTrip(t *testing.T) {
	samples, labels := separableSet()

	original := NewLogistic(0.5, 300)
	if err := original.Fit(samples, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	model, err := original.Export()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if model.Type != TypeLogistic {
		t.Errorf("expected type %q, got %q", TypeLogistic, model.Type)
	}

	blob, err := model.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeModel(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	restored := NewLogistic(0, 0)
	if err := restored.Import(decoded); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	for i, sample := range samples {
		p1, err := original.Predict(sample)
		if err != nil {
			t.Fatalf("original predict failed: %v", err)
		}
		p2, err := restored.Predict(sample)
		if err != nil {
			t.Fatalf("restored predict failed: %v", err)
		}
		if p1.Label != p2.Label || p1.Confidence != p2.Confidence {
			t.Errorf("sample %d: original (%q, %f) != restored (%q, %f)",
				i, p1.Label, p1.Confidence, p2.Label, p2.Confidence)
		}
	}
}

func TestLogistic_ImportTypeMismatch(t *testing.T) {
	c := NewLogistic(0, 0)
	err := c.Import(&Model{Type: TypeKNN})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestDecodeModel_Invalid(t *testing.T) {
	if _, err := DecodeModel([]byte("not json")); err == nil {
		t.Error("expected error for invalid blob")
	}
	if _, err := DecodeModel([]byte(`{"classes":["a"]}`)); err == nil {
		t.Error("expected error for missing type tag")
	}
}
