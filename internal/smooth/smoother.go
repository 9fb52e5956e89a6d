// Package smooth debounces noisy per-frame classifications into stable
// symbolic emissions.
package smooth

import (
	"gonum.org/v1/gonum/stat"
)

// Default smoothing parameters.
const (
	DefaultWindowSize    = 15
	DefaultMinHoldFrames = 8
	DefaultMinConfidence = 0.6
)

// Params are the tuning knobs of a Smoother.
type Params struct {
	// WindowSize is the number of recent raw predictions kept.
	WindowSize int `json:"window_size"`

	// MinHoldFrames is the number of consecutive frames a candidate label
	// must win the windowed plurality before it is emitted.
	MinHoldFrames int `json:"min_hold_frames"`

	// MinConfidence is the minimum windowed mean confidence; below it the
	// candidate resets and nothing is emitted. Zero or negative selects
	// DefaultMinConfidence, so the gate is always active; use a small
	// positive value to make it permissive.
	MinConfidence float64 `json:"min_confidence"`
}

// DefaultParams returns the default smoothing parameters.
func DefaultParams() Params {
	return Params{
		WindowSize:    DefaultWindowSize,
		MinHoldFrames: DefaultMinHoldFrames,
		MinConfidence: DefaultMinConfidence,
	}
}

// Emission is one stable output: a label and the windowed mean confidence.
type Emission struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type observation struct {
	label      string
	confidence float64
}

// Smoother converts a stream of raw per-frame predictions into stable,
// rate-limited emissions. It is single-writer, single-reader: one instance
// per gesture session, never shared.
type Smoother struct {
	params Params

	window    []observation
	candidate string
	holdCount int
}

// New creates a Smoother with the given parameters. Zero-value fields
// select the defaults.
func New(params Params) *Smoother {
	if params.WindowSize <= 0 {
		params.WindowSize = DefaultWindowSize
	}
	if params.MinHoldFrames <= 0 {
		params.MinHoldFrames = DefaultMinHoldFrames
	}
	if params.MinConfidence <= 0 {
		params.MinConfidence = DefaultMinConfidence
	}
	return &Smoother{
		params: params,
		window: make([]observation, 0, params.WindowSize),
	}
}

// Observe feeds one raw prediction into the window and reports whether a
// stable emission is due this frame.
//
// The candidate/hold counter is tracked from the very first observation;
// the half-window fill requirement only gates emission. A constant
// high-confidence label therefore starts emitting after
// max(minHoldFrames, ceil(windowSize/2)) frames.
func (s *Smoother) Observe(label string, confidence float64) (Emission, bool) {
	// Bounded window: drop the oldest observation on overflow.
	if len(s.window) >= s.params.WindowSize {
		copy(s.window, s.window[1:])
		s.window = s.window[:s.params.WindowSize-1]
	}
	s.window = append(s.window, observation{label: label, confidence: confidence})

	plurality := s.pluralityLabel()
	mean := s.meanConfidence()

	if mean < s.params.MinConfidence {
		s.candidate = ""
		s.holdCount = 0
		return Emission{}, false
	}

	if plurality == s.candidate {
		s.holdCount++
	} else {
		s.candidate = plurality
		s.holdCount = 1
	}

	// Still filling: not enough history to trust the window vote.
	if len(s.window) < (s.params.WindowSize+1)/2 {
		return Emission{}, false
	}

	if s.holdCount >= s.params.MinHoldFrames {
		return Emission{Label: plurality, Confidence: mean}, true
	}
	return Emission{}, false
}

// pluralityLabel returns the most frequent label in the window. Ties go to
// the label seen first scanning front to back.
func (s *Smoother) pluralityLabel() string {
	counts := make(map[string]int, len(s.window))
	for _, o := range s.window {
		counts[o.label]++
	}

	// Second pass with final counts: the strict comparison resolves a tie
	// toward the label whose first occurrence is earliest.
	best := ""
	bestCount := 0
	for _, o := range s.window {
		if counts[o.label] > bestCount {
			best = o.label
			bestCount = counts[o.label]
		}
	}
	return best
}

// meanConfidence returns the arithmetic mean confidence over the window.
func (s *Smoother) meanConfidence() float64 {
	confs := make([]float64, len(s.window))
	for i, o := range s.window {
		confs[i] = o.confidence
	}
	return stat.Mean(confs, nil)
}

// Reset clears all accumulated state.
func (s *Smoother) Reset() {
	s.window = s.window[:0]
	s.candidate = ""
	s.holdCount = 0
}

// UpdateParams replaces the smoothing parameters and resets. Accumulated
// history under the old parameters is invalid, not reinterpretable.
func (s *Smoother) UpdateParams(params Params) {
	if params.WindowSize <= 0 {
		params.WindowSize = DefaultWindowSize
	}
	if params.MinHoldFrames <= 0 {
		params.MinHoldFrames = DefaultMinHoldFrames
	}
	if params.MinConfidence <= 0 {
		params.MinConfidence = DefaultMinConfidence
	}
	s.params = params
	s.window = make([]observation, 0, params.WindowSize)
	s.candidate = ""
	s.holdCount = 0
}

// Params returns the current smoothing parameters.
func (s *Smoother) Params() Params {
	return s.params
}
