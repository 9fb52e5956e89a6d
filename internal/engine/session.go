package engine

import (
	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/smooth"
)

// Session is one realtime recognition stream: it owns a Smoother and
// processes frames synchronously, one at a time. Sessions are independent;
// concurrent streams each get their own.
type Session struct {
	engine   *Engine
	smoother *smooth.Smoother
}

// FrameResult is the outcome of processing one frame. Raw is the per-frame
// prediction; Stable is non-nil only on frames where the smoother emits.
type FrameResult struct {
	Raw    *classify.Prediction `json:"raw"`
	Stable *smooth.Emission     `json:"stable,omitempty"`
}

// NewSession creates a session with the engine's configured smoothing
// parameters.
func (e *Engine) NewSession() *Session {
	return &Session{
		engine:   e,
		smoother: smooth.New(e.cfg.Smoothing),
	}
}

// ProcessFrame runs one frame through normalize, predict, and smooth. An
// empty frame (no hands) still advances the smoother so a dropped hand
// destabilizes the current label.
//
// Returns classify.ErrNotTrained when no static model is loaded; the caller
// skips the frame.
func (s *Session) ProcessFrame(poses []*landmark.HandPose) (*FrameResult, error) {
	current := s.engine.static.Load()
	if current == nil {
		return nil, classify.ErrNotTrained
	}

	// A single-hand model reads the first detected hand; a two-hand model
	// reads both slots, missing hands zero-filled.
	var vec []float64
	var err error
	if dimOf(current.classifier) == s.engine.norm.HandDim() {
		if len(poses) == 0 {
			vec = make([]float64, s.engine.norm.HandDim())
		} else {
			vec = s.engine.norm.Normalize(poses[0])
		}
	} else {
		vec, err = s.engine.norm.NormalizeMulti(poses)
		if err != nil {
			return nil, err
		}
	}

	raw, err := current.classifier.Predict(vec)
	if err != nil {
		return nil, err
	}

	result := &FrameResult{Raw: raw}
	if emission, ok := s.smoother.Observe(raw.Label, raw.Confidence); ok {
		result.Stable = &emission
	}
	return result, nil
}

// Reset clears the session's smoothing state.
func (s *Session) Reset() {
	s.smoother.Reset()
}

// UpdateSmoothing replaces the session's smoothing parameters and resets
// its state.
func (s *Session) UpdateSmoothing(params smooth.Params) {
	s.smoother.UpdateParams(params)
}
