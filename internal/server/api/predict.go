package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/landmark"
)

// PredictHandler serves one-shot, unsmoothed predictions for bulk
// evaluation and testing. The realtime smoothed path is the WebSocket
// stream.
type PredictHandler struct {
	engine *engine.Engine
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(e *engine.Engine) *PredictHandler {
	return &PredictHandler{engine: e}
}

// Request and response types. Exactly one of Hands, Features, or Frames
// must be set: raw landmarks or a feature vector for a static prediction,
// a frame sequence for a dynamic one.

type predictRequest struct {
	Hands    [][]landmark.Point3D `json:"hands,omitempty"`
	Features []float64            `json:"features,omitempty"`
	Frames   [][]float64          `json:"frames,omitempty"`
}

type predictResponse struct {
	Label       string             `json:"label"`
	Confidence  float64            `json:"confidence"`
	Probs       map[string]float64 `json:"probs"`
	MinDistance *float64           `json:"min_distance,omitempty"`
}

// ServeHTTP handles POST /api/predict.
func (h *PredictHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Dynamic prediction
	if len(req.Frames) > 0 {
		pred, err := h.engine.PredictSequence(req.Frames)
		if err != nil {
			writePredictError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, predictResponse{
			Label:       pred.Label,
			Confidence:  pred.Confidence,
			Probs:       pred.Probs,
			MinDistance: &pred.MinDistance,
		})
		return
	}

	// Static prediction
	features := req.Features
	if len(features) == 0 {
		poses := make([]*landmark.HandPose, 0, len(req.Hands))
		for _, hand := range req.Hands {
			pose, err := landmark.PoseFromSlice(hand)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			poses = append(poses, pose)
		}
		if len(poses) == 0 {
			writeError(w, http.StatusBadRequest, "No input provided")
			return
		}

		norm := h.engine.Normalizer()
		if len(poses) == 1 {
			features = norm.Normalize(poses[0])
		} else {
			var err error
			features, err = norm.NormalizeMulti(poses)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
	}

	pred, err := h.engine.Predict(features)
	if err != nil {
		writePredictError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		Label:      pred.Label,
		Confidence: pred.Confidence,
		Probs:      pred.Probs,
	})
}

// writePredictError maps classifier errors onto HTTP statuses.
func writePredictError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, classify.ErrNotTrained):
		writeError(w, http.StatusConflict, "No trained model loaded")
	case errors.Is(err, classify.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Prediction failed")
	}
}
