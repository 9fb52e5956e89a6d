package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/store"
)

// SamplesHandler handles HTTP requests for gesture training data: feature
// samples for static gestures and frame sequences for dynamic ones.
type SamplesHandler struct {
	store  *store.Store
	engine *engine.Engine
}

// NewSamplesHandler creates a new SamplesHandler.
func NewSamplesHandler(s *store.Store, e *engine.Engine) *SamplesHandler {
	return &SamplesHandler{store: s, engine: e}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/gestures/{id}/samples and /api/gestures/{id}/sequences
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/gestures/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || (parts[1] != "samples" && parts[1] != "sequences") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	gestureID := parts[0]
	sequences := parts[1] == "sequences"

	switch r.Method {
	case http.MethodGet:
		if sequences {
			h.listSequences(w, r, gestureID)
		} else {
			h.listSamples(w, r, gestureID)
		}
	case http.MethodPost:
		if sequences {
			h.createSequences(w, r, gestureID)
		} else {
			h.createSamples(w, r, gestureID)
		}
	case http.MethodDelete:
		h.delete(w, r, gestureID, sequences)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request types. A sample arrives either as raw detector landmarks (one or
// two hands), which the server normalizes, or as a precomputed feature
// vector from evaluation tooling.

type sampleInput struct {
	Hands    [][]landmark.Point3D `json:"hands,omitempty"`
	Features []float64            `json:"features,omitempty"`
}

type createSamplesRequest struct {
	Samples []sampleInput `json:"samples"`
}

type sequenceInput struct {
	// Frames is the per-frame hand landmarks of one recorded performance.
	Frames [][]landmark.Point3D `json:"frames,omitempty"`
	// FeatureFrames is the already-normalized alternative.
	FeatureFrames [][]float64 `json:"feature_frames,omitempty"`
}

type createSequencesRequest struct {
	Sequences []sequenceInput `json:"sequences"`
}

// Response types

type sampleResponse struct {
	ID         int64     `json:"id"`
	GestureID  string    `json:"gesture_id"`
	Features   []float64 `json:"features"`
	RecordedAt string    `json:"recorded_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
}

type sequenceResponse struct {
	ID         int64       `json:"id"`
	GestureID  string      `json:"gesture_id"`
	Frames     [][]float64 `json:"frames"`
	RecordedAt string      `json:"recorded_at"`
}

type listSequencesResponse struct {
	Sequences []sequenceResponse `json:"sequences"`
}

// featuresFromInput normalizes one sample input into a feature vector.
func (h *SamplesHandler) featuresFromInput(in sampleInput) ([]float64, error) {
	if len(in.Features) > 0 {
		return in.Features, nil
	}

	poses := make([]*landmark.HandPose, 0, len(in.Hands))
	for _, hand := range in.Hands {
		pose, err := landmark.PoseFromSlice(hand)
		if err != nil {
			return nil, err
		}
		poses = append(poses, pose)
	}

	norm := h.engine.Normalizer()
	if len(poses) == 1 {
		return norm.Normalize(poses[0]), nil
	}
	return norm.NormalizeMulti(poses)
}

// verifyGesture checks the gesture exists and has the expected kind.
func (h *SamplesHandler) verifyGesture(w http.ResponseWriter, gestureID string, kind store.GestureKind) bool {
	g, err := h.store.Gestures().GetByID(gestureID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return false
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify gesture")
		return false
	}
	if g.Kind != kind {
		writeError(w, http.StatusBadRequest, "Gesture kind does not accept this data")
		return false
	}
	return true
}

// listSamples handles GET /api/gestures/{id}/samples
func (h *SamplesHandler) listSamples(w http.ResponseWriter, r *http.Request, gestureID string) {
	samples, err := h.store.Samples().GetByGestureID(gestureID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	response := listSamplesResponse{
		Samples: make([]sampleResponse, 0, len(samples)),
	}

	for _, s := range samples {
		response.Samples = append(response.Samples, sampleResponse{
			ID:         s.ID,
			GestureID:  s.GestureID,
			Features:   s.Features,
			RecordedAt: s.RecordedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// createSamples handles POST /api/gestures/{id}/samples
func (h *SamplesHandler) createSamples(w http.ResponseWriter, r *http.Request, gestureID string) {
	if !h.verifyGesture(w, gestureID, store.GestureKindStatic) {
		return
	}

	var req createSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "At least one sample is required")
		return
	}

	features := make([][]float64, 0, len(req.Samples))
	for _, in := range req.Samples {
		f, err := h.featuresFromInput(in)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		features = append(features, f)
	}

	if err := h.store.Samples().Create(gestureID, features); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save samples")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// listSequences handles GET /api/gestures/{id}/sequences
func (h *SamplesHandler) listSequences(w http.ResponseWriter, r *http.Request, gestureID string) {
	sequences, err := h.store.Sequences().GetByGestureID(gestureID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sequences")
		return
	}

	response := listSequencesResponse{
		Sequences: make([]sequenceResponse, 0, len(sequences)),
	}

	for _, s := range sequences {
		response.Sequences = append(response.Sequences, sequenceResponse{
			ID:         s.ID,
			GestureID:  s.GestureID,
			Frames:     s.Frames,
			RecordedAt: s.RecordedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// createSequences handles POST /api/gestures/{id}/sequences
func (h *SamplesHandler) createSequences(w http.ResponseWriter, r *http.Request, gestureID string) {
	if !h.verifyGesture(w, gestureID, store.GestureKindDynamic) {
		return
	}

	var req createSequencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Sequences) == 0 {
		writeError(w, http.StatusBadRequest, "At least one sequence is required")
		return
	}

	norm := h.engine.Normalizer()
	sequences := make([][][]float64, 0, len(req.Sequences))
	for _, in := range req.Sequences {
		if len(in.FeatureFrames) > 0 {
			sequences = append(sequences, in.FeatureFrames)
			continue
		}

		frames := make([][]float64, 0, len(in.Frames))
		for _, hand := range in.Frames {
			pose, err := landmark.PoseFromSlice(hand)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			frames = append(frames, norm.Normalize(pose))
		}
		if len(frames) == 0 {
			writeError(w, http.StatusBadRequest, "Sequence has no frames")
			return
		}
		sequences = append(sequences, frames)
	}

	if err := h.store.Sequences().Create(gestureID, sequences); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save sequences")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// delete handles DELETE /api/gestures/{id}/samples and .../sequences
func (h *SamplesHandler) delete(w http.ResponseWriter, r *http.Request, gestureID string, sequences bool) {
	var err error
	if sequences {
		err = h.store.Sequences().DeleteByGestureID(gestureID)
	} else {
		err = h.store.Samples().DeleteByGestureID(gestureID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete training data")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
