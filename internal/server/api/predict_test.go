package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/feature"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/store"
)

func TestPredictHandler_NotTrained(t *testing.T) {
	s := newTestStore(t)
	handler := NewPredictHandler(newTestEngine(t, s))

	body, _ := json.Marshal(predictRequest{Features: make([]float64, feature.HandSize)})
	req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestPredictHandler_StaticFromFeatures(t *testing.T) {
	s := newTestStore(t)
	vectors := seedStaticGestures(t, s)
	e := newTestEngine(t, s)
	if _, err := e.TrainStatic("static-v1"); err != nil {
		t.Fatalf("failed to train: %v", err)
	}
	handler := NewPredictHandler(e)

	for name, vec := range vectors {
		body, _ := json.Marshal(predictRequest{Features: vec})
		req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("gesture %q: expected status %d, got %d: %s", name, http.StatusOK, rec.Code, rec.Body.String())
		}

		var response predictResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Label != name {
			t.Errorf("expected label %q, got %q", name, response.Label)
		}
		if response.MinDistance != nil {
			t.Error("static prediction should not carry a distance")
		}
	}
}

func TestPredictHandler_StaticFromLandmarks(t *testing.T) {
	s := newTestStore(t)
	seedStaticGestures(t, s)
	e := newTestEngine(t, s)
	if _, err := e.TrainStatic("static-v1"); err != nil {
		t.Fatalf("failed to train: %v", err)
	}
	handler := NewPredictHandler(e)

	body, _ := json.Marshal(predictRequest{
		Hands: [][]landmark.Point3D{handLandmarks(landmark.ThumbsUpPose())},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response predictResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Label != "thumbs_up" {
		t.Errorf("expected label %q, got %q", "thumbs_up", response.Label)
	}
}

func TestPredictHandler_Dynamic(t *testing.T) {
	s := newTestStore(t)

	mkSwipe := func(dx, dy float64) [][]float64 {
		frames := make([][]float64, 10)
		for i := range frames {
			tt := float64(i) / 9
			frames[i] = []float64{dx * tt, dy * tt}
		}
		return frames
	}

	g := &store.Gesture{ID: "g-right", Name: "swipe_right", Kind: store.GestureKindDynamic}
	if err := s.Gestures().Create(g); err != nil {
		t.Fatalf("failed to create gesture: %v", err)
	}
	if err := s.Sequences().Create(g.ID, [][][]float64{mkSwipe(1, 0), mkSwipe(1.1, 0.05)}); err != nil {
		t.Fatalf("failed to create sequences: %v", err)
	}

	e := newTestEngine(t, s)
	if _, err := e.TrainDynamic("dynamic-v1"); err != nil {
		t.Fatalf("failed to train: %v", err)
	}
	handler := NewPredictHandler(e)

	body, _ := json.Marshal(predictRequest{Frames: mkSwipe(0.95, -0.02)})
	req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response predictResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Label != "swipe_right" {
		t.Errorf("expected label %q, got %q", "swipe_right", response.Label)
	}
	if response.MinDistance == nil {
		t.Error("expected a distance on dynamic predictions")
	}
}

func TestPredictHandler_Validation(t *testing.T) {
	s := newTestStore(t)
	seedStaticGestures(t, s)
	e := newTestEngine(t, s)
	if _, err := e.TrainStatic("static-v1"); err != nil {
		t.Fatalf("failed to train: %v", err)
	}
	handler := NewPredictHandler(e)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid JSON", "{not json", http.StatusBadRequest},
		{"no input", "{}", http.StatusBadRequest},
		{"wrong feature dimension", `{"features":[1,2,3]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestPredictHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewPredictHandler(newTestEngine(t, s))

	req := httptest.NewRequest(http.MethodGet, "/api/predict", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
