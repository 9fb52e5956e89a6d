package feature

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/landmark"
)

// transformPose applies a uniform translation, positive scale, and in-plane
// rotation to every landmark of a pose.
func transformPose(pose landmark.HandPose, tx, ty, tz, scale, angle float64) *landmark.HandPose {
	sin, cos := math.Sincos(angle)
	out := pose
	for i := range out.Points {
		p := pose.Points[i]
		x := p.X*cos - p.Y*sin
		y := p.X*sin + p.Y*cos
		out.Points[i] = landmark.Point3D{
			X: x*scale + tx,
			Y: y*scale + ty,
			Z: p.Z*scale + tz,
		}
	}
	return &out
}

func almostEqual(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func TestNormalize_Length(t *testing.T) {
	norm := &Normalizer{}
	pose := landmark.OpenPalmPose()

	vec := norm.Normalize(&pose)
	if len(vec) != HandSize {
		t.Fatalf("expected %d features, got %d", HandSize, len(vec))
	}
}

func TestNormalize_RigidTransformInvariance(t *testing.T) {
	norm := &Normalizer{}
	pose := landmark.ThumbsUpPose()
	base := norm.Normalize(&pose)

	tests := []struct {
		name         string
		tx, ty, tz   float64
		scale, angle float64
	}{
		{"translation", 0.3, -0.2, 0.1, 1, 0},
		{"scale", 0, 0, 0, 2.5, 0},
		{"rotation", 0, 0, 0, 1, math.Pi / 3},
		{"combined", -0.1, 0.4, 0.05, 0.7, -math.Pi / 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transformed := transformPose(pose, tt.tx, tt.ty, tt.tz, tt.scale, tt.angle)
			vec := norm.Normalize(transformed)
			if !almostEqual(base, vec, 1e-9) {
				t.Errorf("normalized features changed under rigid transform %q", tt.name)
			}
		})
	}
}

func TestNormalize_DegenerateGuard(t *testing.T) {
	norm := &Normalizer{}

	// All landmarks collapsed onto the wrist
	pose := &landmark.HandPose{}
	for i := range pose.Points {
		pose.Points[i] = landmark.Point3D{X: 0.5, Y: 0.5, Z: 0.0}
	}

	vec := norm.Normalize(pose)
	if len(vec) != HandSize {
		t.Fatalf("expected %d features, got %d", HandSize, len(vec))
	}
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("feature %d is not finite: %f", i, v)
		}
		if v != 0 {
			t.Errorf("feature %d: expected 0 for degenerate pose, got %f", i, v)
		}
	}
}

func TestNormalize_WristAtOrigin(t *testing.T) {
	norm := &Normalizer{}
	pose := landmark.OpenPalmPose()

	vec := norm.Normalize(&pose)
	if vec[0] != 0 || vec[1] != 0 {
		t.Errorf("expected wrist at origin, got (%f, %f)", vec[0], vec[1])
	}
}

func TestNormalize_KnuckleLineAligned(t *testing.T) {
	norm := &Normalizer{}
	pose := landmark.OpenPalmPose()

	vec := norm.Normalize(&pose)

	// After rotation, the index MCP -> pinky MCP vector should have no y
	// component.
	dy := vec[2*landmark.PinkyMCP+1] - vec[2*landmark.IndexMCP+1]
	if math.Abs(dy) > 1e-9 {
		t.Errorf("knuckle line not aligned with x axis: dy = %f", dy)
	}
}

func TestNormalizeMulti_Padding(t *testing.T) {
	norm := &Normalizer{}
	thumbsUp := landmark.ThumbsUpPose()
	openPalm := landmark.OpenPalmPose()

	// Zero hands: all zeros
	vec, err := norm.NormalizeMulti(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != MultiSize {
		t.Fatalf("expected %d features, got %d", MultiSize, len(vec))
	}
	if !allZero(vec) {
		t.Error("expected all zeros for zero hands")
	}

	// One hand: first block populated, second zero
	vec, err = norm.NormalizeMulti([]*landmark.HandPose{&thumbsUp})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allZero(vec[:HandSize]) {
		t.Error("expected non-zero first block for one hand")
	}
	if !allZero(vec[HandSize:]) {
		t.Error("expected zero second block for one hand")
	}

	// Two hands: both blocks populated
	vec, err = norm.NormalizeMulti([]*landmark.HandPose{&thumbsUp, &openPalm})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allZero(vec[:HandSize]) || allZero(vec[HandSize:]) {
		t.Error("expected both blocks non-zero for two hands")
	}
}

func TestNormalizeMulti_TooManyHands(t *testing.T) {
	norm := &Normalizer{}
	pose := landmark.OpenPalmPose()

	_, err := norm.NormalizeMulti([]*landmark.HandPose{&pose, &pose, &pose})
	if err == nil {
		t.Error("expected error for three hands")
	}
}

func TestNormalize_Augmented(t *testing.T) {
	norm := &Normalizer{Augment: true}
	pose := landmark.OpenPalmPose()

	vec := norm.Normalize(&pose)
	if len(vec) != HandSizeAugmented {
		t.Fatalf("expected %d features, got %d", HandSizeAugmented, len(vec))
	}

	// Fingertip distances of a real pose are strictly positive
	for i, d := range vec[HandSize:] {
		if d <= 0 {
			t.Errorf("distance %d: expected positive value, got %f", i, d)
		}
	}

	multi, err := norm.NormalizeMulti([]*landmark.HandPose{&pose})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(multi) != MultiSizeAugmented {
		t.Fatalf("expected %d features, got %d", MultiSizeAugmented, len(multi))
	}
}

func TestValidDim(t *testing.T) {
	valid := []int{42, 84, 57, 114}
	for _, dim := range valid {
		if !ValidDim(dim) {
			t.Errorf("expected dimension %d to be valid", dim)
		}
	}

	invalid := []int{0, 1, 21, 41, 43, 63, 85, 128}
	for _, dim := range invalid {
		if ValidDim(dim) {
			t.Errorf("expected dimension %d to be invalid", dim)
		}
	}
}
