package landmark

import (
	"math"
	"testing"
)

func TestPoseFromSlice_ValidLength(t *testing.T) {
	points := make([]Point3D, NumLandmarks)
	points[IndexTip] = Point3D{X: 0.3, Y: 0.4, Z: 0.1}

	pose, err := PoseFromSlice(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pose.Points[IndexTip] != points[IndexTip] {
		t.Errorf("expected index tip %v, got %v", points[IndexTip], pose.Points[IndexTip])
	}
}

func TestPoseFromSlice_InvalidLength(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"empty", 0},
		{"too few", 20},
		{"too many", 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PoseFromSlice(make([]Point3D, tt.length))
			if err == nil {
				t.Errorf("expected error for %d landmarks", tt.length)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	a := Point3D{X: 0, Y: 0, Z: 0}
	b := Point3D{X: 3, Y: 4, Z: 0}

	if d := Distance(a, b); d != 5 {
		t.Errorf("expected distance 5, got %f", d)
	}

	if d := Distance(a, a); d != 0 {
		t.Errorf("expected distance 0 for identical points, got %f", d)
	}

	c := Point3D{X: 1, Y: 1, Z: 1}
	want := math.Sqrt(3)
	if d := Distance(a, c); math.Abs(d-want) > 1e-12 {
		t.Errorf("expected distance %f, got %f", want, d)
	}
}

func TestPresetPoses_Distinct(t *testing.T) {
	// The preset poses should differ enough to be separable fixtures
	thumbsUp := ThumbsUpPose()
	openPalm := OpenPalmPose()
	pointing := PointingPose()

	var d1, d2 float64
	for i := 0; i < NumLandmarks; i++ {
		d1 += Distance(thumbsUp.Points[i], openPalm.Points[i])
		d2 += Distance(thumbsUp.Points[i], pointing.Points[i])
	}

	if d1 < 0.5 {
		t.Errorf("thumbs up and open palm too similar: total distance %f", d1)
	}
	if d2 < 0.2 {
		t.Errorf("thumbs up and pointing too similar: total distance %f", d2)
	}
}
