// Package landmark defines the hand-landmark types shared across the Mudra
// gesture recognition pipeline.
package landmark

import (
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandPose is one observed hand: exactly 21 landmarks in MediaPipe order.
// Coordinates are image-normalized, roughly in [0,1].
type HandPose struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PoseFromSlice builds a HandPose from a slice of landmarks.
// A slice whose length is not exactly 21 is a contract violation from the
// upstream detector and is rejected.
func PoseFromSlice(points []Point3D) (*HandPose, error) {
	if len(points) != NumLandmarks {
		return nil, fmt.Errorf("invalid input: hand pose has %d landmarks, expected %d", len(points), NumLandmarks)
	}

	pose := &HandPose{}
	copy(pose.Points[:], points)
	return pose, nil
}

// Distance calculates the Euclidean distance between two 3D points.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
