// Package feature converts raw hand landmarks into geometry-invariant
// feature vectors consumed by the classifiers.
package feature

import (
	"fmt"
	"math"

	"github.com/ayusman/mudra/internal/landmark"
)

// Feature vector lengths. A vector is one 42-value block per hand (21
// landmarks, x and y after normalization), optionally extended with 15
// pairwise fingertip distances per hand.
const (
	HandSize           = 2 * landmark.NumLandmarks
	HandSizeAugmented  = HandSize + numFingertipPairs
	MultiSize          = 2 * HandSize
	MultiSizeAugmented = 2 * HandSizeAugmented

	// numFingertipPairs is the number of unordered pairs among the wrist
	// and the five fingertips.
	numFingertipPairs = 15
)

// degenerateScale is the threshold below which a pose is treated as
// collapsed onto the wrist and normalized to the zero vector.
const degenerateScale = 1e-10

// Normalizer converts hand poses into fixed-length feature vectors.
// Augment must match between training and inference; a model fitted on
// augmented vectors rejects plain ones by dimension.
type Normalizer struct {
	// Augment appends pairwise fingertip distances to each hand block.
	Augment bool
}

// HandDim returns the per-hand block length produced by this normalizer.
func (n *Normalizer) HandDim() int {
	if n.Augment {
		return HandSizeAugmented
	}
	return HandSize
}

// MultiDim returns the two-hand vector length produced by this normalizer.
func (n *Normalizer) MultiDim() int {
	return 2 * n.HandDim()
}

// Normalize converts one pose into a feature vector that is invariant to
// translation, uniform scale, and in-plane rotation:
//
//  1. Translate so the wrist is at the origin.
//  2. Scale so the wrist-to-middle-MCP distance is 1. A collapsed pose
//     (scale below epsilon) yields the all-zero vector instead of NaNs.
//  3. Rotate so the index-MCP to pinky-MCP vector aligns with +x.
//  4. Drop z and flatten the 21 (x, y) pairs row-major.
func (n *Normalizer) Normalize(pose *landmark.HandPose) []float64 {
	out := make([]float64, n.HandDim())

	// Translate all points relative to the wrist
	wrist := pose.Points[landmark.Wrist]
	var pts [landmark.NumLandmarks]landmark.Point3D
	for i := 0; i < landmark.NumLandmarks; i++ {
		pts[i] = landmark.Point3D{
			X: pose.Points[i].X - wrist.X,
			Y: pose.Points[i].Y - wrist.Y,
			Z: pose.Points[i].Z - wrist.Z,
		}
	}

	// Scale by the wrist to middle-MCP distance
	mcp := pts[landmark.MiddleMCP]
	scale := math.Sqrt(mcp.X*mcp.X + mcp.Y*mcp.Y + mcp.Z*mcp.Z)
	if scale < degenerateScale {
		return out
	}
	for i := range pts {
		pts[i].X /= scale
		pts[i].Y /= scale
		pts[i].Z /= scale
	}

	// Rotate in-plane so the knuckle line (index MCP -> pinky MCP) lies
	// along +x
	knuckle := landmark.Point3D{
		X: pts[landmark.PinkyMCP].X - pts[landmark.IndexMCP].X,
		Y: pts[landmark.PinkyMCP].Y - pts[landmark.IndexMCP].Y,
	}
	angle := math.Atan2(knuckle.Y, knuckle.X)
	sin, cos := math.Sincos(-angle)
	for i := range pts {
		x, y := pts[i].X, pts[i].Y
		pts[i].X = x*cos - y*sin
		pts[i].Y = x*sin + y*cos
	}

	for i := 0; i < landmark.NumLandmarks; i++ {
		out[2*i] = pts[i].X
		out[2*i+1] = pts[i].Y
	}

	if n.Augment {
		copy(out[HandSize:], fingertipDistances(out[:HandSize]))
	}
	return out
}

// NormalizeMulti converts up to two poses into a single vector of two hand
// blocks. A missing hand contributes a zero block; slot order is the
// detector's output order, with no hand-identity tracking. More than two
// poses is an error.
func (n *Normalizer) NormalizeMulti(poses []*landmark.HandPose) ([]float64, error) {
	if len(poses) > 2 {
		return nil, fmt.Errorf("invalid input: %d hands, at most 2 supported", len(poses))
	}

	dim := n.HandDim()
	out := make([]float64, 2*dim)
	for i, pose := range poses {
		copy(out[i*dim:(i+1)*dim], n.Normalize(pose))
	}
	return out, nil
}

// fingertipDistances returns the 15 pairwise Euclidean distances among the
// wrist and the five fingertips of one flattened 42-value hand block.
func fingertipDistances(block []float64) []float64 {
	anchors := [6]int{
		landmark.Wrist,
		landmark.ThumbTip,
		landmark.IndexTip,
		landmark.MiddleTip,
		landmark.RingTip,
		landmark.PinkyTip,
	}

	dists := make([]float64, 0, numFingertipPairs)
	for i := 0; i < len(anchors); i++ {
		for j := i + 1; j < len(anchors); j++ {
			ax, ay := block[2*anchors[i]], block[2*anchors[i]+1]
			bx, by := block[2*anchors[j]], block[2*anchors[j]+1]
			dists = append(dists, math.Hypot(bx-ax, by-ay))
		}
	}
	return dists
}

// ValidDim reports whether dim is a feature-vector length this package can
// produce: one or two hand blocks, plain or augmented.
func ValidDim(dim int) bool {
	switch dim {
	case HandSize, MultiSize, HandSizeAugmented, MultiSizeAugmented:
		return true
	}
	return false
}
