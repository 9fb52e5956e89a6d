package landmark

// Preset poses used as fixtures across the recognition packages. The
// coordinates are hand-authored to look like plausible detector output:
// image-normalized, wrist near the bottom of the frame.

// ThumbsUpPose returns a preset HandPose representing a thumbs up gesture.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpPose() HandPose {
	pose := HandPose{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at origin
	pose.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended upward (pointing up, Y decreases going up)
	pose.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	pose.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65, Z: 0.0}
	pose.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50, Z: 0.0}
	pose.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Index finger curled (knuckles close together, tip near palm)
	pose.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	pose.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	pose.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	pose.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	// Middle finger curled
	pose.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	pose.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	pose.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	pose.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	// Ring finger curled
	pose.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	pose.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	pose.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	pose.Points[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	// Pinky finger curled
	pose.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	pose.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	pose.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	pose.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74, Z: -0.02}

	return pose
}

// OpenPalmPose returns a preset HandPose representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmPose() HandPose {
	pose := HandPose{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at base
	pose.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	pose.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	pose.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	pose.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	pose.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	pose.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	pose.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	pose.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	pose.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	pose.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	pose.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	pose.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	pose.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	pose.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	pose.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	pose.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	pose.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	pose.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	pose.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	pose.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	pose.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return pose
}

// PointingPose returns a preset HandPose with only the index finger
// extended, as in pointing at the camera.
func PointingPose() HandPose {
	pose := ThumbsUpPose()

	// Fold the thumb across the palm
	pose.Points[ThumbCMC] = Point3D{X: 0.53, Y: 0.76, Z: 0.0}
	pose.Points[ThumbMCP] = Point3D{X: 0.50, Y: 0.74, Z: -0.01}
	pose.Points[ThumbIP] = Point3D{X: 0.47, Y: 0.73, Z: -0.02}
	pose.Points[ThumbTip] = Point3D{X: 0.44, Y: 0.73, Z: -0.03}

	// Extend the index finger upward
	pose.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	pose.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.55, Z: 0.0}
	pose.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.45, Z: 0.0}
	pose.Points[IndexTip] = Point3D{X: 0.57, Y: 0.35, Z: 0.0}

	return pose
}
