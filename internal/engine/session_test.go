package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/smooth"
)

// newTrainedEngine returns an engine with a fitted static model over the
// fixture poses and fast smoothing parameters.
func newTrainedEngine(t *testing.T) *Engine {
	t.Helper()

	st := newTestStore(t)
	seedStaticGestures(t, st)

	cfg := DefaultConfig()
	cfg.K = 1
	cfg.Smoothing = smooth.Params{WindowSize: 4, MinHoldFrames: 2, MinConfidence: 0.5}
	e := New(cfg, st)

	_, err := e.TrainStatic("static-v1")
	require.NoError(t, err)
	return e
}

func TestSession_ProcessFrame(t *testing.T) {
	e := newTrainedEngine(t)
	session := e.NewSession()

	thumbsUp := landmark.ThumbsUpPose()
	poses := []*landmark.HandPose{&thumbsUp}

	// Frame 1: raw prediction only, smoother still filling.
	result, err := session.ProcessFrame(poses)
	require.NoError(t, err)
	require.Equal(t, "thumbs_up", result.Raw.Label)
	require.Nil(t, result.Stable)

	// Frame 2: hold and fill requirements both met.
	result, err = session.ProcessFrame(poses)
	require.NoError(t, err)
	require.NotNil(t, result.Stable)
	require.Equal(t, "thumbs_up", result.Stable.Label)
}

func TestSession_ProcessFrame_NotTrained(t *testing.T) {
	st := newTestStore(t)
	e := New(DefaultConfig(), st)
	session := e.NewSession()

	thumbsUp := landmark.ThumbsUpPose()
	_, err := session.ProcessFrame([]*landmark.HandPose{&thumbsUp})
	require.ErrorIs(t, err, classify.ErrNotTrained)
}

func TestSession_EmptyFrameAdvancesSmoother(t *testing.T) {
	e := newTrainedEngine(t)
	session := e.NewSession()

	thumbsUp := landmark.ThumbsUpPose()
	poses := []*landmark.HandPose{&thumbsUp}

	// Stabilize on thumbs_up.
	for i := 0; i < 4; i++ {
		_, err := session.ProcessFrame(poses)
		require.NoError(t, err)
	}

	// Dropped hands still run through predict and smooth rather than
	// freezing the last emission.
	result, err := session.ProcessFrame(nil)
	require.NoError(t, err)
	require.NotNil(t, result.Raw)
}

func TestSession_Reset(t *testing.T) {
	e := newTrainedEngine(t)
	session := e.NewSession()

	thumbsUp := landmark.ThumbsUpPose()
	poses := []*landmark.HandPose{&thumbsUp}

	_, err := session.ProcessFrame(poses)
	require.NoError(t, err)
	result, err := session.ProcessFrame(poses)
	require.NoError(t, err)
	require.NotNil(t, result.Stable)

	session.Reset()

	// History is gone; the next frame cannot emit.
	result, err = session.ProcessFrame(poses)
	require.NoError(t, err)
	require.Nil(t, result.Stable)
}

func TestSession_UpdateSmoothing(t *testing.T) {
	e := newTrainedEngine(t)
	session := e.NewSession()

	session.UpdateSmoothing(smooth.Params{WindowSize: 2, MinHoldFrames: 1, MinConfidence: 0.5})

	thumbsUp := landmark.ThumbsUpPose()
	result, err := session.ProcessFrame([]*landmark.HandPose{&thumbsUp})
	require.NoError(t, err)
	require.NotNil(t, result.Stable)
}

func TestSession_Independent(t *testing.T) {
	e := newTrainedEngine(t)
	s1 := e.NewSession()
	s2 := e.NewSession()

	thumbsUp := landmark.ThumbsUpPose()
	poses := []*landmark.HandPose{&thumbsUp}

	_, err := s1.ProcessFrame(poses)
	require.NoError(t, err)
	result, err := s1.ProcessFrame(poses)
	require.NoError(t, err)
	require.NotNil(t, result.Stable)

	// The second session has observed nothing and must not emit on its
	// first frame.
	result, err = s2.ProcessFrame(poses)
	require.NoError(t, err)
	require.Nil(t, result.Stable)
}
