package pose

import (
	"image"
	"testing"

	"posecam/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemapper_Landscape(t *testing.T) {
	box, err := LetterboxForFrame(640, 480)
	require.NoError(t, err)
	remapper := NewRemapper(box)

	assert.InDelta(t, 2.49, remapper.Ratio(), 0.01)
	assert.Equal(t, image.Pt(320, 240), remapper.ToFrame(128.5, 128.5))
}

func TestRemapper_Portrait(t *testing.T) {
	box, err := LetterboxForFrame(480, 640)
	require.NoError(t, err)

	assert.Equal(t, image.Pt(240, 320), NewRemapper(box).ToFrame(128.5, 128.5))
}

func TestRemapper_Square(t *testing.T) {
	box, err := LetterboxForFrame(514, 514)
	require.NoError(t, err)
	remapper := NewRemapper(box)

	assert.Equal(t, image.Pt(0, 0), remapper.ToFrame(0, 0))
	assert.Equal(t, image.Pt(514, 514), remapper.ToFrame(257, 257))
	assert.Equal(t, image.Pt(100, 300), remapper.ToFrame(50, 150))
}

// Corners of the letterboxed content map onto the frame corners.
func TestRemapper_ContentCorners(t *testing.T) {
	for _, dims := range [][2]int{{640, 480}, {1280, 720}, {720, 1280}, {333, 777}} {
		box, err := LetterboxForFrame(dims[0], dims[1])
		require.NoError(t, err)
		remapper := NewRemapper(box)

		topLeft := remapper.ToFrame(float32(box.Left), float32(box.Top))
		bottomRight := remapper.ToFrame(float32(box.Left+box.ScaledWidth), float32(box.Top+box.ScaledHeight))

		assert.Equal(t, image.Pt(0, 0), topLeft, "%v", dims)
		assert.InDelta(t, dims[0], bottomRight.X, 3, "%v", dims)
		assert.InDelta(t, dims[1], bottomRight.Y, 3, "%v", dims)
	}
}

func TestRemapper_RemapKeepsEveryJoint(t *testing.T) {
	box, err := LetterboxForFrame(640, 480)
	require.NoError(t, err)

	var pose model.Pose
	pose[model.Nose] = model.Keypoint{X: 128.5, Y: 128.5, Score: 0.9, Visible: true}

	points := NewRemapper(box).Remap(&pose)

	require.Len(t, points, model.NumJoints)
	assert.Equal(t, model.Nose, points[0].Joint)
	assert.True(t, points[0].Visible)
	assert.Equal(t, image.Pt(320, 240), points[0].Point)
	assert.Equal(t, model.RightAnkle, points[16].Joint)
	assert.False(t, points[16].Visible)
	assert.Equal(t, image.Pt(0, -80), points[16].Point)
}
