package render

import (
	"image"
	"testing"

	"posecam/internal/model"
	"posecam/internal/service/pose"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func blankFrame(t *testing.T) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })
	return frame
}

func pixel(frame gocv.Mat, x, y int) []byte {
	data := frame.ToBytes()
	i := (y*frame.Cols() + x) * 3
	return data[i : i+3]
}

func pointsWith(visible map[model.Joint]image.Point) []pose.FramePoint {
	points := make([]pose.FramePoint, model.NumJoints)
	for k := range points {
		points[k] = pose.FramePoint{Joint: model.Joint(k)}
	}
	for joint, pt := range visible {
		points[joint].Point = pt
		points[joint].Visible = true
	}
	return points
}

func TestDrawPose_DrawsVisibleMarkersOnly(t *testing.T) {
	frame := blankFrame(t)

	points := pointsWith(map[model.Joint]image.Point{model.Nose: image.Pt(50, 50)})
	points[model.LeftEye].Point = image.Pt(20, 20)

	require.NoError(t, DrawPose(&frame, points, DefaultStyle()))

	// BGR order: green marker.
	assert.Equal(t, []byte{0, 255, 0}, pixel(frame, 50, 50))
	assert.Equal(t, []byte{0, 255, 0}, pixel(frame, 53, 50))
	assert.Equal(t, []byte{0, 0, 0}, pixel(frame, 20, 20))
	assert.Equal(t, []byte{0, 0, 0}, pixel(frame, 90, 90))
}

func TestDrawPose_Skeleton(t *testing.T) {
	frame := blankFrame(t)
	style := DefaultStyle()
	style.DrawSkeleton = true
	style.MarkerRadius = 1

	points := pointsWith(map[model.Joint]image.Point{
		model.LeftShoulder:  image.Pt(10, 40),
		model.RightShoulder: image.Pt(90, 40),
	})

	require.NoError(t, DrawPose(&frame, points, style))

	assert.NotEqual(t, []byte{0, 0, 0}, pixel(frame, 50, 40))
}

func TestDrawPose_OffFramePointsAreIgnoredByOpenCV(t *testing.T) {
	frame := blankFrame(t)

	points := pointsWith(map[model.Joint]image.Point{model.Nose: image.Pt(-40, 500)})

	assert.NoError(t, DrawPose(&frame, points, DefaultStyle()))
}

func TestDrawPose_WrongPointCount(t *testing.T) {
	frame := blankFrame(t)

	assert.Error(t, DrawPose(&frame, make([]pose.FramePoint, 3), DefaultStyle()))
}

func TestEncodeJPEG(t *testing.T) {
	frame := blankFrame(t)

	data, err := EncodeJPEG(frame)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, []byte{0xFF, 0xD8}, data[:2])
}
