package pose

import (
	"image"
	"math"
	"testing"

	"posecam/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func newFrame(t *testing.T, width, height int, fill func(x, y, ch int) byte) gocv.Mat {
	t.Helper()

	data := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for ch := 0; ch < 3; ch++ {
				data[(y*width+x)*3+ch] = fill(x, y, ch)
			}
		}
	}

	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return mat
}

func TestLetterboxMat_OutputIsSquare(t *testing.T) {
	for _, dims := range [][2]int{{640, 480}, {480, 640}, {101, 37}, {257, 257}} {
		src := newFrame(t, dims[0], dims[1], func(x, y, ch int) byte { return 200 })
		dst := gocv.NewMat()

		box, err := LetterboxMat(src, &dst, model.InputSize)
		require.NoError(t, err)

		assert.Equal(t, model.InputSize, dst.Cols(), "%v", dims)
		assert.Equal(t, model.InputSize, dst.Rows(), "%v", dims)
		assert.Equal(t, 3, dst.Channels())
		assert.Len(t, dst.ToBytes(), model.TensorLen)
		assert.Equal(t, dims[0], box.SrcWidth)
		dst.Close()
	}
}

func TestLetterboxMat_PaddingIsBlack(t *testing.T) {
	src := newFrame(t, 640, 480, func(x, y, ch int) byte { return 255 })
	dst := gocv.NewMat()
	defer dst.Close()

	box, err := LetterboxMat(src, &dst, model.InputSize)
	require.NoError(t, err)
	require.Equal(t, 32, box.Top)

	data := dst.ToBytes()
	pixel := func(x, y int) []byte {
		i := (y*model.InputSize + x) * 3
		return data[i : i+3]
	}

	assert.Equal(t, []byte{0, 0, 0}, pixel(128, 0))
	assert.Equal(t, []byte{0, 0, 0}, pixel(128, box.Top-1))
	assert.Equal(t, []byte{255, 255, 255}, pixel(128, box.Top))
	assert.Equal(t, []byte{255, 255, 255}, pixel(128, model.InputSize-box.Bottom-1))
	assert.Equal(t, []byte{0, 0, 0}, pixel(128, model.InputSize-1))
}

func TestLetterboxMat_SquareInputUnchanged(t *testing.T) {
	src := newFrame(t, model.InputSize, model.InputSize, func(x, y, ch int) byte {
		return byte((x + 2*y + 50*ch) % 256)
	})
	dst := gocv.NewMat()
	defer dst.Close()

	box, err := LetterboxMat(src, &dst, model.InputSize)
	require.NoError(t, err)
	assert.Zero(t, box.Top+box.Bottom+box.Left+box.Right)

	want := src.ToBytes()
	got := dst.ToBytes()
	require.Len(t, got, len(want))
	for i := range want {
		if math.Abs(float64(want[i])-float64(got[i])) > 1 {
			t.Fatalf("byte %d changed: %d -> %d", i, want[i], got[i])
		}
	}
}

func TestLetterboxMat_EmptySource(t *testing.T) {
	src := gocv.NewMat()
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()

	_, err := LetterboxMat(src, &dst, model.InputSize)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

// A bright marker goes through letterbox, a heatmap peaked at the cell it
// landed in, decode and remap, and comes back within one grid cell.
func TestPipelineGeometry_MarkerRoundTrip(t *testing.T) {
	const frameW, frameH = 640, 480
	marker := image.Pt(455, 130)

	src := newFrame(t, frameW, frameH, func(x, y, ch int) byte {
		if abs(x-marker.X) <= 2 && abs(y-marker.Y) <= 2 {
			return 255
		}
		return 20
	})
	letterboxed := gocv.NewMat()
	defer letterboxed.Close()

	box, err := LetterboxMat(src, &letterboxed, model.InputSize)
	require.NoError(t, err)

	gray := gocv.NewMat()
	defer gray.Close()
	require.NoError(t, gocv.CvtColor(letterboxed, &gray, gocv.ColorBGRToGray))
	_, _, _, maxLoc := gocv.MinMaxLoc(gray)

	cellSpan := float64(model.InputSize) / model.GridSteps
	row := int(math.Round(float64(maxLoc.Y) / cellSpan))
	col := int(math.Round(float64(maxLoc.X) / cellSpan))

	heatmap, offset := emptyOutputs()
	heatmap[heatmapIndex(row, col, int(model.Nose))] = 0.95

	pose := DecodeKeypoints(heatmap, offset, 0.25)
	require.True(t, pose[model.Nose].Visible)

	remapper := NewRemapper(box)
	got := remapper.ToFrame(pose[model.Nose].X, pose[model.Nose].Y)

	tolerance := cellSpan * remapper.Ratio()
	assert.InDelta(t, marker.X, got.X, tolerance)
	assert.InDelta(t, marker.Y, got.Y, tolerance)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
