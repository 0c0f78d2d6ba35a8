package pose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// ErrInvalidDimensions is returned for non-positive image or target sizes.
var ErrInvalidDimensions = errors.New("invalid image dimensions")

// Letterbox describes how a SrcWidth x SrcHeight image was scaled and padded
// into a Size x Size square. Odd padding puts the extra pixel bottom/right.
type Letterbox struct {
	SrcWidth     int
	SrcHeight    int
	Size         int
	ScaledWidth  int
	ScaledHeight int
	Top          int
	Bottom       int
	Left         int
	Right        int
}

// ComputeLetterbox returns the geometry used to fit a width x height image into
// a size x size square without distortion. The result only depends on its
// arguments.
func ComputeLetterbox(width, height, size int) (Letterbox, error) {
	if width <= 0 || height <= 0 || size <= 0 {
		return Letterbox{}, fmt.Errorf("%w: %dx%d into %d", ErrInvalidDimensions, width, height, size)
	}

	box := Letterbox{SrcWidth: width, SrcHeight: height, Size: size}

	// Target is square, so its aspect ratio is 1.
	if float64(width)/float64(height) > 1 {
		box.ScaledWidth = size
		box.ScaledHeight = scaleDim(size, height, width)
	} else {
		box.ScaledHeight = size
		box.ScaledWidth = scaleDim(size, width, height)
	}

	padW := size - box.ScaledWidth
	padH := size - box.ScaledHeight
	box.Left, box.Right = padW/2, padW-padW/2
	box.Top, box.Bottom = padH/2, padH-padH/2

	return box, nil
}

// scaleDim computes round(size * num / den), never below one pixel.
func scaleDim(size, num, den int) int {
	v := int(math.Round(float64(size) * float64(num) / float64(den)))
	if v < 1 {
		return 1
	}
	return v
}

// Scale returns the uniform factor applied to the source image.
func (b Letterbox) Scale() float64 {
	return float64(b.ScaledWidth) / float64(b.SrcWidth)
}

// LetterboxMat resizes src with bilinear interpolation and pads it with black
// into dst, which always ends up size x size. It returns the applied geometry.
func LetterboxMat(src gocv.Mat, dst *gocv.Mat, size int) (Letterbox, error) {
	if src.Empty() {
		return Letterbox{}, fmt.Errorf("%w: empty source image", ErrInvalidDimensions)
	}

	box, err := ComputeLetterbox(src.Cols(), src.Rows(), size)
	if err != nil {
		return Letterbox{}, err
	}

	resized := gocv.NewMat()
	defer resized.Close()

	if err := gocv.Resize(src, &resized, image.Pt(box.ScaledWidth, box.ScaledHeight), 0, 0, gocv.InterpolationLinear); err != nil {
		return Letterbox{}, fmt.Errorf("failed to resize frame: %w", err)
	}

	if err := gocv.CopyMakeBorder(resized, dst, box.Top, box.Bottom, box.Left, box.Right, gocv.BorderConstant, color.RGBA{}); err != nil {
		return Letterbox{}, fmt.Errorf("failed to pad frame: %w", err)
	}

	return box, nil
}
