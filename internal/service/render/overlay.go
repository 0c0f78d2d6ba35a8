package render

import (
	"fmt"
	"image/color"

	"posecam/internal/model"
	"posecam/internal/service/pose"

	"gocv.io/x/gocv"
)

// Style controls how a pose is drawn.
type Style struct {
	MarkerRadius  int
	MarkerColor   color.RGBA
	DrawSkeleton  bool
	LimbColor     color.RGBA
	LimbThickness int
}

// DefaultStyle draws filled green markers of radius 5 and no limbs.
func DefaultStyle() Style {
	return Style{
		MarkerRadius:  5,
		MarkerColor:   color.RGBA{R: 0, G: 255, B: 0, A: 0},
		LimbColor:     color.RGBA{R: 255, G: 128, B: 0, A: 0},
		LimbThickness: 2,
	}
}

// DrawPose draws a filled marker for each visible point and, when enabled,
// a line for each skeleton limb whose ends are both visible. points must be
// indexed by joint.
func DrawPose(frame *gocv.Mat, points []pose.FramePoint, style Style) error {
	if len(points) != model.NumJoints {
		return fmt.Errorf("expected %d points, got %d", model.NumJoints, len(points))
	}

	if style.DrawSkeleton {
		for _, limb := range model.Skeleton {
			a, b := points[limb[0]], points[limb[1]]
			if !a.Visible || !b.Visible {
				continue
			}
			if err := gocv.Line(frame, a.Point, b.Point, style.LimbColor, style.LimbThickness); err != nil {
				return fmt.Errorf("failed to draw limb %s-%s: %w", limb[0], limb[1], err)
			}
		}
	}

	for _, p := range points {
		if !p.Visible {
			continue
		}
		// Negative thickness fills the circle.
		if err := gocv.Circle(frame, p.Point, style.MarkerRadius, style.MarkerColor, -1); err != nil {
			return fmt.Errorf("failed to draw marker for %s: %w", p.Joint, err)
		}
	}

	return nil
}

// EncodeJPEG returns a copy of frame encoded as JPEG.
func EncodeJPEG(frame gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	encoded := make([]byte, len(buf.GetBytes()))
	copy(encoded, buf.GetBytes())
	return encoded, nil
}
