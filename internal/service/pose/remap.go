package pose

import (
	"image"
	"math"

	"posecam/internal/model"
)

// FramePoint is a keypoint mapped into display frame pixels.
type FramePoint struct {
	Joint   model.Joint
	Point   image.Point
	Score   float32
	Visible bool
}

// Remapper maps model input coordinates back into the frame a Letterbox was
// computed for.
type Remapper struct {
	box   Letterbox
	ratio float64
}

// NewRemapper builds a Remapper from the geometry applied before inference.
func NewRemapper(box Letterbox) Remapper {
	longest := box.SrcWidth
	if box.SrcHeight > longest {
		longest = box.SrcHeight
	}
	return Remapper{
		box:   box,
		ratio: float64(longest) / float64(box.Size),
	}
}

// LetterboxForFrame recomputes the geometry the pipeline applies to a
// width x height frame. Use it only when the applied Letterbox was not kept.
func LetterboxForFrame(width, height int) (Letterbox, error) {
	return ComputeLetterbox(width, height, model.InputSize)
}

// Ratio returns the frame pixels per model pixel.
func (r Remapper) Ratio() float64 {
	return r.ratio
}

// ToFrame maps a single model-space position into frame pixels.
func (r Remapper) ToFrame(x, y float32) image.Point {
	return image.Pt(
		int(math.Round(r.ratio*(float64(x)-float64(r.box.Left)))),
		int(math.Round(r.ratio*(float64(y)-float64(r.box.Top)))),
	)
}

// Remap maps every joint of pose, visible or not, into frame pixels.
func (r Remapper) Remap(pose *model.Pose) []FramePoint {
	points := make([]FramePoint, model.NumJoints)
	for k, kp := range pose {
		points[k] = FramePoint{
			Joint:   model.Joint(k),
			Point:   r.ToFrame(kp.X, kp.Y),
			Score:   kp.Score,
			Visible: kp.Visible,
		}
	}
	return points
}
