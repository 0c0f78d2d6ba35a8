package pose

import (
	"fmt"

	"posecam/internal/model"
)

// ValidateOutputs checks that heatmap and offset have the lengths
// DecodeKeypoints indexes into.
func ValidateOutputs(heatmap, offset []float32) error {
	if len(heatmap) != model.HeatmapLen {
		return fmt.Errorf("%w: heatmap has %d values, want %d", ErrBufferSize, len(heatmap), model.HeatmapLen)
	}
	if len(offset) != model.OffsetLen {
		return fmt.Errorf("%w: offset has %d values, want %d", ErrBufferSize, len(offset), model.OffsetLen)
	}
	return nil
}

// DecodeKeypoints turns the model outputs into one keypoint per joint.
//
// heatmap has shape [9][9][17] and offset [9][9][34], both row-major with the
// last index varying fastest. Offsets 0..16 of a cell are y refinements and
// 17..33 are x refinements. For each joint the cell with the highest score is
// picked (the running maximum starts at 0 and ties keep the first cell in
// row-major order), and its coarse position is refined by the cell's offset.
// A joint is visible when its best score is strictly above threshold.
//
// Inputs must pass ValidateOutputs; DecodeKeypoints itself never fails.
func DecodeKeypoints(heatmap, offset []float32, threshold float32) model.Pose {
	var pose model.Pose

	const (
		rowStride       = model.GridSize * model.NumJoints
		offsetRowStride = model.GridSize * 2 * model.NumJoints
		offsetColStride = 2 * model.NumJoints
	)

	for k := 0; k < model.NumJoints; k++ {
		var maxVal float32
		maxRow, maxCol := 0, 0

		for r := 0; r < model.GridSize; r++ {
			for c := 0; c < model.GridSize; c++ {
				if v := heatmap[r*rowStride+c*model.NumJoints+k]; v > maxVal {
					maxVal = v
					maxRow = r
					maxCol = c
				}
			}
		}

		cell := maxRow*offsetRowStride + maxCol*offsetColStride
		pose[k] = model.Keypoint{
			X:       float32(maxCol)/model.GridSteps*model.InputSize + offset[cell+k+model.NumJoints],
			Y:       float32(maxRow)/model.GridSteps*model.InputSize + offset[cell+k],
			Score:   maxVal,
			Visible: maxVal > threshold,
		}
	}

	return pose
}
