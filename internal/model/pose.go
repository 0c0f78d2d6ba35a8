package model

// Constants of the bundled PoseNet model
// (posenet_mobilenet_v1_100_257x257_multi_kpt_stripped.tflite). A model with
// a different input size or output stride needs its own set.
const (
	// InputSize is the side of the square input tensor in pixels.
	InputSize = 257
	// InputChannels is the number of colour channels of the input tensor.
	InputChannels = 3
	// GridSize is the number of heatmap cells along each axis.
	GridSize = 9
	// GridSteps is the number of inter-cell steps spanning the input.
	GridSteps = GridSize - 1
	// NumJoints is the number of keypoints the model predicts.
	NumJoints = 17

	TensorLen  = InputSize * InputSize * InputChannels
	HeatmapLen = GridSize * GridSize * NumJoints
	OffsetLen  = GridSize * GridSize * 2 * NumJoints
)

// Joint identifies a body part in model output order.
type Joint int

const (
	Nose Joint = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
)

var jointNames = [NumJoints]string{
	"nose",
	"leftEye",
	"rightEye",
	"leftEar",
	"rightEar",
	"leftShoulder",
	"rightShoulder",
	"leftElbow",
	"rightElbow",
	"leftWrist",
	"rightWrist",
	"leftHip",
	"rightHip",
	"leftKnee",
	"rightKnee",
	"leftAnkle",
	"rightAnkle",
}

func (j Joint) String() string {
	if j < 0 || int(j) >= NumJoints {
		return "unknown"
	}
	return jointNames[j]
}

// Skeleton lists the joint pairs connected by a limb.
var Skeleton = [][2]Joint{
	{LeftEye, Nose}, {RightEye, Nose},
	{LeftEar, LeftEye}, {RightEar, RightEye},
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow}, {LeftElbow, LeftWrist},
	{RightShoulder, RightElbow}, {RightElbow, RightWrist},
	{LeftShoulder, LeftHip}, {RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee}, {LeftKnee, LeftAnkle},
	{RightHip, RightKnee}, {RightKnee, RightAnkle},
}

// Keypoint is one decoded joint in model input space (InputSize x InputSize).
// X and Y are computed even when Visible is false.
type Keypoint struct {
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Score   float32 `json:"score"`
	Visible bool    `json:"visible"`
}

// Pose holds one keypoint per joint, indexed by Joint.
type Pose [NumJoints]Keypoint

// VisibleCount returns how many joints are marked visible.
func (p *Pose) VisibleCount() int {
	count := 0
	for _, kp := range p {
		if kp.Visible {
			count++
		}
	}
	return count
}
