package model

import "time"

// Session represents one recording run of the pipeline.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Camera    string    `json:"camera"`
	Model     string    `json:"model"`
}

// PoseRecord represents a recorded pose of a single frame.
type PoseRecord struct {
	ID           int64            `json:"id"`
	SessionID    string           `json:"session_id"`
	FrameIndex   int64            `json:"frame_index"`
	CapturedAt   time.Time        `json:"captured_at"`
	FrameWidth   int              `json:"frame_width"`
	FrameHeight  int              `json:"frame_height"`
	VisibleCount int              `json:"visible_count"`
	Keypoints    []KeypointRecord `json:"keypoints,omitempty"`
}

// KeypointRecord represents one joint of a recorded pose, in frame pixels.
type KeypointRecord struct {
	PoseID  int64   `json:"pose_id"`
	Joint   Joint   `json:"joint"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Score   float64 `json:"score"`
	Visible bool    `json:"visible"`
}

// JointStats contains visibility statistics for one joint.
type JointStats struct {
	Joint        Joint   `json:"joint"`
	VisibleCount int     `json:"visible_count"`
	TotalCount   int     `json:"total_count"`
	MeanScore    float64 `json:"mean_score"`
}
