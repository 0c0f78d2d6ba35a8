package dto

import (
	"time"

	"posecam/internal/service/pose"
)

// BufferedPose holds a decoded pose before it is flushed to the database.
type BufferedPose struct {
	FrameIndex  int64
	CapturedAt  time.Time
	FrameWidth  int
	FrameHeight int
	Points      []pose.FramePoint
}
