package dto

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"posecam/internal/service/pose"
)

// KeypointMessage is one joint as sent to viewers, in frame pixels.
type KeypointMessage struct {
	Joint   string  `json:"joint"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Score   float32 `json:"score"`
	Visible bool    `json:"visible"`
}

// PoseMessage is the websocket payload published for every decoded frame.
type PoseMessage struct {
	Frame     int64             `json:"frame"`
	Timestamp time.Time         `json:"timestamp"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Image     string            `json:"image,omitempty"`
	Keypoints []KeypointMessage `json:"keypoints"`
}

// NewPoseMessage builds a message from remapped points and an optional JPEG.
func NewPoseMessage(frame int64, width, height int, points []pose.FramePoint, jpeg []byte) PoseMessage {
	msg := PoseMessage{
		Frame:     frame,
		Timestamp: time.Now(),
		Width:     width,
		Height:    height,
		Keypoints: make([]KeypointMessage, 0, len(points)),
	}
	if len(jpeg) > 0 {
		msg.Image = base64.StdEncoding.EncodeToString(jpeg)
	}
	for _, p := range points {
		msg.Keypoints = append(msg.Keypoints, KeypointMessage{
			Joint:   p.Joint.String(),
			X:       p.Point.X,
			Y:       p.Point.Y,
			Score:   p.Score,
			Visible: p.Visible,
		})
	}
	return msg
}

// Encode returns the JSON form of the message.
func (m PoseMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}
