package dto

import (
	"encoding/base64"
	"encoding/json"
	"image"
	"testing"

	"posecam/internal/model"
	"posecam/internal/service/pose"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoseMessage(t *testing.T) {
	points := []pose.FramePoint{
		{Joint: model.Nose, Point: image.Pt(320, 240), Score: 0.9, Visible: true},
		{Joint: model.LeftEye, Point: image.Pt(-4, 12), Score: 0.1},
	}
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xD9}

	data, err := NewPoseMessage(7, 640, 480, points, jpeg).Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(7), decoded["frame"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(jpeg), decoded["image"])

	keypoints := decoded["keypoints"].([]any)
	require.Len(t, keypoints, 2)
	nose := keypoints[0].(map[string]any)
	assert.Equal(t, "nose", nose["joint"])
	assert.Equal(t, float64(320), nose["x"])
	assert.Equal(t, true, nose["visible"])
	assert.Equal(t, false, keypoints[1].(map[string]any)["visible"])
}

func TestNewPoseMessage_WithoutImage(t *testing.T) {
	data, err := NewPoseMessage(1, 10, 10, nil, nil).Encode()
	require.NoError(t, err)

	assert.NotContains(t, string(data), `"image"`)
	assert.Contains(t, string(data), `"keypoints":[]`)
}
