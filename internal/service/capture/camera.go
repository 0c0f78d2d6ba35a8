package capture

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"posecam/internal/config"
	"posecam/internal/logger"

	"gocv.io/x/gocv"
)

// FrameSource yields frames. Read returns false when the source failed; an
// empty frame with a true result means nothing was available this time.
type FrameSource interface {
	Read(frame *gocv.Mat) bool
	Close() error
}

// Open opens the frame source named by config.CameraSource: a device index
// ("0") or a UDP listener ("udp::5000").
func Open(config *config.Config, logger *logger.Logger) (FrameSource, error) {
	if port, ok := strings.CutPrefix(config.CameraSource, "udp:"); ok {
		port = strings.TrimPrefix(port, ":")
		timeout := time.Duration(config.UDPReadTimeoutMs) * time.Millisecond
		source, err := ListenUDP(port, timeout, logger)
		if err != nil {
			return nil, err
		}
		return source, nil
	}

	device, err := strconv.Atoi(config.CameraSource)
	if err != nil {
		return nil, fmt.Errorf("invalid camera source %q: %w", config.CameraSource, err)
	}
	camera, err := OpenCamera(device, config.CameraFPS, logger)
	if err != nil {
		return nil, err
	}
	return camera, nil
}

// Device is the part of *gocv.VideoCapture a CameraSource needs.
type Device interface {
	Read(frame *gocv.Mat) bool
	IsOpened() bool
	Close() error
}

// CameraSource adapts a capture device to FrameSource. A failed grab on an
// open device yields an empty frame; only a closed device fails the read.
type CameraSource struct {
	device Device
}

func NewCameraSource(device Device) *CameraSource {
	return &CameraSource{device: device}
}

func (c *CameraSource) Read(frame *gocv.Mat) bool {
	if c.device.Read(frame) {
		return true
	}
	if !c.device.IsOpened() {
		return false
	}
	clearMat(frame)
	return true
}

func (c *CameraSource) Close() error {
	return c.device.Close()
}

// OpenCamera opens a local capture device and requests the given frame rate.
func OpenCamera(device, fps int, logger *logger.Logger) (*CameraSource, error) {
	camera, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", device, err)
	}
	if !camera.IsOpened() {
		camera.Close()
		return nil, fmt.Errorf("camera %d is not opened", device)
	}

	camera.Set(gocv.VideoCaptureFPS, float64(fps))
	if got := camera.Get(gocv.VideoCaptureFPS); got <= 0 {
		camera.Close()
		return nil, fmt.Errorf("camera %d rejected frame rate %d", device, fps)
	} else if int(got) != fps {
		logger.Warning("Camera %d runs at %.1f FPS instead of %d", device, got, fps)
	}

	logger.Info("Camera %d opened at %d FPS", device, fps)
	return NewCameraSource(camera), nil
}
