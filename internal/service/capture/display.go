package capture

import "gocv.io/x/gocv"

// NoKey is the code PollKey returns when no key was pressed.
const NoKey = -1

// Display shows frames and reports key presses.
type Display interface {
	Show(frame gocv.Mat) error
	PollKey(delayMs int) int
	Close() error
}

// WindowDisplay is a Display backed by a HighGUI window.
type WindowDisplay struct {
	window *gocv.Window
}

// NewWindowDisplay opens a window with the given title.
func NewWindowDisplay(name string) *WindowDisplay {
	return &WindowDisplay{window: gocv.NewWindow(name)}
}

func (d *WindowDisplay) Show(frame gocv.Mat) error {
	return d.window.IMShow(frame)
}

func (d *WindowDisplay) PollKey(delayMs int) int {
	return d.window.WaitKey(delayMs)
}

func (d *WindowDisplay) Close() error {
	return d.window.Close()
}

// IsExitKey reports whether a polled key code should stop the pipeline.
// 255 is what some HighGUI backends return for "no key" instead of -1.
func IsExitKey(key int) bool {
	return key > 0 && key != 255
}
