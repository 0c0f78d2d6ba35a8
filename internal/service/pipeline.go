package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"posecam/internal/config"
	"posecam/internal/dto"
	"posecam/internal/logger"
	"posecam/internal/model"
	"posecam/internal/service/ai"
	"posecam/internal/service/capture"
	"posecam/internal/service/pose"
	"posecam/internal/service/render"

	"gocv.io/x/gocv"
)

// ErrFrameRead is returned when the frame source fails.
var ErrFrameRead = errors.New("failed to read frame")

// State is the lifecycle state of a Pipeline.
type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Publisher receives encoded pose messages for remote viewers.
type Publisher interface {
	Publish(message []byte) bool
	GetClientCount() int
}

// PoseRecorder receives decoded poses for persistence.
type PoseRecorder interface {
	Offer(pose dto.BufferedPose) (bool, error)
}

// PipelineStats is a snapshot of frame counters.
type PipelineStats struct {
	State           string        `json:"state"`
	FramesProcessed int64         `json:"frames_processed"`
	FramesSkipped   int64         `json:"frames_skipped"`
	LastVisible     int           `json:"last_visible"`
	MeanInference   time.Duration `json:"mean_inference_ns"`
	EffectiveFPS    float64       `json:"effective_fps"`
	MessagesDropped int64         `json:"messages_dropped"`
	PosesRecorded   int64         `json:"poses_recorded"`
	Uptime          time.Duration `json:"uptime_ns"`
	inferenceTotal  time.Duration
	startedAt       time.Time
}

// Pipeline runs capture, preprocessing, inference, decoding and rendering
// in strict sequence on the calling goroutine, one frame per Step.
type Pipeline struct {
	source    capture.FrameSource
	engine    ai.Engine
	display   capture.Display
	publisher Publisher
	recorder  PoseRecorder
	logger    *logger.Logger

	threshold     float32
	mirror        bool
	style         render.Style
	statsInterval int64

	state       atomic.Int32
	frame       gocv.Mat
	flipped     gocv.Mat
	letterboxed gocv.Mat

	statsMu sync.Mutex
	stats   PipelineStats
}

// Option configures optional Pipeline sinks.
type Option func(*Pipeline)

// WithPublisher streams every processed frame to p.
func WithPublisher(p Publisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithRecorder hands every decoded pose to r.
func WithRecorder(r PoseRecorder) Option {
	return func(pl *Pipeline) { pl.recorder = r }
}

func NewPipeline(config *config.Config, logger *logger.Logger, source capture.FrameSource, engine ai.Engine, display capture.Display, opts ...Option) *Pipeline {
	style := render.DefaultStyle()
	if config.MarkerRadius > 0 {
		style.MarkerRadius = config.MarkerRadius
	}
	style.DrawSkeleton = config.DrawSkeleton

	p := &Pipeline{
		source:        source,
		engine:        engine,
		display:       display,
		logger:        logger,
		threshold:     float32(config.KeypointThreshold),
		mirror:        config.Mirror,
		style:         style,
		statsInterval: int64(config.StatsInterval),
		frame:         gocv.NewMat(),
		flipped:       gocv.NewMat(),
		letterboxed:   gocv.NewMat(),
		stats:         PipelineStats{startedAt: time.Now()},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

func (p *Pipeline) stop() {
	p.state.Store(int32(Stopped))
}

// Run steps the pipeline until a key press stops it, ctx is cancelled or a
// step fails. Cancellation is only observed between frames.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("🎬 Pipeline started (threshold %.2f, mirror %t)", p.threshold, p.mirror)

	for p.State() == Running {
		if err := p.Step(); err != nil {
			p.stop()
			return err
		}

		select {
		case <-ctx.Done():
			p.logger.Info("Pipeline cancelled: %v", ctx.Err())
			p.stop()
		default:
		}
	}

	p.logStats()
	p.logger.Info("🛑 Pipeline stopped")
	return nil
}

// Step processes the newest frame, if any, then polls for an exit key.
func (p *Pipeline) Step() error {
	if !p.source.Read(&p.frame) {
		return ErrFrameRead
	}

	if p.frame.Empty() || p.frame.Cols() == 0 {
		p.statsMu.Lock()
		p.stats.FramesSkipped++
		p.statsMu.Unlock()
	} else if err := p.processFrame(); err != nil {
		return err
	}

	if capture.IsExitKey(p.display.PollKey(1)) {
		p.stop()
	}
	return nil
}

func (p *Pipeline) processFrame() error {
	view := p.frame
	if p.mirror {
		if err := gocv.Flip(p.frame, &p.flipped, 1); err != nil {
			return fmt.Errorf("failed to mirror frame: %w", err)
		}
		view = p.flipped
	}

	box, err := pose.LetterboxMat(view, &p.letterboxed, model.InputSize)
	if err != nil {
		return err
	}

	if err := pose.NormalizeInto(p.engine.Input(), p.letterboxed.ToBytes()); err != nil {
		return fmt.Errorf("failed to fill input tensor: %w", err)
	}

	start := time.Now()
	if err := p.engine.Invoke(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	heatmap, offset, err := p.engine.Outputs()
	if err != nil {
		return err
	}
	if err := pose.ValidateOutputs(heatmap, offset); err != nil {
		return err
	}

	decoded := pose.DecodeKeypoints(heatmap, offset, p.threshold)
	points := pose.NewRemapper(box).Remap(&decoded)

	if err := render.DrawPose(&view, points, p.style); err != nil {
		return err
	}
	if err := p.display.Show(view); err != nil {
		return fmt.Errorf("failed to show frame: %w", err)
	}

	frameIndex := p.recordFrame(elapsed, decoded.VisibleCount())

	p.publish(view, frameIndex, points)
	p.record(frameIndex, view.Cols(), view.Rows(), points)
	return nil
}

func (p *Pipeline) recordFrame(inference time.Duration, visible int) int64 {
	p.statsMu.Lock()
	p.stats.FramesProcessed++
	p.stats.inferenceTotal += inference
	p.stats.LastVisible = visible
	index := p.stats.FramesProcessed
	p.statsMu.Unlock()

	if p.statsInterval > 0 && index%p.statsInterval == 0 {
		p.logStats()
	}
	return index
}

// publish sends the annotated frame to viewers. Failures are logged only.
func (p *Pipeline) publish(view gocv.Mat, frameIndex int64, points []pose.FramePoint) {
	if p.publisher == nil || p.publisher.GetClientCount() == 0 {
		return
	}

	jpeg, err := render.EncodeJPEG(view)
	if err != nil {
		p.logger.Warning("Skipping viewer update: %v", err)
		return
	}

	message, err := dto.NewPoseMessage(frameIndex, view.Cols(), view.Rows(), points, jpeg).Encode()
	if err != nil {
		p.logger.Warning("Skipping viewer update: %v", err)
		return
	}

	if !p.publisher.Publish(message) {
		p.statsMu.Lock()
		p.stats.MessagesDropped++
		p.statsMu.Unlock()
	}
}

// record hands the pose to the recorder. Failures are logged only.
func (p *Pipeline) record(frameIndex int64, width, height int, points []pose.FramePoint) {
	if p.recorder == nil {
		return
	}

	kept, err := p.recorder.Offer(dto.BufferedPose{
		FrameIndex:  frameIndex,
		CapturedAt:  time.Now().UTC(),
		FrameWidth:  width,
		FrameHeight: height,
		Points:      points,
	})
	if err != nil {
		p.logger.Error("Failed to record pose: %v", err)
	}
	if kept {
		p.statsMu.Lock()
		p.stats.PosesRecorded++
		p.statsMu.Unlock()
	}
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() PipelineStats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	s := p.stats
	s.State = p.State().String()
	s.Uptime = time.Since(s.startedAt)
	if s.FramesProcessed > 0 {
		s.MeanInference = s.inferenceTotal / time.Duration(s.FramesProcessed)
	}
	if secs := s.Uptime.Seconds(); secs > 0 {
		s.EffectiveFPS = float64(s.FramesProcessed) / secs
	}
	return s
}

// StatsSnapshot implements handler.StatsProvider.
func (p *Pipeline) StatsSnapshot() any {
	return p.Stats()
}

func (p *Pipeline) logStats() {
	s := p.Stats()
	p.logger.Info("📊 Frames: %d processed, %d skipped | inference %v avg | %.1f FPS | %d joint(s) visible",
		s.FramesProcessed, s.FramesSkipped, s.MeanInference, s.EffectiveFPS, s.LastVisible)
}

// Close releases the frame buffers. It does not close the source, engine
// or display.
func (p *Pipeline) Close() error {
	p.frame.Close()
	p.flipped.Close()
	p.letterboxed.Close()
	return nil
}
