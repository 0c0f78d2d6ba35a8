package storage

import (
	"fmt"
	"sync"
	"time"

	"posecam/internal/config"
	"posecam/internal/dto"
	"posecam/internal/logger"
	"posecam/internal/model"
	"posecam/internal/repository"

	"github.com/google/uuid"
)

// RecorderService buffers every Nth decoded pose in memory and writes the
// buffer to the database when it is full and on Close. Flushing happens on
// the caller's goroutine.
type RecorderService struct {
	sessionID   string
	interval    int
	bufferLimit int
	offered     int
	poses       []dto.BufferedPose
	mu          sync.Mutex
	logger      *logger.Logger
	sessionRepo repository.SessionRepository
	poseRepo    repository.PoseRepository
}

// NewRecorderService starts a new recording session.
func NewRecorderService(config *config.Config, logger *logger.Logger, sessionRepo repository.SessionRepository, poseRepo repository.PoseRepository) (*RecorderService, error) {
	session := &model.Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Camera:    config.CameraSource,
		Model:     config.ModelPath,
	}
	if err := sessionRepo.Insert(session); err != nil {
		return nil, fmt.Errorf("failed to start recording session: %w", err)
	}

	interval := config.RecordInterval
	if interval < 1 {
		interval = 1
	}
	limit := config.RecordBufferLimit
	if limit < 1 {
		limit = 1
	}

	logger.Info("Recording session %s (every %d frame(s), buffer %d)", session.ID, interval, limit)
	return &RecorderService{
		sessionID:   session.ID,
		interval:    interval,
		bufferLimit: limit,
		poses:       make([]dto.BufferedPose, 0, limit),
		logger:      logger,
		sessionRepo: sessionRepo,
		poseRepo:    poseRepo,
	}, nil
}

// SessionID returns the identifier of the current recording session.
func (s *RecorderService) SessionID() string {
	return s.sessionID
}

// Offer keeps every Nth pose it is given and flushes when the buffer is full.
// It reports whether the pose was kept.
func (s *RecorderService) Offer(pose dto.BufferedPose) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offered++
	if s.offered%s.interval != 0 {
		return false, nil
	}

	s.poses = append(s.poses, pose)
	if len(s.poses) < s.bufferLimit {
		return true, nil
	}
	return true, s.flushLocked()
}

// Flush writes buffered poses to the database.
func (s *RecorderService) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *RecorderService) flushLocked() error {
	if len(s.poses) == 0 {
		return nil
	}

	records := make([]model.PoseRecord, 0, len(s.poses))
	for _, p := range s.poses {
		record := model.PoseRecord{
			SessionID:   s.sessionID,
			FrameIndex:  p.FrameIndex,
			CapturedAt:  p.CapturedAt,
			FrameWidth:  p.FrameWidth,
			FrameHeight: p.FrameHeight,
			Keypoints:   make([]model.KeypointRecord, 0, len(p.Points)),
		}
		for _, pt := range p.Points {
			if pt.Visible {
				record.VisibleCount++
			}
			record.Keypoints = append(record.Keypoints, model.KeypointRecord{
				Joint:   pt.Joint,
				X:       pt.Point.X,
				Y:       pt.Point.Y,
				Score:   float64(pt.Score),
				Visible: pt.Visible,
			})
		}
		records = append(records, record)
	}

	// The buffer is cleared even when the insert fails.
	s.poses = s.poses[:0]
	if err := s.poseRepo.InsertBatch(records); err != nil {
		return fmt.Errorf("failed to flush %d poses: %w", len(records), err)
	}

	s.logger.Info("Flushed %d poses to session %s", len(records), s.sessionID)
	return nil
}

// Close flushes what is left in the buffer.
func (s *RecorderService) Close() error {
	return s.Flush()
}
