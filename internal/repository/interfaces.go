package repository

import (
	"posecam/internal/model"
)

// SessionRepository defines the interface for recording session operations.
type SessionRepository interface {
	// Create operations
	Insert(session *model.Session) error

	// Read operations
	GetByID(id string) (*model.Session, error)
	GetAll() ([]model.Session, error)
}

// PoseRepository defines the interface for recorded pose operations.
type PoseRepository interface {
	// Create operations
	InsertBatch(poses []model.PoseRecord) error

	// Read operations
	GetBySession(sessionID string, limit int) ([]model.PoseRecord, error)
	CountBySession(sessionID string) (int, error)
	JointStats(sessionID string) ([]model.JointStats, error)

	// Delete operations
	DeleteBySession(sessionID string) error
}
