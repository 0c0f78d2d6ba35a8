package sqlite

import (
	"database/sql"
	"fmt"

	"posecam/internal/model"
)

// SessionRepository implements repository.SessionRepository for SQLite.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert adds a new session record to the database.
func (r *SessionRepository) Insert(session *model.Session) error {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().Exec(`
		INSERT INTO sessions (id, started_at, camera, model)
		VALUES (?, ?, ?, ?)
	`, session.ID, session.StartedAt, session.Camera, session.Model)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its ID. It returns nil when none exists.
func (r *SessionRepository) GetByID(id string) (*model.Session, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var session model.Session
	err := r.db.Conn().QueryRow(`
		SELECT id, started_at, camera, model FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.StartedAt, &session.Camera, &session.Model)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// GetAll returns every session, newest first.
func (r *SessionRepository) GetAll() ([]model.Session, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, started_at, camera, model FROM sessions ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var session model.Session
		if err := rows.Scan(&session.ID, &session.StartedAt, &session.Camera, &session.Model); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}
