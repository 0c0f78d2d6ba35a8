package sqlite

import (
	"fmt"

	"posecam/internal/model"
)

// PoseRepository implements repository.PoseRepository for SQLite.
type PoseRepository struct {
	db *DB
}

// NewPoseRepository creates a new SQLite pose repository.
func NewPoseRepository(db *DB) *PoseRepository {
	return &PoseRepository{db: db}
}

// InsertBatch adds poses and their keypoints in a single transaction and
// sets the ID of each inserted pose.
func (r *PoseRepository) InsertBatch(poses []model.PoseRecord) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poseStmt, err := tx.Prepare(`
		INSERT INTO poses (session_id, frame_index, captured_at, frame_width, frame_height, visible_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare pose statement: %w", err)
	}
	defer poseStmt.Close()

	keypointStmt, err := tx.Prepare(`
		INSERT INTO keypoints (pose_id, joint, x, y, score, visible)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare keypoint statement: %w", err)
	}
	defer keypointStmt.Close()

	for i := range poses {
		p := &poses[i]
		result, err := poseStmt.Exec(p.SessionID, p.FrameIndex, p.CapturedAt, p.FrameWidth, p.FrameHeight, p.VisibleCount)
		if err != nil {
			return fmt.Errorf("failed to insert pose: %w", err)
		}
		if p.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read pose id: %w", err)
		}

		for j := range p.Keypoints {
			kp := &p.Keypoints[j]
			kp.PoseID = p.ID
			if _, err := keypointStmt.Exec(kp.PoseID, int(kp.Joint), kp.X, kp.Y, kp.Score, kp.Visible); err != nil {
				return fmt.Errorf("failed to insert keypoint: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetBySession returns up to limit poses of a session in frame order, with
// their keypoints. A non-positive limit returns all poses.
func (r *PoseRepository) GetBySession(sessionID string, limit int) ([]model.PoseRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Conn().Query(`
		SELECT id, session_id, frame_index, captured_at, frame_width, frame_height, visible_count
		FROM poses WHERE session_id = ? ORDER BY frame_index LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query poses: %w", err)
	}

	var poses []model.PoseRecord
	index := make(map[int64]int)
	for rows.Next() {
		var p model.PoseRecord
		if err := rows.Scan(&p.ID, &p.SessionID, &p.FrameIndex, &p.CapturedAt, &p.FrameWidth, &p.FrameHeight, &p.VisibleCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan pose: %w", err)
		}
		index[p.ID] = len(poses)
		poses = append(poses, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate poses: %w", err)
	}
	if len(poses) == 0 {
		return poses, nil
	}

	kpRows, err := r.db.Conn().Query(`
		SELECT k.pose_id, k.joint, k.x, k.y, k.score, k.visible
		FROM keypoints k JOIN poses p ON k.pose_id = p.id
		WHERE p.session_id = ? ORDER BY k.pose_id, k.joint
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query keypoints: %w", err)
	}
	defer kpRows.Close()

	for kpRows.Next() {
		var kp model.KeypointRecord
		if err := kpRows.Scan(&kp.PoseID, &kp.Joint, &kp.X, &kp.Y, &kp.Score, &kp.Visible); err != nil {
			return nil, fmt.Errorf("failed to scan keypoint: %w", err)
		}
		if i, ok := index[kp.PoseID]; ok {
			poses[i].Keypoints = append(poses[i].Keypoints, kp)
		}
	}

	return poses, kpRows.Err()
}

// CountBySession returns the number of poses recorded for a session.
func (r *PoseRepository) CountBySession(sessionID string) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM poses WHERE session_id = ?`, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count poses: %w", err)
	}
	return count, nil
}

// JointStats returns visibility statistics per joint for a session, ordered
// by joint. Joints with no recorded keypoints are omitted.
func (r *PoseRepository) JointStats(sessionID string) ([]model.JointStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT k.joint, SUM(k.visible), COUNT(*), AVG(k.score)
		FROM keypoints k JOIN poses p ON k.pose_id = p.id
		WHERE p.session_id = ?
		GROUP BY k.joint ORDER BY k.joint
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query joint stats: %w", err)
	}
	defer rows.Close()

	var stats []model.JointStats
	for rows.Next() {
		var s model.JointStats
		if err := rows.Scan(&s.Joint, &s.VisibleCount, &s.TotalCount, &s.MeanScore); err != nil {
			return nil, fmt.Errorf("failed to scan joint stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// DeleteBySession removes all poses of a session; keypoints cascade.
func (r *PoseRepository) DeleteBySession(sessionID string) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM poses WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete poses: %w", err)
	}
	return nil
}
