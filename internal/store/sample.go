package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Sample represents one recorded feature vector for a static gesture.
type Sample struct {
	ID         int64     `json:"id"`
	GestureID  string    `json:"gesture_id"`
	Features   []float64 `json:"features"`
	RecordedAt time.Time `json:"recorded_at"`
}

// SampleRepository provides CRUD operations for static gesture samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Create inserts multiple samples for a gesture in a single transaction.
func (r *SampleRepository) Create(gestureID string, features [][]float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO gesture_samples (gesture_id, features) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range features {
		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("marshal features: %w", err)
		}
		if _, err := stmt.Exec(gestureID, string(data)); err != nil {
			return err
		}
	}

	// Touch the gesture so its updated_at reflects the new samples
	_, err = tx.Exec(`UPDATE gestures SET updated_at = ? WHERE id = ?`, time.Now(), gestureID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByGestureID retrieves all samples for a given gesture in insertion
// order.
func (r *SampleRepository) GetByGestureID(gestureID string) ([]Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture_id, features, recorded_at
		 FROM gesture_samples
		 WHERE gesture_id = ?
		 ORDER BY id`,
		gestureID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		var data string
		if err := rows.Scan(&s.ID, &s.GestureID, &data, &s.RecordedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &s.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features for sample %d: %w", s.ID, err)
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// CountByGestureID returns the number of samples stored for a gesture.
func (r *SampleRepository) CountByGestureID(gestureID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM gesture_samples WHERE gesture_id = ?`,
		gestureID,
	).Scan(&count)
	return count, err
}

// DeleteByGestureID removes all samples for a given gesture.
func (r *SampleRepository) DeleteByGestureID(gestureID string) error {
	_, err := r.db.Exec(`DELETE FROM gesture_samples WHERE gesture_id = ?`, gestureID)
	return err
}
