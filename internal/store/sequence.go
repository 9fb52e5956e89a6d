package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Sequence represents one recorded frame sequence for a dynamic gesture.
type Sequence struct {
	ID         int64       `json:"id"`
	GestureID  string      `json:"gesture_id"`
	Frames     [][]float64 `json:"frames"`
	RecordedAt time.Time   `json:"recorded_at"`
}

// SequenceRepository provides CRUD operations for dynamic gesture
// sequences.
type SequenceRepository struct {
	db *sql.DB
}

// Sequences returns the sequence repository for this store.
func (s *Store) Sequences() *SequenceRepository {
	return &SequenceRepository{db: s.db}
}

// Create inserts multiple sequences for a gesture in a single transaction.
func (r *SequenceRepository) Create(gestureID string, sequences [][][]float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO gesture_sequences (gesture_id, frames) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, frames := range sequences {
		data, err := json.Marshal(frames)
		if err != nil {
			return fmt.Errorf("marshal frames: %w", err)
		}
		if _, err := stmt.Exec(gestureID, string(data)); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`UPDATE gestures SET updated_at = ? WHERE id = ?`, time.Now(), gestureID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByGestureID retrieves all sequences for a given gesture in insertion
// order.
func (r *SequenceRepository) GetByGestureID(gestureID string) ([]Sequence, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture_id, frames, recorded_at
		 FROM gesture_sequences
		 WHERE gesture_id = ?
		 ORDER BY id`,
		gestureID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sequences []Sequence
	for rows.Next() {
		var seq Sequence
		var data string
		if err := rows.Scan(&seq.ID, &seq.GestureID, &data, &seq.RecordedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &seq.Frames); err != nil {
			return nil, fmt.Errorf("unmarshal frames for sequence %d: %w", seq.ID, err)
		}
		sequences = append(sequences, seq)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sequences, nil
}

// DeleteByGestureID removes all sequences for a given gesture.
func (r *SequenceRepository) DeleteByGestureID(gestureID string) error {
	_, err := r.db.Exec(`DELETE FROM gesture_sequences WHERE gesture_id = ?`, gestureID)
	return err
}
