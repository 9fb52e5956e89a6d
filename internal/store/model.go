package store

import (
	"database/sql"
	"errors"
	"time"
)

// Model represents a fitted classifier stored as an opaque exported blob.
// The blob is the tagged record produced by the classifier's Export; the
// store never interprets it.
type Model struct {
	ID        string
	Name      string
	Type      string
	Dim       int
	Blob      []byte
	CreatedAt time.Time
}

// ModelRepository provides CRUD operations for stored models.
type ModelRepository struct {
	db *sql.DB
}

// Models returns the model repository for this store.
func (s *Store) Models() *ModelRepository {
	return &ModelRepository{db: s.db}
}

// Create inserts a new model into the database.
func (r *ModelRepository) Create(m *Model) error {
	m.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO models (id, name, type, dim, blob, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Type, m.Dim, string(m.Blob), m.CreatedAt,
	)
	return err
}

// GetByID retrieves a model by its ID.
func (r *ModelRepository) GetByID(id string) (*Model, error) {
	m := &Model{}
	var blob string

	err := r.db.QueryRow(
		`SELECT id, name, type, dim, blob, created_at
		 FROM models WHERE id = ?`,
		id,
	).Scan(&m.ID, &m.Name, &m.Type, &m.Dim, &blob, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m.Blob = []byte(blob)
	return m, nil
}

// GetLatestByType retrieves the most recently created model of the given
// type.
func (r *ModelRepository) GetLatestByType(modelType string) (*Model, error) {
	m := &Model{}
	var blob string

	err := r.db.QueryRow(
		`SELECT id, name, type, dim, blob, created_at
		 FROM models WHERE type = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		modelType,
	).Scan(&m.ID, &m.Name, &m.Type, &m.Dim, &blob, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m.Blob = []byte(blob)
	return m, nil
}

// List retrieves all models, newest first. The blobs are omitted; use
// GetByID to load one for import.
func (r *ModelRepository) List() ([]*Model, error) {
	rows, err := r.db.Query(
		`SELECT id, name, type, dim, created_at
		 FROM models ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []*Model
	for rows.Next() {
		m := &Model{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.Dim, &m.CreatedAt); err != nil {
			return nil, err
		}
		models = append(models, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return models, nil
}

// Delete removes a model from the database by its ID.
func (r *ModelRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
