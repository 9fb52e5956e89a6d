package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// GestureKind represents the kind of gesture (static or dynamic).
type GestureKind string

const (
	// GestureKindStatic represents a static hand pose gesture.
	GestureKindStatic GestureKind = "static"
	// GestureKindDynamic represents a dynamic motion-based gesture.
	GestureKindDynamic GestureKind = "dynamic"
)

// Gesture represents a gesture label definition stored in the database.
type Gesture struct {
	ID        string
	Name      string
	Kind      GestureKind
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GestureRepository provides CRUD operations for gestures.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

// Create inserts a new gesture into the database.
func (r *GestureRepository) Create(g *Gesture) error {
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO gestures (id, name, kind, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, string(g.Kind), g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a gesture by its ID.
func (r *GestureRepository) GetByID(id string) (*Gesture, error) {
	g := &Gesture{}
	var kind string

	err := r.db.QueryRow(
		`SELECT id, name, kind, created_at, updated_at
		 FROM gestures WHERE id = ?`,
		id,
	).Scan(&g.ID, &g.Name, &kind, &g.CreatedAt, &g.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	g.Kind = GestureKind(kind)
	return g, nil
}

// GetByName retrieves a gesture by its name.
func (r *GestureRepository) GetByName(name string) (*Gesture, error) {
	g := &Gesture{}
	var kind string

	err := r.db.QueryRow(
		`SELECT id, name, kind, created_at, updated_at
		 FROM gestures WHERE name = ?`,
		name,
	).Scan(&g.ID, &g.Name, &kind, &g.CreatedAt, &g.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	g.Kind = GestureKind(kind)
	return g, nil
}

// List retrieves all gestures of the given kind, or all gestures if kind is
// empty.
func (r *GestureRepository) List(kind GestureKind) ([]*Gesture, error) {
	query := `SELECT id, name, kind, created_at, updated_at
		 FROM gestures ORDER BY created_at DESC`
	args := []any{}
	if kind != "" {
		query = `SELECT id, name, kind, created_at, updated_at
		 FROM gestures WHERE kind = ? ORDER BY created_at DESC`
		args = append(args, string(kind))
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gestures []*Gesture
	for rows.Next() {
		g := &Gesture{}
		var k string

		err := rows.Scan(&g.ID, &g.Name, &k, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}

		g.Kind = GestureKind(k)
		gestures = append(gestures, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gestures, nil
}

// Update updates an existing gesture in the database.
func (r *GestureRepository) Update(g *Gesture) error {
	g.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE gestures SET name = ?, kind = ?, updated_at = ?
		 WHERE id = ?`,
		g.Name, string(g.Kind), g.UpdatedAt, g.ID,
	)
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

// Delete removes a gesture from the database by its ID.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
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
