package classify

import (
	"encoding/json"
	"fmt"
)

// Model type tags. A persisted record carries exactly one of these; Import
// rejects a record whose tag does not match the receiving variant.
const (
	TypeKNN      = "knn"
	TypeLogistic = "logistic"
	TypeDTW      = "dtw-sequence"
)

// Model is the portable exported form of a fitted classifier. The params
// payload is variant-specific; storage treats the whole record as an opaque
// blob.
type Model struct {
	Type    string          `json:"type"`
	Classes []string        `json:"classes"`
	Params  json.RawMessage `json:"params"`
}

// Encode serializes the model record for storage.
func (m *Model) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return data, nil
}

// DecodeModel parses a stored model record. A structurally invalid blob is
// an error; callers treat it as "no model available".
func DecodeModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if m.Type == "" {
		return nil, fmt.Errorf("decode model: missing type tag")
	}
	return &m, nil
}
