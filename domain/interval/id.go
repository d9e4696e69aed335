package interval

import "github.com/google/uuid"

// RunID identifies one estimation run.
type RunID string

// NewRunID creates a time-ordered identifier using UUID v7, falling back
// to v4 if v7 generation fails.
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

// String returns the string representation.
func (id RunID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty.
func (id RunID) IsEmpty() bool {
	return id == ""
}
