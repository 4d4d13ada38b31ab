package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID      ID
	ColumnName string
)

func (id RunID) String() string { return ID(id).String() }
func (n ColumnName) String() string { return string(n) }

// Quoted returns the name wrapped in single quotes, the convention used by
// generated questions to reference columns.
func (n ColumnName) Quoted() string { return "'" + string(n) + "'" }

func (n ColumnName) IsEmpty() bool { return strings.TrimSpace(string(n)) == "" }

// ParseColumnName parses a string into ColumnName
func ParseColumnName(s string) (ColumnName, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("column name cannot be empty")
	}
	return ColumnName(s), nil
}
