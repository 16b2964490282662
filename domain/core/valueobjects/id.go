package valueobjects

import "strconv"

// ID is a value object identifying a node or an edge.
// Nodes and edges share a single ID namespace: the allocator never
// issues the same value for both entity kinds, even across restarts.
type ID int

// NewIDFromString parses a decimal ID, e.g. from a URL parameter.
func NewIDFromString(s string) (ID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return ID(n), nil
}

// Int returns the ID as a plain int.
func (id ID) Int() int {
	return int(id)
}

// String returns the decimal representation of the ID.
func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// IsZero checks if the ID is the zero value.
// Allocated IDs start at 1, so zero always means "unset".
func (id ID) IsZero() bool {
	return id == 0
}
