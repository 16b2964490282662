package valueobjects

// HullColor is the fill/stroke pair used to paint a parent node's
// boundary hull. A parent keeps its color for its whole lifetime.
type HullColor struct {
	Fill   string `json:"fill"`
	Stroke string `json:"stroke"`
}

// IsZero checks if no color has been assigned yet.
func (c HullColor) IsZero() bool {
	return c.Fill == "" && c.Stroke == ""
}
