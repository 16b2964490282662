package valueobjects

import "math"

// Point is an immutable position in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint creates a point at the given canvas coordinates.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Equals checks if two points are the same position.
func (p Point) Equals(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// DistanceTo returns the Euclidean distance to another point.
func (p Point) DistanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}
