// Package geometry computes the convex boundary hulls drawn around
// parent nodes and their children. Everything here is pure and
// deterministic, so hulls can be recomputed speculatively during drag
// previews without side effects.
package geometry

import (
	"math"
	"sort"

	"planner-backend/domain/core/valueobjects"
)

// NodeRadius is the render radius of a node in canvas units. Hull
// padding is derived from it so the boundary clears the node circles.
const NodeRadius = 40.0

// HullPadding is the clearance between a member node's center and the
// hull boundary.
const HullPadding = 2 * NodeRadius

// ComputeHull returns the convex boundary polygon enclosing the parent
// position and every child position, padded by HullPadding. When the
// input is degenerate (fewer than three distinct hull vertices after
// expansion), it falls back to an eight-point circle approximation
// centered on the parent.
func ComputeHull(parent valueobjects.Point, children []valueobjects.Point) []valueobjects.Point {
	points := make([]valueobjects.Point, 0, (len(children)+1)*4)
	for _, p := range append([]valueobjects.Point{parent}, children...) {
		// Four axis-aligned padding corners per member point.
		points = append(points,
			valueobjects.NewPoint(p.X-HullPadding, p.Y),
			valueobjects.NewPoint(p.X+HullPadding, p.Y),
			valueobjects.NewPoint(p.X, p.Y-HullPadding),
			valueobjects.NewPoint(p.X, p.Y+HullPadding),
		)
	}

	hull := convexHull(points)
	if len(hull) < 3 {
		return circlePolygon(parent, HullPadding, 8)
	}
	return hull
}

// convexHull computes the convex hull of a point set with Andrew's
// monotone chain. Duplicate and collinear points are handled; the
// result is ordered counter-clockwise and deterministic for a given
// input set regardless of input order.
func convexHull(points []valueobjects.Point) []valueobjects.Point {
	pts := append([]valueobjects.Point{}, points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// Drop exact duplicates so degenerate inputs collapse cleanly.
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || !p.Equals(pts[i-1]) {
			uniq = append(uniq, p)
		}
	}
	pts = uniq

	if len(pts) < 3 {
		return append([]valueobjects.Point{}, pts...)
	}

	var lower, upper []valueobjects.Point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// Each chain's last point is the first point of the other chain.
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// cross returns the z component of (b-a) x (c-a). Positive means the
// three points turn counter-clockwise.
func cross(a, b, c valueobjects.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// circlePolygon approximates a circle as a regular polygon.
func circlePolygon(center valueobjects.Point, radius float64, segments int) []valueobjects.Point {
	poly := make([]valueobjects.Point, 0, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		poly = append(poly, valueobjects.NewPoint(
			center.X+radius*math.Cos(angle),
			center.Y+radius*math.Sin(angle),
		))
	}
	return poly
}
