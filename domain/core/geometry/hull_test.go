package geometry

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-backend/domain/core/valueobjects"
)

func TestComputeHull_SingleMemberIsPaddedDiamond(t *testing.T) {
	parent := valueobjects.NewPoint(100, 100)

	hull := ComputeHull(parent, nil)

	require.Len(t, hull, 4)
	for _, v := range hull {
		assert.InDelta(t, HullPadding, v.DistanceTo(parent), 1e-9)
	}
}

func TestComputeHull_ContainsAllMembersWithClearance(t *testing.T) {
	parent := valueobjects.NewPoint(0, 0)
	children := []valueobjects.Point{
		valueobjects.NewPoint(200, 50),
		valueobjects.NewPoint(-150, 300),
		valueobjects.NewPoint(80, -120),
	}

	hull := ComputeHull(parent, children)

	require.True(t, len(hull) >= 3)
	for _, member := range append([]valueobjects.Point{parent}, children...) {
		assert.True(t, containsPoint(hull, member), "hull must contain %v", member)
	}
}

func TestComputeHull_ResultIsConvex(t *testing.T) {
	parent := valueobjects.NewPoint(0, 0)
	children := []valueobjects.Point{
		valueobjects.NewPoint(300, 0),
		valueobjects.NewPoint(150, 250),
		valueobjects.NewPoint(-100, 100),
		valueobjects.NewPoint(150, 100), // interior, must not break convexity
	}

	hull := ComputeHull(parent, children)

	n := len(hull)
	require.True(t, n >= 3)
	for i := 0; i < n; i++ {
		turn := cross(hull[i], hull[(i+1)%n], hull[(i+2)%n])
		assert.True(t, turn > 0, "vertices must turn counter-clockwise at index %d", i)
	}
}

func TestComputeHull_DeterministicAcrossInputOrder(t *testing.T) {
	parent := valueobjects.NewPoint(10, 20)
	children := []valueobjects.Point{
		valueobjects.NewPoint(200, 50),
		valueobjects.NewPoint(-150, 300),
		valueobjects.NewPoint(80, -120),
		valueobjects.NewPoint(45, 45),
	}

	expected := ComputeHull(parent, children)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]valueobjects.Point{}, children...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, expected, ComputeHull(parent, shuffled))
	}
}

func TestComputeHull_CoincidentMembers(t *testing.T) {
	parent := valueobjects.NewPoint(5, 5)
	children := []valueobjects.Point{
		valueobjects.NewPoint(5, 5),
		valueobjects.NewPoint(5, 5),
	}

	hull := ComputeHull(parent, children)

	// Duplicates collapse; the result is still a valid polygon.
	require.Len(t, hull, 4)
}

func TestPalette_RotatesAndWraps(t *testing.T) {
	p := NewPalette()

	first := p.Next()
	seen := map[string]struct{}{first.Fill: {}}
	for i := 1; i < 8; i++ {
		c := p.Next()
		_, dup := seen[c.Fill]
		assert.False(t, dup, "color %d repeated before the rotation wrapped", i)
		seen[c.Fill] = struct{}{}
	}

	assert.Equal(t, first, p.Next())
}

// containsPoint reports whether p lies inside or on the CCW polygon.
func containsPoint(polygon []valueobjects.Point, p valueobjects.Point) bool {
	n := len(polygon)
	for i := 0; i < n; i++ {
		if cross(polygon[i], polygon[(i+1)%n], p) < 0 {
			return false
		}
	}
	return true
}
