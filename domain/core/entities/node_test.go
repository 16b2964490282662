package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-backend/domain/core/valueobjects"
)

func TestNodeClone_IsDeep(t *testing.T) {
	parentID := valueobjects.ID(1)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	original := &Node{
		ID:         2,
		Title:      "Task",
		ParentID:   &parentID,
		ChildNodes: []valueobjects.ID{3, 4},
		HullPoints: []valueobjects.Point{{X: 1, Y: 2}},
		HullColor:  &valueobjects.HullColor{Fill: "f", Stroke: "s"},
		Day:        &day,
	}

	clone := original.Clone()
	clone.ChildNodes[0] = 99
	*clone.ParentID = 99
	clone.HullPoints[0].X = 99
	clone.HullColor.Fill = "mutated"
	*clone.Day = day.AddDate(1, 0, 0)

	assert.Equal(t, valueobjects.ID(3), original.ChildNodes[0])
	assert.Equal(t, valueobjects.ID(1), *original.ParentID)
	assert.Equal(t, 1.0, original.HullPoints[0].X)
	assert.Equal(t, "f", original.HullColor.Fill)
	assert.Equal(t, 2026, original.Day.Year())
}

func TestNodeUpdate_Apply(t *testing.T) {
	node := NewNode(1, "Old", 10, 20)
	title := "New"
	x := 50.0
	obsolete := true

	moved := NodeUpdate{Title: &title, X: &x, IsObsolete: &obsolete}.Apply(node)

	assert.True(t, moved)
	assert.Equal(t, "New", node.Title)
	assert.Equal(t, 50.0, node.X)
	assert.Equal(t, 20.0, node.Y)
	assert.True(t, node.IsObsolete)
}

func TestNodeUpdate_SamePositionIsNotAMove(t *testing.T) {
	node := NewNode(1, "N", 10, 20)
	x := 10.0
	y := 20.0

	moved := NodeUpdate{X: &x, Y: &y}.Apply(node)

	assert.False(t, moved)
}

func TestNodeUpdate_ClearDayWinsOverDay(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	node := NewNode(1, "N", 0, 0)
	require.False(t, NodeUpdate{Day: &day}.Apply(node))
	require.NotNil(t, node.Day)

	NodeUpdate{Day: &day, ClearDay: true}.Apply(node)

	assert.Nil(t, node.Day)
}

func TestEdgeUpdate_Apply(t *testing.T) {
	edge := NewEdge(1, 2, 3, "depends")
	require.True(t, edge.IsPlanned)
	title := "verified"
	planned := false

	EdgeUpdate{Title: &title, IsPlanned: &planned}.Apply(edge)

	assert.Equal(t, "verified", edge.Title)
	assert.False(t, edge.IsPlanned)
}

func TestEdgeTouches(t *testing.T) {
	edge := NewEdge(1, 2, 3, "")

	assert.True(t, edge.Touches(2))
	assert.True(t, edge.Touches(3))
	assert.False(t, edge.Touches(4))
}
