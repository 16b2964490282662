package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/geometry"
	"planner-backend/domain/core/valueobjects"
)

type seqIDs struct {
	next int
}

func (s *seqIDs) NextID() valueobjects.ID {
	s.next++
	return valueobjects.ID(s.next)
}

func newTestGraph() *Graph {
	return NewGraph(&seqIDs{}, geometry.NewPalette())
}

func TestAddNode(t *testing.T) {
	g := newTestGraph()

	first := g.AddNode("Literature review", 10, 20)
	second := g.AddNode("Experiment design", 30, 40)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, valueobjects.ID(1), first.ID)
	assert.Equal(t, valueobjects.ID(2), second.ID)
	assert.Equal(t, 10.0, first.X)
	assert.NotNil(t, first.ChildNodes)
	assert.Empty(t, first.ChildNodes)
	assert.False(t, first.IsObsolete)
}

func TestAddNode_EmptyTitleIsNoOp(t *testing.T) {
	g := newTestGraph()

	assert.Nil(t, g.AddNode("", 0, 0))
	assert.Nil(t, g.AddNode("   ", 0, 0))
	assert.Equal(t, 0, g.NodeCount())
}

func TestAddEdge_RejectsSelfLoop(t *testing.T) {
	g := newTestGraph()
	n := g.AddNode("A", 0, 0)

	assert.Nil(t, g.AddEdge(n.ID, n.ID, "loop"))
	assert.Equal(t, 0, g.EdgeCount())
}

func TestAddEdge_SharesIDSequenceWithNodes(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 100, 0)

	edge := g.AddEdge(a.ID, b.ID, "depends on")

	require.NotNil(t, edge)
	assert.Equal(t, valueobjects.ID(3), edge.ID)
	assert.True(t, edge.IsPlanned)
}

func TestDeleteNode_CascadesEdges(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 100, 0)
	c := g.AddNode("C", 200, 0)
	g.AddEdge(a.ID, b.ID, "")
	g.AddEdge(b.ID, c.ID, "")
	survivor := g.AddEdge(a.ID, c.ID, "")

	g.DeleteNode(b.ID)

	_, exists := g.Node(b.ID)
	assert.False(t, exists)
	assert.Equal(t, 1, g.EdgeCount())
	_, exists = g.Edge(survivor.ID)
	assert.True(t, exists)
}

func TestDeleteNode_PromotesChildrenToRoots(t *testing.T) {
	g := newTestGraph()
	parent := g.AddNode("Phase", 0, 0)
	child := g.AddSubnode("Task", parent.ID)
	require.NotNil(t, child)

	g.DeleteNode(parent.ID)

	kept, exists := g.Node(child.ID)
	require.True(t, exists)
	assert.Nil(t, kept.ParentID)
	assert.True(t, kept.IsRoot())
}

func TestDeleteNode_UnlinksFromParent(t *testing.T) {
	g := newTestGraph()
	parent := g.AddNode("Phase", 0, 0)
	a := g.AddSubnode("A", parent.ID)
	b := g.AddSubnode("B", parent.ID)

	g.DeleteNode(a.ID)

	assert.Equal(t, []valueobjects.ID{b.ID}, parent.ChildNodes)

	// Removing the last child drops the hull and the expanded state.
	g.DeleteNode(b.ID)
	assert.Empty(t, parent.ChildNodes)
	assert.Nil(t, parent.HullPoints)
	assert.False(t, g.IsExpanded(parent.ID))
}

func TestUpdateNode_MoveRefreshesParentHull(t *testing.T) {
	g := newTestGraph()
	parent := g.AddNode("Phase", 0, 0)
	child := g.AddSubnode("Task", parent.ID)
	before := append([]valueobjects.Point{}, parent.HullPoints...)

	x := 500.0
	g.UpdateNode(child.ID, entities.NodeUpdate{X: &x})

	assert.NotEqual(t, before, parent.HullPoints)
}

func TestUpdateNode_UnknownIDIsNoOp(t *testing.T) {
	g := newTestGraph()
	title := "ghost"
	g.UpdateNode(valueobjects.ID(99), entities.NodeUpdate{Title: &title})
	assert.Equal(t, 0, g.NodeCount())
}

func TestMarkNodeObsolete_PropagatesDownstream(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 100, 0)
	c := g.AddNode("C", 200, 0)
	d := g.AddNode("D", 300, 0)
	e := g.AddNode("E", 400, 0)
	ab := g.AddEdge(a.ID, b.ID, "")
	bc := g.AddEdge(b.ID, c.ID, "")
	cd := g.AddEdge(c.ID, d.ID, "")
	// E points INTO the chain; it must not be affected, but its edge
	// touches the reachable set and flips with it.
	eb := g.AddEdge(e.ID, b.ID, "")

	g.MarkNodeObsolete(b.ID)

	assert.False(t, a.IsObsolete)
	assert.True(t, b.IsObsolete)
	assert.True(t, c.IsObsolete)
	assert.True(t, d.IsObsolete)
	assert.False(t, e.IsObsolete)
	assert.True(t, ab.IsObsolete)
	assert.True(t, bc.IsObsolete)
	assert.True(t, cd.IsObsolete)
	assert.True(t, eb.IsObsolete)
}

func TestMarkNodeObsolete_ToggleRestores(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 100, 0)
	edge := g.AddEdge(a.ID, b.ID, "")

	g.MarkNodeObsolete(a.ID)
	g.MarkNodeObsolete(a.ID)

	assert.False(t, a.IsObsolete)
	assert.False(t, b.IsObsolete)
	assert.False(t, edge.IsObsolete)
}

func TestMarkNodeObsolete_SurvivesEdgeCycles(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 100, 0)
	g.AddEdge(a.ID, b.ID, "")
	g.AddEdge(b.ID, a.ID, "")

	g.MarkNodeObsolete(a.ID)

	assert.True(t, a.IsObsolete)
	assert.True(t, b.IsObsolete)
}

func TestAddSubnode(t *testing.T) {
	g := newTestGraph()
	parent := g.AddNode("Phase", 100, 100)

	first := g.AddSubnode("Task 1", parent.ID)
	second := g.AddSubnode("Task 2", parent.ID)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, parent.ID, *first.ParentID)
	assert.Equal(t, []valueobjects.ID{first.ID, second.ID}, parent.ChildNodes)

	// Subnodes fan out below the parent in insertion order.
	assert.Equal(t, parent.Y+subnodeOffsetY, first.Y)
	assert.Equal(t, parent.X, first.X)
	assert.Equal(t, parent.X+subnodeSpacingX, second.X)

	assert.True(t, g.IsExpanded(parent.ID))
	assert.True(t, len(parent.HullPoints) >= 3)
	require.NotNil(t, parent.HullColor)
	assert.False(t, parent.HullColor.IsZero())
}

func TestAddSubnode_UnknownParentIsNoOp(t *testing.T) {
	g := newTestGraph()
	assert.Nil(t, g.AddSubnode("orphan", valueobjects.ID(42)))
}

func TestCollapseToParent(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 100, 0)
	c := g.AddNode("C", 200, 300)

	parent := g.CollapseToParent("Group", []valueobjects.ID{a.ID, b.ID, c.ID})

	require.NotNil(t, parent)
	assert.Equal(t, 100.0, parent.X)
	assert.Equal(t, 100.0, parent.Y)
	assert.ElementsMatch(t, []valueobjects.ID{a.ID, b.ID, c.ID}, parent.ChildNodes)
	assert.Equal(t, parent.ID, *a.ParentID)
	assert.True(t, g.IsExpanded(parent.ID))
	assert.NotNil(t, parent.HullColor)
}

func TestCollapseToParent_NeedsAtLeastTwoExistingNodes(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)

	// The second id does not resolve, leaving a single member.
	assert.Nil(t, g.CollapseToParent("Group", []valueobjects.ID{a.ID, valueobjects.ID(99)}))
	assert.Nil(t, g.CollapseToParent("Group", []valueobjects.ID{a.ID}))
	assert.Nil(t, g.CollapseToParent("", []valueobjects.ID{a.ID, a.ID}))
}

func TestNestNode(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 100, 0)

	require.True(t, g.NestNode(b.ID, a.ID))

	assert.Equal(t, a.ID, *b.ParentID)
	assert.Equal(t, []valueobjects.ID{b.ID}, a.ChildNodes)
	assert.True(t, g.IsExpanded(a.ID))
}

func TestNestNode_RejectsCycles(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 100, 0)
	c := g.AddNode("C", 200, 0)
	require.True(t, g.NestNode(b.ID, a.ID))
	require.True(t, g.NestNode(c.ID, b.ID))

	// a -> b -> c; nesting a under its grandchild would close a cycle.
	assert.False(t, g.NestNode(a.ID, c.ID))
	assert.False(t, g.NestNode(a.ID, b.ID))
	assert.False(t, g.NestNode(a.ID, a.ID))
	assert.Nil(t, a.ParentID)
}

func TestNestNode_MoveBetweenParents(t *testing.T) {
	g := newTestGraph()
	first := g.AddNode("First", 0, 0)
	second := g.AddNode("Second", 500, 0)
	child := g.AddSubnode("Task", first.ID)

	require.True(t, g.NestNode(child.ID, second.ID))

	assert.Equal(t, second.ID, *child.ParentID)
	assert.Empty(t, first.ChildNodes)
	assert.Equal(t, []valueobjects.ID{child.ID}, second.ChildNodes)
	// First lost its only child, so its hull is gone.
	assert.Nil(t, first.HullPoints)
}

func TestNestNode_RepeatedNestDoesNotDuplicateChild(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 100, 0)

	require.True(t, g.NestNode(b.ID, a.ID))
	require.True(t, g.NestNode(b.ID, a.ID))

	assert.Equal(t, []valueobjects.ID{b.ID}, a.ChildNodes)
}

func TestToggleExpand_CollapseRecurses(t *testing.T) {
	g := newTestGraph()
	root := g.AddNode("Root", 0, 0)
	mid := g.AddSubnode("Mid", root.ID)
	g.AddSubnode("Leaf", mid.ID)
	require.True(t, g.IsExpanded(root.ID))
	require.True(t, g.IsExpanded(mid.ID))

	g.ToggleExpand(root.ID, false)

	assert.False(t, g.IsExpanded(root.ID))
	assert.False(t, g.IsExpanded(mid.ID))

	// Re-expanding the root does not auto-reveal grandchildren.
	g.ToggleExpand(root.ID, true)
	assert.True(t, g.IsExpanded(root.ID))
	assert.False(t, g.IsExpanded(mid.ID))
}

func TestToggleExpand_LeafIsNoOp(t *testing.T) {
	g := newTestGraph()
	leaf := g.AddNode("Leaf", 0, 0)

	g.ToggleExpand(leaf.ID, true)

	assert.False(t, g.IsExpanded(leaf.ID))
	assert.False(t, leaf.IsExpanded)
}

func TestDescendantIDs(t *testing.T) {
	g := newTestGraph()
	root := g.AddNode("Root", 0, 0)
	a := g.AddSubnode("A", root.ID)
	b := g.AddSubnode("B", root.ID)
	leaf := g.AddSubnode("Leaf", a.ID)

	descendants := g.DescendantIDs(root.ID)

	assert.ElementsMatch(t, []valueobjects.ID{a.ID, b.ID, leaf.ID}, descendants)
	assert.Empty(t, g.DescendantIDs(leaf.ID))
	assert.Nil(t, g.DescendantIDs(valueobjects.ID(99)))
}

func TestRecomputeHull_WithOverrides(t *testing.T) {
	g := newTestGraph()
	parent := g.AddNode("Phase", 0, 0)
	child := g.AddSubnode("Task", parent.ID)
	committed := append([]valueobjects.Point{}, parent.HullPoints...)

	g.RecomputeHull(parent.ID, map[valueobjects.ID]valueobjects.Point{
		child.ID: valueobjects.NewPoint(1000, 1000),
	})
	assert.NotEqual(t, committed, parent.HullPoints)

	// Without overrides the hull reflects the stored positions again.
	g.RecomputeHull(parent.ID, nil)
	assert.Equal(t, committed, parent.HullPoints)
}

func TestSetTimeline(t *testing.T) {
	g := newTestGraph()
	start := "2026-09-01"

	g.SetTimeline(true, &start)

	active, date := g.Timeline()
	assert.True(t, active)
	require.NotNil(t, date)
	assert.Equal(t, "2026-09-01", *date)
}
