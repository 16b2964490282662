package aggregates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/valueobjects"
)

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	g := newTestGraph()
	root := g.AddNode("Root", 0, 0)
	child := g.AddSubnode("Task", root.ID)
	other := g.AddNode("Other", 500, 0)
	g.AddEdge(child.ID, other.ID, "feeds into")
	start := "2026-09-01"
	g.SetTimeline(true, &start)

	snapshot := g.Snapshot()

	restored := newTestGraph()
	restored.Restore(snapshot)

	assert.Equal(t, snapshot, restored.Snapshot())
	assert.True(t, restored.IsExpanded(root.ID))
	keptChild, ok := restored.Node(child.ID)
	require.True(t, ok)
	assert.Equal(t, root.ID, *keptChild.ParentID)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	g := newTestGraph()
	node := g.AddNode("A", 0, 0)

	snapshot := g.Snapshot()
	snapshot.Nodes[0].Title = "mutated"

	assert.Equal(t, "A", node.Title)
}

func TestGraphData_JSONPreservesEmptyValues(t *testing.T) {
	g := newTestGraph()
	g.AddNode("Ünïcodé título 日本語", 1.5, -2.25)

	raw, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	// childNodes must serialize as [] on leaves, never null.
	assert.Contains(t, string(raw), `"childNodes":[]`)

	var decoded GraphData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Nodes, 1)
	assert.Equal(t, "Ünïcodé título 日本語", decoded.Nodes[0].Title)
	assert.Equal(t, "", decoded.Nodes[0].Description)
	assert.NotNil(t, decoded.Nodes[0].ChildNodes)
}

func TestRestore_RepairsDanglingChildReferences(t *testing.T) {
	g := newTestGraph()
	parentID := valueobjects.ID(1)
	data := GraphData{
		Nodes: []*entities.Node{
			{
				ID:         parentID,
				Title:      "Parent",
				ChildNodes: []valueobjects.ID{2, 99}, // 99 never existed
				IsExpanded: true,
			},
			{ID: 2, Title: "Child"},
		},
	}

	g.Restore(data)

	parent, ok := g.Node(parentID)
	require.True(t, ok)
	assert.Equal(t, []valueobjects.ID{2}, parent.ChildNodes)
	child, _ := g.Node(valueobjects.ID(2))
	assert.Equal(t, parentID, *child.ParentID)
	assert.True(t, g.IsExpanded(parentID))
}

func TestRestore_RepairsOrphanedParentLinks(t *testing.T) {
	g := newTestGraph()
	missing := valueobjects.ID(42)
	known := valueobjects.ID(1)
	data := GraphData{
		Nodes: []*entities.Node{
			{ID: known, Title: "Parent"},
			{ID: 2, Title: "Listed nowhere", ParentID: &known},
			{ID: 3, Title: "Orphan", ParentID: &missing},
		},
	}

	g.Restore(data)

	parent, _ := g.Node(known)
	assert.Equal(t, []valueobjects.ID{2}, parent.ChildNodes)
	orphan, _ := g.Node(valueobjects.ID(3))
	assert.Nil(t, orphan.ParentID)
}

func TestRestore_DropsExpandedLeaves(t *testing.T) {
	g := newTestGraph()
	data := GraphData{
		Nodes: []*entities.Node{
			{ID: 1, Title: "Leaf", IsExpanded: true},
		},
		ExpandedNodes: []valueobjects.ID{1},
	}

	g.Restore(data)

	leaf, _ := g.Node(valueobjects.ID(1))
	assert.False(t, leaf.IsExpanded)
	assert.False(t, g.IsExpanded(valueobjects.ID(1)))
}
