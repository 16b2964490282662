package aggregates

import (
	"sort"

	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/valueobjects"
)

// GraphData is the exchange form of a graph: the exact shape written
// to the local store and to exported files, and returned by the API.
// Empty strings and empty child lists survive a round trip unchanged.
type GraphData struct {
	Nodes             []*entities.Node  `json:"nodes"`
	Edges             []*entities.Edge  `json:"edges"`
	TimelineActive    bool              `json:"timelineActive,omitempty"`
	TimelineStartDate *string           `json:"timelineStartDate,omitempty"`
	ExpandedNodes     []valueobjects.ID `json:"expandedNodes,omitempty"`
}

// IsEmpty reports whether the data holds no nodes and no edges.
func (d GraphData) IsEmpty() bool {
	return len(d.Nodes) == 0 && len(d.Edges) == 0
}

// Snapshot returns a deep copy of the graph in exchange form, ordered
// by id so output is stable.
func (g *Graph) Snapshot() GraphData {
	data := GraphData{
		Nodes:          make([]*entities.Node, 0, len(g.nodes)),
		Edges:          make([]*entities.Edge, 0, len(g.edges)),
		TimelineActive: g.timelineActive,
	}
	for _, n := range g.Nodes() {
		data.Nodes = append(data.Nodes, n.Clone())
	}
	for _, e := range g.Edges() {
		data.Edges = append(data.Edges, e.Clone())
	}
	if g.timelineStartDate != nil {
		s := *g.timelineStartDate
		data.TimelineStartDate = &s
	}
	if len(g.expanded) > 0 {
		data.ExpandedNodes = make([]valueobjects.ID, 0, len(g.expanded))
		for id := range g.expanded {
			data.ExpandedNodes = append(data.ExpandedNodes, id)
		}
		sort.Slice(data.ExpandedNodes, func(i, j int) bool {
			return data.ExpandedNodes[i] < data.ExpandedNodes[j]
		})
	}
	return data
}

// Restore replaces the graph's state with the given data. Loaded state
// is normalized rather than rejected: child lists are made non-nil,
// hierarchy links are repaired in both directions and expanded entries
// without children are dropped, so a hand-edited or older file still
// loads into a consistent graph.
func (g *Graph) Restore(data GraphData) {
	g.nodes = make(map[valueobjects.ID]*entities.Node, len(data.Nodes))
	g.edges = make(map[valueobjects.ID]*entities.Edge, len(data.Edges))
	g.expanded = make(map[valueobjects.ID]struct{})
	g.timelineActive = data.TimelineActive
	g.timelineStartDate = nil
	if data.TimelineStartDate != nil {
		s := *data.TimelineStartDate
		g.timelineStartDate = &s
	}

	for _, n := range data.Nodes {
		node := n.Clone()
		if node.ChildNodes == nil {
			node.ChildNodes = []valueobjects.ID{}
		}
		g.nodes[node.ID] = node
	}
	for _, e := range data.Edges {
		g.edges[e.ID] = e.Clone()
	}

	g.repairHierarchy()

	for _, id := range data.ExpandedNodes {
		if node, ok := g.nodes[id]; ok && node.HasChildren() {
			g.expand(node)
		}
	}
	// isExpanded flags stay authoritative when the expanded list was
	// absent from an older file.
	for _, node := range g.nodes {
		if node.IsExpanded && node.HasChildren() {
			g.expanded[node.ID] = struct{}{}
		}
		if !node.HasChildren() {
			node.IsExpanded = false
		}
	}
}

// repairHierarchy reconciles parentId and childNodes after a load:
// listed children get their parent link set, parent links without a
// matching list entry are re-listed, and references to missing nodes
// are dropped.
func (g *Graph) repairHierarchy() {
	for _, parent := range g.nodes {
		kept := parent.ChildNodes[:0]
		for _, childID := range parent.ChildNodes {
			child, ok := g.nodes[childID]
			if !ok || childID == parent.ID {
				continue
			}
			pid := parent.ID
			child.ParentID = &pid
			kept = append(kept, childID)
		}
		parent.ChildNodes = kept
	}
	for _, node := range g.nodes {
		if node.ParentID == nil {
			continue
		}
		parent, ok := g.nodes[*node.ParentID]
		if !ok {
			node.ParentID = nil
			continue
		}
		if !parent.HasChild(node.ID) {
			parent.ChildNodes = append(parent.ChildNodes, node.ID)
		}
	}
}
