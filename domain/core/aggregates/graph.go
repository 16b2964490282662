package aggregates

import (
	"sort"
	"strings"

	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/geometry"
	"planner-backend/domain/core/valueobjects"
)

// IDSource issues unique IDs shared across nodes and edges.
type IDSource interface {
	NextID() valueobjects.ID
}

// ColorSource hands out hull colors for new parent nodes.
type ColorSource interface {
	Next() valueobjects.HullColor
}

// Graph is the aggregate root owning the canonical node and edge
// collections, the parent/child hierarchy and the expanded-node set.
// Every mutation passes through it so the invariants hold after each
// operation:
//
//   - parentId and childNodes always agree in both directions
//   - the parent links form a forest (no node is its own ancestor)
//   - a node appears at most once in any childNodes list
//   - hull points exist only for nodes with at least one child and are
//     refreshed whenever membership or a member position changes
//   - an entry in the expanded set implies the node has children
//
// Validation failures are silent no-ops, not errors: the UI disables
// the controls that would trigger them, so the aggregate favors
// resilience over strictness.
//
// The aggregate itself is not safe for concurrent use; the application
// service serializes access.
type Graph struct {
	nodes    map[valueobjects.ID]*entities.Node
	edges    map[valueobjects.ID]*entities.Edge
	expanded map[valueobjects.ID]struct{}

	timelineActive    bool
	timelineStartDate *string // RFC 3339 date, opaque to the core

	ids    IDSource
	colors ColorSource
}

// Vertical gap between a parent and an added subnode, and horizontal
// spacing between consecutive subnodes.
const (
	subnodeOffsetY  = 140.0
	subnodeSpacingX = 110.0
)

// NewGraph creates an empty graph backed by the given allocators.
func NewGraph(ids IDSource, colors ColorSource) *Graph {
	return &Graph{
		nodes:    make(map[valueobjects.ID]*entities.Node),
		edges:    make(map[valueobjects.ID]*entities.Edge),
		expanded: make(map[valueobjects.ID]struct{}),
		ids:      ids,
		colors:   colors,
	}
}

// Node returns the node with the given id, if present.
func (g *Graph) Node(id valueobjects.ID) (*entities.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge with the given id, if present.
func (g *Graph) Edge(id valueobjects.ID) (*entities.Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// IsExpanded reports whether a parent's children are currently shown.
func (g *Graph) IsExpanded(id valueobjects.ID) bool {
	_, ok := g.expanded[id]
	return ok
}

// AddNode creates a root node. A title that trims to empty is a no-op
// and returns nil.
func (g *Graph) AddNode(title string, x, y float64) *entities.Node {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	node := entities.NewNode(g.ids.NextID(), title, x, y)
	g.nodes[node.ID] = node
	return node
}

// DeleteNode removes a node and cascades to every edge touching it.
// Children of the removed node are promoted to roots: their parent
// link is cleared rather than left dangling. Unknown ids are ignored.
func (g *Graph) DeleteNode(id valueobjects.ID) {
	node, ok := g.nodes[id]
	if !ok {
		return
	}

	for edgeID, edge := range g.edges {
		if edge.Touches(id) {
			delete(g.edges, edgeID)
		}
	}

	// Promote children before dropping the node itself.
	for _, childID := range append([]valueobjects.ID{}, node.ChildNodes...) {
		if child, ok := g.nodes[childID]; ok {
			child.ParentID = nil
		}
	}

	if node.ParentID != nil {
		if parent, ok := g.nodes[*node.ParentID]; ok {
			g.unlinkChild(parent, node)
		}
	}

	delete(g.expanded, id)
	delete(g.nodes, id)
}

// UpdateNode shallow-merges a partial update. Unknown ids are silently
// ignored. A position change refreshes the node's own hull and its
// parent's hull.
func (g *Graph) UpdateNode(id valueobjects.ID, update entities.NodeUpdate) {
	node, ok := g.nodes[id]
	if !ok {
		return
	}
	if moved := update.Apply(node); moved {
		g.refreshHull(node.ID)
		if node.ParentID != nil {
			g.refreshHull(*node.ParentID)
		}
	}
}

// AddEdge creates a planned edge from source to target. Self-loops are
// rejected (nil). Dangling node references are allowed by design: they
// are not an error at creation time, the edge just does not render.
func (g *Graph) AddEdge(source, target valueobjects.ID, title string) *entities.Edge {
	if source == target {
		return nil
	}
	edge := entities.NewEdge(g.ids.NextID(), source, target, title)
	g.edges[edge.ID] = edge
	return edge
}

// UpdateEdge shallow-merges a partial edge update; unknown ids are
// silently ignored.
func (g *Graph) UpdateEdge(id valueobjects.ID, update entities.EdgeUpdate) {
	if edge, ok := g.edges[id]; ok {
		update.Apply(edge)
	}
}

// DeleteEdge removes an edge. Unknown ids are ignored.
func (g *Graph) DeleteEdge(id valueobjects.ID) {
	delete(g.edges, id)
}

// MarkNodeObsolete toggles a node's obsolete flag and propagates the
// new value downstream: a BFS along outgoing edges collects every node
// reachable from id, then the exact toggled boolean is applied to each
// reachable node and to every edge whose source or target lies in the
// reachable set. Calling it twice restores the original state. Unknown
// ids are ignored.
func (g *Graph) MarkNodeObsolete(id valueobjects.ID) {
	origin, ok := g.nodes[id]
	if !ok {
		return
	}
	value := !origin.IsObsolete

	reachable := map[valueobjects.ID]struct{}{id: {}}
	queue := []valueobjects.ID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, edge := range g.edges {
			if edge.Source != current {
				continue
			}
			if _, seen := reachable[edge.Target]; seen {
				continue
			}
			if _, exists := g.nodes[edge.Target]; !exists {
				continue
			}
			reachable[edge.Target] = struct{}{}
			queue = append(queue, edge.Target)
		}
	}

	for nodeID := range reachable {
		g.nodes[nodeID].IsObsolete = value
	}
	for _, edge := range g.edges {
		_, s := reachable[edge.Source]
		_, t := reachable[edge.Target]
		if s || t {
			edge.IsObsolete = value
		}
	}
}

// AddSubnode creates a child under parentID, links both sides of the
// hierarchy, expands the parent and refreshes its hull over all
// current children. An empty title or unknown parent is a no-op.
func (g *Graph) AddSubnode(title string, parentID valueobjects.ID) *entities.Node {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	parent, ok := g.nodes[parentID]
	if !ok {
		return nil
	}

	// Fan new subnodes out below the parent in insertion order.
	offset := float64(len(parent.ChildNodes)) * subnodeSpacingX
	child := entities.NewNode(g.ids.NextID(), title, parent.X+offset, parent.Y+subnodeOffsetY)
	g.nodes[child.ID] = child

	g.linkChild(parent, child)
	g.expand(parent)
	g.refreshHull(parent.ID)
	g.ensureHullColor(parent)
	return child
}

// CollapseToParent groups the given nodes under a newly created parent
// positioned at their arithmetic mean. Requires more than one node and
// a non-empty title; ids that do not resolve are dropped from the
// selection first. Returns the new parent, or nil when the call is a
// no-op.
func (g *Graph) CollapseToParent(title string, nodeIDs []valueobjects.ID) *entities.Node {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	members := make([]*entities.Node, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if n, ok := g.nodes[id]; ok {
			members = append(members, n)
		}
	}
	if len(members) <= 1 {
		return nil
	}

	var sumX, sumY float64
	for _, m := range members {
		sumX += m.X
		sumY += m.Y
	}
	mean := float64(len(members))
	parent := entities.NewNode(g.ids.NextID(), title, sumX/mean, sumY/mean)
	g.nodes[parent.ID] = parent

	for _, m := range members {
		g.linkChild(parent, m)
	}
	g.expand(parent)
	g.refreshHull(parent.ID)
	g.ensureHullColor(parent)
	return parent
}

// NestNode nests sourceID under targetID, the drop-to-nest operation.
// The call is a no-op when either node is missing, when source and
// target are the same node, or when target sits anywhere in source's
// descendant subtree (the nest would make source its own ancestor).
// Nesting an already nested node moves it to the new parent.
func (g *Graph) NestNode(sourceID, targetID valueobjects.ID) bool {
	source, ok := g.nodes[sourceID]
	if !ok {
		return false
	}
	target, ok := g.nodes[targetID]
	if !ok {
		return false
	}
	if sourceID == targetID {
		return false
	}
	for _, descID := range g.DescendantIDs(sourceID) {
		if descID == targetID {
			return false
		}
	}

	g.linkChild(target, source)
	g.expand(target)
	g.refreshHull(target.ID)
	g.ensureHullColor(target)
	return true
}

// ToggleExpand shows or hides a parent's children. Collapsing also
// collapses every descendant, so re-expanding the parent later does
// not auto-reveal grandchildren that were hidden before. Nodes without
// children are ignored.
func (g *Graph) ToggleExpand(id valueobjects.ID, isExpanded bool) {
	node, ok := g.nodes[id]
	if !ok || !node.HasChildren() {
		return
	}
	if isExpanded {
		g.expand(node)
		return
	}
	g.collapse(node)
	for _, descID := range g.DescendantIDs(id) {
		if desc, ok := g.nodes[descID]; ok && desc.HasChildren() {
			g.collapse(desc)
		}
	}
}

// DescendantIDs returns every node in the subtree below id, walked
// depth-first over childNodes. The id itself is not included.
func (g *Graph) DescendantIDs(id valueobjects.ID) []valueobjects.ID {
	node, ok := g.nodes[id]
	if !ok {
		return nil
	}

	var result []valueobjects.ID
	seen := map[valueobjects.ID]struct{}{id: {}}
	stack := append([]valueobjects.ID{}, node.ChildNodes...)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, dup := seen[current]; dup {
			continue
		}
		seen[current] = struct{}{}
		result = append(result, current)
		if child, ok := g.nodes[current]; ok {
			stack = append(stack, child.ChildNodes...)
		}
	}
	return result
}

// RecomputeHull refreshes a parent's hull, optionally overriding
// member positions with in-flight drag coordinates that have not been
// committed yet.
func (g *Graph) RecomputeHull(parentID valueobjects.ID, overrides map[valueobjects.ID]valueobjects.Point) {
	parent, ok := g.nodes[parentID]
	if !ok || !parent.HasChildren() {
		return
	}

	position := func(n *entities.Node) valueobjects.Point {
		if p, ok := overrides[n.ID]; ok {
			return p
		}
		return n.Position()
	}

	children := make([]valueobjects.Point, 0, len(parent.ChildNodes))
	for _, childID := range parent.ChildNodes {
		if child, ok := g.nodes[childID]; ok {
			children = append(children, position(child))
		}
	}
	parent.HullPoints = geometry.ComputeHull(position(parent), children)
}

// SetTimeline updates the timeline flags carried alongside the graph.
func (g *Graph) SetTimeline(active bool, startDate *string) {
	g.timelineActive = active
	g.timelineStartDate = startDate
}

// Timeline returns the timeline flags.
func (g *Graph) Timeline() (bool, *string) {
	return g.timelineActive, g.timelineStartDate
}

// hierarchy link maintenance
//
// linkChild and unlinkChild are the only places that touch parentId
// and childNodes, so the bidirectional invariant cannot drift between
// call sites.

func (g *Graph) linkChild(parent, child *entities.Node) {
	if child.ParentID != nil && *child.ParentID != parent.ID {
		if previous, ok := g.nodes[*child.ParentID]; ok {
			g.unlinkChild(previous, child)
		}
	}
	pid := parent.ID
	child.ParentID = &pid
	if !parent.HasChild(child.ID) {
		parent.ChildNodes = append(parent.ChildNodes, child.ID)
	}
}

func (g *Graph) unlinkChild(parent, child *entities.Node) {
	kept := parent.ChildNodes[:0]
	for _, id := range parent.ChildNodes {
		if id != child.ID {
			kept = append(kept, id)
		}
	}
	parent.ChildNodes = kept
	child.ParentID = nil

	if parent.HasChildren() {
		g.refreshHull(parent.ID)
		return
	}
	parent.HullPoints = nil
	g.collapse(parent)
}

func (g *Graph) expand(node *entities.Node) {
	node.IsExpanded = true
	g.expanded[node.ID] = struct{}{}
}

func (g *Graph) collapse(node *entities.Node) {
	node.IsExpanded = false
	delete(g.expanded, node.ID)
}

func (g *Graph) refreshHull(id valueobjects.ID) {
	g.RecomputeHull(id, nil)
}

func (g *Graph) ensureHullColor(node *entities.Node) {
	if node.HullColor == nil || node.HullColor.IsZero() {
		c := g.colors.Next()
		node.HullColor = &c
	}
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// Edges returns all edges ordered by id.
func (g *Graph) Edges() []*entities.Edge {
	edges := make([]*entities.Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges
}

// AllIDs returns every node and edge id, used to seed the allocator
// after a load.
func (g *Graph) AllIDs() []valueobjects.ID {
	ids := make([]valueobjects.ID, 0, len(g.nodes)+len(g.edges))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	for id := range g.edges {
		ids = append(ids, id)
	}
	return ids
}
