package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"planner-backend/application/ports"
	"planner-backend/domain/core/aggregates"
	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/valueobjects"
	"planner-backend/pkg/ids"
)

// GraphService orchestrates every graph mutation: it serializes access
// to the aggregate, so each operation runs to completion before the
// next one starts (the equivalent of the UI's single-threaded event
// loop), and commits an auto-save after each mutation. Saves are
// best-effort: failures are logged and never surfaced to the mutation
// caller.
type GraphService struct {
	mu     sync.Mutex
	graph  *aggregates.Graph
	repo   ports.GraphRepository
	alloc  *ids.Allocator
	logger *zap.Logger
}

// NewGraphService creates the service around an aggregate.
func NewGraphService(
	graph *aggregates.Graph,
	repo ports.GraphRepository,
	alloc *ids.Allocator,
	logger *zap.Logger,
) *GraphService {
	return &GraphService{
		graph:  graph,
		repo:   repo,
		alloc:  alloc,
		logger: logger,
	}
}

// Initialize loads the persisted graph, if any, and raises the id
// allocator above every id seen in it. A missing or unreadable store
// starts an empty graph.
func (s *GraphService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		s.logger.Info("no persisted graph, starting empty")
		return nil
	}
	s.graph.Restore(*data)
	s.alloc.Seed(s.graph.AllIDs())
	s.logger.Info("graph loaded",
		zap.Int("nodes", s.graph.NodeCount()),
		zap.Int("edges", s.graph.EdgeCount()),
	)
	return nil
}

// Snapshot returns a deep copy of the current graph.
func (s *GraphService) Snapshot() aggregates.GraphData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Snapshot()
}

// Replace swaps in a whole graph, e.g. from an imported file.
func (s *GraphService) Replace(ctx context.Context, data aggregates.GraphData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.Restore(data)
	s.alloc.Seed(s.graph.AllIDs())
	s.autoSave(ctx)
}

// Node returns a copy of the node with the given id.
func (s *GraphService) Node(id valueobjects.ID) (*entities.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, ok := s.graph.Node(id)
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

// Edge returns a copy of the edge with the given id.
func (s *GraphService) Edge(id valueobjects.ID) (*entities.Edge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edge, ok := s.graph.Edge(id)
	if !ok {
		return nil, false
	}
	return edge.Clone(), true
}

// AddNode creates a root node; nil when the title trims to empty.
func (s *GraphService) AddNode(ctx context.Context, title string, x, y float64) *entities.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.graph.AddNode(title, x, y)
	if node == nil {
		return nil
	}
	s.autoSave(ctx)
	return node.Clone()
}

// DeleteNode removes a node with edge cascade.
func (s *GraphService) DeleteNode(ctx context.Context, id valueobjects.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.DeleteNode(id)
	s.autoSave(ctx)
}

// DeleteNodes removes several nodes in one committed mutation, used by
// the selection delete command.
func (s *GraphService) DeleteNodes(ctx context.Context, nodeIDs []valueobjects.ID) {
	if len(nodeIDs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range nodeIDs {
		s.graph.DeleteNode(id)
	}
	s.autoSave(ctx)
}

// UpdateNode applies a partial node update.
func (s *GraphService) UpdateNode(ctx context.Context, id valueobjects.ID, update entities.NodeUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.UpdateNode(id, update)
	s.autoSave(ctx)
}

// AddEdge creates an edge; nil for a rejected self-loop.
func (s *GraphService) AddEdge(ctx context.Context, source, target valueobjects.ID, title string) *entities.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	edge := s.graph.AddEdge(source, target, title)
	if edge == nil {
		return nil
	}
	s.autoSave(ctx)
	return edge.Clone()
}

// UpdateEdge applies a partial edge update.
func (s *GraphService) UpdateEdge(ctx context.Context, id valueobjects.ID, update entities.EdgeUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.UpdateEdge(id, update)
	s.autoSave(ctx)
}

// DeleteEdge removes an edge.
func (s *GraphService) DeleteEdge(ctx context.Context, id valueobjects.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.DeleteEdge(id)
	s.autoSave(ctx)
}

// MarkNodeObsolete toggles a node's obsolete flag with downstream
// propagation.
func (s *GraphService) MarkNodeObsolete(ctx context.Context, id valueobjects.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.MarkNodeObsolete(id)
	s.autoSave(ctx)
}

// AddSubnode creates a child under parentID.
func (s *GraphService) AddSubnode(ctx context.Context, title string, parentID valueobjects.ID) *entities.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	child := s.graph.AddSubnode(title, parentID)
	if child == nil {
		return nil
	}
	s.autoSave(ctx)
	return child.Clone()
}

// CollapseToParent groups the nodes under a new parent.
func (s *GraphService) CollapseToParent(ctx context.Context, title string, nodeIDs []valueobjects.ID) *entities.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent := s.graph.CollapseToParent(title, nodeIDs)
	if parent == nil {
		return nil
	}
	s.autoSave(ctx)
	return parent.Clone()
}

// NestNode nests source under target, reporting whether the nest was
// accepted.
func (s *GraphService) NestNode(ctx context.Context, sourceID, targetID valueobjects.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.graph.NestNode(sourceID, targetID)
	if ok {
		s.autoSave(ctx)
	}
	return ok
}

// ToggleExpand shows or hides a parent's children.
func (s *GraphService) ToggleExpand(ctx context.Context, id valueobjects.ID, isExpanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.ToggleExpand(id, isExpanded)
	s.autoSave(ctx)
}

// RecomputeHull refreshes a parent hull, optionally with live-drag
// position overrides. Preview recomputes are persisted like any other
// mutation; the hull converges to the committed positions on drag end.
func (s *GraphService) RecomputeHull(ctx context.Context, parentID valueobjects.ID, overrides map[valueobjects.ID]valueobjects.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.RecomputeHull(parentID, overrides)
	s.autoSave(ctx)
}

// SetTimeline updates the timeline flags.
func (s *GraphService) SetTimeline(ctx context.Context, active bool, startDate *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.SetTimeline(active, startDate)
	s.autoSave(ctx)
}

// AppendChain atomically appends a generated chain of intermediate
// nodes between the start and goal nodes: positions are interpolated
// between the two groups' mean positions, and planned edges run from
// every start node into the chain and out of it into every goal node.
// Nothing is committed when any endpoint id is unknown or no steps are
// given.
func (s *GraphService) AppendChain(
	ctx context.Context,
	startIDs, goalIDs []valueobjects.ID,
	steps []ports.StepSuggestion,
) []*entities.Node {
	if len(steps) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := make([]*entities.Node, 0, len(startIDs))
	for _, id := range startIDs {
		n, ok := s.graph.Node(id)
		if !ok {
			return nil
		}
		start = append(start, n)
	}
	goal := make([]*entities.Node, 0, len(goalIDs))
	for _, id := range goalIDs {
		n, ok := s.graph.Node(id)
		if !ok {
			return nil
		}
		goal = append(goal, n)
	}

	from := meanPosition(start)
	to := meanPosition(goal)

	created := make([]*entities.Node, 0, len(steps))
	for i, step := range steps {
		t := float64(i+1) / float64(len(steps)+1)
		node := s.graph.AddNode(step.Title,
			from.X+(to.X-from.X)*t,
			from.Y+(to.Y-from.Y)*t,
		)
		if node == nil {
			continue
		}
		node.Description = step.Markdown
		created = append(created, node)
	}
	if len(created) == 0 {
		return nil
	}

	for _, n := range start {
		s.graph.AddEdge(n.ID, created[0].ID, "")
	}
	for i := 0; i < len(created)-1; i++ {
		s.graph.AddEdge(created[i].ID, created[i+1].ID, "")
	}
	for _, n := range goal {
		s.graph.AddEdge(created[len(created)-1].ID, n.ID, "")
	}

	s.autoSave(ctx)

	clones := make([]*entities.Node, 0, len(created))
	for _, n := range created {
		clones = append(clones, n.Clone())
	}
	return clones
}

// autoSave commits the current state best-effort. An empty graph is
// skipped so a fresh process cannot wipe the store before its first
// load completes. Callers must hold s.mu.
func (s *GraphService) autoSave(ctx context.Context) {
	data := s.graph.Snapshot()
	if data.IsEmpty() {
		return
	}
	if err := s.repo.Save(ctx, data); err != nil {
		s.logger.Warn("auto-save failed", zap.Error(err))
	}
}

func meanPosition(nodes []*entities.Node) valueobjects.Point {
	if len(nodes) == 0 {
		return valueobjects.Point{}
	}
	var sumX, sumY float64
	for _, n := range nodes {
		sumX += n.X
		sumY += n.Y
	}
	return valueobjects.NewPoint(sumX/float64(len(nodes)), sumY/float64(len(nodes)))
}
