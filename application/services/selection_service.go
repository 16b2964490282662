package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"planner-backend/domain/core/valueobjects"
	pkgerrors "planner-backend/pkg/errors"
)

// SelectionState is the selection of one UI session: the single
// selected node or edge, the ordered multi-select set, and the
// description buffer mirroring the most recently selected entity.
type SelectionState struct {
	SelectedNode      *valueobjects.ID  `json:"selectedNode,omitempty"`
	SelectedNodes     []valueobjects.ID `json:"selectedNodes"`
	SelectedEdge      *valueobjects.ID  `json:"selectedEdge,omitempty"`
	ActiveDescription string            `json:"activeDescription"`
}

func (s *SelectionState) clone() *SelectionState {
	c := &SelectionState{
		SelectedNodes:     append([]valueobjects.ID{}, s.SelectedNodes...),
		ActiveDescription: s.ActiveDescription,
	}
	if s.SelectedNode != nil {
		id := *s.SelectedNode
		c.SelectedNode = &id
	}
	if s.SelectedEdge != nil {
		id := *s.SelectedEdge
		c.SelectedEdge = &id
	}
	return c
}

// SelectionService tracks per-session selection and runs the
// selection-driven commands (delete, escape-to-collapse). Sessions are
// created by the API and keyed by an opaque token; selection holds
// only ids, never copies of graph data.
type SelectionService struct {
	mu       sync.Mutex
	sessions map[string]*SelectionState
	graphs   *GraphService
	logger   *zap.Logger
}

// NewSelectionService creates the service.
func NewSelectionService(graphs *GraphService, logger *zap.Logger) *SelectionService {
	return &SelectionService{
		sessions: make(map[string]*SelectionState),
		graphs:   graphs,
		logger:   logger,
	}
}

// NewSession registers a fresh, empty selection and returns its token.
func (s *SelectionService) NewSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.New().String()
	s.sessions[token] = &SelectionState{SelectedNodes: []valueobjects.ID{}}
	return token
}

// State returns the session's selection with ids of meanwhile-deleted
// entities pruned out.
func (s *SelectionService) State(sessionID string) (*SelectionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.prune(state)
	return state.clone(), nil
}

// Click handles a node click. With ctrl held the node's membership in
// the multi-select set is toggled and the description target stays
// where it was; a plain click replaces the whole selection with this
// node.
func (s *SelectionService) Click(sessionID string, nodeID valueobjects.ID, ctrl bool) (*SelectionState, error) {
	node, ok := s.graphs.Node(nodeID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if ctrl {
		toggled := state.SelectedNodes[:0]
		found := false
		for _, id := range state.SelectedNodes {
			if id == nodeID {
				found = true
				continue
			}
			toggled = append(toggled, id)
		}
		if !found {
			toggled = append(toggled, nodeID)
		}
		state.SelectedNodes = toggled
		return state.clone(), nil
	}

	state.SelectedEdge = nil
	state.SelectedNode = &nodeID
	state.SelectedNodes = []valueobjects.ID{nodeID}
	state.ActiveDescription = node.Description
	return state.clone(), nil
}

// SelectEdge replaces the selection with a single edge.
func (s *SelectionService) SelectEdge(sessionID string, edgeID valueobjects.ID) (*SelectionState, error) {
	edge, ok := s.graphs.Edge(edgeID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("edge")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	state.SelectedNode = nil
	state.SelectedNodes = []valueobjects.ID{}
	state.SelectedEdge = &edgeID
	state.ActiveDescription = edge.Description
	return state.clone(), nil
}

// MultiSelect replaces the multi-select set, e.g. from a rectangular
// drag-select. The last id in the sequence becomes the single selected
// node and the description target; order matters.
func (s *SelectionService) MultiSelect(sessionID string, nodeIDs []valueobjects.ID) (*SelectionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	existing := make([]valueobjects.ID, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if _, ok := s.graphs.Node(id); ok {
			existing = append(existing, id)
		}
	}

	state.SelectedEdge = nil
	state.SelectedNodes = existing
	state.SelectedNode = nil
	state.ActiveDescription = ""
	if len(existing) > 0 {
		last := existing[len(existing)-1]
		state.SelectedNode = &last
		if node, ok := s.graphs.Node(last); ok {
			state.ActiveDescription = node.Description
		}
	}
	return state.clone(), nil
}

// DeleteSelected deletes every node in the multi-select set with edge
// cascade, or the selected edge when only an edge is selected. While a
// text-editing control has focus (reported by the caller, the DOM is
// not visible here) the command is a no-op so the Delete key keeps
// editing text.
func (s *SelectionService) DeleteSelected(ctx context.Context, sessionID string, editingText bool) (*SelectionState, error) {
	s.mu.Lock()
	state, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if editingText {
		clone := state.clone()
		s.mu.Unlock()
		return clone, nil
	}
	doomed := append([]valueobjects.ID{}, state.SelectedNodes...)
	var doomedEdge *valueobjects.ID
	if len(doomed) == 0 && state.SelectedEdge != nil {
		id := *state.SelectedEdge
		doomedEdge = &id
	}
	state.SelectedNode = nil
	state.SelectedNodes = []valueobjects.ID{}
	state.SelectedEdge = nil
	state.ActiveDescription = ""
	clone := state.clone()
	s.mu.Unlock()

	// Mutations run outside the selection lock; the graph service
	// serializes them itself.
	if len(doomed) > 0 {
		s.graphs.DeleteNodes(ctx, doomed)
	} else if doomedEdge != nil {
		s.graphs.DeleteEdge(ctx, *doomedEdge)
	}
	return clone, nil
}

// Escape collapses the selected node when it has children, then clears
// the whole selection unconditionally.
func (s *SelectionService) Escape(ctx context.Context, sessionID string) (*SelectionState, error) {
	s.mu.Lock()
	state, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	var collapse *valueobjects.ID
	if state.SelectedNode != nil {
		if node, ok := s.graphs.Node(*state.SelectedNode); ok && node.HasChildren() {
			id := node.ID
			collapse = &id
		}
	}
	state.SelectedNode = nil
	state.SelectedNodes = []valueobjects.ID{}
	state.SelectedEdge = nil
	state.ActiveDescription = ""
	clone := state.clone()
	s.mu.Unlock()

	if collapse != nil {
		s.graphs.ToggleExpand(ctx, *collapse, false)
	}
	return clone, nil
}

func (s *SelectionService) session(sessionID string) (*SelectionState, error) {
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("session")
	}
	return state, nil
}

// prune drops ids whose entities no longer exist. Callers hold s.mu.
func (s *SelectionService) prune(state *SelectionState) {
	kept := state.SelectedNodes[:0]
	for _, id := range state.SelectedNodes {
		if _, ok := s.graphs.Node(id); ok {
			kept = append(kept, id)
		}
	}
	state.SelectedNodes = kept
	if state.SelectedNode != nil {
		if _, ok := s.graphs.Node(*state.SelectedNode); !ok {
			state.SelectedNode = nil
			state.ActiveDescription = ""
		}
	}
	if state.SelectedEdge != nil {
		if _, ok := s.graphs.Edge(*state.SelectedEdge); !ok {
			state.SelectedEdge = nil
		}
	}
}
