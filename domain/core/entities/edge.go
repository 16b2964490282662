package entities

import "planner-backend/domain/core/valueobjects"

// Edge is a directed dependency between two nodes.
//
// Source and Target are node IDs. Both must reference existing nodes
// for the edge to render, but dangling references are tolerated: an
// edge may legitimately outlive one endpoint inside an imported file
// and is simply not drawn until the node reappears.
type Edge struct {
	ID          valueobjects.ID `json:"id"`
	Source      valueobjects.ID `json:"source"`
	Target      valueobjects.ID `json:"target"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	IsPlanned   bool            `json:"isPlanned"`
	IsObsolete  bool            `json:"isObsolete"`
}

// NewEdge creates a planned edge from source to target.
func NewEdge(id, source, target valueobjects.ID, title string) *Edge {
	return &Edge{
		ID:        id,
		Source:    source,
		Target:    target,
		Title:     title,
		IsPlanned: true,
	}
}

// Touches reports whether the edge starts or ends at the given node.
func (e *Edge) Touches(nodeID valueobjects.ID) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	c := *e
	return &c
}

// EdgeUpdate carries a partial edge update; nil fields are untouched.
type EdgeUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPlanned   *bool   `json:"isPlanned,omitempty"`
	IsObsolete  *bool   `json:"isObsolete,omitempty"`
}

// Apply merges the update into the edge.
func (u EdgeUpdate) Apply(e *Edge) {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.IsPlanned != nil {
		e.IsPlanned = *u.IsPlanned
	}
	if u.IsObsolete != nil {
		e.IsObsolete = *u.IsObsolete
	}
}
