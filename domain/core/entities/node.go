package entities

import (
	"time"

	"planner-backend/domain/core/valueobjects"
)

// Node is a research step placed on the planning canvas.
//
// Fields mirror the persisted schema one-to-one: the same struct is
// committed to the local store, exported to files and served over the
// API, so a save/load round trip preserves every field exactly.
// ChildNodes is always non-nil; its order is insertion order and is
// relied on by hull and collapse operations.
type Node struct {
	ID          valueobjects.ID `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	IsObsolete  bool            `json:"isObsolete"`

	// Hierarchy. ParentID is nil for root nodes; ChildNodes lists the
	// direct children. Both sides of the link are maintained together
	// by the graph aggregate.
	ParentID   *valueobjects.ID  `json:"parentId,omitempty"`
	ChildNodes []valueobjects.ID `json:"childNodes"`
	IsExpanded bool              `json:"isExpanded,omitempty"`

	// Cached boundary polygon, present only while the node has children.
	HullPoints []valueobjects.Point    `json:"hullPoints,omitempty"`
	HullColor  *valueobjects.HullColor `json:"hullColor,omitempty"`

	// Calendar collaborator fields, opaque to the graph core beyond
	// existence checks.
	Day             *time.Time `json:"day,omitempty"`
	CalendarEventID string     `json:"calendarEventId,omitempty"`
}

// NewNode creates a root node at the given canvas position.
func NewNode(id valueobjects.ID, title string, x, y float64) *Node {
	return &Node{
		ID:         id,
		Title:      title,
		X:          x,
		Y:          y,
		ChildNodes: []valueobjects.ID{},
	}
}

// Position returns the node's canvas position as a point.
func (n *Node) Position() valueobjects.Point {
	return valueobjects.NewPoint(n.X, n.Y)
}

// HasChildren reports whether the node is a parent.
func (n *Node) HasChildren() bool {
	return len(n.ChildNodes) > 0
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// HasChild reports whether id is already a direct child.
func (n *Node) HasChild(id valueobjects.ID) bool {
	for _, c := range n.ChildNodes {
		if c == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used for snapshots handed outside the
// aggregate so callers cannot mutate canonical state.
func (n *Node) Clone() *Node {
	c := *n
	c.ChildNodes = append([]valueobjects.ID{}, n.ChildNodes...)
	if n.HullPoints != nil {
		c.HullPoints = append([]valueobjects.Point{}, n.HullPoints...)
	}
	if n.ParentID != nil {
		pid := *n.ParentID
		c.ParentID = &pid
	}
	if n.HullColor != nil {
		hc := *n.HullColor
		c.HullColor = &hc
	}
	if n.Day != nil {
		d := *n.Day
		c.Day = &d
	}
	return &c
}

// NodeUpdate carries a partial node update. Nil fields are left
// untouched; the update is a shallow merge.
type NodeUpdate struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	X               *float64   `json:"x,omitempty"`
	Y               *float64   `json:"y,omitempty"`
	IsObsolete      *bool      `json:"isObsolete,omitempty"`
	Day             *time.Time `json:"day,omitempty"`
	ClearDay        bool       `json:"clearDay,omitempty"`
	CalendarEventID *string    `json:"calendarEventId,omitempty"`
}

// Apply merges the update into the node and reports whether the
// node's position changed, which callers use to refresh hulls.
func (u NodeUpdate) Apply(n *Node) (moved bool) {
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Description != nil {
		n.Description = *u.Description
	}
	if u.X != nil && *u.X != n.X {
		n.X = *u.X
		moved = true
	}
	if u.Y != nil && *u.Y != n.Y {
		n.Y = *u.Y
		moved = true
	}
	if u.IsObsolete != nil {
		n.IsObsolete = *u.IsObsolete
	}
	if u.ClearDay {
		n.Day = nil
	} else if u.Day != nil {
		d := *u.Day
		n.Day = &d
	}
	if u.CalendarEventID != nil {
		n.CalendarEventID = *u.CalendarEventID
	}
	return moved
}
