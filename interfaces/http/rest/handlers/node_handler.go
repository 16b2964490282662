package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"planner-backend/application/services"
	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/valueobjects"
	"planner-backend/infrastructure/observability"
	"planner-backend/pkg/common"
	pkgerrors "planner-backend/pkg/errors"
	"planner-backend/pkg/utils"
)

// NodeHandler handles node CRUD and the hierarchy operations.
type NodeHandler struct {
	graphs   *services.GraphService
	calendar *services.CalendarService
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewNodeHandler creates a new node handler.
func NewNodeHandler(
	graphs *services.GraphService,
	calendar *services.CalendarService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{graphs: graphs, calendar: calendar, metrics: metrics, logger: logger}
}

// CreateNodeRequest is the body for POST /nodes. With ParentID set the
// node is created as a subnode of that parent.
type CreateNodeRequest struct {
	Title    string           `json:"title" validate:"required,max=300"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	ParentID *valueobjects.ID `json:"parentId,omitempty"`
}

// CreateSubnodeRequest is the body for POST /nodes/{nodeID}/subnodes.
type CreateSubnodeRequest struct {
	Title string `json:"title" validate:"required,max=300"`
}

// CollapseRequest is the body for POST /nodes/collapse.
type CollapseRequest struct {
	Title   string            `json:"title" validate:"required,max=300"`
	NodeIDs []valueobjects.ID `json:"nodeIds" validate:"min=2"`
}

// NestRequest is the body for POST /nodes/{nodeID}/nest.
type NestRequest struct {
	TargetID valueobjects.ID `json:"targetId" validate:"required"`
}

// ExpandRequest is the body for POST /nodes/{nodeID}/expand.
type ExpandRequest struct {
	Expanded bool `json:"expanded"`
}

// HullRequest carries optional live-drag position overrides for
// POST /nodes/{nodeID}/hull.
type HullRequest struct {
	Positions []struct {
		ID valueobjects.ID `json:"id"`
		X  float64         `json:"x"`
		Y  float64         `json:"y"`
	} `json:"positions,omitempty"`
}

// CreateNode handles POST /nodes.
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	var node *entities.Node
	if req.ParentID != nil {
		node = h.graphs.AddSubnode(r.Context(), req.Title, *req.ParentID)
	} else {
		node = h.graphs.AddNode(r.Context(), req.Title, req.X, req.Y)
	}
	if node == nil {
		common.RespondError(w, pkgerrors.NewValidationError("title must not be empty and parent must exist"))
		return
	}
	h.metrics.NodesCreated.Inc()
	common.RespondJSON(w, http.StatusCreated, node)
}

// CreateSubnode handles POST /nodes/{nodeID}/subnodes. The new node is
// fanned out below the parent and linked as its child.
func (h *NodeHandler) CreateSubnode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	var req CreateSubnodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}
	node := h.graphs.AddSubnode(r.Context(), req.Title, id)
	if node == nil {
		common.RespondError(w, pkgerrors.NewNotFoundError("parent node"))
		return
	}
	h.metrics.NodesCreated.Inc()
	common.RespondJSON(w, http.StatusCreated, node)
}

// GetNode handles GET /nodes/{nodeID}.
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	node, ok := h.graphs.Node(id)
	if !ok {
		common.RespondError(w, pkgerrors.NewNotFoundError("node"))
		return
	}
	common.RespondJSON(w, http.StatusOK, node)
}

// UpdateNode handles PATCH /nodes/{nodeID}. Unknown ids are a silent
// no-op in the domain; the API still answers 404 so clients can tell.
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	if _, ok := h.graphs.Node(id); !ok {
		common.RespondError(w, pkgerrors.NewNotFoundError("node"))
		return
	}

	var update entities.NodeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	h.graphs.UpdateNode(r.Context(), id, update)
	if update.Day != nil || update.ClearDay {
		h.calendar.MarkDirty(id)
	}

	node, _ := h.graphs.Node(id)
	common.RespondJSON(w, http.StatusOK, node)
}

// DeleteNode handles DELETE /nodes/{nodeID}.
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	if node, ok := h.graphs.Node(id); ok {
		h.calendar.MarkRemoved(node.CalendarEventID)
		h.metrics.NodesDeleted.Inc()
	}
	h.graphs.DeleteNode(r.Context(), id)
	common.RespondNoContent(w)
}

// MarkObsolete handles POST /nodes/{nodeID}/obsolete.
func (h *NodeHandler) MarkObsolete(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	if _, ok := h.graphs.Node(id); !ok {
		common.RespondError(w, pkgerrors.NewNotFoundError("node"))
		return
	}
	h.graphs.MarkNodeObsolete(r.Context(), id)
	h.metrics.ObsoleteToggles.Inc()

	node, _ := h.graphs.Node(id)
	common.RespondJSON(w, http.StatusOK, node)
}

// ToggleExpand handles POST /nodes/{nodeID}/expand.
func (h *NodeHandler) ToggleExpand(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	var req ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	h.graphs.ToggleExpand(r.Context(), id, req.Expanded)
	common.RespondNoContent(w)
}

// Nest handles POST /nodes/{nodeID}/nest, the drop-to-nest operation.
// The node in the path is the dropped (source) node.
func (h *NodeHandler) Nest(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	var req NestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}
	if !h.graphs.NestNode(r.Context(), id, req.TargetID) {
		common.RespondError(w, pkgerrors.NewConflictError("nest rejected: node would become its own ancestor"))
		return
	}
	common.RespondNoContent(w)
}

// Collapse handles POST /nodes/collapse, grouping a multi-selection
// under a new parent.
func (h *NodeHandler) Collapse(w http.ResponseWriter, r *http.Request) {
	var req CollapseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}
	parent := h.graphs.CollapseToParent(r.Context(), req.Title, req.NodeIDs)
	if parent == nil {
		common.RespondError(w, pkgerrors.NewValidationError("need a title and at least two existing nodes"))
		return
	}
	h.metrics.NodesCreated.Inc()
	common.RespondJSON(w, http.StatusCreated, parent)
}

// RecomputeHull handles POST /nodes/{nodeID}/hull, used for live-drag
// previews before the drag-end commit.
func (h *NodeHandler) RecomputeHull(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	var req HullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	var overrides map[valueobjects.ID]valueobjects.Point
	if len(req.Positions) > 0 {
		overrides = make(map[valueobjects.ID]valueobjects.Point, len(req.Positions))
		for _, p := range req.Positions {
			overrides[p.ID] = valueobjects.NewPoint(p.X, p.Y)
		}
	}
	h.graphs.RecomputeHull(r.Context(), id, overrides)

	node, ok := h.graphs.Node(id)
	if !ok {
		common.RespondError(w, pkgerrors.NewNotFoundError("node"))
		return
	}
	common.RespondJSON(w, http.StatusOK, node)
}

func nodeID(r *http.Request) (valueobjects.ID, error) {
	id, err := valueobjects.NewIDFromString(chi.URLParam(r, "nodeID"))
	if err != nil {
		return 0, pkgerrors.NewValidationError("node id must be an integer")
	}
	return id, nil
}
