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

// EdgeHandler handles edge CRUD.
type EdgeHandler struct {
	graphs  *services.GraphService
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewEdgeHandler creates a new edge handler.
func NewEdgeHandler(graphs *services.GraphService, metrics *observability.Collector, logger *zap.Logger) *EdgeHandler {
	return &EdgeHandler{graphs: graphs, metrics: metrics, logger: logger}
}

// CreateEdgeRequest is the body for POST /edges.
type CreateEdgeRequest struct {
	Source valueobjects.ID `json:"source" validate:"required"`
	Target valueobjects.ID `json:"target" validate:"required"`
	Title  string          `json:"title"`
}

// CreateEdge handles POST /edges.
func (h *EdgeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var req CreateEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}
	edge := h.graphs.AddEdge(r.Context(), req.Source, req.Target, req.Title)
	if edge == nil {
		common.RespondError(w, pkgerrors.NewValidationError("self-loop edges are not allowed"))
		return
	}
	h.metrics.EdgesCreated.Inc()
	common.RespondJSON(w, http.StatusCreated, edge)
}

// GetEdge handles GET /edges/{edgeID}.
func (h *EdgeHandler) GetEdge(w http.ResponseWriter, r *http.Request) {
	id, err := edgeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	edge, ok := h.graphs.Edge(id)
	if !ok {
		common.RespondError(w, pkgerrors.NewNotFoundError("edge"))
		return
	}
	common.RespondJSON(w, http.StatusOK, edge)
}

// UpdateEdge handles PATCH /edges/{edgeID}.
func (h *EdgeHandler) UpdateEdge(w http.ResponseWriter, r *http.Request) {
	id, err := edgeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	if _, ok := h.graphs.Edge(id); !ok {
		common.RespondError(w, pkgerrors.NewNotFoundError("edge"))
		return
	}
	var update entities.EdgeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	h.graphs.UpdateEdge(r.Context(), id, update)

	edge, _ := h.graphs.Edge(id)
	common.RespondJSON(w, http.StatusOK, edge)
}

// DeleteEdge handles DELETE /edges/{edgeID}.
func (h *EdgeHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	id, err := edgeID(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	if _, ok := h.graphs.Edge(id); ok {
		h.metrics.EdgesDeleted.Inc()
	}
	h.graphs.DeleteEdge(r.Context(), id)
	common.RespondNoContent(w)
}

func edgeID(r *http.Request) (valueobjects.ID, error) {
	id, err := valueobjects.NewIDFromString(chi.URLParam(r, "edgeID"))
	if err != nil {
		return 0, pkgerrors.NewValidationError("edge id must be an integer")
	}
	return id, nil
}
