package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"planner-backend/application/ports"
	"planner-backend/application/services"
	"planner-backend/domain/core/aggregates"
	"planner-backend/pkg/common"
	pkgerrors "planner-backend/pkg/errors"
	"planner-backend/pkg/utils"
)

// GraphHandler serves whole-graph operations: snapshot, replace,
// file export/import and the timeline toggle.
type GraphHandler struct {
	graphs *services.GraphService
	files  ports.FileExchanger
	logger *zap.Logger
}

// NewGraphHandler creates a new graph handler.
func NewGraphHandler(graphs *services.GraphService, files ports.FileExchanger, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{graphs: graphs, files: files, logger: logger}
}

// TimelineRequest is the body for PUT /graph/timeline.
type TimelineRequest struct {
	Active    bool    `json:"active"`
	StartDate *string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// FileRequest is the body for the export/import endpoints.
type FileRequest struct {
	Path string `json:"path" validate:"required"`
}

// GetGraph handles GET /graph.
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.graphs.Snapshot())
}

// ReplaceGraph handles PUT /graph, replacing the full in-memory state.
func (h *GraphHandler) ReplaceGraph(w http.ResponseWriter, r *http.Request) {
	var data aggregates.GraphData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid graph payload"))
		return
	}
	h.graphs.Replace(r.Context(), data)
	common.RespondJSON(w, http.StatusOK, h.graphs.Snapshot())
}

// SetTimeline handles PUT /graph/timeline.
func (h *GraphHandler) SetTimeline(w http.ResponseWriter, r *http.Request) {
	var req TimelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}
	h.graphs.SetTimeline(r.Context(), req.Active, req.StartDate)
	common.RespondNoContent(w)
}

// Export handles POST /graph/export, writing the snapshot to a file.
func (h *GraphHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req FileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}
	data := h.graphs.Snapshot()
	if err := h.files.ExportFile(req.Path, data); err != nil {
		common.RespondError(w, err)
		return
	}
	h.logger.Info("graph exported", zap.String("path", req.Path))
	common.RespondJSON(w, http.StatusOK, map[string]string{"path": req.Path})
}

// Import handles POST /graph/import, replacing the state from a file.
// A missing or malformed file leaves the current graph untouched.
func (h *GraphHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req FileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}
	data, err := h.files.ImportFile(req.Path)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	if data == nil {
		common.RespondError(w, pkgerrors.NewValidationError("file is missing or not a valid graph"))
		return
	}
	h.graphs.Replace(r.Context(), *data)
	h.logger.Info("graph imported", zap.String("path", req.Path))
	common.RespondJSON(w, http.StatusOK, h.graphs.Snapshot())
}
