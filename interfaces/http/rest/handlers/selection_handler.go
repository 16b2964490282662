package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"planner-backend/application/services"
	"planner-backend/domain/core/valueobjects"
	"planner-backend/pkg/common"
	pkgerrors "planner-backend/pkg/errors"
	"planner-backend/pkg/utils"
)

// SelectionHandler exposes per-session selection state. Each UI client
// opens a session and drives its selection through it.
type SelectionHandler struct {
	selections *services.SelectionService
	logger     *zap.Logger
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(selections *services.SelectionService, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{selections: selections, logger: logger}
}

// ClickRequest is the body for POST /sessions/{sessionID}/click.
type ClickRequest struct {
	NodeID valueobjects.ID `json:"nodeId" validate:"required"`
	Ctrl   bool            `json:"ctrl"`
}

// SelectEdgeRequest is the body for POST /sessions/{sessionID}/select-edge.
type SelectEdgeRequest struct {
	EdgeID valueobjects.ID `json:"edgeId" validate:"required"`
}

// MultiSelectRequest is the body for POST /sessions/{sessionID}/multi-select.
type MultiSelectRequest struct {
	NodeIDs []valueobjects.ID `json:"nodeIds"`
}

// DeleteSelectedRequest is the body for POST /sessions/{sessionID}/delete.
type DeleteSelectedRequest struct {
	EditingText bool `json:"editingText"`
}

// CreateSession handles POST /sessions.
func (h *SelectionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.selections.NewSession()
	common.RespondJSON(w, http.StatusCreated, map[string]string{"sessionId": id})
}

// GetState handles GET /sessions/{sessionID}.
func (h *SelectionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.selections.State(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, state)
}

// Click handles POST /sessions/{sessionID}/click.
func (h *SelectionHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}
	state, err := h.selections.Click(chi.URLParam(r, "sessionID"), req.NodeID, req.Ctrl)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, state)
}

// SelectEdge handles POST /sessions/{sessionID}/select-edge.
func (h *SelectionHandler) SelectEdge(w http.ResponseWriter, r *http.Request) {
	var req SelectEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}
	state, err := h.selections.SelectEdge(chi.URLParam(r, "sessionID"), req.EdgeID)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, state)
}

// MultiSelect handles POST /sessions/{sessionID}/multi-select, used by
// rubber-band selection.
func (h *SelectionHandler) MultiSelect(w http.ResponseWriter, r *http.Request) {
	var req MultiSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	state, err := h.selections.MultiSelect(chi.URLParam(r, "sessionID"), req.NodeIDs)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, state)
}

// DeleteSelected handles POST /sessions/{sessionID}/delete. When the
// client reports an active text edit the request is a no-op.
func (h *SelectionHandler) DeleteSelected(w http.ResponseWriter, r *http.Request) {
	var req DeleteSelectedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	state, err := h.selections.DeleteSelected(r.Context(), chi.URLParam(r, "sessionID"), req.EditingText)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, state)
}

// Escape handles POST /sessions/{sessionID}/escape: collapse the
// selected parent if it has children, then clear the selection.
func (h *SelectionHandler) Escape(w http.ResponseWriter, r *http.Request) {
	state, err := h.selections.Escape(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, state)
}
