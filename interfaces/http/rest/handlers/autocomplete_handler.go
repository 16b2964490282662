package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"planner-backend/application/services"
	"planner-backend/domain/core/valueobjects"
	"planner-backend/infrastructure/observability"
	"planner-backend/pkg/common"
	pkgerrors "planner-backend/pkg/errors"
	"planner-backend/pkg/utils"
)

// AutocompleteHandler triggers step generation between selected nodes.
type AutocompleteHandler struct {
	autocomplete *services.AutocompleteService
	metrics      *observability.Collector
	logger       *zap.Logger
}

// NewAutocompleteHandler creates a new autocomplete handler.
func NewAutocompleteHandler(
	autocomplete *services.AutocompleteService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *AutocompleteHandler {
	return &AutocompleteHandler{autocomplete: autocomplete, metrics: metrics, logger: logger}
}

// GenerateRequest is the body for POST /autocomplete/generate.
type GenerateRequest struct {
	StartNodeIDs []valueobjects.ID `json:"startNodeIds" validate:"min=1"`
	GoalNodeIDs  []valueobjects.ID `json:"goalNodeIds" validate:"min=1"`
}

// Generate handles POST /autocomplete/generate. Only one generation
// runs at a time; concurrent requests get a conflict.
func (h *AutocompleteHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	nodes, err := h.autocomplete.GenerateBetween(r.Context(), req.StartNodeIDs, req.GoalNodeIDs)
	if err != nil {
		h.metrics.AutocompleteRequests.WithLabelValues("failure").Inc()
		common.RespondError(w, err)
		return
	}
	h.metrics.AutocompleteRequests.WithLabelValues("success").Inc()
	common.RespondJSON(w, http.StatusCreated, nodes)
}
