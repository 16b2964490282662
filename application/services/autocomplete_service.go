package services

import (
	"context"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"planner-backend/application/ports"
	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/valueobjects"
	pkgerrors "planner-backend/pkg/errors"
)

// AutocompleteService generates intermediate research steps between
// two groups of nodes through the external LLM bridge. Exactly one
// request is in flight at a time: a second invocation while one is
// pending is rejected instead of queued, and there is no retry or
// cancellation. On success the generated chain is appended to the
// graph in one atomic commit; on any failure nothing is appended.
type AutocompleteService struct {
	graphs   *GraphService
	client   ports.AutocompleteClient
	logger   *zap.Logger
	inFlight atomic.Bool
}

// NewAutocompleteService creates the service.
func NewAutocompleteService(graphs *GraphService, client ports.AutocompleteClient, logger *zap.Logger) *AutocompleteService {
	return &AutocompleteService{graphs: graphs, client: client, logger: logger}
}

// GenerateBetween asks the bridge for steps between the start and goal
// nodes and appends the resulting chain.
func (s *AutocompleteService) GenerateBetween(
	ctx context.Context,
	startIDs, goalIDs []valueobjects.ID,
) ([]*entities.Node, error) {
	if len(startIDs) == 0 || len(goalIDs) == 0 {
		return nil, pkgerrors.NewValidationError("start and goal nodes are required")
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, pkgerrors.NewConflictError("a generation request is already in flight")
	}
	defer s.inFlight.Store(false)

	req := ports.StepsRequest{}
	var err error
	if req.StartNodes, err = s.stepRefs(startIDs); err != nil {
		return nil, err
	}
	if req.GoalNodes, err = s.stepRefs(goalIDs); err != nil {
		return nil, err
	}

	steps, err := s.client.GenerateSteps(ctx, req)
	if err != nil {
		s.logger.Warn("autocomplete request failed", zap.Error(err))
		return nil, err
	}
	if len(steps) == 0 {
		return nil, pkgerrors.NewExternalError("bridge returned no steps")
	}
	for _, step := range steps {
		if strings.TrimSpace(step.Title) == "" {
			return nil, pkgerrors.NewExternalError("bridge returned a step without a title")
		}
	}

	created := s.graphs.AppendChain(ctx, startIDs, goalIDs, steps)
	if created == nil {
		return nil, pkgerrors.NewConflictError("endpoint nodes changed during generation")
	}
	s.logger.Info("autocomplete chain appended", zap.Int("steps", len(created)))
	return created, nil
}

func (s *AutocompleteService) stepRefs(nodeIDs []valueobjects.ID) ([]ports.StepRef, error) {
	refs := make([]ports.StepRef, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		node, ok := s.graphs.Node(id)
		if !ok {
			return nil, pkgerrors.NewNotFoundError("node")
		}
		refs = append(refs, ports.StepRef{
			ID:       node.ID,
			Title:    node.Title,
			Markdown: node.Description,
		})
	}
	return refs, nil
}
