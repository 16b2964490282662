package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"planner-backend/application/ports"
	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/valueobjects"
	pkgerrors "planner-backend/pkg/errors"
)

// CalendarService tracks which dated nodes still need to be pushed to
// the external calendar and performs the push on demand. A failing
// sync leaves the node dirty and the graph untouched; the error stays
// local to this feature.
type CalendarService struct {
	mu      sync.Mutex
	dirty   map[valueobjects.ID]struct{}
	removed map[string]struct{} // event ids of deleted nodes

	graphs *GraphService
	client ports.CalendarClient
	logger *zap.Logger
}

// NewCalendarService creates the service.
func NewCalendarService(graphs *GraphService, client ports.CalendarClient, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		dirty:   make(map[valueobjects.ID]struct{}),
		removed: make(map[string]struct{}),
		graphs:  graphs,
		client:  client,
		logger:  logger,
	}
}

// MarkDirty queues a node for the next sync.
func (s *CalendarService) MarkDirty(id valueobjects.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[id] = struct{}{}
}

// MarkRemoved queues the calendar event of a deleted node for removal.
func (s *CalendarService) MarkRemoved(eventID string) {
	if eventID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed[eventID] = struct{}{}
}

// PendingCount returns how many entries await a sync.
func (s *CalendarService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty) + len(s.removed)
}

// SyncDirty pushes every pending entry once. Entries that fail stay
// queued; the first error is returned after the full pass so one bad
// event does not starve the rest.
func (s *CalendarService) SyncDirty(ctx context.Context) (synced int, err error) {
	s.mu.Lock()
	dirty := make([]valueobjects.ID, 0, len(s.dirty))
	for id := range s.dirty {
		dirty = append(dirty, id)
	}
	removed := make([]string, 0, len(s.removed))
	for eventID := range s.removed {
		removed = append(removed, eventID)
	}
	s.mu.Unlock()

	var firstErr error
	for _, eventID := range removed {
		if syncErr := s.client.DeleteNode(ctx, eventID); syncErr != nil {
			s.logger.Warn("calendar event delete failed", zap.String("eventID", eventID), zap.Error(syncErr))
			if firstErr == nil {
				firstErr = syncErr
			}
			continue
		}
		s.mu.Lock()
		delete(s.removed, eventID)
		s.mu.Unlock()
		synced++
	}

	for _, id := range dirty {
		if syncErr := s.syncNode(ctx, id); syncErr != nil {
			s.logger.Warn("calendar sync failed", zap.Int("nodeID", id.Int()), zap.Error(syncErr))
			if firstErr == nil {
				firstErr = syncErr
			}
			continue
		}
		s.mu.Lock()
		delete(s.dirty, id)
		s.mu.Unlock()
		synced++
	}

	if firstErr != nil {
		return synced, pkgerrors.NewExternalError("calendar sync incomplete").WithCause(firstErr)
	}
	return synced, nil
}

// syncNode reconciles one node with the calendar: create when it has a
// day but no event, update when it has both, delete the event when the
// day was cleared.
func (s *CalendarService) syncNode(ctx context.Context, id valueobjects.ID) error {
	node, ok := s.graphs.Node(id)
	if !ok {
		// Node deleted since it was marked; nothing to reconcile here,
		// its event id is tracked via MarkRemoved.
		return nil
	}

	switch {
	case node.Day == nil && node.CalendarEventID == "":
		return nil
	case node.Day == nil:
		if err := s.client.DeleteNode(ctx, node.CalendarEventID); err != nil {
			return err
		}
		empty := ""
		s.graphs.UpdateNode(ctx, id, entities.NodeUpdate{CalendarEventID: &empty})
		return nil
	case node.CalendarEventID == "":
		eventID, err := s.client.SyncNode(ctx, node)
		if err != nil {
			return err
		}
		s.graphs.UpdateNode(ctx, id, entities.NodeUpdate{CalendarEventID: &eventID})
		return nil
	default:
		return s.client.UpdateNode(ctx, node, node.CalendarEventID)
	}
}
