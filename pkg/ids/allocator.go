// Package ids issues the unique integer identifiers shared by nodes
// and edges. The allocator is an explicit service constructed once at
// startup and passed to its consumers, never package-level state.
package ids

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"planner-backend/domain/core/valueobjects"
)

// LastIDKey is the storage key holding the last issued identifier.
const LastIDKey = "research_planner_last_id"

// Storage is the slice of the local store the allocator needs.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Allocator issues strictly increasing IDs and persists the high-water
// mark after every allocation so values are never reissued across
// restarts. When storage is unavailable it degrades to a purely
// in-memory counter instead of failing.
type Allocator struct {
	mu     sync.Mutex
	next   int
	store  Storage // nil after a storage failure
	logger *zap.Logger
}

// NewAllocator creates an allocator seeded from the persisted
// high-water mark, starting at 1 when none exists.
func NewAllocator(store Storage, logger *zap.Logger) *Allocator {
	a := &Allocator{next: 1, store: store, logger: logger}
	if store == nil {
		return a
	}

	value, ok, err := store.Get(LastIDKey)
	if err != nil {
		logger.Warn("id storage unavailable, falling back to in-memory counter", zap.Error(err))
		a.store = nil
		return a
	}
	if !ok {
		return a
	}
	last, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("persisted last id is not a number, resetting", zap.String("value", value))
		return a
	}
	a.next = last + 1
	return a
}

// NextID returns a value strictly greater than any previously returned
// or seeded id.
func (a *Allocator) NextID() valueobjects.ID {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := valueobjects.ID(a.next)
	a.next++
	a.persistLocked()
	return id
}

// Seed raises the counter above max(ids) when the observed ids are
// higher than anything issued so far. Lower seeds are ignored, so the
// call is idempotent against reload.
func (a *Allocator) Seed(ids []valueobjects.ID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	changed := false
	for _, id := range ids {
		if id.Int() >= a.next {
			a.next = id.Int() + 1
			changed = true
		}
	}
	if changed {
		a.persistLocked()
	}
}

// persistLocked writes the high-water mark best-effort. A failing
// store is dropped so subsequent allocations stay in memory.
func (a *Allocator) persistLocked() {
	if a.store == nil {
		return
	}
	if err := a.store.Set(LastIDKey, strconv.Itoa(a.next-1)); err != nil {
		a.logger.Warn("failed to persist last id, continuing in memory", zap.Error(err))
		a.store = nil
	}
}
