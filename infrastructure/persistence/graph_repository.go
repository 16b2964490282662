// Package persistence implements the graph repository over the local
// store and the file exchange format. Both use the same JSON schema,
// so an exported file can be imported anywhere a store payload loads.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"planner-backend/domain/core/aggregates"
	"planner-backend/infrastructure/persistence/localstore"
)

// GraphKey is the local store key holding the serialized graph.
const GraphKey = "research-graph"

// LocalGraphRepository persists the graph as JSON in the local store.
type LocalGraphRepository struct {
	kv     localstore.KV
	logger *zap.Logger
}

// NewLocalGraphRepository creates the repository.
func NewLocalGraphRepository(kv localstore.KV, logger *zap.Logger) *LocalGraphRepository {
	return &LocalGraphRepository{kv: kv, logger: logger}
}

// Save writes the graph. An empty graph is skipped so a process that
// has not loaded yet cannot clobber stored data.
func (r *LocalGraphRepository) Save(ctx context.Context, data aggregates.GraphData) error {
	if data.IsEmpty() {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("serialize graph: %w", err)
	}
	if err := r.kv.Set(GraphKey, string(payload)); err != nil {
		return fmt.Errorf("store graph: %w", err)
	}
	return nil
}

// Load reads the stored graph. A missing key or an unparseable payload
// both yield nil without an error; unreadable data is logged and
// treated as "no data" so startup never fails on a corrupt store.
func (r *LocalGraphRepository) Load(ctx context.Context) (*aggregates.GraphData, error) {
	payload, ok, err := r.kv.Get(GraphKey)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var data aggregates.GraphData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		r.logger.Warn("stored graph is unreadable, ignoring", zap.Error(err))
		return nil, nil
	}
	return &data, nil
}

// ExportFile writes the graph to an exchange file, pretty-printed for
// hand inspection and version control diffs.
func (r *LocalGraphRepository) ExportFile(path string, data aggregates.GraphData) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize graph: %w", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ImportFile reads an exchange file. A missing or malformed file
// resolves to nil rather than an error, mirroring Load.
func (r *LocalGraphRepository) ImportFile(path string) (*aggregates.GraphData, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("import file unreadable", zap.String("path", path), zap.Error(err))
		return nil, nil
	}
	var data aggregates.GraphData
	if err := json.Unmarshal(payload, &data); err != nil {
		r.logger.Warn("import file is not a graph", zap.String("path", path), zap.Error(err))
		return nil, nil
	}
	return &data, nil
}
