package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"planner-backend/application/ports"
	"planner-backend/domain/core/aggregates"
	"planner-backend/domain/core/geometry"
	"planner-backend/domain/core/valueobjects"
	"planner-backend/infrastructure/persistence"
	"planner-backend/infrastructure/persistence/localstore"
	"planner-backend/pkg/ids"
)

func newTestGraphService(t *testing.T) (*GraphService, localstore.KV) {
	t.Helper()
	kv := localstore.NewMemory()
	logger := zap.NewNop()
	alloc := ids.NewAllocator(kv, logger)
	graph := aggregates.NewGraph(alloc, geometry.NewPalette())
	repo := persistence.NewLocalGraphRepository(kv, logger)
	return NewGraphService(graph, repo, alloc, logger), kv
}

func TestGraphService_MutationsAutoSave(t *testing.T) {
	svc, kv := newTestGraphService(t)
	ctx := context.Background()

	node := svc.AddNode(ctx, "Literature review", 0, 0)
	require.NotNil(t, node)

	payload, ok, err := kv.Get(persistence.GraphKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, payload, "Literature review")
}

func TestGraphService_InitializeRestoresStateAndIDs(t *testing.T) {
	svc, kv := newTestGraphService(t)
	ctx := context.Background()
	a := svc.AddNode(ctx, "A", 0, 0)
	b := svc.AddNode(ctx, "B", 100, 0)
	svc.AddEdge(ctx, a.ID, b.ID, "")

	// A second process over the same store picks up where we left off.
	logger := zap.NewNop()
	alloc := ids.NewAllocator(kv, logger)
	graph := aggregates.NewGraph(alloc, geometry.NewPalette())
	repo := persistence.NewLocalGraphRepository(kv, logger)
	restored := NewGraphService(graph, repo, alloc, logger)
	require.NoError(t, restored.Initialize(ctx))

	snapshot := restored.Snapshot()
	assert.Len(t, snapshot.Nodes, 2)
	assert.Len(t, snapshot.Edges, 1)

	// No id reuse after the restart.
	fresh := restored.AddNode(ctx, "C", 0, 0)
	assert.Greater(t, fresh.ID.Int(), b.ID.Int()+1)
}

func TestGraphService_ReturnsClones(t *testing.T) {
	svc, _ := newTestGraphService(t)
	ctx := context.Background()

	created := svc.AddNode(ctx, "A", 0, 0)
	created.Title = "mutated by caller"

	stored, ok := svc.Node(created.ID)
	require.True(t, ok)
	assert.Equal(t, "A", stored.Title)
}

func TestGraphService_DeleteNodes(t *testing.T) {
	svc, _ := newTestGraphService(t)
	ctx := context.Background()
	a := svc.AddNode(ctx, "A", 0, 0)
	b := svc.AddNode(ctx, "B", 100, 0)
	c := svc.AddNode(ctx, "C", 200, 0)
	svc.AddEdge(ctx, a.ID, b.ID, "")

	svc.DeleteNodes(ctx, []valueobjects.ID{a.ID, b.ID})

	snapshot := svc.Snapshot()
	require.Len(t, snapshot.Nodes, 1)
	assert.Equal(t, c.ID, snapshot.Nodes[0].ID)
	assert.Empty(t, snapshot.Edges)
}

func TestGraphService_AppendChain(t *testing.T) {
	svc, _ := newTestGraphService(t)
	ctx := context.Background()
	start := svc.AddNode(ctx, "Start", 0, 0)
	goal := svc.AddNode(ctx, "Goal", 300, 0)

	created := svc.AppendChain(ctx,
		[]valueobjects.ID{start.ID}, []valueobjects.ID{goal.ID},
		[]ports.StepSuggestion{
			{Title: "Step one", Markdown: "## one"},
			{Title: "Step two", Markdown: "## two"},
		},
	)

	require.Len(t, created, 2)
	assert.Equal(t, 100.0, created[0].X)
	assert.Equal(t, 200.0, created[1].X)
	assert.Equal(t, "## one", created[0].Description)

	// start -> step1 -> step2 -> goal
	snapshot := svc.Snapshot()
	require.Len(t, snapshot.Edges, 3)
	for _, e := range snapshot.Edges {
		assert.True(t, e.IsPlanned)
	}
}

func TestGraphService_AppendChain_UnknownEndpointCommitsNothing(t *testing.T) {
	svc, _ := newTestGraphService(t)
	ctx := context.Background()
	start := svc.AddNode(ctx, "Start", 0, 0)

	created := svc.AppendChain(ctx,
		[]valueobjects.ID{start.ID}, []valueobjects.ID{999},
		[]ports.StepSuggestion{{Title: "Step"}},
	)

	assert.Nil(t, created)
	assert.Len(t, svc.Snapshot().Nodes, 1)
	assert.Empty(t, svc.Snapshot().Edges)
}
