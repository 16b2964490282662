package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"planner-backend/application/ports"
	"planner-backend/application/services"
	"planner-backend/domain/core/aggregates"
	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/geometry"
	"planner-backend/infrastructure/config"
	"planner-backend/infrastructure/di"
	"planner-backend/infrastructure/observability"
	"planner-backend/infrastructure/persistence"
	"planner-backend/infrastructure/persistence/localstore"
	"planner-backend/pkg/ids"
)

type stubBridge struct {
	steps []ports.StepSuggestion
}

func (s *stubBridge) GenerateSteps(ctx context.Context, req ports.StepsRequest) ([]ports.StepSuggestion, error) {
	return s.steps, nil
}

type noopCalendar struct{}

func (noopCalendar) SyncNode(ctx context.Context, node *entities.Node) (string, error) {
	return "evt-test", nil
}

func (noopCalendar) UpdateNode(ctx context.Context, node *entities.Node, eventID string) error {
	return nil
}

func (noopCalendar) DeleteNode(ctx context.Context, eventID string) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerAddress: ":0",
		Environment:   "test",
		EnableMetrics: true,
	}
	logger := zap.NewNop()
	kv := localstore.NewMemory()
	alloc := ids.NewAllocator(kv, logger)
	graph := aggregates.NewGraph(alloc, geometry.NewPalette())
	repo := persistence.NewLocalGraphRepository(kv, logger)
	graphs := services.NewGraphService(graph, repo, alloc, logger)
	bridge := &stubBridge{steps: []ports.StepSuggestion{{Title: "Generated step"}}}

	container := &di.Container{
		Config:       cfg,
		Logger:       logger,
		Store:        kv,
		Allocator:    alloc,
		Files:        repo,
		Graphs:       graphs,
		Selections:   services.NewSelectionService(graphs, logger),
		Autocomplete: services.NewAutocompleteService(graphs, bridge, logger),
		Calendar:     services.NewCalendarService(graphs, noopCalendar{}, logger),
		Metrics:      observability.NewCollector("planner"),
	}

	srv := httptest.NewServer(NewRouter(cfg, container, logger).Setup())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var envelope struct {
		Success bool            `json:"success"`
		Data    T               `json:"data"`
		Error   json.RawMessage `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

type nodePayload struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	ParentID   *int   `json:"parentId"`
	ChildNodes []int  `json:"childNodes"`
	IsObsolete bool   `json:"isObsolete"`
	IsExpanded bool   `json:"isExpanded"`
	HullPoints []struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"hullPoints"`
}

func TestAPI_NodeLifecycle(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	// Create a root node.
	resp := postJSON(t, base+"/nodes", map[string]any{"title": "Root", "x": 10, "y": 20})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	root := decodeData[nodePayload](t, resp)
	assert.Equal(t, "Root", root.Title)
	require.NotNil(t, root.ChildNodes)
	assert.Empty(t, root.ChildNodes)

	// Create a subnode through the dedicated route.
	resp = postJSON(t, fmt.Sprintf("%s/nodes/%d/subnodes", base, root.ID), map[string]any{"title": "Task"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	child := decodeData[nodePayload](t, resp)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	// The parentId shorthand on plain node creation works too.
	resp = postJSON(t, base+"/nodes", map[string]any{"title": "Sibling", "parentId": root.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sibling := decodeData[nodePayload](t, resp)
	require.NotNil(t, sibling.ParentID)
	assert.Equal(t, root.ID, *sibling.ParentID)

	// The parent now carries a hull.
	resp, err := http.Get(fmt.Sprintf("%s/nodes/%d", base, root.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeData[nodePayload](t, resp)
	assert.True(t, len(fetched.HullPoints) >= 3)
	assert.True(t, fetched.IsExpanded)

	// Delete the parent; the child survives as a root.
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/nodes/%d", base, root.ID), nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(fmt.Sprintf("%s/nodes/%d", base, child.ID))
	require.NoError(t, err)
	promoted := decodeData[nodePayload](t, resp)
	assert.Nil(t, promoted.ParentID)
}

func TestAPI_ObsoletePropagation(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	a := decodeData[nodePayload](t, postJSON(t, base+"/nodes", map[string]any{"title": "A"}))
	b := decodeData[nodePayload](t, postJSON(t, base+"/nodes", map[string]any{"title": "B"}))
	resp := postJSON(t, base+"/edges", map[string]any{"source": a.ID, "target": b.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, fmt.Sprintf("%s/nodes/%d/obsolete", base, a.ID), map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	toggled := decodeData[nodePayload](t, resp)
	assert.True(t, toggled.IsObsolete)

	resp, err := http.Get(fmt.Sprintf("%s/nodes/%d", base, b.ID))
	require.NoError(t, err)
	downstream := decodeData[nodePayload](t, resp)
	assert.True(t, downstream.IsObsolete)
}

func TestAPI_RejectsSelfLoopAndCycles(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	a := decodeData[nodePayload](t, postJSON(t, base+"/nodes", map[string]any{"title": "A"}))
	b := decodeData[nodePayload](t, postJSON(t, base+"/nodes", map[string]any{"title": "B"}))

	resp := postJSON(t, base+"/edges", map[string]any{"source": a.ID, "target": a.ID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, fmt.Sprintf("%s/nodes/%d/nest", base, b.ID), map[string]any{"targetId": a.ID})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Nesting A under its own child must fail.
	resp = postJSON(t, fmt.Sprintf("%s/nodes/%d/nest", base, a.ID), map[string]any{"targetId": b.ID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_UnknownNodeIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/nodes/999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/api/v1/nodes/not-a-number")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestAPI_SelectionSessionFlow(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	a := decodeData[nodePayload](t, postJSON(t, base+"/nodes", map[string]any{"title": "A"}))

	resp := postJSON(t, base+"/sessions", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session := decodeData[map[string]string](t, resp)
	sid := session["sessionId"]
	require.NotEmpty(t, sid)

	resp = postJSON(t, base+"/sessions/"+sid+"/click", map[string]any{"nodeId": a.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeData[struct {
		SelectedNodes []int `json:"selectedNodes"`
	}](t, resp)
	assert.Equal(t, []int{a.ID}, state.SelectedNodes)
}

func TestAPI_GraphSnapshotAndTimeline(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	decodeData[nodePayload](t, postJSON(t, base+"/nodes", map[string]any{"title": "A"}))

	req, _ := http.NewRequest(http.MethodPut, base+"/graph/timeline",
		bytes.NewReader([]byte(`{"active":true,"startDate":"2026-09-01"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(base + "/graph")
	require.NoError(t, err)
	snapshot := decodeData[struct {
		Nodes          []nodePayload `json:"nodes"`
		TimelineActive bool          `json:"timelineActive"`
	}](t, resp)
	assert.Len(t, snapshot.Nodes, 1)
	assert.True(t, snapshot.TimelineActive)
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
