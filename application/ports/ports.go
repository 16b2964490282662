// Package ports defines the interfaces between the application layer
// and everything outside it: persistence and the external
// collaborators the graph core only consumes.
package ports

import (
	"context"

	"planner-backend/domain/core/aggregates"
	"planner-backend/domain/core/entities"
	"planner-backend/domain/core/valueobjects"
)

// GraphRepository persists the full graph. Save is best-effort: the
// caller logs failures and keeps going, so implementations must never
// panic on storage trouble.
type GraphRepository interface {
	// Save writes the graph. Saving an empty graph is a no-op so a
	// fresh process cannot clobber existing data before its first load.
	Save(ctx context.Context, data aggregates.GraphData) error

	// Load returns nil (not an error) when no graph is stored or the
	// stored payload fails to parse.
	Load(ctx context.Context) (*aggregates.GraphData, error)
}

// FileExchanger moves graphs in and out of exchange files using the
// same schema as the durable store.
type FileExchanger interface {
	ExportFile(path string, data aggregates.GraphData) error

	// ImportFile returns nil on a missing or malformed file.
	ImportFile(path string) (*aggregates.GraphData, error)
}

// StepRef describes one endpoint node of an autocomplete request.
type StepRef struct {
	ID       valueobjects.ID `json:"id"`
	Title    string          `json:"title"`
	Markdown string          `json:"markdown"`
}

// StepsRequest asks the LLM bridge for intermediate steps between the
// start nodes and the goal nodes.
type StepsRequest struct {
	StartNodes []StepRef `json:"startNodes"`
	GoalNodes  []StepRef `json:"goalNodes"`
}

// StepSuggestion is one generated intermediate step.
type StepSuggestion struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// AutocompleteClient calls the external LLM bridge. One request per
// invocation, no retries; any malformed response is an error.
type AutocompleteClient interface {
	GenerateSteps(ctx context.Context, req StepsRequest) ([]StepSuggestion, error)
}

// CalendarClient pushes dated nodes to the external calendar. The
// graph core only reads and writes the day and calendarEventId fields;
// auth and event formatting live behind this port.
type CalendarClient interface {
	SyncNode(ctx context.Context, node *entities.Node) (eventID string, err error)
	UpdateNode(ctx context.Context, node *entities.Node, eventID string) error
	DeleteNode(ctx context.Context, eventID string) error
}
