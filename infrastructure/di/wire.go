//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"planner-backend/application/ports"
	"planner-backend/application/services"
	"planner-backend/infrastructure/config"
	"planner-backend/infrastructure/observability"
	"planner-backend/infrastructure/persistence/localstore"
	"planner-backend/pkg/ids"
)

// Container holds all application dependencies.
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        localstore.KV
	Allocator    *ids.Allocator
	Files        ports.FileExchanger
	Graphs       *services.GraphService
	Selections   *services.SelectionService
	Autocomplete *services.AutocompleteService
	Calendar     *services.CalendarService
	Metrics      *observability.Collector
}

// SuperSet is the main provider set containing all providers.
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideLocalStore,
	ProvideAllocator,
	ProvidePalette,
	ProvideGraph,
	ProvideLocalGraphRepository,
	ProvideGraphRepository,
	ProvideFileExchanger,
	ProvideGraphService,
	ProvideSelectionService,
	ProvideAutocompleteClient,
	ProvideAutocompleteService,
	ProvideCalendarClient,
	ProvideCalendarService,
	ProvideMetrics,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container.
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
