package di

import (
	"go.uber.org/zap"

	"planner-backend/application/ports"
	"planner-backend/application/services"
	"planner-backend/domain/core/aggregates"
	"planner-backend/domain/core/geometry"
	"planner-backend/infrastructure/autocomplete"
	"planner-backend/infrastructure/calendar"
	"planner-backend/infrastructure/config"
	"planner-backend/infrastructure/observability"
	"planner-backend/infrastructure/persistence"
	"planner-backend/infrastructure/persistence/localstore"
	"planner-backend/pkg/ids"
)

// ProvideLogger creates the process logger.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideLocalStore opens the SQLite store. When the file cannot be
// opened the process degrades to an in-memory store instead of
// refusing to start; the planner still works, it just will not
// persist.
func ProvideLocalStore(cfg *config.Config, logger *zap.Logger) localstore.KV {
	store, err := localstore.Open(cfg.DataPath)
	if err != nil {
		logger.Warn("local store unavailable, running in memory",
			zap.String("path", cfg.DataPath),
			zap.Error(err),
		)
		return localstore.NewMemory()
	}
	return store
}

// ProvideAllocator creates the shared node/edge id allocator.
func ProvideAllocator(kv localstore.KV, logger *zap.Logger) *ids.Allocator {
	return ids.NewAllocator(kv, logger)
}

// ProvidePalette creates the hull color rotation.
func ProvidePalette() *geometry.Palette {
	return geometry.NewPalette()
}

// ProvideGraph creates the empty aggregate; GraphService.Initialize
// fills it from the store.
func ProvideGraph(alloc *ids.Allocator, palette *geometry.Palette) *aggregates.Graph {
	return aggregates.NewGraph(alloc, palette)
}

// ProvideLocalGraphRepository creates the store-backed repository.
func ProvideLocalGraphRepository(kv localstore.KV, logger *zap.Logger) *persistence.LocalGraphRepository {
	return persistence.NewLocalGraphRepository(kv, logger)
}

// ProvideGraphRepository exposes the repository behind its port.
func ProvideGraphRepository(repo *persistence.LocalGraphRepository) ports.GraphRepository {
	return repo
}

// ProvideFileExchanger exposes file export/import behind its port.
func ProvideFileExchanger(repo *persistence.LocalGraphRepository) ports.FileExchanger {
	return repo
}

// ProvideGraphService creates the mutation orchestrator.
func ProvideGraphService(
	graph *aggregates.Graph,
	repo ports.GraphRepository,
	alloc *ids.Allocator,
	logger *zap.Logger,
) *services.GraphService {
	return services.NewGraphService(graph, repo, alloc, logger)
}

// ProvideSelectionService creates the selection manager.
func ProvideSelectionService(graphs *services.GraphService, logger *zap.Logger) *services.SelectionService {
	return services.NewSelectionService(graphs, logger)
}

// ProvideAutocompleteClient creates the LLM bridge client.
func ProvideAutocompleteClient(cfg *config.Config, logger *zap.Logger) ports.AutocompleteClient {
	return autocomplete.NewClient(cfg.AutocompleteEndpoint, cfg.AutocompleteAPIKey, logger)
}

// ProvideAutocompleteService creates the step generation service.
func ProvideAutocompleteService(
	graphs *services.GraphService,
	client ports.AutocompleteClient,
	logger *zap.Logger,
) *services.AutocompleteService {
	return services.NewAutocompleteService(graphs, client, logger)
}

// ProvideCalendarClient creates the calendar client.
func ProvideCalendarClient(cfg *config.Config, logger *zap.Logger) ports.CalendarClient {
	return calendar.NewClient(cfg.CalendarBaseURL, cfg.CalendarToken, logger)
}

// ProvideCalendarService creates the dirty-set sync service.
func ProvideCalendarService(
	graphs *services.GraphService,
	client ports.CalendarClient,
	logger *zap.Logger,
) *services.CalendarService {
	return services.NewCalendarService(graphs, client, logger)
}

// ProvideMetrics creates the Prometheus collector.
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("planner")
}
