package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"planner-backend/infrastructure/config"
	"planner-backend/infrastructure/di"
	"planner-backend/interfaces/http/rest/handlers"
	"planner-backend/interfaces/http/rest/middleware"
	"planner-backend/pkg/ratelimit"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, container *di.Container, logger *zap.Logger) *Router {
	return &Router{
		cfg:       cfg,
		container: container,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.container.Metrics))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"http://localhost:*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.cfg.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", rt.container.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		// Graph endpoints
		graphHandler := handlers.NewGraphHandler(rt.container.Graphs, rt.container.Files, rt.logger)
		r.Route("/graph", func(r chi.Router) {
			r.Get("/", graphHandler.GetGraph)
			r.Put("/", graphHandler.ReplaceGraph)
			r.Put("/timeline", graphHandler.SetTimeline)
			r.Post("/export", graphHandler.Export)
			r.Post("/import", graphHandler.Import)
		})

		// Node endpoints
		nodeHandler := handlers.NewNodeHandler(rt.container.Graphs, rt.container.Calendar, rt.container.Metrics, rt.logger)
		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", nodeHandler.CreateNode)
			r.Post("/collapse", nodeHandler.Collapse)
			r.Get("/{nodeID}", nodeHandler.GetNode)
			r.Patch("/{nodeID}", nodeHandler.UpdateNode)
			r.Delete("/{nodeID}", nodeHandler.DeleteNode)
			r.Post("/{nodeID}/subnodes", nodeHandler.CreateSubnode)
			r.Post("/{nodeID}/obsolete", nodeHandler.MarkObsolete)
			r.Post("/{nodeID}/expand", nodeHandler.ToggleExpand)
			r.Post("/{nodeID}/nest", nodeHandler.Nest)
			r.Post("/{nodeID}/hull", nodeHandler.RecomputeHull)
		})

		// Edge endpoints
		edgeHandler := handlers.NewEdgeHandler(rt.container.Graphs, rt.container.Metrics, rt.logger)
		r.Route("/edges", func(r chi.Router) {
			r.Post("/", edgeHandler.CreateEdge)
			r.Get("/{edgeID}", edgeHandler.GetEdge)
			r.Patch("/{edgeID}", edgeHandler.UpdateEdge)
			r.Delete("/{edgeID}", edgeHandler.DeleteEdge)
		})

		// Selection session endpoints
		selectionHandler := handlers.NewSelectionHandler(rt.container.Selections, rt.logger)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", selectionHandler.CreateSession)
			r.Get("/{sessionID}", selectionHandler.GetState)
			r.Post("/{sessionID}/click", selectionHandler.Click)
			r.Post("/{sessionID}/select-edge", selectionHandler.SelectEdge)
			r.Post("/{sessionID}/multi-select", selectionHandler.MultiSelect)
			r.Post("/{sessionID}/delete", selectionHandler.DeleteSelected)
			r.Post("/{sessionID}/escape", selectionHandler.Escape)
		})

		// Autocomplete endpoint, throttled: each call fans out to the
		// generation bridge.
		autocompleteHandler := handlers.NewAutocompleteHandler(rt.container.Autocomplete, rt.container.Metrics, rt.logger)
		r.Route("/autocomplete", func(r chi.Router) {
			r.Use(middleware.RateLimit(ratelimit.NewTokenBucket(5, 10*time.Second)))
			r.Post("/generate", autocompleteHandler.Generate)
		})

		// Calendar endpoints
		calendarHandler := handlers.NewCalendarHandler(rt.container.Calendar, rt.container.Metrics, rt.logger)
		r.Route("/calendar", func(r chi.Router) {
			r.Post("/sync", calendarHandler.Sync)
			r.Get("/pending", calendarHandler.Pending)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
