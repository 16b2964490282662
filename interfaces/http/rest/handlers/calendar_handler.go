package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"planner-backend/application/services"
	"planner-backend/infrastructure/observability"
	"planner-backend/pkg/common"
)

// CalendarHandler flushes queued calendar changes to the remote calendar.
type CalendarHandler struct {
	calendar *services.CalendarService
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(
	calendar *services.CalendarService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, metrics: metrics, logger: logger}
}

type syncResponse struct {
	Synced  int `json:"synced"`
	Pending int `json:"pending"`
}

// Sync handles POST /calendar/sync. Failed items stay queued and are
// retried on the next sync.
func (h *CalendarHandler) Sync(w http.ResponseWriter, r *http.Request) {
	synced, err := h.calendar.SyncDirty(r.Context())
	if err != nil {
		h.metrics.CalendarSyncs.WithLabelValues("failure").Inc()
		common.RespondError(w, err)
		return
	}
	h.metrics.CalendarSyncs.WithLabelValues("success").Inc()
	common.RespondJSON(w, http.StatusOK, syncResponse{Synced: synced, Pending: h.calendar.PendingCount()})
}

// Pending handles GET /calendar/pending.
func (h *CalendarHandler) Pending(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]int{"pending": h.calendar.PendingCount()})
}
