package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/recode/internal/api/shared"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/service"
)

// StatsHandler serves the dashboard, the activity graph, the practice
// streak and the counter consistency report.
type StatsHandler struct {
	stats   service.StatsService
	reviews service.ReviewService
	logger  *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats service.StatsService, reviews service.ReviewService, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		stats:   stats,
		reviews: reviews,
		logger:  logger.With(slog.String("component", "stats_handler")),
	}
}

// Dashboard handles GET /api/stats.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	dashboard, err := h.stats.Dashboard(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dashboard)
}

// Activity handles GET /api/stats/activity.
func (h *StatsHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	days, err := h.stats.Activity(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load activity")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, days)
}

// Reconcile handles GET /api/stats/reconcile. It only reports drift; repairs
// are left to the background job.
func (h *StatsHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	report, err := h.stats.Reconcile(r.Context(), userID, false)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// Practice handles POST /api/practice.
func (h *StatsHandler) Practice(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.reviews.RecordPractice(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record practice")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("practice recorded",
		slog.Int("streak", stats.Streak))
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
