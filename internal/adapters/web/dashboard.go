package web

import (
	"net/http"

	"parts-pos/internal/core"
)

// dashboardStats handles GET /api/dashboard/stats.
func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetDashboardStats(r.Context(), core.DefaultRecentSales)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
