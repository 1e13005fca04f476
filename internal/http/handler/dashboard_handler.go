package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/service"
)

type DashboardHandler struct {
	dashboardService    *service.DashboardService
	localizationService *service.LocalizationService
	logger              *zap.Logger
}

func NewDashboardHandler(
	dashboardService *service.DashboardService,
	localizationService *service.LocalizationService,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:    dashboardService,
		localizationService: localizationService,
		logger:              logger,
	}
}

// Metrics godoc
// @Summary Workflow status board
// @Description Inquiry counts per workflow state plus headline workload figures
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardMetrics
// @Failure 500 {object} domain.APIError
// @Router /dashboard [get]
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.Metrics(r.Context())
	if err != nil {
		h.logger.Error("failed to compute dashboard metrics", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}

// OverdueLocalizations godoc
// @Summary Overdue localization projects
// @Description On-progress localization projects past their target finish date
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.LocalizationProjectDTO
// @Failure 500 {object} domain.APIError
// @Router /dashboard/overdue-localizations [get]
func (h *DashboardHandler) OverdueLocalizations(w http.ResponseWriter, r *http.Request) {
	projects, err := h.localizationService.ListOverdue(r.Context(), 0)
	if err != nil {
		h.logger.Error("failed to list overdue localizations", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, projects)
}
