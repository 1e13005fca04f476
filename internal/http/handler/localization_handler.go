package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

type LocalizationHandler struct {
	localizationService *service.LocalizationService
	logger              *zap.Logger
}

func NewLocalizationHandler(localizationService *service.LocalizationService, logger *zap.Logger) *LocalizationHandler {
	return &LocalizationHandler{
		localizationService: localizationService,
		logger:              logger,
	}
}

// Get godoc
// @Summary Get a localization project
// @Tags Localization
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.LocalizationProjectDTO
// @Failure 404 {object} domain.APIError
// @Router /localizations/{id} [get]
func (h *LocalizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.localizationService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// List godoc
// @Summary List localization projects
// @Tags Localization
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 100)" default(20)
// @Param status query string false "Filter by status" Enums(On Progress, Finished)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.LocalizationProjectDTO}
// @Failure 400 {object} domain.APIError
// @Router /localizations [get]
func (h *LocalizationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.LocalizationStatus(r.URL.Query().Get("status"))

	projects, total, err := h.localizationService.List(r.Context(), page, pageSize, status)
	if err != nil {
		h.logger.Error("failed to list localization projects", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, paginated(projects, total, page, pageSize))
}

// Suppliers godoc
// @Summary Supplier roster
// @Description Suggested suppliers and workshops for localization projects
// @Tags Localization
// @Produce json
// @Success 200 {array} string
// @Router /localizations/suppliers [get]
func (h *LocalizationHandler) Suppliers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.localizationService.Suppliers())
}
