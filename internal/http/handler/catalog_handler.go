package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// Create godoc
// @Summary Register a part
// @Description Add a spare part to the catalog
// @Tags Parts
// @Accept json
// @Produce json
// @Param part body domain.CreatePartRequest true "Part data"
// @Success 201 {object} domain.PartDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /parts [post]
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePartRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	part, err := h.catalogService.CreatePart(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create part", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, part)
}

// Get godoc
// @Summary Get a part
// @Tags Parts
// @Produce json
// @Param partNumber path string true "Part number"
// @Success 200 {object} domain.PartDTO
// @Failure 404 {object} domain.APIError
// @Router /parts/{partNumber} [get]
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	partNumber := chi.URLParam(r, "partNumber")

	part, err := h.catalogService.GetPart(r.Context(), partNumber)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, part)
}

// Update godoc
// @Summary Update a part
// @Description Update catalog data for a part. The part number itself is immutable.
// @Tags Parts
// @Accept json
// @Produce json
// @Param partNumber path string true "Part number"
// @Param part body domain.UpdatePartRequest true "Part data"
// @Success 200 {object} domain.PartDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /parts/{partNumber} [put]
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	partNumber := chi.URLParam(r, "partNumber")

	var req domain.UpdatePartRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	part, err := h.catalogService.UpdatePart(r.Context(), partNumber, &req)
	if err != nil {
		h.logger.Error("failed to update part", zap.String("part_number", partNumber), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, part)
}

// Delete godoc
// @Summary Delete a part
// @Description Remove a catalog part. Parts referenced by inquiries cannot be deleted.
// @Tags Parts
// @Produce json
// @Param partNumber path string true "Part number"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /parts/{partNumber} [delete]
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	partNumber := chi.URLParam(r, "partNumber")

	if err := h.catalogService.DeletePart(r.Context(), partNumber); err != nil {
		h.logger.Warn("part deletion rejected", zap.String("part_number", partNumber), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List godoc
// @Summary List parts
// @Description Get paginated list of catalog parts with optional filters
// @Tags Parts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search by part number or description"
// @Param sourcingType query string false "Filter by sourcing type" Enums(Local, Import)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PartDTO}
// @Failure 400 {object} domain.APIError
// @Router /parts [get]
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	search := r.URL.Query().Get("search")
	sourcingType := domain.SourcingType(r.URL.Query().Get("sourcingType"))

	parts, total, err := h.catalogService.ListParts(r.Context(), page, pageSize, search, sourcingType)
	if err != nil {
		h.logger.Error("failed to list parts", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, paginated(parts, total, page, pageSize))
}

// EstimateProcurement godoc
// @Summary Estimate MOQ and leadtime
// @Description Heuristic procurement estimate for a part based on cost, sourcing, and stock
// @Tags Parts
// @Produce json
// @Param partNumber path string true "Part number"
// @Success 200 {object} domain.ProcurementEstimateDTO
// @Failure 404 {object} domain.APIError
// @Router /parts/{partNumber}/estimate [get]
func (h *CatalogHandler) EstimateProcurement(w http.ResponseWriter, r *http.Request) {
	partNumber := chi.URLParam(r, "partNumber")

	estimate, err := h.catalogService.EstimateProcurement(r.Context(), partNumber)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}
