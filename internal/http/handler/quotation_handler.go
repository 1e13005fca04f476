package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		logger:           logger,
	}
}

// Get godoc
// @Summary Get a quotation
// @Tags Quotations
// @Produce json
// @Param quoteId path string true "Quote ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 404 {object} domain.APIError
// @Router /quotations/{quoteId} [get]
func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	quoteID := chi.URLParam(r, "quoteId")

	quotation, err := h.quotationService.Get(r.Context(), quoteID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// List godoc
// @Summary List quotations
// @Tags Quotations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 100)" default(20)
// @Param status query string false "Filter by status" Enums(Draft, Approved, Rejected)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.QuotationDTO}
// @Failure 400 {object} domain.APIError
// @Router /quotations [get]
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.QuotationStatus(r.URL.Query().Get("status"))

	quotations, total, err := h.quotationService.List(r.Context(), page, pageSize, status)
	if err != nil {
		h.logger.Error("failed to list quotations", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, paginated(quotations, total, page, pageSize))
}

// Decide godoc
// @Summary Decide a quotation
// @Description Approve or reject a draft quotation. Approval finishes the inquiry; rejection sends it back for revision.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param quoteId path string true "Quote ID"
// @Param decision body domain.DecideQuotationRequest true "Decision"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Router /quotations/{quoteId}/decision [post]
func (h *QuotationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	quoteID := chi.URLParam(r, "quoteId")

	var req domain.DecideQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.Decide(r.Context(), quoteID, &req)
	if err != nil {
		h.logger.Warn("quotation decision rejected",
			zap.String("quote_id", quoteID),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// CalculatePrice godoc
// @Summary Price calculation preview
// @Description Run the deterministic pricing formula without creating a quotation
// @Tags Quotations
// @Accept json
// @Produce json
// @Param input body domain.CalculatePriceRequest true "Cost and profit input"
// @Success 200 {object} domain.PriceBreakdownDTO
// @Failure 400 {object} domain.APIError
// @Router /quotations/calculate [post]
func (h *QuotationHandler) CalculatePrice(w http.ResponseWriter, r *http.Request) {
	var req domain.CalculatePriceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	respondJSON(w, http.StatusOK, h.quotationService.CalculatePreview(&req))
}

// Benchmark godoc
// @Summary Regional price benchmark
// @Description Compare a proposed sales price for a part against the regional pricebook entities
// @Tags Quotations
// @Produce json
// @Param partNumber path string true "Part number"
// @Param proposedPrice query number false "Proposed sales price to compare"
// @Success 200 {object} domain.PriceBenchmarkDTO
// @Failure 404 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Router /parts/{partNumber}/benchmark [get]
func (h *QuotationHandler) Benchmark(w http.ResponseWriter, r *http.Request) {
	partNumber := chi.URLParam(r, "partNumber")

	proposedPrice := 0.0
	if raw := r.URL.Query().Get("proposedPrice"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid proposed price")
			return
		}
		proposedPrice = p
	}

	benchmark, err := h.quotationService.Benchmark(r.Context(), partNumber, proposedPrice)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, benchmark)
}
