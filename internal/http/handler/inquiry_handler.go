package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

type InquiryHandler struct {
	inquiryService      *service.InquiryService
	localizationService *service.LocalizationService
	quotationService    *service.QuotationService
	logger              *zap.Logger
}

func NewInquiryHandler(
	inquiryService *service.InquiryService,
	localizationService *service.LocalizationService,
	quotationService *service.QuotationService,
	logger *zap.Logger,
) *InquiryHandler {
	return &InquiryHandler{
		inquiryService:      inquiryService,
		localizationService: localizationService,
		quotationService:    quotationService,
		logger:              logger,
	}
}

// parseInquiryID reads the inquiry ID path parameter; writes the error
// response itself when it is not a UUID.
func parseInquiryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid inquiry ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary Submit an inquiry
// @Description Register a customer inquiry for a catalog part. The inquiry starts in Pending Validation.
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param inquiry body domain.CreateInquiryRequest true "Inquiry data"
// @Success 201 {object} domain.InquiryDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /inquiries [post]
func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInquiryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create inquiry", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, inquiry)
}

// Get godoc
// @Summary Get an inquiry
// @Tags Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} domain.InquiryDTO
// @Failure 404 {object} domain.APIError
// @Router /inquiries/{id} [get]
func (h *InquiryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInquiryID(w, r)
	if !ok {
		return
	}

	inquiry, err := h.inquiryService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, inquiry)
}

// List godoc
// @Summary List inquiries
// @Description Get paginated list of inquiries with optional filters
// @Tags Inquiries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 100)" default(20)
// @Param status query string false "Filter by workflow status"
// @Param customerId query string false "Filter by customer entity"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.InquiryDTO}
// @Failure 400 {object} domain.APIError
// @Router /inquiries [get]
func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.InquiryStatus(r.URL.Query().Get("status"))
	customerID := domain.CustomerID(r.URL.Query().Get("customerId"))

	inquiries, total, err := h.inquiryService.List(r.Context(), page, pageSize, status, customerID)
	if err != nil {
		h.logger.Error("failed to list inquiries", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, paginated(inquiries, total, page, pageSize))
}

// Customers godoc
// @Summary Customer roster
// @Description The fixed customer entities allowed to submit inquiries
// @Tags Inquiries
// @Produce json
// @Success 200 {array} string
// @Router /customers [get]
func (h *InquiryHandler) Customers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.inquiryService.Customers())
}

// Board godoc
// @Summary Workflow board
// @Description All inquiries grouped by workflow status, one column per status
// @Tags Inquiries
// @Produce json
// @Success 200 {object} map[string][]domain.InquiryDTO
// @Router /inquiries/board [get]
func (h *InquiryHandler) Board(w http.ResponseWriter, r *http.Request) {
	board := make(map[domain.InquiryStatus][]domain.InquiryDTO, len(domain.AllInquiryStatuses))
	for _, status := range domain.AllInquiryStatuses {
		inquiries, err := h.inquiryService.ListByStatus(r.Context(), status)
		if err != nil {
			h.logger.Error("failed to build workflow board", zap.Error(err))
			respondServiceError(w, err)
			return
		}
		board[status] = inquiries
	}

	respondJSON(w, http.StatusOK, board)
}

// Validate godoc
// @Summary Validate an inquiry
// @Description Route a pending inquiry toward costing or the localization sub-process
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param decision body domain.ValidateInquiryRequest true "Validation decision"
// @Success 200 {object} domain.InquiryDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Router /inquiries/{id}/validate [post]
func (h *InquiryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInquiryID(w, r)
	if !ok {
		return
	}

	var req domain.ValidateInquiryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.Validate(r.Context(), id, &req)
	if err != nil {
		h.logger.Warn("inquiry validation rejected",
			zap.String("inquiry_id", id.String()),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, inquiry)
}

// Cancel godoc
// @Summary Cancel an inquiry
// @Description Cancel an inquiry from any non-terminal state. The record is kept.
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param cancellation body domain.CancelInquiryRequest true "Cancellation reason"
// @Success 200 {object} domain.InquiryDTO
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Router /inquiries/{id}/cancel [post]
func (h *InquiryHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInquiryID(w, r)
	if !ok {
		return
	}

	var req domain.CancelInquiryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.Cancel(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, inquiry)
}

// CreatePurchaseOrder godoc
// @Summary Register a purchase order
// @Description Close a finished inquiry with the customer's PO number
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param po body domain.CreatePurchaseOrderRequest true "Purchase order data"
// @Success 200 {object} domain.InquiryDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Router /inquiries/{id}/purchase-order [post]
func (h *InquiryHandler) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInquiryID(w, r)
	if !ok {
		return
	}

	var req domain.CreatePurchaseOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.CreatePurchaseOrder(r.Context(), id, &req)
	if err != nil {
		h.logger.Warn("purchase order rejected",
			zap.String("inquiry_id", id.String()),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, inquiry)
}

// StartLocalization godoc
// @Summary Start localization
// @Description Open a localization project for an inquiry in Needs Localization
// @Tags Localization
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param project body domain.StartLocalizationRequest true "Project data"
// @Success 201 {object} domain.LocalizationProjectDTO
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Router /inquiries/{id}/localization [post]
func (h *InquiryHandler) StartLocalization(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInquiryID(w, r)
	if !ok {
		return
	}

	var req domain.StartLocalizationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.localizationService.Start(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

// FinishLocalization godoc
// @Summary Finish localization
// @Description Close the active localization project. The inquiry moves to Ready for Costing.
// @Tags Localization
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param completion body domain.FinishLocalizationRequest true "Completion notes"
// @Success 200 {object} domain.LocalizationProjectDTO
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Router /inquiries/{id}/localization/finish [post]
func (h *InquiryHandler) FinishLocalization(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInquiryID(w, r)
	if !ok {
		return
	}

	var req domain.FinishLocalizationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.localizationService.Finish(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// Localizations godoc
// @Summary Localization projects for an inquiry
// @Tags Localization
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {array} domain.LocalizationProjectDTO
// @Router /inquiries/{id}/localizations [get]
func (h *InquiryHandler) Localizations(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInquiryID(w, r)
	if !ok {
		return
	}

	projects, err := h.localizationService.ListByInquiry(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

// SubmitQuotation godoc
// @Summary Submit a quotation draft
// @Description Price an inquiry in Ready for Costing or Revise Required and submit the draft for approval
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param draft body domain.SubmitQuotationDraftRequest true "Draft parameters"
// @Success 201 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Router /inquiries/{id}/quotations [post]
func (h *InquiryHandler) SubmitQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInquiryID(w, r)
	if !ok {
		return
	}

	var req domain.SubmitQuotationDraftRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.SubmitDraft(r.Context(), id, &req)
	if err != nil {
		h.logger.Warn("quotation draft rejected",
			zap.String("inquiry_id", id.String()),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, quotation)
}

// QuotationHistory godoc
// @Summary Quotation history for an inquiry
// @Description Full quotation trail including rejected revisions, newest first
// @Tags Quotations
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {array} domain.QuotationDTO
// @Failure 404 {object} domain.APIError
// @Router /inquiries/{id}/quotations [get]
func (h *InquiryHandler) QuotationHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInquiryID(w, r)
	if !ok {
		return
	}

	quotations, err := h.quotationService.History(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotations)
}
