package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// SendOffer godoc
// @Summary Send an offer letter
// @Description E-mail the offer letter for an approved quotation and archive the letter text
// @Tags Notifications
// @Accept json
// @Produce json
// @Param quoteId path string true "Quote ID"
// @Param offer body domain.SendOfferRequest true "Recipient"
// @Success 200 {object} domain.NotificationDTO
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Router /quotations/{quoteId}/send [post]
func (h *NotificationHandler) SendOffer(w http.ResponseWriter, r *http.Request) {
	quoteID := chi.URLParam(r, "quoteId")

	var req domain.SendOfferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	notification, err := h.notificationService.SendOffer(r.Context(), quoteID, &req)
	if err != nil {
		h.logger.Warn("offer send rejected",
			zap.String("quote_id", quoteID),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, notification)
}

// GetLetter godoc
// @Summary Get the archived offer letter
// @Tags Notifications
// @Produce plain
// @Param quoteId path string true "Quote ID"
// @Success 200 {string} string "Offer letter text"
// @Failure 404 {object} domain.APIError
// @Router /quotations/{quoteId}/letter [get]
func (h *NotificationHandler) GetLetter(w http.ResponseWriter, r *http.Request) {
	quoteID := chi.URLParam(r, "quoteId")

	letter, err := h.notificationService.GetLetter(r.Context(), quoteID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(letter))
}

// ListByQuote godoc
// @Summary Send log for a quotation
// @Tags Notifications
// @Produce json
// @Param quoteId path string true "Quote ID"
// @Success 200 {array} domain.NotificationDTO
// @Router /quotations/{quoteId}/notifications [get]
func (h *NotificationHandler) ListByQuote(w http.ResponseWriter, r *http.Request) {
	quoteID := chi.URLParam(r, "quoteId")

	notifications, err := h.notificationService.ListByQuote(r.Context(), quoteID)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// List godoc
// @Summary List the outbound send log
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 100)" default(20)
// @Param status query string false "Filter by delivery status" Enums(sent, failed)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.NotificationDTO}
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.NotificationStatus(r.URL.Query().Get("status"))

	notifications, total, err := h.notificationService.List(r.Context(), page, pageSize, status)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, paginated(notifications, total, page, pageSize))
}
