package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/repository"
)

// DashboardService aggregates the live workload figures shown on the
// workflow status board
type DashboardService struct {
	inquiryRepo      *repository.InquiryRepository
	localizationRepo *repository.LocalizationRepository
	quotationRepo    *repository.QuotationRepository
	logger           *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	inquiryRepo *repository.InquiryRepository,
	localizationRepo *repository.LocalizationRepository,
	quotationRepo *repository.QuotationRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		inquiryRepo:      inquiryRepo,
		localizationRepo: localizationRepo,
		quotationRepo:    quotationRepo,
		logger:           logger,
	}
}

// Metrics computes the status board counts plus the headline figures. Empty
// statuses appear with a zero count so the board shape is stable.
func (s *DashboardService) Metrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	counts, err := s.inquiryRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count inquiries: %w", err)
	}

	metrics := &domain.DashboardMetrics{
		StatusCounts: make([]domain.StatusCountDTO, 0, len(domain.AllInquiryStatuses)),
	}
	for _, status := range domain.AllInquiryStatuses {
		count := counts[status]
		metrics.StatusCounts = append(metrics.StatusCounts, domain.StatusCountDTO{
			Status: status,
			Count:  count,
		})
		if !status.IsTerminal() {
			metrics.OpenInquiries += count
		}
	}
	metrics.POCount = counts[domain.InquiryPOCreated]

	if metrics.ActiveLocalizations, err = s.localizationRepo.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("failed to count localizations: %w", err)
	}

	if metrics.PendingApprovals, err = s.quotationRepo.CountByStatus(ctx, domain.QuotationDraft); err != nil {
		return nil, fmt.Errorf("failed to count pending approvals: %w", err)
	}

	stats, err := s.quotationRepo.GetApprovedStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate approved quotations: %w", err)
	}
	metrics.ApprovedCount = stats.Count
	metrics.ApprovedValue = stats.TotalValue
	metrics.AvgProfitPercentage = stats.AvgProfit

	return metrics, nil
}
