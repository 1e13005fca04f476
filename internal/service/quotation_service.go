package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/estimator"
	"github.com/ami-aftermarket/quotation-api/internal/mapper"
	"github.com/ami-aftermarket/quotation-api/internal/pricebook"
	"github.com/ami-aftermarket/quotation-api/internal/pricing"
	"github.com/ami-aftermarket/quotation-api/internal/repository"
)

// QuotationService prices inquiries and runs the draft/approval cycle. An
// inquiry holds at most one live quotation at a time; rejected quotations stay
// in the history and each revision cycle allocates a fresh quote ID.
type QuotationService struct {
	quotationRepo *repository.QuotationRepository
	sequenceRepo  *repository.QuoteSequenceRepository
	inquiryRepo   *repository.InquiryRepository
	partRepo      *repository.PartRepository
	pricebook     *pricebook.Client
	logger        *zap.Logger
	db            *gorm.DB
}

// NewQuotationService creates a new QuotationService. The pricebook client
// may be nil when the benchmark integration is disabled.
func NewQuotationService(
	quotationRepo *repository.QuotationRepository,
	sequenceRepo *repository.QuoteSequenceRepository,
	inquiryRepo *repository.InquiryRepository,
	partRepo *repository.PartRepository,
	pricebookClient *pricebook.Client,
	logger *zap.Logger,
	db *gorm.DB,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		sequenceRepo:  sequenceRepo,
		inquiryRepo:   inquiryRepo,
		partRepo:      partRepo,
		pricebook:     pricebookClient,
		logger:        logger,
		db:            db,
	}
}

// SubmitDraft prices an inquiry in Ready for Costing or Revise Required and
// submits the draft for approval. MOQ and leadtime default to the heuristic
// estimate unless the request overrides them.
func (s *QuotationService) SubmitDraft(ctx context.Context, inquiryID uuid.UUID, req *domain.SubmitQuotationDraftRequest) (*domain.QuotationDTO, error) {
	if !pricing.Feasible(req.ProfitPercentage) {
		return nil, ErrInfeasibleMargin
	}

	var quotation *domain.Quotation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inquiry, err := s.inquiryRepo.WithTx(tx).GetByIDForUpdate(ctx, inquiryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInquiryNotFound
			}
			return fmt.Errorf("failed to load inquiry: %w", err)
		}

		if !inquiry.Status.CanTransitionTo(domain.InquiryWaitingApproval) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inquiry.Status, domain.InquiryWaitingApproval)
		}

		if _, err := s.quotationRepo.WithTx(tx).GetLiveByInquiry(ctx, inquiry.ID); err == nil {
			return ErrQuotationPending
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check live quotation: %w", err)
		}

		part, err := s.partRepo.WithTx(tx).GetByNumber(ctx, inquiry.PartNumber)
		if err != nil {
			return fmt.Errorf("failed to load part: %w", err)
		}

		breakdown := pricing.Calculate(part.CostPrice, req.ProfitPercentage)
		estimate := estimator.ForPart(part)
		if req.MOQ != nil {
			estimate.MOQ = *req.MOQ
		}
		if req.LeadtimeDays != nil {
			estimate.LeadtimeDays = *req.LeadtimeDays
		}

		year := time.Now().UTC().Year()
		seq, err := s.sequenceRepo.WithTx(tx).NextNumber(ctx, year)
		if err != nil {
			return fmt.Errorf("failed to allocate quote number: %w", err)
		}

		quotation = &domain.Quotation{
			QuoteID:          fmt.Sprintf("Q-%d-%05d", year, seq),
			InquiryID:        inquiry.ID,
			CustomerID:       inquiry.CustomerID,
			PartNumber:       inquiry.PartNumber,
			CostPrice:        breakdown.CostPrice,
			ProfitPercentage: req.ProfitPercentage,
			SDC:              breakdown.SDC,
			SVC:              breakdown.SVC,
			SalesPrice:       breakdown.SalesPrice,
			OpProfit:         breakdown.OpProfit,
			MOQ:              estimate.MOQ,
			LeadtimeDays:     estimate.LeadtimeDays,
			Status:           domain.QuotationDraft,
		}
		if err := s.quotationRepo.WithTx(tx).Create(ctx, quotation); err != nil {
			return fmt.Errorf("failed to create quotation: %w", err)
		}

		inquiry.Status = domain.InquiryWaitingApproval
		return s.inquiryRepo.WithTx(tx).Update(ctx, inquiry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quotation draft submitted",
		zap.String("quote_id", quotation.QuoteID),
		zap.String("inquiry_id", inquiryID.String()),
		zap.Float64("profit_percentage", quotation.ProfitPercentage),
		zap.String("sales_price", quotation.SalesPrice.String()),
	)

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// Decide approves or rejects a draft quotation. Approval finishes the
// inquiry; rejection sends it back to Revise Required and bumps the revision
// counter, freeing the inquiry for a new draft under a new quote ID.
func (s *QuotationService) Decide(ctx context.Context, quoteID string, req *domain.DecideQuotationRequest) (*domain.QuotationDTO, error) {
	var quotation *domain.Quotation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		quotation, err = s.quotationRepo.WithTx(tx).GetByID(ctx, quoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuotationNotFound
			}
			return fmt.Errorf("failed to load quotation: %w", err)
		}

		if quotation.Status != domain.QuotationDraft {
			return ErrQuotationDecided
		}

		inquiry, err := s.inquiryRepo.WithTx(tx).GetByIDForUpdate(ctx, quotation.InquiryID)
		if err != nil {
			return fmt.Errorf("failed to load inquiry: %w", err)
		}

		var next domain.InquiryStatus
		switch req.Decision {
		case domain.DecisionApprove:
			quotation.Status = domain.QuotationApproved
			next = domain.InquiryFinished
		case domain.DecisionReject:
			quotation.Status = domain.QuotationRejected
			next = domain.InquiryReviseRequired
			inquiry.RevisionCount++
		default:
			return fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, req.Decision)
		}

		if !inquiry.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inquiry.Status, next)
		}

		if err := s.quotationRepo.WithTx(tx).Update(ctx, quotation); err != nil {
			return fmt.Errorf("failed to update quotation: %w", err)
		}

		inquiry.Status = next
		return s.inquiryRepo.WithTx(tx).Update(ctx, inquiry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quotation decided",
		zap.String("quote_id", quotation.QuoteID),
		zap.String("decision", req.Decision),
		zap.String("status", string(quotation.Status)),
	)

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// Get returns one quotation by quote ID
func (s *QuotationService) Get(ctx context.Context, quoteID string) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// List returns a page of quotations, optionally filtered by status
func (s *QuotationService) List(ctx context.Context, page, pageSize int, status domain.QuotationStatus) ([]domain.QuotationDTO, int64, error) {
	if status != "" && status != domain.QuotationDraft && status != domain.QuotationApproved && status != domain.QuotationRejected {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	quotations, total, err := s.quotationRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotations: %w", err)
	}

	return mapper.ToQuotationDTOs(quotations), total, nil
}

// History returns the full quotation trail for an inquiry including rejected
// revisions, newest first
func (s *QuotationService) History(ctx context.Context, inquiryID uuid.UUID) ([]domain.QuotationDTO, error) {
	if _, err := s.inquiryRepo.GetByID(ctx, inquiryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, fmt.Errorf("failed to load inquiry: %w", err)
	}

	quotations, err := s.quotationRepo.ListByInquiry(ctx, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	return mapper.ToQuotationDTOs(quotations), nil
}

// CalculatePreview runs the pricing formula without touching any inquiry
func (s *QuotationService) CalculatePreview(req *domain.CalculatePriceRequest) *domain.PriceBreakdownDTO {
	breakdown := pricing.Calculate(decimal.NewFromFloat(req.CostPrice), req.ProfitPercentage)
	return mapper.ToPriceBreakdownDTO(breakdown)
}

// Benchmark compares a proposed sales price for a part against the regional
// pricebook entities. Returns ErrPricebookUnavailable when the integration is
// disabled or unreachable.
func (s *QuotationService) Benchmark(ctx context.Context, partNumber string, proposedPrice float64) (*domain.PriceBenchmarkDTO, error) {
	if s.pricebook == nil || !s.pricebook.IsEnabled() {
		return nil, ErrPricebookUnavailable
	}

	if _, err := s.partRepo.GetByNumber(ctx, partNumber); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, fmt.Errorf("failed to load part: %w", err)
	}

	prices, err := s.pricebook.RegionalPrices(ctx, partNumber)
	if err != nil {
		s.logger.Warn("Pricebook lookup failed",
			zap.String("part_number", partNumber),
			zap.Error(err),
		)
		return nil, ErrPricebookUnavailable
	}

	benchmark := &domain.PriceBenchmarkDTO{
		PartNumber:     partNumber,
		ProposedPrice:  proposedPrice,
		RegionalPrices: make([]domain.RegionalPriceDTO, 0, len(prices)),
	}
	for _, p := range prices {
		benchmark.RegionalPrices = append(benchmark.RegionalPrices, mapper.ToRegionalPriceDTO(p))
		if benchmark.LowestRegion == "" || p.UnitPrice < benchmark.LowestPrice {
			benchmark.LowestRegion = p.Region
			benchmark.LowestPrice = p.UnitPrice
		}
	}

	return benchmark, nil
}
