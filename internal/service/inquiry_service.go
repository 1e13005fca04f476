package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/mapper"
	"github.com/ami-aftermarket/quotation-api/internal/repository"
)

// InquiryService drives the inquiry workflow from submission through
// validation to its terminal state. All transitions load the inquiry under a
// row lock inside a transaction, so concurrent transitions on the same
// inquiry serialize and validate against fresh state.
type InquiryService struct {
	inquiryRepo   *repository.InquiryRepository
	partRepo      *repository.PartRepository
	quotationRepo *repository.QuotationRepository
	logger        *zap.Logger
	db            *gorm.DB
}

// NewInquiryService creates a new InquiryService
func NewInquiryService(
	inquiryRepo *repository.InquiryRepository,
	partRepo *repository.PartRepository,
	quotationRepo *repository.QuotationRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *InquiryService {
	return &InquiryService{
		inquiryRepo:   inquiryRepo,
		partRepo:      partRepo,
		quotationRepo: quotationRepo,
		logger:        logger,
		db:            db,
	}
}

// Create registers a new customer inquiry in Pending Validation
func (s *InquiryService) Create(ctx context.Context, req *domain.CreateInquiryRequest) (*domain.InquiryDTO, error) {
	if !domain.IsValidCustomerID(req.CustomerID) {
		return nil, ErrUnknownCustomer
	}

	part, err := s.partRepo.GetByNumber(ctx, req.PartNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, fmt.Errorf("failed to verify part: %w", err)
	}

	inquiry := &domain.Inquiry{
		CustomerID: domain.CustomerID(req.CustomerID),
		PartNumber: part.PartNumber,
		Quantity:   req.Quantity,
		Status:     domain.InquiryPendingValidation,
	}

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}

	s.logger.Info("Inquiry created",
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.String("customer_id", string(inquiry.CustomerID)),
		zap.String("part_number", inquiry.PartNumber),
		zap.Int("quantity", inquiry.Quantity),
	)

	inquiry.Part = part
	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}

// Customers returns the fixed roster of customer entities allowed to submit
// inquiries
func (s *InquiryService) Customers() []domain.CustomerID {
	return domain.CustomerRoster()
}

// Get returns one inquiry
func (s *InquiryService) Get(ctx context.Context, id uuid.UUID) (*domain.InquiryDTO, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}

// List returns a page of inquiries, optionally filtered by status and customer
func (s *InquiryService) List(ctx context.Context, page, pageSize int, status domain.InquiryStatus, customerID domain.CustomerID) ([]domain.InquiryDTO, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if customerID != "" && !domain.IsValidCustomerID(string(customerID)) {
		return nil, 0, ErrUnknownCustomer
	}

	inquiries, total, err := s.inquiryRepo.List(ctx, page, pageSize, status, customerID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}

	return mapper.ToInquiryDTOs(inquiries), total, nil
}

// ListByStatus returns every inquiry in one workflow state
func (s *InquiryService) ListByStatus(ctx context.Context, status domain.InquiryStatus) ([]domain.InquiryDTO, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	inquiries, err := s.inquiryRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}

	return mapper.ToInquiryDTOs(inquiries), nil
}

// Validate routes a pending inquiry toward costing or the localization
// sub-process. The costing route requires a locally sourced part; the
// localization route an imported one.
func (s *InquiryService) Validate(ctx context.Context, id uuid.UUID, req *domain.ValidateInquiryRequest) (*domain.InquiryDTO, error) {
	var inquiry *domain.Inquiry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inquiry, err = s.inquiryRepo.WithTx(tx).GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInquiryNotFound
			}
			return fmt.Errorf("failed to load inquiry: %w", err)
		}

		part, err := s.partRepo.GetByNumber(ctx, inquiry.PartNumber)
		if err != nil {
			return fmt.Errorf("failed to load part: %w", err)
		}

		var next domain.InquiryStatus
		switch req.Decision {
		case domain.DecisionCosting:
			if part.SourcingType != domain.SourcingLocal {
				return ErrLocalizationRequired
			}
			next = domain.InquiryReadyForCosting
		case domain.DecisionLocalization:
			if part.SourcingType != domain.SourcingImport {
				return ErrLocalizationNotApplicable
			}
			next = domain.InquiryNeedsLocalization
		default:
			return fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, req.Decision)
		}

		if !inquiry.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inquiry.Status, next)
		}

		inquiry.Status = next
		return s.inquiryRepo.WithTx(tx).Update(ctx, inquiry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Inquiry validated",
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.String("decision", req.Decision),
		zap.String("status", string(inquiry.Status)),
	)

	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}

// Cancel moves an inquiry to Cancelled from any non-terminal state. The
// record is kept; cancellation is a status, not a deletion.
func (s *InquiryService) Cancel(ctx context.Context, id uuid.UUID, req *domain.CancelInquiryRequest) (*domain.InquiryDTO, error) {
	var inquiry *domain.Inquiry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inquiry, err = s.inquiryRepo.WithTx(tx).GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInquiryNotFound
			}
			return fmt.Errorf("failed to load inquiry: %w", err)
		}

		if !inquiry.Status.CanTransitionTo(domain.InquiryCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inquiry.Status, domain.InquiryCancelled)
		}

		inquiry.Status = domain.InquiryCancelled
		return s.inquiryRepo.WithTx(tx).Update(ctx, inquiry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Inquiry cancelled",
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.String("reason", req.Reason),
	)

	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}

// CreatePurchaseOrder closes a finished inquiry with a customer PO number.
// The inquiry must hold an approved quotation and the PO number must be
// unique across all inquiries.
func (s *InquiryService) CreatePurchaseOrder(ctx context.Context, id uuid.UUID, req *domain.CreatePurchaseOrderRequest) (*domain.InquiryDTO, error) {
	var inquiry *domain.Inquiry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inquiry, err = s.inquiryRepo.WithTx(tx).GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInquiryNotFound
			}
			return fmt.Errorf("failed to load inquiry: %w", err)
		}

		if !inquiry.Status.CanTransitionTo(domain.InquiryPOCreated) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inquiry.Status, domain.InquiryPOCreated)
		}

		if _, err := s.quotationRepo.WithTx(tx).GetApprovedByInquiry(ctx, inquiry.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoApprovedQuotation
			}
			return fmt.Errorf("failed to check quotation: %w", err)
		}

		count, err := s.inquiryRepo.WithTx(tx).CountByPurchaseOrder(ctx, req.PurchaseOrderNumber)
		if err != nil {
			return fmt.Errorf("failed to check PO number: %w", err)
		}
		if count > 0 {
			return ErrDuplicatePurchaseOrder
		}

		inquiry.Status = domain.InquiryPOCreated
		inquiry.PurchaseOrderNumber = req.PurchaseOrderNumber
		return s.inquiryRepo.WithTx(tx).Update(ctx, inquiry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order registered",
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.String("po_number", inquiry.PurchaseOrderNumber),
	)

	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}
