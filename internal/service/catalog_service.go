package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/estimator"
	"github.com/ami-aftermarket/quotation-api/internal/mapper"
	"github.com/ami-aftermarket/quotation-api/internal/repository"
)

// CatalogService handles business logic for the parts master
type CatalogService struct {
	partRepo *repository.PartRepository
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(partRepo *repository.PartRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		partRepo: partRepo,
		logger:   logger,
	}
}

// CreatePart registers a new part in the catalog
func (s *CatalogService) CreatePart(ctx context.Context, req *domain.CreatePartRequest) (*domain.PartDTO, error) {
	exists, err := s.partRepo.Exists(ctx, req.PartNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check part existence: %w", err)
	}
	if exists {
		return nil, ErrDuplicatePart
	}

	unit := req.Unit
	if unit == "" {
		unit = domain.UnitPiece
	}
	if !unit.IsValid() {
		return nil, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, unit)
	}

	part := &domain.Part{
		PartNumber:   req.PartNumber,
		Description:  req.Description,
		Unit:         unit,
		StockOnHand:  req.StockOnHand,
		SourcingType: req.SourcingType,
		CostPrice:    decimal.NewFromFloat(req.CostPrice).Round(2),
	}

	if err := s.partRepo.Create(ctx, part); err != nil {
		return nil, fmt.Errorf("failed to create part: %w", err)
	}

	s.logger.Info("Part created",
		zap.String("part_number", part.PartNumber),
		zap.String("sourcing_type", string(part.SourcingType)),
	)

	dto := mapper.ToPartDTO(part)
	return &dto, nil
}

// GetPart returns one catalog part
func (s *CatalogService) GetPart(ctx context.Context, partNumber string) (*domain.PartDTO, error) {
	part, err := s.partRepo.GetByNumber(ctx, partNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, fmt.Errorf("failed to get part: %w", err)
	}

	dto := mapper.ToPartDTO(part)
	return &dto, nil
}

// UpdatePart maintains cost, stock, and sourcing data for an existing part
func (s *CatalogService) UpdatePart(ctx context.Context, partNumber string, req *domain.UpdatePartRequest) (*domain.PartDTO, error) {
	part, err := s.partRepo.GetByNumber(ctx, partNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, fmt.Errorf("failed to get part: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = part.Unit
	}
	if !unit.IsValid() {
		return nil, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, unit)
	}

	part.Description = req.Description
	part.Unit = unit
	part.StockOnHand = req.StockOnHand
	part.SourcingType = req.SourcingType
	part.CostPrice = decimal.NewFromFloat(req.CostPrice).Round(2)

	if err := s.partRepo.Update(ctx, part); err != nil {
		return nil, fmt.Errorf("failed to update part: %w", err)
	}

	dto := mapper.ToPartDTO(part)
	return &dto, nil
}

// ListParts returns a page of the catalog, optionally filtered
func (s *CatalogService) ListParts(ctx context.Context, page, pageSize int, search string, sourcingType domain.SourcingType) ([]domain.PartDTO, int64, error) {
	if sourcingType != "" && !sourcingType.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown sourcing type %q", ErrInvalidInput, sourcingType)
	}

	parts, total, err := s.partRepo.List(ctx, page, pageSize, search, sourcingType)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list parts: %w", err)
	}

	return mapper.ToPartDTOs(parts), total, nil
}

// DeletePart removes a catalog part. Parts referenced by any inquiry are
// protected; maintain them instead.
func (s *CatalogService) DeletePart(ctx context.Context, partNumber string) error {
	if _, err := s.partRepo.GetByNumber(ctx, partNumber); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPartNotFound
		}
		return fmt.Errorf("failed to get part: %w", err)
	}

	count, err := s.partRepo.CountInquiries(ctx, partNumber)
	if err != nil {
		return fmt.Errorf("failed to count inquiries: %w", err)
	}
	if count > 0 {
		return ErrPartReferenced
	}

	if err := s.partRepo.Delete(ctx, partNumber); err != nil {
		return fmt.Errorf("failed to delete part: %w", err)
	}

	s.logger.Info("Part deleted", zap.String("part_number", partNumber))
	return nil
}

// EstimateProcurement returns the heuristic MOQ and leadtime suggestion for
// a part based on its current catalog data.
func (s *CatalogService) EstimateProcurement(ctx context.Context, partNumber string) (*domain.ProcurementEstimateDTO, error) {
	part, err := s.partRepo.GetByNumber(ctx, partNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, fmt.Errorf("failed to get part: %w", err)
	}

	est := estimator.ForPart(part)
	cost, _ := part.CostPrice.Float64()

	return &domain.ProcurementEstimateDTO{
		PartNumber:   part.PartNumber,
		CostPrice:    cost,
		SourcingType: string(part.SourcingType),
		StockOnHand:  part.StockOnHand,
		MOQ:          est.MOQ,
		LeadtimeDays: est.LeadtimeDays,
	}, nil
}
