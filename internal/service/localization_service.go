package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/mapper"
	"github.com/ami-aftermarket/quotation-api/internal/repository"
)

// LocalizationService runs the local-sourcing development sub-process for
// imported parts. Starting a project moves the inquiry into development;
// finishing it returns the inquiry to costing. The part master is untouched;
// sourcing changes go through part maintenance.
type LocalizationService struct {
	localizationRepo *repository.LocalizationRepository
	inquiryRepo      *repository.InquiryRepository
	logger           *zap.Logger
	db               *gorm.DB
}

// NewLocalizationService creates a new LocalizationService
func NewLocalizationService(
	localizationRepo *repository.LocalizationRepository,
	inquiryRepo *repository.InquiryRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *LocalizationService {
	return &LocalizationService{
		localizationRepo: localizationRepo,
		inquiryRepo:      inquiryRepo,
		logger:           logger,
		db:               db,
	}
}

// Start opens a localization project for an inquiry in Needs Localization and
// moves the inquiry into In Development
func (s *LocalizationService) Start(ctx context.Context, inquiryID uuid.UUID, req *domain.StartLocalizationRequest) (*domain.LocalizationProjectDTO, error) {
	var project *domain.LocalizationProject

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inquiry, err := s.inquiryRepo.WithTx(tx).GetByIDForUpdate(ctx, inquiryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInquiryNotFound
			}
			return fmt.Errorf("failed to load inquiry: %w", err)
		}

		if !inquiry.Status.CanTransitionTo(domain.InquiryInDevelopment) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inquiry.Status, domain.InquiryInDevelopment)
		}

		project = &domain.LocalizationProject{
			InquiryID:    inquiry.ID,
			PartNumber:   inquiry.PartNumber,
			SupplierName: req.SupplierName,
			StartDate:    time.Now().UTC(),
			Status:       domain.LocalizationOnProgress,
			Notes:        req.Notes,
		}
		if req.TargetFinishDate != nil {
			project.TargetFinishDate = req.TargetFinishDate.UTC()
		}

		if err := s.localizationRepo.WithTx(tx).Create(ctx, project); err != nil {
			return fmt.Errorf("failed to create localization project: %w", err)
		}

		inquiry.Status = domain.InquiryInDevelopment
		return s.inquiryRepo.WithTx(tx).Update(ctx, inquiry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Localization project started",
		zap.String("project_id", project.ID.String()),
		zap.String("inquiry_id", inquiryID.String()),
		zap.String("part_number", project.PartNumber),
		zap.String("supplier", project.SupplierName),
	)

	dto := mapper.ToLocalizationProjectDTO(project)
	return &dto, nil
}

// Finish closes the active localization project for an inquiry and returns
// the inquiry to Ready for Costing.
func (s *LocalizationService) Finish(ctx context.Context, inquiryID uuid.UUID, req *domain.FinishLocalizationRequest) (*domain.LocalizationProjectDTO, error) {
	var project *domain.LocalizationProject

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inquiry, err := s.inquiryRepo.WithTx(tx).GetByIDForUpdate(ctx, inquiryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInquiryNotFound
			}
			return fmt.Errorf("failed to load inquiry: %w", err)
		}

		if !inquiry.Status.CanTransitionTo(domain.InquiryReadyForCosting) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inquiry.Status, domain.InquiryReadyForCosting)
		}

		project, err = s.localizationRepo.WithTx(tx).GetActiveByInquiry(ctx, inquiry.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLocalizationNotFound
			}
			return fmt.Errorf("failed to load localization project: %w", err)
		}

		project.Status = domain.LocalizationFinished
		if req.Notes != "" {
			project.Notes = req.Notes
		}
		if err := s.localizationRepo.WithTx(tx).Update(ctx, project); err != nil {
			return fmt.Errorf("failed to update localization project: %w", err)
		}

		inquiry.Status = domain.InquiryReadyForCosting
		return s.inquiryRepo.WithTx(tx).Update(ctx, inquiry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Localization project finished",
		zap.String("project_id", project.ID.String()),
		zap.String("inquiry_id", inquiryID.String()),
		zap.String("part_number", project.PartNumber),
	)

	dto := mapper.ToLocalizationProjectDTO(project)
	return &dto, nil
}

// Get returns one localization project
func (s *LocalizationService) Get(ctx context.Context, id uuid.UUID) (*domain.LocalizationProjectDTO, error) {
	project, err := s.localizationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocalizationNotFound
		}
		return nil, fmt.Errorf("failed to get localization project: %w", err)
	}

	dto := mapper.ToLocalizationProjectDTO(project)
	return &dto, nil
}

// List returns a page of localization projects, optionally filtered by status
func (s *LocalizationService) List(ctx context.Context, page, pageSize int, status domain.LocalizationStatus) ([]domain.LocalizationProjectDTO, int64, error) {
	if status != "" && status != domain.LocalizationOnProgress && status != domain.LocalizationFinished {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	projects, total, err := s.localizationRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list localization projects: %w", err)
	}

	return mapper.ToLocalizationProjectDTOs(projects), total, nil
}

// ListByInquiry returns every localization project attached to an inquiry
func (s *LocalizationService) ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.LocalizationProjectDTO, error) {
	projects, err := s.localizationRepo.ListByInquiry(ctx, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list localization projects: %w", err)
	}
	return mapper.ToLocalizationProjectDTOs(projects), nil
}

// ListOverdue returns on-progress projects past their target finish date by
// more than thresholdDays. Used by the reminder job.
func (s *LocalizationService) ListOverdue(ctx context.Context, thresholdDays int) ([]domain.LocalizationProjectDTO, error) {
	projects, err := s.localizationRepo.ListOverdue(ctx, time.Now().UTC(), thresholdDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue projects: %w", err)
	}
	return mapper.ToLocalizationProjectDTOs(projects), nil
}

// Suppliers returns the suggested supplier roster for selection UIs
func (s *LocalizationService) Suppliers() []string {
	return domain.SupplierRoster()
}
