package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

type LocalizationRepository struct {
	db *gorm.DB
}

func NewLocalizationRepository(db *gorm.DB) *LocalizationRepository {
	return &LocalizationRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *LocalizationRepository) WithTx(tx *gorm.DB) *LocalizationRepository {
	return &LocalizationRepository{db: tx}
}

func (r *LocalizationRepository) Create(ctx context.Context, project *domain.LocalizationProject) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *LocalizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LocalizationProject, error) {
	var project domain.LocalizationProject
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetActiveByInquiry returns the on-progress project for an inquiry, or
// gorm.ErrRecordNotFound when none exists. An inquiry has at most one.
func (r *LocalizationRepository) GetActiveByInquiry(ctx context.Context, inquiryID uuid.UUID) (*domain.LocalizationProject, error) {
	var project domain.LocalizationProject
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ? AND status = ?", inquiryID, domain.LocalizationOnProgress).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *LocalizationRepository) Update(ctx context.Context, project *domain.LocalizationProject) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *LocalizationRepository) ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.LocalizationProject, error) {
	var projects []domain.LocalizationProject
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ?", inquiryID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *LocalizationRepository) List(ctx context.Context, page, pageSize int, status domain.LocalizationStatus) ([]domain.LocalizationProject, int64, error) {
	var projects []domain.LocalizationProject
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.LocalizationProject{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&projects).Error

	return projects, total, err
}

// ListOverdue returns on-progress projects whose target finish date is more
// than thresholdDays in the past. Projects without a target date are skipped.
func (r *LocalizationRepository) ListOverdue(ctx context.Context, now time.Time, thresholdDays int) ([]domain.LocalizationProject, error) {
	cutoff := now.AddDate(0, 0, -thresholdDays)

	var projects []domain.LocalizationProject
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.LocalizationOnProgress).
		Where("target_finish_date IS NOT NULL AND target_finish_date < ?", cutoff).
		Order("target_finish_date ASC").
		Find(&projects).Error
	return projects, err
}

// CountActive counts projects still on progress
func (r *LocalizationRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.LocalizationProject{}).
		Where("status = ?", domain.LocalizationOnProgress).
		Count(&count).Error
	return count, err
}
