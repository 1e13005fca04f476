package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *PartRepository) WithTx(tx *gorm.DB) *PartRepository {
	return &PartRepository{db: tx}
}

func (r *PartRepository) Create(ctx context.Context, part *domain.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *PartRepository) GetByNumber(ctx context.Context, partNumber string) (*domain.Part, error) {
	var part domain.Part
	err := r.db.WithContext(ctx).Where("part_number = ?", partNumber).First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *PartRepository) Update(ctx context.Context, part *domain.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

func (r *PartRepository) List(ctx context.Context, page, pageSize int, search string, sourcingType domain.SourcingType) ([]domain.Part, int64, error) {
	var parts []domain.Part
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Part{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(part_number) LIKE ? OR LOWER(description) LIKE ?", searchPattern, searchPattern)
	}
	if sourcingType != "" {
		query = query.Where("sourcing_type = ?", sourcingType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("part_number ASC").Find(&parts).Error

	return parts, total, err
}

func (r *PartRepository) Exists(ctx context.Context, partNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Part{}).
		Where("part_number = ?", partNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *PartRepository) Delete(ctx context.Context, partNumber string) error {
	return r.db.WithContext(ctx).
		Where("part_number = ?", partNumber).
		Delete(&domain.Part{}).Error
}

// CountInquiries counts inquiries referencing a part, used to guard deletion
func (r *PartRepository) CountInquiries(ctx context.Context, partNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Inquiry{}).
		Where("part_number = ?", partNumber).
		Count(&count).Error
	return count, err
}
