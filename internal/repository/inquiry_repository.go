package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// WithTx returns a repository bound to the given transaction. Workflow
// transitions touch the inquiry together with quotations or localization
// projects and must share one transaction.
func (r *InquiryRepository) WithTx(tx *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: tx}
}

func (r *InquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

func (r *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	err := r.db.WithContext(ctx).Preload("Part").Where("id = ?", id).First(&inquiry).Error
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// GetByIDForUpdate loads the inquiry under a row lock. Every status
// transition goes through this so concurrent transitions on the same inquiry
// serialize at the database.
func (r *InquiryRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&inquiry).Error
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *InquiryRepository) Update(ctx context.Context, inquiry *domain.Inquiry) error {
	return r.db.WithContext(ctx).Save(inquiry).Error
}

func (r *InquiryRepository) List(ctx context.Context, page, pageSize int, status domain.InquiryStatus, customerID domain.CustomerID) ([]domain.Inquiry, int64, error) {
	var inquiries []domain.Inquiry
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Inquiry{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Part").
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&inquiries).Error

	return inquiries, total, err
}

// ListByStatus returns all inquiries in one workflow state, newest first
func (r *InquiryRepository) ListByStatus(ctx context.Context, status domain.InquiryStatus) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	err := r.db.WithContext(ctx).
		Preload("Part").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&inquiries).Error
	return inquiries, err
}

// CountByStatus returns inquiry counts grouped by workflow state
func (r *InquiryRepository) CountByStatus(ctx context.Context) (map[domain.InquiryStatus]int64, error) {
	type statusCount struct {
		Status domain.InquiryStatus
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&domain.Inquiry{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.InquiryStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByPurchaseOrder counts inquiries already carrying a PO number.
// PO numbers must be unique across all inquiries.
func (r *InquiryRepository) CountByPurchaseOrder(ctx context.Context, poNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Inquiry{}).
		Where("purchase_order_number = ?", poNumber).
		Count(&count).Error
	return count, err
}
