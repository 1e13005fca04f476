package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *QuotationRepository) WithTx(tx *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: tx}
}

func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *QuotationRepository) GetByID(ctx context.Context, quoteID string) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).Preload("Inquiry").Where("quote_id = ?", quoteID).First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepository) Update(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Save(quotation).Error
}

// GetLiveByInquiry returns the draft or approved quotation for an inquiry,
// or gorm.ErrRecordNotFound. At most one quotation per inquiry is live;
// rejected quotations never block a new cycle.
func (r *QuotationRepository) GetLiveByInquiry(ctx context.Context, inquiryID uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ? AND status IN ?", inquiryID,
			[]domain.QuotationStatus{domain.QuotationDraft, domain.QuotationApproved}).
		First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// GetApprovedByInquiry returns the approved quotation for an inquiry, or
// gorm.ErrRecordNotFound
func (r *QuotationRepository) GetApprovedByInquiry(ctx context.Context, inquiryID uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ? AND status = ?", inquiryID, domain.QuotationApproved).
		First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// ListByInquiry returns the full quotation history for an inquiry including
// rejected revisions, newest first
func (r *QuotationRepository) ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ?", inquiryID).
		Order("created_at DESC").
		Find(&quotations).Error
	return quotations, err
}

func (r *QuotationRepository) List(ctx context.Context, page, pageSize int, status domain.QuotationStatus) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quotation{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&quotations).Error

	return quotations, total, err
}

// CountByStatus counts quotations in one state
func (r *QuotationRepository) CountByStatus(ctx context.Context, status domain.QuotationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Quotation{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// ApprovedStats aggregates the approved quotations for the dashboard
type ApprovedStats struct {
	Count      int64
	TotalValue float64
	AvgProfit  float64
}

// GetApprovedStats returns count, total sales value, and mean profit
// percentage over approved quotations
func (r *QuotationRepository) GetApprovedStats(ctx context.Context) (*ApprovedStats, error) {
	var stats ApprovedStats
	err := r.db.WithContext(ctx).Model(&domain.Quotation{}).
		Where("status = ?", domain.QuotationApproved).
		Select("COUNT(*) AS count, COALESCE(SUM(sales_price), 0) AS total_value, COALESCE(AVG(profit_percentage), 0) AS avg_profit").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
