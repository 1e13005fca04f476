package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

// QuoteSequenceRepository handles database operations for quote number
// sequences. One row per year guarantees unique, gap-friendly quote numbers
// across all inquiries.
type QuoteSequenceRepository struct {
	db *gorm.DB
}

// NewQuoteSequenceRepository creates a new QuoteSequenceRepository
func NewQuoteSequenceRepository(db *gorm.DB) *QuoteSequenceRepository {
	return &QuoteSequenceRepository{db: db}
}

// WithTx returns a repository bound to the given transaction so quote ID
// allocation can join the draft-submission transaction.
func (r *QuoteSequenceRepository) WithTx(tx *gorm.DB) *QuoteSequenceRepository {
	return &QuoteSequenceRepository{db: tx}
}

// NextNumber atomically retrieves and increments the sequence for a year.
// Uses SELECT FOR UPDATE so concurrent draft submissions never share a
// number. If no sequence exists for the year, it creates one starting at 1.
func (r *QuoteSequenceRepository) NextNumber(ctx context.Context, year int) (int, error) {
	var seq domain.QuoteSequence
	var nextSeq int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&seq)

		if result.Error == gorm.ErrRecordNotFound {
			seq = domain.QuoteSequence{
				Year:         year,
				LastSequence: 1,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create quote sequence: %w", err)
			}
			nextSeq = 1
		} else if result.Error != nil {
			return fmt.Errorf("failed to get quote sequence: %w", result.Error)
		} else {
			nextSeq = seq.LastSequence + 1
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"last_sequence": nextSeq,
				"updated_at":    time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update quote sequence: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return nextSeq, nil
}

// CurrentNumber retrieves the current sequence value without incrementing.
// Returns 0 if no sequence exists for the year.
func (r *QuoteSequenceRepository) CurrentNumber(ctx context.Context, year int) (int, error) {
	var seq domain.QuoteSequence
	result := r.db.WithContext(ctx).
		Where("year = ?", year).
		First(&seq)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get quote sequence: %w", result.Error)
	}

	return seq.LastSequence, nil
}
