package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ami-aftermarket/quotation-api/internal/database"
	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/repository"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

// testEnv wires the full service layer against an in-memory SQLite database.
// SQLite ignores row-locking clauses, so the locked transactions run unchanged.
type testEnv struct {
	db            *gorm.DB
	partRepo      *repository.PartRepository
	inquiryRepo   *repository.InquiryRepository
	catalog       *service.CatalogService
	inquiries     *service.InquiryService
	localizations *service.LocalizationService
	quotations    *service.QuotationService
	dashboard     *service.DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	log := zap.NewNop()

	partRepo := repository.NewPartRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	localizationRepo := repository.NewLocalizationRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	sequenceRepo := repository.NewQuoteSequenceRepository(db)

	return &testEnv{
		db:            db,
		partRepo:      partRepo,
		inquiryRepo:   inquiryRepo,
		catalog:       service.NewCatalogService(partRepo, log),
		inquiries:     service.NewInquiryService(inquiryRepo, partRepo, quotationRepo, log, db),
		localizations: service.NewLocalizationService(localizationRepo, inquiryRepo, log, db),
		quotations:    service.NewQuotationService(quotationRepo, sequenceRepo, inquiryRepo, partRepo, nil, log, db),
		dashboard:     service.NewDashboardService(inquiryRepo, localizationRepo, quotationRepo, log),
	}
}

func (e *testEnv) createPart(t *testing.T, ctx context.Context, number string, sourcing domain.SourcingType, cost float64, stock int) *domain.Part {
	t.Helper()
	part := &domain.Part{
		PartNumber:   number,
		Description:  "Test part " + number,
		Unit:         domain.UnitPiece,
		StockOnHand:  stock,
		SourcingType: sourcing,
		CostPrice:    decimal.NewFromFloat(cost),
	}
	require.NoError(t, e.partRepo.Create(ctx, part))
	return part
}

func (e *testEnv) createInquiry(t *testing.T, ctx context.Context, customer, partNumber string) *domain.InquiryDTO {
	t.Helper()
	dto, err := e.inquiries.Create(ctx, &domain.CreateInquiryRequest{
		CustomerID: customer,
		PartNumber: partNumber,
		Quantity:   5,
	})
	require.NoError(t, err)
	return dto
}

// inquiryReadyForCosting creates an inquiry and validates it down the costing
// route.
func (e *testEnv) inquiryReadyForCosting(t *testing.T, ctx context.Context, customer, partNumber string) uuid.UUID {
	t.Helper()
	created := e.createInquiry(t, ctx, customer, partNumber)
	_, err := e.inquiries.Validate(ctx, created.ID, &domain.ValidateInquiryRequest{Decision: domain.DecisionCosting})
	require.NoError(t, err)
	return created.ID
}

// inquiryWithDraft drives an inquiry to Waiting Approval and returns the
// inquiry ID together with the draft quotation.
func (e *testEnv) inquiryWithDraft(t *testing.T, ctx context.Context, customer, partNumber string, profit float64) (uuid.UUID, *domain.QuotationDTO) {
	t.Helper()
	id := e.inquiryReadyForCosting(t, ctx, customer, partNumber)
	quote, err := e.quotations.SubmitDraft(ctx, id, &domain.SubmitQuotationDraftRequest{ProfitPercentage: profit})
	require.NoError(t, err)
	return id, quote
}

// inquiryFinished drives an inquiry all the way to Finished with an approved
// quotation.
func (e *testEnv) inquiryFinished(t *testing.T, ctx context.Context, customer, partNumber string) (uuid.UUID, *domain.QuotationDTO) {
	t.Helper()
	id, quote := e.inquiryWithDraft(t, ctx, customer, partNumber, 10)
	approved, err := e.quotations.Decide(ctx, quote.QuoteID, &domain.DecideQuotationRequest{Decision: domain.DecisionApprove})
	require.NoError(t, err)
	return id, approved
}

func (e *testEnv) inquiryStatus(t *testing.T, ctx context.Context, id uuid.UUID) domain.InquiryStatus {
	t.Helper()
	dto, err := e.inquiries.Get(ctx, id)
	require.NoError(t, err)
	return dto.Status
}
