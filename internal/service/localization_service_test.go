package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

// inquiryNeedsLocalization creates an imported-part inquiry and routes it into
// the localization sub-process.
func inquiryNeedsLocalization(t *testing.T, ctx context.Context, env *testEnv, partNumber string) uuid.UUID {
	t.Helper()
	created := env.createInquiry(t, ctx, "KMSI", partNumber)
	_, err := env.inquiries.Validate(ctx, created.ID, &domain.ValidateInquiryRequest{Decision: domain.DecisionLocalization})
	require.NoError(t, err)
	return created.ID
}

func TestLocalizationStart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 200, 0)
	id := inquiryNeedsLocalization(t, ctx, env, "IMP-3003")

	target := time.Now().UTC().AddDate(0, 2, 0)
	dto, err := env.localizations.Start(ctx, id, &domain.StartLocalizationRequest{
		SupplierName:     "PT Astra Components",
		TargetFinishDate: &target,
		Notes:            "cast and machine locally",
	})
	require.NoError(t, err)

	assert.Equal(t, id, dto.InquiryID)
	assert.Equal(t, "IMP-3003", dto.PartNumber)
	assert.Equal(t, "PT Astra Components", dto.SupplierName)
	assert.Equal(t, domain.LocalizationOnProgress, dto.Status)
	assert.NotEmpty(t, dto.StartDate)
	assert.NotEmpty(t, dto.TargetFinishDate)

	assert.Equal(t, domain.InquiryInDevelopment, env.inquiryStatus(t, ctx, id))
}

func TestLocalizationStartWrongState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 200, 0)
	created := env.createInquiry(t, ctx, "KCIC", "IMP-3003")

	// Still Pending Validation, development cannot start yet.
	_, err := env.localizations.Start(ctx, created.ID, &domain.StartLocalizationRequest{SupplierName: "Local Workshop A"})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestLocalizationFinish(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 200, 0)
	id := inquiryNeedsLocalization(t, ctx, env, "IMP-3003")

	_, err := env.localizations.Start(ctx, id, &domain.StartLocalizationRequest{SupplierName: "Local Workshop B"})
	require.NoError(t, err)

	dto, err := env.localizations.Finish(ctx, id, &domain.FinishLocalizationRequest{Notes: "first article approved"})
	require.NoError(t, err)
	assert.Equal(t, domain.LocalizationFinished, dto.Status)
	assert.Equal(t, "first article approved", dto.Notes)

	assert.Equal(t, domain.InquiryReadyForCosting, env.inquiryStatus(t, ctx, id))

	// The part master is untouched; sourcing edits go through part maintenance.
	part, err := env.catalog.GetPart(ctx, "IMP-3003")
	require.NoError(t, err)
	assert.Equal(t, domain.SourcingImport, part.SourcingType)
}

func TestLocalizationFinishWithoutProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 200, 0)
	id := inquiryNeedsLocalization(t, ctx, env, "IMP-3003")

	// Inquiry is in Needs Localization, not In Development.
	_, err := env.localizations.Finish(ctx, id, &domain.FinishLocalizationRequest{})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestLocalizationRoundTripToQuotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 80, 0)
	id := inquiryNeedsLocalization(t, ctx, env, "IMP-3003")

	_, err := env.localizations.Start(ctx, id, &domain.StartLocalizationRequest{SupplierName: "PT Prima Undercarriage"})
	require.NoError(t, err)
	_, err = env.localizations.Finish(ctx, id, &domain.FinishLocalizationRequest{})
	require.NoError(t, err)

	// The localized inquiry prices like any other.
	quote, err := env.quotations.SubmitDraft(ctx, id, &domain.SubmitQuotationDraftRequest{ProfitPercentage: 12})
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationDraft, quote.Status)
	assert.Equal(t, domain.InquiryWaitingApproval, env.inquiryStatus(t, ctx, id))
}

func TestLocalizationListByInquiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 200, 0)
	id := inquiryNeedsLocalization(t, ctx, env, "IMP-3003")

	_, err := env.localizations.Start(ctx, id, &domain.StartLocalizationRequest{SupplierName: "Local Workshop A"})
	require.NoError(t, err)

	projects, err := env.localizations.ListByInquiry(ctx, id)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Local Workshop A", projects[0].SupplierName)

	all, total, err := env.localizations.List(ctx, 1, 20, domain.LocalizationOnProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, all, 1)
}

func TestLocalizationListOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 200, 0)
	env.createPart(t, ctx, "IMP-3004", domain.SourcingImport, 150, 0)

	overdueID := inquiryNeedsLocalization(t, ctx, env, "IMP-3003")
	past := time.Now().UTC().AddDate(0, 0, -10)
	_, err := env.localizations.Start(ctx, overdueID, &domain.StartLocalizationRequest{
		SupplierName:     "Local Workshop A",
		TargetFinishDate: &past,
	})
	require.NoError(t, err)

	onTrackID := inquiryNeedsLocalization(t, ctx, env, "IMP-3004")
	future := time.Now().UTC().AddDate(0, 1, 0)
	_, err = env.localizations.Start(ctx, onTrackID, &domain.StartLocalizationRequest{
		SupplierName:     "Local Workshop B",
		TargetFinishDate: &future,
	})
	require.NoError(t, err)

	overdue, err := env.localizations.ListOverdue(ctx, 0)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, overdueID, overdue[0].InquiryID)

	// A threshold beyond the slip hides the project again.
	overdue, err = env.localizations.ListOverdue(ctx, 30)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestLocalizationSuppliers(t *testing.T) {
	env := newTestEnv(t)

	suppliers := env.localizations.Suppliers()
	assert.NotEmpty(t, suppliers)
	assert.Contains(t, suppliers, "PT Astra Components")
}
