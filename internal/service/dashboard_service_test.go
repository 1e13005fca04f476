package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

func TestDashboardMetricsEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	metrics, err := env.dashboard.Metrics(ctx)
	require.NoError(t, err)

	// Every board column is present even with no data.
	require.Len(t, metrics.StatusCounts, len(domain.AllInquiryStatuses))
	for _, sc := range metrics.StatusCounts {
		assert.Zero(t, sc.Count, "status %s", sc.Status)
	}
	assert.Zero(t, metrics.OpenInquiries)
	assert.Zero(t, metrics.ActiveLocalizations)
	assert.Zero(t, metrics.PendingApprovals)
	assert.Zero(t, metrics.ApprovedCount)
	assert.Zero(t, metrics.ApprovedValue)
	assert.Zero(t, metrics.AvgProfitPercentage)
	assert.Zero(t, metrics.POCount)
}

func TestDashboardMetrics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 200, 0)

	// One pending, one waiting approval with a draft, one finished and
	// approved, one in development.
	env.createInquiry(t, ctx, "KMSI", "TRK-1001")
	env.inquiryWithDraft(t, ctx, "KCIC", "TRK-1001", 10)
	_, approved := env.inquiryFinished(t, ctx, "KPAC", "TRK-1001")

	devInquiry := env.createInquiry(t, ctx, "KME", "IMP-3003")
	_, err := env.inquiries.Validate(ctx, devInquiry.ID, &domain.ValidateInquiryRequest{Decision: domain.DecisionLocalization})
	require.NoError(t, err)
	_, err = env.localizations.Start(ctx, devInquiry.ID, &domain.StartLocalizationRequest{SupplierName: "Local Workshop A"})
	require.NoError(t, err)

	metrics, err := env.dashboard.Metrics(ctx)
	require.NoError(t, err)

	counts := make(map[domain.InquiryStatus]int64, len(metrics.StatusCounts))
	for _, sc := range metrics.StatusCounts {
		counts[sc.Status] = sc.Count
	}
	assert.Equal(t, int64(1), counts[domain.InquiryPendingValidation])
	assert.Equal(t, int64(1), counts[domain.InquiryWaitingApproval])
	assert.Equal(t, int64(1), counts[domain.InquiryFinished])
	assert.Equal(t, int64(1), counts[domain.InquiryInDevelopment])

	assert.Equal(t, int64(4), metrics.OpenInquiries)
	assert.Equal(t, int64(1), metrics.ActiveLocalizations)
	assert.Equal(t, int64(1), metrics.PendingApprovals)
	assert.Equal(t, int64(1), metrics.ApprovedCount)
	assert.InDelta(t, approved.SalesPrice, metrics.ApprovedValue, 0.001)
	assert.InDelta(t, approved.ProfitPercentage, metrics.AvgProfitPercentage, 0.001)
	assert.Zero(t, metrics.POCount)
}
