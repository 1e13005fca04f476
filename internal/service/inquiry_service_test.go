package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

func TestInquiryCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingImport, 45, 12)

	dto, err := env.inquiries.Create(ctx, &domain.CreateInquiryRequest{
		CustomerID: "KMSI",
		PartNumber: "TRK-1001",
		Quantity:   8,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, dto.ID)
	assert.Equal(t, domain.CustomerID("KMSI"), dto.CustomerID)
	assert.Equal(t, "TRK-1001", dto.PartNumber)
	assert.Equal(t, 8, dto.Quantity)
	assert.Equal(t, domain.InquiryPendingValidation, dto.Status)
	assert.Equal(t, 0, dto.RevisionCount)
}

func TestInquiryCreateUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)

	_, err := env.inquiries.Create(ctx, &domain.CreateInquiryRequest{
		CustomerID: "ACME",
		PartNumber: "TRK-1001",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, service.ErrUnknownCustomer)
}

func TestInquiryCreateUnknownPart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inquiries.Create(ctx, &domain.CreateInquiryRequest{
		CustomerID: "KMSI",
		PartNumber: "NO-SUCH-PART",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, service.ErrPartNotFound)
}

func TestInquiryValidateCosting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	created := env.createInquiry(t, ctx, "KCIC", "TRK-1001")

	dto, err := env.inquiries.Validate(ctx, created.ID, &domain.ValidateInquiryRequest{Decision: domain.DecisionCosting})
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryReadyForCosting, dto.Status)
}

func TestInquiryValidateCostingRequiresLocal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 120, 2)
	created := env.createInquiry(t, ctx, "KMSI", "IMP-3003")

	// An imported part must be localized or cancelled, never costed directly.
	_, err := env.inquiries.Validate(ctx, created.ID, &domain.ValidateInquiryRequest{Decision: domain.DecisionCosting})
	assert.ErrorIs(t, err, service.ErrLocalizationRequired)
	assert.Equal(t, domain.InquiryPendingValidation, env.inquiryStatus(t, ctx, created.ID))
}

func TestInquiryValidateLocalizationRequiresImport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "LCL-2002", domain.SourcingLocal, 30, 0)
	created := env.createInquiry(t, ctx, "KPAC", "LCL-2002")

	_, err := env.inquiries.Validate(ctx, created.ID, &domain.ValidateInquiryRequest{Decision: domain.DecisionLocalization})
	assert.ErrorIs(t, err, service.ErrLocalizationNotApplicable)

	// The failed validation must leave the inquiry untouched.
	assert.Equal(t, domain.InquiryPendingValidation, env.inquiryStatus(t, ctx, created.ID))
}

func TestInquiryValidateLocalizationRoute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "IMP-3003", domain.SourcingImport, 120, 2)
	created := env.createInquiry(t, ctx, "KME", "IMP-3003")

	dto, err := env.inquiries.Validate(ctx, created.ID, &domain.ValidateInquiryRequest{Decision: domain.DecisionLocalization})
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryNeedsLocalization, dto.Status)
}

func TestInquiryValidateTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	id := env.inquiryReadyForCosting(t, ctx, "KMM", "TRK-1001")

	_, err := env.inquiries.Validate(ctx, id, &domain.ValidateInquiryRequest{Decision: domain.DecisionCosting})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestInquiryValidateNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inquiries.Validate(ctx, uuid.New(), &domain.ValidateInquiryRequest{Decision: domain.DecisionCosting})
	assert.ErrorIs(t, err, service.ErrInquiryNotFound)
}

func TestInquiryCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	created := env.createInquiry(t, ctx, "KEPO", "TRK-1001")

	dto, err := env.inquiries.Cancel(ctx, created.ID, &domain.CancelInquiryRequest{Reason: "customer withdrew"})
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryCancelled, dto.Status)

	// Cancellation is a status, not a deletion.
	got, err := env.inquiries.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryCancelled, got.Status)
}

func TestInquiryCancelTerminalRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	created := env.createInquiry(t, ctx, "KAC", "TRK-1001")

	_, err := env.inquiries.Cancel(ctx, created.ID, &domain.CancelInquiryRequest{})
	require.NoError(t, err)

	_, err = env.inquiries.Cancel(ctx, created.ID, &domain.CancelInquiryRequest{})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestInquiryPurchaseOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	id, _ := env.inquiryFinished(t, ctx, "KMSA", "TRK-1001")

	dto, err := env.inquiries.CreatePurchaseOrder(ctx, id, &domain.CreatePurchaseOrderRequest{PurchaseOrderNumber: "PO-77001"})
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryPOCreated, dto.Status)
	assert.Equal(t, "PO-77001", dto.PurchaseOrderNumber)
}

func TestInquiryPurchaseOrderNotFinished(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	id := env.inquiryReadyForCosting(t, ctx, "KSAF", "TRK-1001")

	_, err := env.inquiries.CreatePurchaseOrder(ctx, id, &domain.CreatePurchaseOrderRequest{PurchaseOrderNumber: "PO-77002"})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestInquiryPurchaseOrderDuplicateNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)
	env.createPart(t, ctx, "TRK-1002", domain.SourcingLocal, 60, 0)

	first, _ := env.inquiryFinished(t, ctx, "KLTD", "TRK-1001")
	second, _ := env.inquiryFinished(t, ctx, "KLTD", "TRK-1002")

	_, err := env.inquiries.CreatePurchaseOrder(ctx, first, &domain.CreatePurchaseOrderRequest{PurchaseOrderNumber: "PO-500"})
	require.NoError(t, err)

	_, err = env.inquiries.CreatePurchaseOrder(ctx, second, &domain.CreatePurchaseOrderRequest{PurchaseOrderNumber: "PO-500"})
	assert.ErrorIs(t, err, service.ErrDuplicatePurchaseOrder)

	// The second inquiry stays Finished and can close under another number.
	assert.Equal(t, domain.InquiryFinished, env.inquiryStatus(t, ctx, second))
	_, err = env.inquiries.CreatePurchaseOrder(ctx, second, &domain.CreatePurchaseOrderRequest{PurchaseOrderNumber: "PO-501"})
	require.NoError(t, err)
}

func TestInquiryCustomers(t *testing.T) {
	env := newTestEnv(t)

	roster := env.inquiries.Customers()
	assert.Len(t, roster, 10)
	assert.Contains(t, roster, domain.CustomerKMSI)
}

func TestInquiryListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "TRK-1001", domain.SourcingLocal, 45, 0)

	env.createInquiry(t, ctx, "KMSI", "TRK-1001")
	env.createInquiry(t, ctx, "KCIC", "TRK-1001")
	env.inquiryReadyForCosting(t, ctx, "KMSI", "TRK-1001")

	all, total, err := env.inquiries.List(ctx, 1, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	pending, total, err := env.inquiries.List(ctx, 1, 20, domain.InquiryPendingValidation, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, pending, 2)

	kmsi, total, err := env.inquiries.List(ctx, 1, 20, "", domain.CustomerKMSI)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, kmsi, 2)

	_, _, err = env.inquiries.List(ctx, 1, 20, domain.InquiryStatus("Bogus"), "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, _, err = env.inquiries.List(ctx, 1, 20, "", domain.CustomerID("ACME"))
	assert.ErrorIs(t, err, service.ErrUnknownCustomer)
}
