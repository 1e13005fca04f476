package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
	"github.com/ami-aftermarket/quotation-api/internal/service"
)

func TestCatalogCreatePart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto, err := env.catalog.CreatePart(ctx, &domain.CreatePartRequest{
		PartNumber:   "UC-4410",
		Description:  "Track roller assembly",
		Unit:         domain.UnitAssembly,
		StockOnHand:  6,
		SourcingType: domain.SourcingImport,
		CostPrice:    312.499,
	})
	require.NoError(t, err)

	assert.Equal(t, "UC-4410", dto.PartNumber)
	assert.Equal(t, domain.UnitAssembly, dto.Unit)
	assert.Equal(t, domain.SourcingImport, dto.SourcingType)
	// Cost is stored at two decimals.
	assert.InDelta(t, 312.50, dto.CostPrice, 0.001)
}

func TestCatalogCreatePartDefaultsUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto, err := env.catalog.CreatePart(ctx, &domain.CreatePartRequest{
		PartNumber:   "UC-4411",
		Description:  "Bucket tooth",
		SourcingType: domain.SourcingLocal,
		CostPrice:    18,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UnitPiece, dto.Unit)
}

func TestCatalogCreatePartDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "UC-4410", domain.SourcingLocal, 10, 0)

	_, err := env.catalog.CreatePart(ctx, &domain.CreatePartRequest{
		PartNumber:   "UC-4410",
		Description:  "Duplicate",
		SourcingType: domain.SourcingLocal,
		CostPrice:    10,
	})
	assert.ErrorIs(t, err, service.ErrDuplicatePart)
}

func TestCatalogUpdatePart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "UC-4410", domain.SourcingImport, 100, 3)

	dto, err := env.catalog.UpdatePart(ctx, "UC-4410", &domain.UpdatePartRequest{
		Description:  "Track roller assembly, revised",
		StockOnHand:  9,
		SourcingType: domain.SourcingLocal,
		CostPrice:    88.4,
	})
	require.NoError(t, err)

	assert.Equal(t, "Track roller assembly, revised", dto.Description)
	assert.Equal(t, 9, dto.StockOnHand)
	assert.Equal(t, domain.SourcingLocal, dto.SourcingType)
	assert.InDelta(t, 88.40, dto.CostPrice, 0.001)
}

func TestCatalogUpdatePartNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.UpdatePart(ctx, "NOPE", &domain.UpdatePartRequest{
		Description:  "x",
		SourcingType: domain.SourcingLocal,
		CostPrice:    1,
	})
	assert.ErrorIs(t, err, service.ErrPartNotFound)
}

func TestCatalogDeletePart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "UC-4410", domain.SourcingLocal, 10, 0)

	require.NoError(t, env.catalog.DeletePart(ctx, "UC-4410"))

	_, err := env.catalog.GetPart(ctx, "UC-4410")
	assert.ErrorIs(t, err, service.ErrPartNotFound)
}

func TestCatalogDeletePartReferenced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "UC-4410", domain.SourcingLocal, 10, 0)
	env.createInquiry(t, ctx, "KMSI", "UC-4410")

	err := env.catalog.DeletePart(ctx, "UC-4410")
	assert.ErrorIs(t, err, service.ErrPartReferenced)

	// The part survives.
	_, err = env.catalog.GetPart(ctx, "UC-4410")
	require.NoError(t, err)
}

func TestCatalogDeletePartNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.catalog.DeletePart(ctx, "NOPE")
	assert.ErrorIs(t, err, service.ErrPartNotFound)
}

func TestCatalogListParts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "UC-4410", domain.SourcingImport, 100, 0)
	env.createPart(t, ctx, "UC-4411", domain.SourcingLocal, 20, 0)
	env.createPart(t, ctx, "HYD-9001", domain.SourcingImport, 540, 0)

	all, total, err := env.catalog.ListParts(ctx, 1, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	imports, total, err := env.catalog.ListParts(ctx, 1, 20, "", domain.SourcingImport)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, imports, 2)

	matches, total, err := env.catalog.ListParts(ctx, 1, 20, "UC-44", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, matches, 2)
}

func TestCatalogEstimateProcurement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createPart(t, ctx, "UC-4410", domain.SourcingImport, 45, 100)

	est, err := env.catalog.EstimateProcurement(ctx, "UC-4410")
	require.NoError(t, err)

	assert.Equal(t, "UC-4410", est.PartNumber)
	assert.Equal(t, string(domain.SourcingImport), est.SourcingType)
	assert.Equal(t, 100, est.StockOnHand)
	assert.GreaterOrEqual(t, est.MOQ, 10)
	assert.GreaterOrEqual(t, est.LeadtimeDays, 3)
	// Imported parts carry more leadtime than the stockless local floor.
	assert.Greater(t, est.LeadtimeDays, 7)
}

func TestCatalogEstimateProcurementNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.EstimateProcurement(ctx, "NOPE")
	assert.ErrorIs(t, err, service.ErrPartNotFound)
}
