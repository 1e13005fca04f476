package estimator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

func TestNew_LocalPart(t *testing.T) {
	e := New(4, false, 0)
	assert.Equal(t, 200, e.MOQ) // 1000/5 = 200
	assert.Equal(t, 7, e.LeadtimeDays)
}

func TestNew_ImportSurcharge(t *testing.T) {
	local := New(45, false, 0)
	imported := New(45, true, 0)

	assert.Equal(t, 20, local.MOQ)
	assert.Equal(t, 70, imported.MOQ)
	assert.Equal(t, 7, local.LeadtimeDays)
	assert.Equal(t, 67, imported.LeadtimeDays)
}

func TestNew_MOQFloor(t *testing.T) {
	e := New(999, false, 0)
	assert.Equal(t, 10, e.MOQ)
}

func TestNew_MOQRoundsToTens(t *testing.T) {
	e := New(30, false, 0) // 1000/31 = 32.26 -> 30
	assert.Equal(t, 30, e.MOQ)
	assert.Zero(t, e.MOQ%10)
}

func TestNew_StockShortensLeadtime(t *testing.T) {
	none := New(45, true, 0)
	some := New(45, true, 200)
	assert.Equal(t, 67, none.LeadtimeDays)
	assert.Equal(t, 47, some.LeadtimeDays)
}

func TestNew_LeadtimeFloor(t *testing.T) {
	e := New(45, false, 500)
	assert.Equal(t, 3, e.LeadtimeDays)
}

func TestForPart(t *testing.T) {
	p := &domain.Part{
		PartNumber:   "TRK-1001",
		SourcingType: domain.SourcingImport,
		StockOnHand:  50,
		CostPrice:    decimal.NewFromInt(45),
	}
	e := ForPart(p)
	assert.Equal(t, 70, e.MOQ)
	assert.Equal(t, 62, e.LeadtimeDays)

	same := ForCost(decimal.NewFromInt(45), true, 50)
	assert.Equal(t, e, same)
}
