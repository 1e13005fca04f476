package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculate_StandardMargin(t *testing.T) {
	b := Calculate(decimal.NewFromInt(45), 10)

	assert.Equal(t, "1.35", b.SDC.StringFixed(2))
	assert.Equal(t, "46.35", b.SVC.StringFixed(2))
	// denominator = 1 - 0.038 - 0.10 - 0.03 = 0.832
	assert.Equal(t, "55.71", b.SalesPrice.StringFixed(2))
	assert.Equal(t, "5.57", b.OpProfit.StringFixed(2))
}

func TestCalculate_RoundsToTwoDecimals(t *testing.T) {
	b := Calculate(decimal.NewFromFloat(123.456), 15)

	assert.Equal(t, "123.46", b.CostPrice.StringFixed(2))
	assert.Equal(t, "3.70", b.SDC.StringFixed(2))
	assert.Equal(t, "127.16", b.SVC.StringFixed(2))
	assert.True(t, b.SalesPrice.GreaterThan(b.SVC))
}

func TestCalculate_InfeasibleMarginYieldsZero(t *testing.T) {
	// 1 - 0.038 - 0.932 - 0.03 = 0
	b := Calculate(decimal.NewFromInt(100), 93.2)
	assert.True(t, b.SalesPrice.IsZero())
	assert.Equal(t, "3.00", b.SDC.StringFixed(2))
	assert.Equal(t, "103.00", b.SVC.StringFixed(2))

	b = Calculate(decimal.NewFromInt(100), 95)
	assert.True(t, b.SalesPrice.IsZero())
}

func TestCalculate_SalesPriceExceedsCostForFeasibleMargins(t *testing.T) {
	for _, profit := range []float64{1, 5, 10, 25, 50, 80} {
		b := Calculate(decimal.NewFromInt(200), profit)
		assert.True(t, b.SalesPrice.GreaterThan(b.CostPrice),
			"profit %.0f%% should price above cost", profit)
	}
}

func TestCalculate_MonotonicInProfit(t *testing.T) {
	cost := decimal.NewFromFloat(87.5)
	low := Calculate(cost, 5)
	high := Calculate(cost, 20)
	assert.True(t, high.SalesPrice.GreaterThan(low.SalesPrice))
}

func TestFeasible(t *testing.T) {
	assert.True(t, Feasible(10))
	assert.True(t, Feasible(89))
	assert.False(t, Feasible(93.2))
	assert.False(t, Feasible(99))
}
