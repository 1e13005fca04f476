// Package pricing implements the deterministic sales price calculation used
// for quotation drafts. All money math runs on decimals and every published
// figure is rounded to two decimal places.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Cost components baked into the sales price denominator. Rates are fractions
// of the final sales price except the development charge, which is a fraction
// of cost.
var (
	developmentChargeRate = decimal.NewFromFloat(0.03)  // SDC: 3% of cost
	freightInsuranceRate  = decimal.NewFromFloat(0.038) // 3.8% of sales price
	warrantyRate          = decimal.NewFromFloat(0.03)  // 3% of sales price

	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Breakdown is the full result of one pricing calculation
type Breakdown struct {
	CostPrice        decimal.Decimal
	ProfitPercentage float64
	SDC              decimal.Decimal
	SVC              decimal.Decimal
	SalesPrice       decimal.Decimal
	OpProfit         decimal.Decimal
}

// Calculate derives the supplier development charge, serviced cost, and sales
// price from a unit cost and a profit percentage.
//
//	sdc        = cost * 0.03
//	svc        = cost + sdc
//	salesPrice = svc / (1 - 0.038 - profit/100 - 0.03)
//	opProfit   = salesPrice * profit/100
//
// When the denominator is zero or negative the margin structure is infeasible
// and the sales price is reported as 0; SDC and SVC are still returned.
func Calculate(cost decimal.Decimal, profitPercentage float64) Breakdown {
	sdc := cost.Mul(developmentChargeRate).Round(2)
	svc := cost.Add(sdc).Round(2)

	profit := decimal.NewFromFloat(profitPercentage).Div(hundred)
	denominator := one.Sub(freightInsuranceRate).Sub(profit).Sub(warrantyRate)

	salesPrice := decimal.Zero
	if denominator.IsPositive() {
		salesPrice = svc.Div(denominator).Round(2)
	}

	return Breakdown{
		CostPrice:        cost.Round(2),
		ProfitPercentage: profitPercentage,
		SDC:              sdc,
		SVC:              svc,
		SalesPrice:       salesPrice,
		OpProfit:         salesPrice.Mul(profit).Round(2),
	}
}

// Feasible reports whether the profit percentage leaves a positive sales
// price denominator.
func Feasible(profitPercentage float64) bool {
	profit := decimal.NewFromFloat(profitPercentage).Div(hundred)
	return one.Sub(freightInsuranceRate).Sub(profit).Sub(warrantyRate).IsPositive()
}
