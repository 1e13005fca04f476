// Package estimator produces heuristic MOQ and leadtime suggestions for
// quotation drafts. The figures are advisory defaults; planners may override
// them before a draft is submitted.
package estimator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

// Estimate is a suggested order quantity and delivery window for one part
type Estimate struct {
	MOQ          int
	LeadtimeDays int
}

// ForPart derives the estimate from a part's cost, sourcing type, and current
// stock position.
func ForPart(p *domain.Part) Estimate {
	cost, _ := p.CostPrice.Float64()
	return New(cost, p.SourcingType == domain.SourcingImport, p.StockOnHand)
}

// New computes the estimate from raw inputs.
//
// MOQ shrinks as unit cost grows (expensive parts move in small lots) and
// imported parts carry a fixed lot surcharge; the result is rounded to the
// nearest ten with a floor of 10. Leadtime starts from a one-week local
// baseline, adds the import penalty, and shortens when stock is already on
// hand, never dropping below 3 days.
func New(cost float64, isImport bool, stockOnHand int) Estimate {
	surcharge := 0.0
	if isImport {
		surcharge = 50
	}
	moq := 1000/(cost+1) + surcharge
	moq = math.Round(moq/10) * 10
	if moq < 10 {
		moq = 10
	}

	importDays := 0.0
	if isImport {
		importDays = 60
	}
	leadtime := 7 + importDays - 0.1*float64(stockOnHand)
	leadtime = math.Round(leadtime)
	if leadtime < 3 {
		leadtime = 3
	}

	return Estimate{MOQ: int(moq), LeadtimeDays: int(leadtime)}
}

// ForCost is a convenience wrapper taking a decimal cost
func ForCost(cost decimal.Decimal, isImport bool, stockOnHand int) Estimate {
	c, _ := cost.Float64()
	return New(c, isImport, stockOnHand)
}
