package estimation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// WarningPartialRateCoverage prefixes warnings for items skipped for lack of a rate
const WarningPartialRateCoverage = "PARTIAL_RATE_COVERAGE"

// Aggregator prices quantities and labor into a bill of quantities
type Aggregator struct {
	overhead decimal.Decimal
	logger   *logrus.Logger
	now      func() time.Time
}

// NewAggregator creates an aggregator applying overheadFraction on top of material and labor
func NewAggregator(overheadFraction float64, logger *logrus.Logger, now func() time.Time) *Aggregator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Aggregator{
		overhead: decimal.NewFromFloat(overheadFraction),
		logger:   logger,
		now:      now,
	}
}

// Aggregate prices every quantity and labor line that has a rate.
// Lines without a rate are skipped and reported in Warnings.
// TotalCost always equals MaterialCost + LaborCost + OverheadCost.
func (a *Aggregator) Aggregate(q Quantities, labor LaborDays, rates map[string]Rate, laborRates map[Trade]Rate, totalArea float64) BOQResult {
	result := BOQResult{
		OverheadFraction: a.overhead,
		TotalArea:        totalArea,
		Items:            make([]BOQLineItem, 0, len(q.Items)+len(labor)+1),
		Warnings:         []string{},
	}

	materialCost := decimal.Zero
	for _, item := range q.Items {
		rate, ok := rates[item.Code]
		if !ok {
			result.Warnings = append(result.Warnings, a.missingRate(item.Code))
			continue
		}
		if rate.Unit != "" && item.Unit != "" && rate.Unit != item.Unit {
			result.Warnings = append(result.Warnings, fmt.Sprintf("UNIT_MISMATCH: %s quantity in %s priced per %s", item.Code, item.Unit, rate.Unit))
		}
		line := newLine(CategoryMaterial, item.Code, rate, decimal.NewFromFloat(item.Quantity).Round(3), item.Unit)
		materialCost = materialCost.Add(line.Amount)
		result.Items = append(result.Items, line)
	}

	laborCost := decimal.Zero
	for _, l := range labor {
		rate, ok := laborRates[l.Trade]
		if !ok {
			result.Warnings = append(result.Warnings, a.missingRate(string(l.Trade)))
			continue
		}
		line := newLine(CategoryLabor, string(l.Trade), rate, decimal.NewFromFloat(l.Days).Round(2), "day")
		laborCost = laborCost.Add(line.Amount)
		result.Items = append(result.Items, line)
	}

	overheadCost := materialCost.Add(laborCost).Mul(a.overhead).Round(2)
	if overheadCost.IsPositive() {
		result.Items = append(result.Items, BOQLineItem{
			Category: CategoryOverhead,
			Code:     "overhead",
			ItemName: "Overhead and contingency",
			Quantity: decimal.NewFromInt(1),
			Unit:     "lot",
			Rate:     overheadCost,
			Amount:   overheadCost,
		})
	}

	result.MaterialCost = materialCost
	result.LaborCost = laborCost
	result.OverheadCost = overheadCost
	result.TotalCost = materialCost.Add(laborCost).Add(overheadCost)
	result.CostPerUnitArea = decimal.Zero
	if totalArea > 0 {
		result.CostPerUnitArea = result.TotalCost.Div(decimal.NewFromFloat(totalArea)).Round(2)
	}
	result.CreatedAt = a.now()
	return result
}

func (a *Aggregator) missingRate(code string) string {
	a.logger.WithFields(logrus.Fields{
		"module": "estimation",
		"func":   "Aggregate",
		"code":   code,
	}).Warn("no rate available, item skipped")
	return fmt.Sprintf("%s: no rate for %s", WarningPartialRateCoverage, code)
}

func newLine(category LineCategory, code string, rate Rate, qty decimal.Decimal, unit string) BOQLineItem {
	name := rate.Name
	if name == "" {
		name = code
	}
	return BOQLineItem{
		Category: category,
		Code:     code,
		ItemName: name,
		Quantity: qty,
		Unit:     unit,
		Rate:     rate.Rate,
		Amount:   qty.Mul(rate.Rate).Round(2),
	}
}
