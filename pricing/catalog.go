package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/theunseenchapter/constructai-sub000/estimation"
)

type catalogEntry struct {
	code     string
	name     string
	category Category
	unit     string
	weightKg string
	rate     string
}

// Indicative INR market rates
var defaultCatalog = []catalogEntry{
	{estimation.MaterialCement, "OPC 53 Grade Cement", CategoryCement, "bag", "50", "420"},
	{estimation.MaterialSteel, "TMT Steel Fe500", CategorySteel, "ton", "1000", "65000"},
	{estimation.MaterialBrick, "Red Clay Brick", CategoryMasonry, "piece", "3.2", "8"},
	{estimation.MaterialSand, "River Sand", CategoryAggregate, "cft", "45", "55"},
	{estimation.MaterialAggregate, "20mm Coarse Aggregate", CategoryAggregate, "cft", "45", "48"},
	{estimation.MaterialTiles, "Vitrified Floor Tiles", CategoryFinishing, "sqm", "22", "650"},
	{estimation.MaterialPlaster, "Cement Plaster 12mm", CategoryFinishing, "sqm", "25", "180"},
	{estimation.MaterialPaint, "Interior Emulsion Paint", CategoryFinishing, "sqm", "0.3", "95"},
	{estimation.MaterialElectricalFixture, "Electrical Point with Fixture", CategoryElectrical, "piece", "2", "1800"},
	{estimation.MaterialPlumbingFixture, "Plumbing Fixture Set", CategoryPlumbing, "piece", "8", "4500"},
	{estimation.MaterialDoorStandard, "Flush Door", CategoryOpenings, "piece", "30", "8500"},
	{estimation.MaterialDoorPremium, "Teak Panel Door", CategoryOpenings, "piece", "45", "22000"},
	{estimation.MaterialWindowStandard, "Aluminium Sliding Window", CategoryOpenings, "piece", "15", "6500"},
	{estimation.MaterialWindowPremium, "UPVC Casement Window", CategoryOpenings, "piece", "20", "14000"},
	{estimation.MaterialVentilator, "Bathroom Ventilator", CategoryOpenings, "piece", "5", "1800"},
	{LaborCode(estimation.TradeMason), "Mason", CategoryLabor, "day", "0", "950"},
	{LaborCode(estimation.TradeHelper), "Helper", CategoryLabor, "day", "0", "600"},
	{LaborCode(estimation.TradeElectrician), "Electrician", CategoryLabor, "day", "0", "1000"},
	{LaborCode(estimation.TradePlumber), "Plumber", CategoryLabor, "day", "0", "1000"},
	{LaborCode(estimation.TradePainter), "Painter", CategoryLabor, "day", "0", "800"},
	{LaborCode(estimation.TradeCarpenter), "Carpenter", CategoryLabor, "day", "0", "1100"},
}

// LaborCode returns the rate code pricing one day of trade
func LaborCode(trade estimation.Trade) string {
	return LaborCodePrefix + string(trade)
}

// DefaultCatalog returns the built-in rates with empty history
func DefaultCatalog() []MaterialRate {
	out := make([]MaterialRate, 0, len(defaultCatalog))
	for _, e := range defaultCatalog {
		out = append(out, MaterialRate{
			Code:          e.code,
			DisplayName:   e.name,
			Category:      e.category,
			Unit:          e.unit,
			UnitWeightKg:  decimal.RequireFromString(e.weightKg),
			CurrentRate:   decimal.RequireFromString(e.rate),
			Trend:         TrendStable,
			LastChangePct: decimal.Zero,
		})
	}
	return out
}
