package estimation

import "math"

// LaborEstimator converts quantities into person-days per trade
type LaborEstimator struct {
	coef LaborCoefficients
}

// NewLaborEstimator creates an estimator using the labor coefficients of cfg
func NewLaborEstimator(cfg Config) *LaborEstimator {
	return &LaborEstimator{coef: cfg.Labor}
}

// Compute returns the labor estimate in a fixed trade order, omitting trades with no work
func (e *LaborEstimator) Compute(q Quantities) LaborDays {
	m := q.Measures
	mason := (m.BrickWallAreaSqm + m.PlasterAreaSqm) * e.coef.MasonDaysPerSqm

	lines := []LaborLine{
		{Trade: TradeMason, Days: mason},
		{Trade: TradeHelper, Days: mason * e.coef.HelpersPerMason},
		{Trade: TradeElectrician, Days: float64(m.WiredRooms) * e.coef.ElectricianDaysPerRoom},
		{Trade: TradePlumber, Days: float64(m.WetRooms) * e.coef.PlumberDaysPerWetRoom},
		{Trade: TradePainter, Days: m.PaintAreaSqm * e.coef.PainterDaysPerSqm},
		{Trade: TradeCarpenter, Days: float64(m.TotalRooms) * e.coef.CarpenterDaysPerRoom},
	}

	out := make(LaborDays, 0, len(lines))
	for _, l := range lines {
		l.Days = math.Round(l.Days*100) / 100
		if l.Days > 0 {
			out = append(out, l)
		}
	}
	return out
}
