package estimation

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Estimate is the full output of one estimation run
type Estimate struct {
	Spec       ProjectSpec
	Layout     *Layout
	Quantities Quantities
	Labor      LaborDays
	Result     BOQResult
}

// Engine chains planner, quantity calculator, labor estimator and aggregator under one config
type Engine struct {
	cfg        Config
	planner    *Planner
	calculator *QuantityCalculator
	labor      *LaborEstimator
	aggregator *Aggregator
}

func NewEngine(cfg Config, logger *logrus.Logger, now func() time.Time) *Engine {
	return &Engine{
		cfg:        cfg,
		planner:    NewPlanner(cfg, logger),
		calculator: NewQuantityCalculator(cfg),
		labor:      NewLaborEstimator(cfg),
		aggregator: NewAggregator(cfg.OverheadFraction, logger, now),
	}
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() Config {
	return e.cfg
}

// Plan runs only the layout planner
func (e *Engine) Plan(spec ProjectSpec) (*Layout, error) {
	return e.planner.Plan(spec)
}

// Estimate plans spec and prices the resulting take-off with the given rate tables.
// Layout warnings are carried into the result warnings ahead of pricing warnings.
func (e *Engine) Estimate(spec ProjectSpec, rates map[string]Rate, laborRates map[Trade]Rate) (*Estimate, error) {
	layout, err := e.planner.Plan(spec)
	if err != nil {
		return nil, err
	}
	spec = spec.WithDefaults(e.cfg.CirculationFraction)

	q := e.calculator.Compute(layout, spec)
	labor := e.labor.Compute(q)
	result := e.aggregator.Aggregate(q, labor, rates, laborRates, spec.TotalArea*float64(spec.Floors))

	if len(layout.Warnings) > 0 {
		result.Warnings = append(append([]string{}, layout.Warnings...), result.Warnings...)
	}

	return &Estimate{
		Spec:       spec,
		Layout:     layout,
		Quantities: q,
		Labor:      labor,
		Result:     result,
	}, nil
}
