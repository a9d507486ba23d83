package pricing

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PriceFeed quotes a live market price for a rate
type PriceFeed interface {
	Name() string
	Fetch(ctx context.Context, rate MaterialRate) (decimal.Decimal, error)
}

// SimulatedMarketFeed drifts each price by a small random percentage around a per-category bias
type SimulatedMarketFeed struct {
	mu         sync.Mutex
	rng        *rand.Rand
	volatility float64
	bias       map[Category]float64
}

// DefaultCategoryBias is the mean drift in percent applied per category
func DefaultCategoryBias() map[Category]float64 {
	return map[Category]float64{
		CategorySteel:     0.5,
		CategoryCement:    0.2,
		CategoryAggregate: 0.1,
	}
}

// NewSimulatedMarketFeed creates a feed with a seeded RNG and a volatility bound in percent
func NewSimulatedMarketFeed(seed int64, volatility float64, bias map[Category]float64) *SimulatedMarketFeed {
	if volatility < 0 {
		volatility = -volatility
	}
	if bias == nil {
		bias = DefaultCategoryBias()
	}
	return &SimulatedMarketFeed{
		rng:        rand.New(rand.NewSource(seed)),
		volatility: volatility,
		bias:       bias,
	}
}

func (f *SimulatedMarketFeed) Name() string { return "simulated_market" }

func (f *SimulatedMarketFeed) Fetch(ctx context.Context, rate MaterialRate) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	f.mu.Lock()
	jitter := (f.rng.Float64()*2 - 1) * f.volatility
	f.mu.Unlock()

	pct := f.bias[rate.Category] + jitter
	price := rate.CurrentRate.Mul(decimal.NewFromFloat(1 + pct/100)).Round(2)
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive quote for %s", ErrFeedUnavailable, rate.Code)
	}
	return price, nil
}

// RefreshSummary counts the outcome of one refresh pass
type RefreshSummary struct {
	Source  string         `json:"source"`
	Updated int            `json:"updated"`
	Failed  int            `json:"failed"`
	Skipped int            `json:"skipped"`
	Updates []*PriceUpdate `json:"updates"`
}

// Refresh asks feed for a new price for every material and applies each accepted quote.
// Labor rates are skipped; one failing material never aborts the pass.
func (t *Tracker) Refresh(ctx context.Context, feed PriceFeed) (*RefreshSummary, error) {
	rates, err := t.store.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RefreshSummary{Source: feed.Name()}
	for _, rate := range rates {
		if rate.IsLabor() {
			summary.Skipped++
			continue
		}
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		price, err := feed.Fetch(ctx, *rate)
		if err != nil {
			summary.Failed++
			t.logger.WithFields(logrus.Fields{
				"module": "pricing",
				"func":   "Refresh",
				"code":   rate.Code,
				"feed":   feed.Name(),
			}).WithError(err).Warn("price fetch failed, keeping last known rate")
			continue
		}

		update, err := t.UpdatePrice(ctx, rate.Code, price, feed.Name())
		if err != nil {
			summary.Failed++
			t.logger.WithFields(logrus.Fields{
				"module": "pricing",
				"func":   "Refresh",
				"code":   rate.Code,
			}).WithError(err).Warn("price update rejected")
			continue
		}
		summary.Updated++
		summary.Updates = append(summary.Updates, update)
	}
	return summary, nil
}
