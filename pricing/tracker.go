package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/theunseenchapter/constructai-sub000/estimation"
)

const (
	DefaultHistoryLimit   = 30
	DefaultHistoryDays    = 30
	MaxHistoryDays        = 3650
	DefaultTrendThreshold = 2.0

	// PricePlaces is the precision rates are stored with
	PricePlaces = 2
)

var hundred = decimal.NewFromInt(100)

// TrackerConfig tunes trend classification and history queries
type TrackerConfig struct {
	TrendThreshold     float64
	DefaultHistoryDays int
}

// Tracker applies price updates and answers rate queries on top of a RateStore
type Tracker struct {
	store       RateStore
	threshold   decimal.Decimal
	defaultDays int
	logger      *logrus.Logger
	now         func() time.Time
}

func NewTracker(store RateStore, cfg TrackerConfig, logger *logrus.Logger, now func() time.Time) *Tracker {
	if cfg.TrendThreshold <= 0 {
		cfg.TrendThreshold = DefaultTrendThreshold
	}
	if cfg.DefaultHistoryDays <= 0 {
		cfg.DefaultHistoryDays = DefaultHistoryDays
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		store:       store,
		threshold:   decimal.NewFromFloat(cfg.TrendThreshold),
		defaultDays: cfg.DefaultHistoryDays,
		logger:      logger,
		now:         now,
	}
}

// ChangePct returns (newPrice-oldPrice)/oldPrice*100 rounded to 4 places, or zero when oldPrice is zero
func ChangePct(oldPrice, newPrice decimal.Decimal) decimal.Decimal {
	if oldPrice.IsZero() {
		return decimal.Zero
	}
	return newPrice.Sub(oldPrice).Div(oldPrice).Mul(hundred).Round(4)
}

// UpdatePrice records a new price for an existing rate
func (t *Tracker) UpdatePrice(ctx context.Context, code string, newPrice decimal.Decimal, source string) (*PriceUpdate, error) {
	newPrice = newPrice.Round(PricePlaces)
	if !newPrice.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrice, newPrice.String())
	}
	if strings.TrimSpace(source) == "" {
		source = "manual"
	}

	var update PriceUpdate
	_, err := t.store.Update(ctx, code, func(rate *MaterialRate) error {
		ts := t.now().UTC()
		pct := ChangePct(rate.CurrentRate, newPrice)
		trend := ClassifyTrend(pct, t.threshold)

		update = PriceUpdate{
			Code:      code,
			OldPrice:  rate.CurrentRate,
			NewPrice:  newPrice,
			ChangePct: pct,
			Trend:     trend,
			Source:    source,
			Timestamp: ts,
		}

		rate.CurrentRate = newPrice
		rate.LastChangePct = pct
		rate.Trend = trend
		rate.UpdatedAt = ts
		rate.History = append(rate.History, PriceHistoryEntry{
			Timestamp: ts,
			Price:     newPrice,
			Source:    source,
			ChangePct: pct,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.logger.WithFields(logrus.Fields{
		"module":     "pricing",
		"func":       "UpdatePrice",
		"code":       code,
		"old_price":  update.OldPrice.String(),
		"new_price":  update.NewPrice.String(),
		"change_pct": update.ChangePct.String(),
		"trend":      update.Trend,
		"source":     source,
	}).Info("price updated")

	return &update, nil
}

// Material returns one rate with its history
func (t *Tracker) Material(ctx context.Context, code string) (*MaterialRate, error) {
	return t.store.Get(ctx, code)
}

// CurrentPrices returns a snapshot of every rate keyed by code
func (t *Tracker) CurrentPrices(ctx context.Context) (map[string]*MaterialRate, error) {
	rates, err := t.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*MaterialRate, len(rates))
	for _, r := range rates {
		out[r.Code] = r
	}
	return out, nil
}

// PriceHistory returns the entries recorded within the last days days.
// Unknown codes yield an empty slice.
func (t *Tracker) PriceHistory(ctx context.Context, code string, days int) ([]PriceHistoryEntry, error) {
	if days <= 0 {
		days = t.defaultDays
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}
	rate, err := t.store.Get(ctx, code)
	if errors.Is(err, ErrRateNotFound) {
		return []PriceHistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	cutoff := t.now().UTC().AddDate(0, 0, -days)
	out := make([]PriceHistoryEntry, 0, len(rate.History))
	for _, e := range rate.History {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

// RateTable splits the current rates into material and labor tables for the aggregator
func (t *Tracker) RateTable(ctx context.Context) (map[string]estimation.Rate, map[estimation.Trade]estimation.Rate, error) {
	rates, err := t.store.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	materials := make(map[string]estimation.Rate, len(rates))
	labor := make(map[estimation.Trade]estimation.Rate)
	for _, r := range rates {
		rate := estimation.Rate{Name: r.DisplayName, Rate: r.CurrentRate, Unit: r.Unit}
		if r.IsLabor() {
			labor[estimation.Trade(strings.TrimPrefix(r.Code, LaborCodePrefix))] = rate
			continue
		}
		materials[r.Code] = rate
	}
	return materials, labor, nil
}

// Seed stores every catalog rate that the store does not know yet and reports how many were added
func (t *Tracker) Seed(ctx context.Context, catalog []MaterialRate) (int, error) {
	added := 0
	for i := range catalog {
		_, err := t.store.Get(ctx, catalog[i].Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrRateNotFound) {
			return added, err
		}
		rate := catalog[i].Clone()
		if rate.Trend == "" {
			rate.Trend = TrendStable
		}
		if rate.UpdatedAt.IsZero() {
			rate.UpdatedAt = t.now().UTC()
		}
		if err := t.store.Put(ctx, rate); err != nil {
			return added, err
		}
		added++
	}
	if added > 0 {
		t.logger.WithFields(logrus.Fields{
			"module": "pricing",
			"func":   "Seed",
			"added":  added,
		}).Info("seeded material catalog")
	}
	return added, nil
}
