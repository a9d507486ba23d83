// Package pricing maintains current material and labor rates and their price history
package pricing

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrRateNotFound    = errors.New("material rate not found")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrFeedUnavailable = errors.New("price feed unavailable")
	ErrRateExists      = errors.New("material rate already exists")
)

// Trend is the direction of the last price change
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// ClassifyTrend maps a percentage change onto a trend using a symmetric threshold
func ClassifyTrend(changePct, threshold decimal.Decimal) Trend {
	switch {
	case changePct.GreaterThan(threshold):
		return TrendRising
	case changePct.LessThan(threshold.Neg()):
		return TrendFalling
	default:
		return TrendStable
	}
}

// Category groups materials for reporting and feed behaviour
type Category string

const (
	CategoryCement     Category = "cement"
	CategorySteel      Category = "steel"
	CategoryMasonry    Category = "masonry"
	CategoryAggregate  Category = "aggregate"
	CategoryFinishing  Category = "finishing"
	CategoryElectrical Category = "electrical"
	CategoryPlumbing   Category = "plumbing"
	CategoryOpenings   Category = "openings"
	CategoryLabor      Category = "labor"
)

// LaborCodePrefix prefixes rate codes that price a day of a trade
const LaborCodePrefix = "labor_"

// PriceHistoryEntry records one accepted price
type PriceHistoryEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Source    string          `json:"source"`
	ChangePct decimal.Decimal `json:"change_pct"`
}

// MaterialRate is the current price of a material together with its recent history.
// History is chronological and its last entry, when present, carries CurrentRate.
type MaterialRate struct {
	Code          string              `json:"code"`
	DisplayName   string              `json:"display_name"`
	Category      Category            `json:"category"`
	Unit          string              `json:"unit"`
	UnitWeightKg  decimal.Decimal     `json:"unit_weight_kg"`
	CurrentRate   decimal.Decimal     `json:"current_rate"`
	Trend         Trend               `json:"trend"`
	LastChangePct decimal.Decimal     `json:"last_change_pct"`
	History       []PriceHistoryEntry `json:"history"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// IsLabor reports whether the rate prices a day of labor
func (r *MaterialRate) IsLabor() bool {
	return r.Category == CategoryLabor || strings.HasPrefix(r.Code, LaborCodePrefix)
}

// Clone returns a deep copy safe to hand to callers
func (r *MaterialRate) Clone() *MaterialRate {
	if r == nil {
		return nil
	}
	cp := *r
	cp.History = append([]PriceHistoryEntry(nil), r.History...)
	return &cp
}

// PriceUpdate describes one applied price change
type PriceUpdate struct {
	Code      string          `json:"code"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	ChangePct decimal.Decimal `json:"change_pct"`
	Trend     Trend           `json:"trend"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
}

func trimHistory(history []PriceHistoryEntry, limit int) []PriceHistoryEntry {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return append([]PriceHistoryEntry(nil), history[len(history)-limit:]...)
}
