package pricing

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theunseenchapter/constructai-sub000/estimation"
)

func TestSimulatedFeedStaysWithinBounds(t *testing.T) {
	feed := NewSimulatedMarketFeed(42, 3, nil)
	base := MaterialRate{Code: estimation.MaterialSteel, Category: CategorySteel, CurrentRate: decimal.NewFromInt(65000)}

	low := decimal.NewFromFloat(65000 * (1 + (0.5-3)/100)).Round(2)
	high := decimal.NewFromFloat(65000 * (1 + (0.5+3)/100)).Round(2)
	for i := 0; i < 200; i++ {
		price, err := feed.Fetch(context.Background(), base)
		require.NoError(t, err)
		assert.True(t, price.GreaterThanOrEqual(low), price.String())
		assert.True(t, price.LessThanOrEqual(high), price.String())
	}
}

func TestSimulatedFeedIsReproducible(t *testing.T) {
	rate := MaterialRate{Code: estimation.MaterialCement, Category: CategoryCement, CurrentRate: decimal.NewFromInt(420)}
	a := NewSimulatedMarketFeed(7, 2, nil)
	b := NewSimulatedMarketFeed(7, 2, nil)
	for i := 0; i < 10; i++ {
		pa, err := a.Fetch(context.Background(), rate)
		require.NoError(t, err)
		pb, err := b.Fetch(context.Background(), rate)
		require.NoError(t, err)
		assert.True(t, pa.Equal(pb))
	}
}

func TestSimulatedFeedHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSimulatedMarketFeed(1, 1, nil).Fetch(ctx, MaterialRate{CurrentRate: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

type flakyFeed struct {
	failing map[string]bool
}

func (f *flakyFeed) Name() string { return "flaky" }

func (f *flakyFeed) Fetch(_ context.Context, rate MaterialRate) (decimal.Decimal, error) {
	if f.failing[rate.Code] {
		return decimal.Zero, fmt.Errorf("%w: timeout", ErrFeedUnavailable)
	}
	return rate.CurrentRate.Add(decimal.NewFromInt(1)), nil
}

func TestRefreshContinuesPastFailures(t *testing.T) {
	clockNow := &testClock{}
	store := NewInMemoryRateStore(DefaultHistoryLimit)
	logger, hook := test.NewNullLogger()
	tracker := NewTracker(store, TrackerConfig{}, logger, clockNow.Now)
	_, err := tracker.Seed(context.Background(), DefaultCatalog())
	require.NoError(t, err)

	feed := &flakyFeed{failing: map[string]bool{estimation.MaterialSteel: true, estimation.MaterialSand: true}}
	summary, err := tracker.Refresh(context.Background(), feed)
	require.NoError(t, err)

	assert.Equal(t, "flaky", summary.Source)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 6, summary.Skipped)
	assert.Equal(t, 15-2, summary.Updated)
	assert.Len(t, summary.Updates, summary.Updated)

	steel, err := tracker.Material(context.Background(), estimation.MaterialSteel)
	require.NoError(t, err)
	assert.True(t, steel.CurrentRate.Equal(decimal.NewFromInt(65000)), "failed fetch keeps last known rate")
	assert.Empty(t, steel.History)

	cement, err := tracker.Material(context.Background(), estimation.MaterialCement)
	require.NoError(t, err)
	assert.True(t, cement.CurrentRate.Equal(decimal.NewFromInt(421)))
	assert.Equal(t, "flaky", cement.History[0].Source)

	mason, err := tracker.Material(context.Background(), LaborCode(estimation.TradeMason))
	require.NoError(t, err)
	assert.Empty(t, mason.History)

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "price fetch failed, keeping last known rate" {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestClassifyTrend(t *testing.T) {
	threshold := decimal.NewFromInt(2)
	assert.Equal(t, TrendRising, ClassifyTrend(decimal.RequireFromString("2.0001"), threshold))
	assert.Equal(t, TrendStable, ClassifyTrend(decimal.NewFromInt(2), threshold))
	assert.Equal(t, TrendStable, ClassifyTrend(decimal.NewFromInt(-2), threshold))
	assert.Equal(t, TrendFalling, ClassifyTrend(decimal.RequireFromString("-2.5"), threshold))
}
