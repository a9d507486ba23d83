package businessflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/theunseenchapter/constructai-sub000/config"
	"github.com/theunseenchapter/constructai-sub000/estimation"
	"github.com/theunseenchapter/constructai-sub000/pricing"
)

// blockingFeed holds every Fetch until release is closed
type blockingFeed struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (f *blockingFeed) Name() string { return "blocking" }

func (f *blockingFeed) Fetch(ctx context.Context, rate pricing.MaterialRate) (decimal.Decimal, error) {
	f.once.Do(func() { close(f.started) })
	select {
	case <-f.release:
		return rate.CurrentRate.Add(decimal.NewFromInt(1)), nil
	case <-ctx.Done():
		return decimal.Zero, pricing.ErrFeedUnavailable
	}
}

func newTestPricingFlow(t *testing.T, feed pricing.PriceFeed) (PricingFlow, *pricing.Tracker) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	tracker := pricing.NewTracker(pricing.NewInMemoryRateStore(pricing.DefaultHistoryLimit), pricing.TrackerConfig{}, logger, time.Now)
	_, err := tracker.Seed(context.Background(), pricing.DefaultCatalog())
	require.NoError(t, err)

	if feed == nil {
		feed = pricing.NewSimulatedMarketFeed(7, 3, pricing.DefaultCategoryBias())
	}
	flow := NewPricingFlow(tracker, feed, nil, config.CacheConfig{}, config.PricingConfig{HistoryDefaultDays: 30}, logger)
	return flow, tracker
}

func TestPricingFlowUpdatePrice(t *testing.T) {
	flow, _ := newTestPricingFlow(t, nil)
	ctx := context.Background()

	resp, err := flow.UpdatePrice(ctx, &dto.UpdatePriceRequest{
		MaterialCode: estimation.MaterialCement,
		NewPrice:     decimal.NewFromInt(441),
		Source:       "dealer_quote",
	})
	require.NoError(t, err)
	assert.Equal(t, "rising", resp.Trend)
	assert.True(t, resp.ChangePct.Equal(decimal.NewFromInt(5)))
	assert.True(t, resp.OldPrice.Equal(decimal.NewFromInt(420)))
	assert.Equal(t, "dealer_quote", resp.Source)

	material, err := flow.Material(ctx, estimation.MaterialCement)
	require.NoError(t, err)
	assert.True(t, material.Material.CurrentRate.Equal(decimal.NewFromInt(441)))
	require.Len(t, material.Material.History, 1)
	assert.Equal(t, "dealer_quote", material.Material.History[0].Source)
}

func TestPricingFlowUpdatePriceErrors(t *testing.T) {
	flow, _ := newTestPricingFlow(t, nil)

	cases := []struct {
		name  string
		req   *dto.UpdatePriceRequest
		code  string
		check func(error) bool
	}{
		{"missing code", &dto.UpdatePriceRequest{NewPrice: decimal.NewFromInt(10)}, "MATERIAL_CODE_REQUIRED", IsMaterialCodeMissing},
		{"unknown code", &dto.UpdatePriceRequest{MaterialCode: "unobtainium", NewPrice: decimal.NewFromInt(10)}, "MATERIAL_NOT_FOUND", IsMaterialNotFound},
		{"zero price", &dto.UpdatePriceRequest{MaterialCode: estimation.MaterialSteel, NewPrice: decimal.Zero}, "INVALID_PRICE", IsInvalidPrice},
		{"negative price", &dto.UpdatePriceRequest{MaterialCode: estimation.MaterialSteel, NewPrice: decimal.NewFromInt(-5)}, "INVALID_PRICE", IsInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := flow.UpdatePrice(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, tc.check(err))

			var be *BusinessError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tc.code, be.Code)
		})
	}
}

func TestPricingFlowCurrentPricesAndHistory(t *testing.T) {
	flow, _ := newTestPricingFlow(t, nil)
	ctx := context.Background()

	prices, err := flow.CurrentPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(pricing.DefaultCatalog()), prices.Count)
	assert.Equal(t, "INR", prices.Currency)
	cement, ok := prices.Prices[estimation.MaterialCement]
	require.True(t, ok)
	assert.Empty(t, cement.History)

	for _, p := range []int64{430, 425} {
		_, err := flow.UpdatePrice(ctx, &dto.UpdatePriceRequest{MaterialCode: estimation.MaterialCement, NewPrice: decimal.NewFromInt(p)})
		require.NoError(t, err)
	}

	hist, err := flow.PriceHistory(ctx, estimation.MaterialCement, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, hist.Days)
	require.Len(t, hist.History, 2)
	assert.True(t, hist.History[0].Price.Equal(decimal.NewFromInt(430)))
	assert.True(t, hist.History[1].Price.Equal(decimal.NewFromInt(425)))
	assert.Equal(t, "manual", hist.History[1].Source)

	empty, err := flow.PriceHistory(ctx, "unobtainium", 7)
	require.NoError(t, err)
	assert.Empty(t, empty.History)

	_, err = flow.Material(ctx, "unobtainium")
	assert.True(t, IsMaterialNotFound(err))
}

func TestPricingFlowRefreshLivePrices(t *testing.T) {
	flow, tracker := newTestPricingFlow(t, nil)
	ctx := context.Background()

	const laborRates = 6
	summary, err := flow.RefreshLivePrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, "simulated_market", summary.Source)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, laborRates, summary.Skipped)
	assert.Equal(t, len(pricing.DefaultCatalog())-laborRates, summary.Updated)

	rate, err := tracker.Material(ctx, estimation.MaterialSteel)
	require.NoError(t, err)
	require.Len(t, rate.History, 1)
	assert.Equal(t, "simulated_market", rate.History[0].Source)
}

func TestPricingFlowRefreshIsExclusive(t *testing.T) {
	feed := &blockingFeed{started: make(chan struct{}), release: make(chan struct{})}
	flow, _ := newTestPricingFlow(t, feed)
	ctx := context.Background()

	resp, err := flow.TriggerRefresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "blocking", resp.Source)

	select {
	case <-feed.started:
	case <-time.After(2 * time.Second):
		t.Fatal("background refresh never started")
	}

	_, err = flow.RefreshLivePrices(ctx)
	assert.True(t, IsRefreshInProgress(err))
	_, err = flow.TriggerRefresh(ctx)
	assert.True(t, IsRefreshInProgress(err))

	close(feed.release)

	assert.Eventually(t, func() bool {
		_, err := flow.RefreshLivePrices(ctx)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
}
