package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theunseenchapter/constructai-sub000/estimation"
	"github.com/theunseenchapter/constructai-sub000/pricing"
	"github.com/theunseenchapter/constructai-sub000/repository"
	testingutil "github.com/theunseenchapter/constructai-sub000/testing"
)

func TestPersistentRateStoreWithTracker(t *testing.T) {
	if !testingutil.Available() {
		t.Skip("TEST_DB_HOST not set")
	}

	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		const historyLimit = 3
		store := pricing.NewPersistentRateStore(
			db.DB,
			repository.NewMaterialRateRepository(db.DB),
			repository.NewMaterialPriceHistoryRepository(db.DB),
			historyLimit,
		)
		logger, _ := test.NewNullLogger()
		now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
		tracker := pricing.NewTracker(store, pricing.TrackerConfig{}, logger, func() time.Time { return now })
		ctx := context.Background()

		added, err := tracker.Seed(ctx, pricing.DefaultCatalog())
		require.NoError(t, err)
		assert.Equal(t, len(pricing.DefaultCatalog()), added)

		t.Run("SeedIsIdempotent", func(t *testing.T) {
			again, err := tracker.Seed(ctx, pricing.DefaultCatalog())
			require.NoError(t, err)
			assert.Zero(t, again)
		})

		t.Run("UpdateCapsHistory", func(t *testing.T) {
			for i, p := range []int64{430, 440, 450, 460, 470} {
				now = now.Add(time.Duration(i+1) * time.Hour)
				_, err := tracker.UpdatePrice(ctx, estimation.MaterialCement, decimal.NewFromInt(p), "dealer")
				require.NoError(t, err)
			}

			rate, err := tracker.Material(ctx, estimation.MaterialCement)
			require.NoError(t, err)
			assert.True(t, rate.CurrentRate.Equal(decimal.NewFromInt(470)))
			require.Len(t, rate.History, historyLimit)
			assert.True(t, rate.History[historyLimit-1].Price.Equal(rate.CurrentRate))
			assert.Equal(t, pricing.TrendRising, rate.Trend)
		})

		t.Run("PutExistingDoesNotDuplicateHistory", func(t *testing.T) {
			rate, err := store.Get(ctx, estimation.MaterialCement)
			require.NoError(t, err)
			stored := len(rate.History)
			require.NotZero(t, stored)

			rate.DisplayName = "OPC 53 Grade Cement"
			require.NoError(t, store.Put(ctx, rate))

			again, err := store.Get(ctx, estimation.MaterialCement)
			require.NoError(t, err)
			assert.Equal(t, "OPC 53 Grade Cement", again.DisplayName)
			require.Len(t, again.History, stored)
			for i := range again.History {
				assert.True(t, again.History[i].Price.Equal(rate.History[i].Price))
			}

			now = now.Add(time.Hour)
			rate.History = append(rate.History, pricing.PriceHistoryEntry{
				Timestamp: now, Price: rate.CurrentRate, Source: "import",
			})
			require.NoError(t, store.Put(ctx, rate))

			latest, err := store.Get(ctx, estimation.MaterialCement)
			require.NoError(t, err)
			require.Len(t, latest.History, historyLimit)
			assert.Equal(t, "import", latest.History[historyLimit-1].Source)
		})

		t.Run("UnknownCode", func(t *testing.T) {
			_, err := tracker.UpdatePrice(ctx, "granite", decimal.NewFromInt(10), "")
			assert.True(t, errors.Is(err, pricing.ErrRateNotFound))
		})

		t.Run("RateTableCoversCatalog", func(t *testing.T) {
			materials, labor, err := tracker.RateTable(ctx)
			require.NoError(t, err)
			assert.Len(t, labor, 6)
			assert.Len(t, materials, len(pricing.DefaultCatalog())-6)
		})
		return nil
	})
	require.NoError(t, err)
}
