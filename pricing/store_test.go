package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreCopiesOnReadAndWrite(t *testing.T) {
	store := NewInMemoryRateStore(3)
	ctx := context.Background()

	rate := &MaterialRate{Code: "x", CurrentRate: decimal.NewFromInt(10)}
	require.NoError(t, store.Put(ctx, rate))
	rate.CurrentRate = decimal.NewFromInt(99)

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.True(t, got.CurrentRate.Equal(decimal.NewFromInt(10)))

	got.History = append(got.History, PriceHistoryEntry{Price: decimal.NewFromInt(1)})
	again, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Empty(t, again.History)
}

func TestInMemoryStorePutTrimsHistory(t *testing.T) {
	store := NewInMemoryRateStore(2)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Put(ctx, &MaterialRate{
		Code: "x",
		History: []PriceHistoryEntry{
			{Timestamp: now, Price: decimal.NewFromInt(1)},
			{Timestamp: now.Add(time.Second), Price: decimal.NewFromInt(2)},
			{Timestamp: now.Add(2 * time.Second), Price: decimal.NewFromInt(3)},
		},
	}))

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	require.Len(t, got.History, 2)
	assert.True(t, got.History[0].Price.Equal(decimal.NewFromInt(2)))
}

func TestInMemoryStoreUpdateDiscardsOnError(t *testing.T) {
	store := NewInMemoryRateStore(5)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, &MaterialRate{Code: "x", CurrentRate: decimal.NewFromInt(10)}))

	boom := errors.New("boom")
	_, err := store.Update(ctx, "x", func(r *MaterialRate) error {
		r.CurrentRate = decimal.NewFromInt(20)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.True(t, got.CurrentRate.Equal(decimal.NewFromInt(10)))

	_, err = store.Update(ctx, "missing", func(*MaterialRate) error { return nil })
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestInMemoryStoreListOrderedByCode(t *testing.T) {
	store := NewInMemoryRateStore(5)
	ctx := context.Background()
	for _, code := range []string{"c", "a", "b"} {
		require.NoError(t, store.Put(ctx, &MaterialRate{Code: code}))
	}
	rates, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.Equal(t, "a", rates[0].Code)
	assert.Equal(t, "c", rates[2].Code)
}
