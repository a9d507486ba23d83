package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/theunseenchapter/constructai-sub000/config"
	"github.com/theunseenchapter/constructai-sub000/pricing"
	"github.com/theunseenchapter/constructai-sub000/utils"
)

const (
	currentPricesCacheKey = "pricing:current_prices"
	refreshLockKey        = "pricing:refresh_lock"
	backgroundRefreshTTL  = 10 * time.Minute
)

// PricingFlow handles material rate queries, manual updates and live refreshes
type PricingFlow interface {
	UpdatePrice(ctx context.Context, req *dto.UpdatePriceRequest) (*dto.UpdatePriceResponse, error)
	CurrentPrices(ctx context.Context) (*dto.CurrentPricesResponse, error)
	Material(ctx context.Context, code string) (*dto.MaterialResponse, error)
	PriceHistory(ctx context.Context, code string, days int) (*dto.PriceHistoryResponse, error)
	RefreshLivePrices(ctx context.Context) (*dto.RefreshSummaryResponse, error)
	TriggerRefresh(ctx context.Context) (*dto.RefreshPricesResponse, error)
}

type PricingFlowImpl struct {
	tracker    *pricing.Tracker
	feed       pricing.PriceFeed
	rc         *redis.Client
	locker     *redislock.Client
	cacheCfg   config.CacheConfig
	pricingCfg config.PricingConfig
	logger     *logrus.Logger

	// guards refreshes inside this process when no Redis lock is available
	localRefresh sync.Mutex
}

// NewPricingFlow wires the tracker to a live feed. rc may be nil, in which case the snapshot cache
// is bypassed and refreshes are only serialized within this process.
func NewPricingFlow(
	tracker *pricing.Tracker,
	feed pricing.PriceFeed,
	rc *redis.Client,
	cacheCfg config.CacheConfig,
	pricingCfg config.PricingConfig,
	logger *logrus.Logger,
) PricingFlow {
	f := &PricingFlowImpl{
		tracker:    tracker,
		feed:       feed,
		rc:         rc,
		cacheCfg:   cacheCfg,
		pricingCfg: pricingCfg,
		logger:     logger,
	}
	if rc != nil {
		f.locker = redislock.New(rc)
	}
	return f
}

func (f *PricingFlowImpl) UpdatePrice(ctx context.Context, req *dto.UpdatePriceRequest) (*dto.UpdatePriceResponse, error) {
	if req == nil || strings.TrimSpace(req.MaterialCode) == "" {
		return nil, NewBusinessError("MATERIAL_CODE_REQUIRED", "Material code is required", ErrMaterialCodeMissing)
	}

	upd, err := f.tracker.UpdatePrice(ctx, strings.TrimSpace(req.MaterialCode), req.NewPrice, req.Source)
	if err != nil {
		return nil, f.mapPricingError(err, req.MaterialCode)
	}

	priceUpdatesTotal.WithLabelValues(upd.Source, string(upd.Trend)).Inc()
	f.invalidateSnapshot(ctx)

	return &dto.UpdatePriceResponse{
		Message:      "Price updated successfully",
		MaterialCode: upd.Code,
		OldPrice:     upd.OldPrice,
		NewPrice:     upd.NewPrice,
		ChangePct:    upd.ChangePct,
		Trend:        string(upd.Trend),
		Source:       upd.Source,
		Timestamp:    utils.FormatRFC3339(upd.Timestamp),
	}, nil
}

func (f *PricingFlowImpl) CurrentPrices(ctx context.Context) (*dto.CurrentPricesResponse, error) {
	cacheKey := redisKey(f.cacheCfg, currentPricesCacheKey)

	if f.rc != nil {
		if bs, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out dto.CurrentPricesResponse
			if err := json.Unmarshal(bs, &out); err == nil {
				out.Message = "Current prices retrieved from cache"
				return &out, nil
			}
		}
	}

	rates, err := f.tracker.CurrentPrices(ctx)
	if err != nil {
		return nil, NewBusinessError("CURRENT_PRICES_FAILED", "Failed to load current prices", err)
	}

	prices := make(map[string]dto.MaterialRateResponse, len(rates))
	for code, r := range rates {
		prices[code] = toRateResponse(r, false)
	}
	out := &dto.CurrentPricesResponse{
		Message:  "Current prices retrieved",
		Currency: utils.CurrencyINR,
		Count:    len(prices),
		Prices:   prices,
	}

	if f.rc != nil {
		if bs, err := json.Marshal(out); err == nil {
			_ = f.rc.Set(ctx, cacheKey, bs, f.pricingCfg.SnapshotTTL).Err()
		}
	}

	return out, nil
}

func (f *PricingFlowImpl) Material(ctx context.Context, code string) (*dto.MaterialResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, NewBusinessError("MATERIAL_CODE_REQUIRED", "Material code is required", ErrMaterialCodeMissing)
	}

	rate, err := f.tracker.Material(ctx, code)
	if err != nil {
		return nil, f.mapPricingError(err, code)
	}

	return &dto.MaterialResponse{
		Message:  "Material retrieved",
		Currency: utils.CurrencyINR,
		Material: toRateResponse(rate, true),
	}, nil
}

func (f *PricingFlowImpl) PriceHistory(ctx context.Context, code string, days int) (*dto.PriceHistoryResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, NewBusinessError("MATERIAL_CODE_REQUIRED", "Material code is required", ErrMaterialCodeMissing)
	}
	if days <= 0 {
		days = f.pricingCfg.HistoryDefaultDays
	}

	entries, err := f.tracker.PriceHistory(ctx, code, days)
	if err != nil {
		return nil, NewBusinessError("PRICE_HISTORY_FAILED", "Failed to load price history", err)
	}

	return &dto.PriceHistoryResponse{
		Message:      "Price history retrieved",
		MaterialCode: code,
		Days:         days,
		History:      toHistoryItems(entries),
	}, nil
}

// RefreshLivePrices fetches every material from the configured feed and waits for the batch to finish
func (f *PricingFlowImpl) RefreshLivePrices(ctx context.Context) (*dto.RefreshSummaryResponse, error) {
	release, err := f.acquireRefresh(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return f.runRefresh(ctx)
}

// TriggerRefresh takes the refresh lock and runs the batch in the background
func (f *PricingFlowImpl) TriggerRefresh(ctx context.Context) (*dto.RefreshPricesResponse, error) {
	release, err := f.acquireRefresh(ctx)
	if err != nil {
		return nil, err
	}

	requestID := ctx.Value(utils.RequestIDKey)
	go func() {
		defer release()
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundRefreshTTL)
		defer cancel()
		if _, err := f.runRefresh(bgCtx); err != nil {
			f.logger.WithFields(logrus.Fields{
				"module":     "pricing",
				"func":       "TriggerRefresh",
				"request_id": requestID,
			}).WithError(err).Error("background price refresh failed")
		}
	}()

	return &dto.RefreshPricesResponse{
		Message: "Price refresh started",
		Source:  f.feed.Name(),
	}, nil
}

func (f *PricingFlowImpl) runRefresh(ctx context.Context) (*dto.RefreshSummaryResponse, error) {
	start := time.Now()
	summary, err := f.tracker.Refresh(ctx, f.feed)
	priceRefreshDuration.Observe(time.Since(start).Seconds())
	if summary != nil {
		for _, u := range summary.Updates {
			priceUpdatesTotal.WithLabelValues(u.Source, string(u.Trend)).Inc()
		}
		if summary.Failed > 0 {
			priceFeedFailuresTotal.WithLabelValues(summary.Source).Add(float64(summary.Failed))
		}
		if summary.Updated > 0 {
			f.invalidateSnapshot(ctx)
		}
	}
	if err != nil {
		return nil, NewBusinessError("PRICE_REFRESH_FAILED", "Price refresh did not complete", err)
	}

	f.logger.WithFields(logrus.Fields{
		"module":  "pricing",
		"func":    "runRefresh",
		"source":  summary.Source,
		"updated": summary.Updated,
		"failed":  summary.Failed,
		"skipped": summary.Skipped,
	}).Info("live price refresh finished")

	return &dto.RefreshSummaryResponse{
		Message: "Live prices refreshed",
		Source:  summary.Source,
		Updated: summary.Updated,
		Failed:  summary.Failed,
		Skipped: summary.Skipped,
	}, nil
}

// acquireRefresh returns a release func once this caller owns the refresh.
// With Redis the lock spans every instance; without it only this process is covered.
func (f *PricingFlowImpl) acquireRefresh(ctx context.Context) (func(), error) {
	if f.locker == nil {
		if !f.localRefresh.TryLock() {
			return nil, NewBusinessError("REFRESH_IN_PROGRESS", "A price refresh is already running", ErrRefreshInProgress)
		}
		return f.localRefresh.Unlock, nil
	}

	ttl := f.pricingCfg.RefreshLockTTL
	if ttl <= 0 {
		ttl = backgroundRefreshTTL
	}
	lock, err := f.locker.Obtain(ctx, redisKey(f.cacheCfg, refreshLockKey), ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, NewBusinessError("REFRESH_IN_PROGRESS", "A price refresh is already running", ErrRefreshInProgress)
	}
	if err != nil {
		return nil, NewBusinessError("REFRESH_LOCK_FAILED", "Failed to obtain refresh lock", err)
	}

	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			f.logger.WithFields(logrus.Fields{
				"module": "pricing",
				"func":   "acquireRefresh",
			}).WithError(err).Warn("failed to release refresh lock")
		}
	}, nil
}

func (f *PricingFlowImpl) invalidateSnapshot(ctx context.Context) {
	if f.rc == nil {
		return
	}
	if err := f.rc.Del(ctx, redisKey(f.cacheCfg, currentPricesCacheKey)).Err(); err != nil {
		f.logger.WithFields(logrus.Fields{
			"module": "pricing",
			"func":   "invalidateSnapshot",
		}).WithError(err).Warn("failed to invalidate price snapshot")
	}
}

func (f *PricingFlowImpl) mapPricingError(err error, code string) error {
	switch {
	case errors.Is(err, pricing.ErrRateNotFound):
		return NewBusinessErrorf("MATERIAL_NOT_FOUND", "Material %s not found", joinErr(ErrMaterialNotFound, err), code)
	case errors.Is(err, pricing.ErrInvalidPrice):
		return NewBusinessError("INVALID_PRICE", "New price must be greater than zero", joinErr(ErrInvalidPrice, err))
	default:
		return NewBusinessError("PRICING_OPERATION_FAILED", "Pricing operation failed", err)
	}
}
