// Package scheduler runs background jobs next to the HTTP server
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	businessflow "github.com/theunseenchapter/constructai-sub000/business_flow"
)

// PriceRefresher is the part of the pricing flow the scheduler drives
type PriceRefresher interface {
	RefreshLivePrices(ctx context.Context) (*dto.RefreshSummaryResponse, error)
}

// PriceRefreshScheduler periodically refreshes live material prices
type PriceRefreshScheduler struct {
	refresher PriceRefresher
	interval  time.Duration
	timeout   time.Duration
	logger    *logrus.Logger
}

func NewPriceRefreshScheduler(refresher PriceRefresher, interval time.Duration, logger *logrus.Logger) *PriceRefreshScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	timeout := interval / 2
	if timeout > 10*time.Minute {
		timeout = 10 * time.Minute
	}
	return &PriceRefreshScheduler{
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start launches the refresh loop in a background goroutine and returns a stop function
// that cancels the loop and waits for an in-flight refresh to return.
func (s *PriceRefreshScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	s.logger.WithFields(logrus.Fields{
		"module":   "scheduler",
		"interval": s.interval.String(),
	}).Info("price refresh scheduler started")

	return func() {
		cancel()
		wg.Wait()
	}
}

func (s *PriceRefreshScheduler) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	summary, err := s.refresher.RefreshLivePrices(ctx)
	if err != nil {
		entry := s.logger.WithFields(logrus.Fields{"module": "scheduler", "func": "runOnce"})
		if businessflow.IsRefreshInProgress(err) {
			entry.Info("price refresh skipped, another instance holds the lock")
			return
		}
		entry.WithError(err).Error("scheduled price refresh failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"module":  "scheduler",
		"func":    "runOnce",
		"source":  summary.Source,
		"updated": summary.Updated,
		"failed":  summary.Failed,
	}).Info("scheduled price refresh finished")
}
