package pricing

import (
	"context"
	"fmt"

	"github.com/theunseenchapter/constructai-sub000/models"
	"github.com/theunseenchapter/constructai-sub000/repository"
	"gorm.io/gorm"
)

// PersistentRateStore keeps rates in the database through the repository layer
type PersistentRateStore struct {
	db           *gorm.DB
	rates        repository.MaterialRateRepository
	history      repository.MaterialPriceHistoryRepository
	historyLimit int
}

func NewPersistentRateStore(
	db *gorm.DB,
	rates repository.MaterialRateRepository,
	history repository.MaterialPriceHistoryRepository,
	historyLimit int,
) *PersistentRateStore {
	return &PersistentRateStore{
		db:           db,
		rates:        rates,
		history:      history,
		historyLimit: historyLimit,
	}
}

func (s *PersistentRateStore) Get(ctx context.Context, code string) (*MaterialRate, error) {
	row, err := s.rates.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", ErrRateNotFound, code)
	}
	hist, err := s.history.ListLatest(ctx, code, s.historyLimit)
	if err != nil {
		return nil, err
	}
	return rateFromModel(row, hist), nil
}

func (s *PersistentRateStore) Put(ctx context.Context, rate *MaterialRate) error {
	if rate == nil || rate.Code == "" {
		return fmt.Errorf("rate code is required")
	}
	return repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing, err := s.rates.ByCodeForUpdate(txCtx, rate.Code)
		if err != nil {
			return err
		}
		row := rateToModel(rate)
		if existing == nil {
			if err := s.rates.Save(txCtx, row); err != nil {
				return err
			}
			return s.appendHistory(txCtx, rate.Code, rate.History)
		}

		if err := s.rates.Update(txCtx, row); err != nil {
			return err
		}
		latest, err := s.history.ListLatest(txCtx, rate.Code, 1)
		if err != nil {
			return err
		}
		return s.appendHistory(txCtx, rate.Code, newerThan(rate.History, latest))
	})
}

// newerThan drops the entries already covered by the stored history
func newerThan(entries []PriceHistoryEntry, latest []*models.MaterialPriceHistory) []PriceHistoryEntry {
	if len(latest) == 0 {
		return entries
	}
	last := latest[len(latest)-1].RecordedAt
	for i, e := range entries {
		if e.Timestamp.After(last) {
			return entries[i:]
		}
	}
	return nil
}

// List returns every rate with its capped history, ordered by code
func (s *PersistentRateStore) List(ctx context.Context) ([]*MaterialRate, error) {
	rows, err := s.rates.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, row.Code)
	}
	hist, err := s.history.ListLatestByCodes(ctx, codes, s.historyLimit)
	if err != nil {
		return nil, err
	}

	out := make([]*MaterialRate, 0, len(rows))
	for _, row := range rows {
		out = append(out, rateFromModel(row, hist[row.Code]))
	}
	return out, nil
}

// Update locks the rate row for the duration of fn and persists the result in the same transaction
func (s *PersistentRateStore) Update(ctx context.Context, code string, fn func(rate *MaterialRate) error) (*MaterialRate, error) {
	var result *MaterialRate
	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		row, err := s.rates.ByCodeForUpdate(txCtx, code)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("%w: %s", ErrRateNotFound, code)
		}
		hist, err := s.history.ListLatest(txCtx, code, s.historyLimit)
		if err != nil {
			return err
		}

		working := rateFromModel(row, hist)
		known := len(working.History)
		if err := fn(working); err != nil {
			return err
		}

		if err := s.rates.Update(txCtx, rateToModel(working)); err != nil {
			return err
		}
		if len(working.History) > known {
			if err := s.appendHistory(txCtx, code, working.History[known:]); err != nil {
				return err
			}
		}

		working.History = trimHistory(working.History, s.historyLimit)
		result = working
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PersistentRateStore) appendHistory(ctx context.Context, code string, entries []PriceHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.MaterialPriceHistory, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &models.MaterialPriceHistory{
			MaterialCode: code,
			Price:        e.Price,
			ChangePct:    e.ChangePct,
			Source:       e.Source,
			RecordedAt:   e.Timestamp,
		})
	}
	if err := s.history.SaveBatch(ctx, rows); err != nil {
		return err
	}
	return s.history.TrimToLatest(ctx, code, s.historyLimit)
}

func rateFromModel(row *models.MaterialRate, hist []*models.MaterialPriceHistory) *MaterialRate {
	rate := &MaterialRate{
		Code:          row.Code,
		DisplayName:   row.DisplayName,
		Category:      Category(row.Category),
		Unit:          row.Unit,
		UnitWeightKg:  row.UnitWeightKg,
		CurrentRate:   row.CurrentRate,
		Trend:         Trend(row.Trend),
		LastChangePct: row.LastChangePct,
		UpdatedAt:     row.UpdatedAt.UTC(),
		History:       make([]PriceHistoryEntry, 0, len(hist)),
	}
	for _, h := range hist {
		rate.History = append(rate.History, PriceHistoryEntry{
			Timestamp: h.RecordedAt.UTC(),
			Price:     h.Price,
			Source:    h.Source,
			ChangePct: h.ChangePct,
		})
	}
	return rate
}

func rateToModel(rate *MaterialRate) *models.MaterialRate {
	return &models.MaterialRate{
		Code:          rate.Code,
		DisplayName:   rate.DisplayName,
		Category:      string(rate.Category),
		Unit:          rate.Unit,
		UnitWeightKg:  rate.UnitWeightKg,
		CurrentRate:   rate.CurrentRate,
		Trend:         string(rate.Trend),
		LastChangePct: rate.LastChangePct,
		UpdatedAt:     rate.UpdatedAt,
	}
}
