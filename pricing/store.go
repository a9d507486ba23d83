package pricing

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// RateStore persists material rates.
//
// Update performs an atomic read-modify-write of one rate: fn may change the rate
// and append history entries, and concurrent updates of the same code are serialized.
// Stores cap history at their configured limit, dropping the oldest entries.
type RateStore interface {
	Get(ctx context.Context, code string) (*MaterialRate, error)
	Put(ctx context.Context, rate *MaterialRate) error
	List(ctx context.Context) ([]*MaterialRate, error)
	Update(ctx context.Context, code string, fn func(rate *MaterialRate) error) (*MaterialRate, error)
}

// InMemoryRateStore keeps rates in process memory
type InMemoryRateStore struct {
	mu           sync.RWMutex
	rates        map[string]*MaterialRate
	historyLimit int
}

// NewInMemoryRateStore creates an empty store capping history at historyLimit entries
func NewInMemoryRateStore(historyLimit int) *InMemoryRateStore {
	return &InMemoryRateStore{
		rates:        make(map[string]*MaterialRate),
		historyLimit: historyLimit,
	}
}

func (s *InMemoryRateStore) Get(_ context.Context, code string) (*MaterialRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rate, ok := s.rates[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRateNotFound, code)
	}
	return rate.Clone(), nil
}

func (s *InMemoryRateStore) Put(_ context.Context, rate *MaterialRate) error {
	if rate == nil || rate.Code == "" {
		return fmt.Errorf("rate code is required")
	}
	cp := rate.Clone()
	cp.History = trimHistory(cp.History, s.historyLimit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[cp.Code] = cp
	return nil
}

// List returns a consistent snapshot of every rate ordered by code
func (s *InMemoryRateStore) List(_ context.Context) ([]*MaterialRate, error) {
	s.mu.RLock()
	out := make([]*MaterialRate, 0, len(s.rates))
	for _, rate := range s.rates {
		out = append(out, rate.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *InMemoryRateStore) Update(_ context.Context, code string, fn func(rate *MaterialRate) error) (*MaterialRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rates[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRateNotFound, code)
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.History = trimHistory(working.History, s.historyLimit)
	s.rates[code] = working
	return working.Clone(), nil
}
