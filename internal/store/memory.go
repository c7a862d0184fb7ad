package store

import (
	"context"
	"sync"

	"swapcore/internal/model"
)

// MemoryStore is an in-process implementation of Store. Values are cloned on
// the way in and out so callers never alias the stored state.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	pools    map[string]*model.AmmPool
	ticks    map[string]*model.Tick
	bitmaps  map[string]*model.TickBitmap
	orders   map[string]*model.AmmOrder
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*model.Account),
		pools:    make(map[string]*model.AmmPool),
		ticks:    make(map[string]*model.Tick),
		bitmaps:  make(map[string]*model.TickBitmap),
		orders:   make(map[string]*model.AmmOrder),
	}
}

func (s *MemoryStore) GetAccount(_ context.Context, key string) (*model.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[key]
	if !ok {
		return nil, false, nil
	}
	return account.Clone(), true, nil
}

func (s *MemoryStore) UpdateAccount(_ context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Key] = account.Clone()
	return nil
}

func (s *MemoryStore) GetPool(_ context.Context, pair string) (*model.AmmPool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool, ok := s.pools[pair]
	if !ok {
		return nil, false, nil
	}
	return pool.Clone(), true, nil
}

func (s *MemoryStore) UpdatePool(_ context.Context, pool *model.AmmPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[pool.Pair] = pool.Clone()
	return nil
}

func (s *MemoryStore) GetTick(_ context.Context, key string) (*model.Tick, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tick, ok := s.ticks[key]
	if !ok {
		return nil, false, nil
	}
	return tick.Clone(), true, nil
}

func (s *MemoryStore) UpdateTick(_ context.Context, tick *model.Tick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks[tick.Key()] = tick.Clone()
	return nil
}

func (s *MemoryStore) GetTickBitmap(_ context.Context, poolPair string) (*model.TickBitmap, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bitmap, ok := s.bitmaps[poolPair]
	if !ok {
		return nil, false, nil
	}
	return bitmap.Clone(), true, nil
}

func (s *MemoryStore) UpdateTickBitmap(_ context.Context, bitmap *model.TickBitmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bitmaps[bitmap.PoolPair] = bitmap.Clone()
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, identifier string) (*model.AmmOrder, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[identifier]
	if !ok {
		return nil, false, nil
	}
	return order.Clone(), true, nil
}

func (s *MemoryStore) UpdateOrder(_ context.Context, order *model.AmmOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.Identifier] = order.Clone()
	return nil
}
