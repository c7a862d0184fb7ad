package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"swapcore/internal/model"
)

// SeedState is the JSON shape of a state file used to bootstrap a store.
// Bitmaps may be omitted; they are then derived from the initialized ticks.
type SeedState struct {
	Pools    []model.AmmPool    `json:"pools"`
	Accounts []model.Account    `json:"accounts"`
	Ticks    []model.Tick       `json:"ticks"`
	Bitmaps  []model.TickBitmap `json:"bitmaps,omitempty"`
}

// LoadSeedState reads and parses a seed state file.
func LoadSeedState(path string) (SeedState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedState{}, fmt.Errorf("read state file: %w", err)
	}
	var state SeedState
	if err := json.Unmarshal(data, &state); err != nil {
		return SeedState{}, fmt.Errorf("parse state file: %w", err)
	}
	return state, nil
}

// Seed writes the seed state into a store.
func Seed(ctx context.Context, s Store, state SeedState) error {
	for i := range state.Pools {
		if err := s.UpdatePool(ctx, &state.Pools[i]); err != nil {
			return fmt.Errorf("seed pool %s: %w", state.Pools[i].Pair, err)
		}
	}
	for i := range state.Accounts {
		if err := s.UpdateAccount(ctx, &state.Accounts[i]); err != nil {
			return fmt.Errorf("seed account %s: %w", state.Accounts[i].Key, err)
		}
	}

	derived := make(map[string]*model.TickBitmap)
	for i := range state.Ticks {
		tick := &state.Ticks[i]
		if err := s.UpdateTick(ctx, tick); err != nil {
			return fmt.Errorf("seed tick %s: %w", tick.Key(), err)
		}
		if tick.Initialized {
			bitmap := derived[tick.PoolPair]
			if bitmap == nil {
				bitmap = model.NewTickBitmap(tick.PoolPair)
				derived[tick.PoolPair] = bitmap
			}
			bitmap.SetBit(tick.Index)
		}
	}

	// Explicit bitmaps win over derived ones.
	for i := range state.Bitmaps {
		delete(derived, state.Bitmaps[i].PoolPair)
		if err := s.UpdateTickBitmap(ctx, &state.Bitmaps[i]); err != nil {
			return fmt.Errorf("seed bitmap %s: %w", state.Bitmaps[i].PoolPair, err)
		}
	}
	for _, bitmap := range derived {
		if err := s.UpdateTickBitmap(ctx, bitmap); err != nil {
			return fmt.Errorf("seed bitmap %s: %w", bitmap.PoolPair, err)
		}
	}

	return nil
}
