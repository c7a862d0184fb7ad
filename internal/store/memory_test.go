package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"swapcore/internal/model"
)

func TestMemoryStoreMissingKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, found, err := s.GetPool(ctx, "AAA-BBB"); err != nil || found {
		t.Fatalf("missing pool: found=%v err=%v", found, err)
	}
	if _, found, err := s.GetAccount(ctx, "acc-0"); err != nil || found {
		t.Fatalf("missing account: found=%v err=%v", found, err)
	}
	if _, found, err := s.GetTick(ctx, model.TickKey("AAA-BBB", 60)); err != nil || found {
		t.Fatalf("missing tick: found=%v err=%v", found, err)
	}
	if _, found, err := s.GetTickBitmap(ctx, "AAA-BBB"); err != nil || found {
		t.Fatalf("missing bitmap: found=%v err=%v", found, err)
	}
	if _, found, err := s.GetOrder(ctx, "order-1"); err != nil || found {
		t.Fatalf("missing order: found=%v err=%v", found, err)
	}
}

func TestMemoryStoreCloneIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	pool := &model.AmmPool{Pair: "AAA-BBB", Liquidity: decimal.NewFromInt(10000), Active: true}
	if err := s.UpdatePool(ctx, pool); err != nil {
		t.Fatalf("update pool: %v", err)
	}

	// Mutating the original after the write must not reach the store.
	pool.Liquidity = decimal.Zero
	got, found, err := s.GetPool(ctx, "AAA-BBB")
	if err != nil || !found {
		t.Fatalf("get pool: found=%v err=%v", found, err)
	}
	if !got.Liquidity.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("stored pool aliases the caller's value: %s", got.Liquidity)
	}

	// Mutating a read value must not reach the store either.
	got.Liquidity = decimal.NewFromInt(1)
	again, _, _ := s.GetPool(ctx, "AAA-BBB")
	if !again.Liquidity.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("read value aliases the stored state: %s", again.Liquidity)
	}
}

func TestSeedDerivesBitmap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	state := SeedState{
		Pools:    []model.AmmPool{{Pair: "AAA-BBB", Active: true}},
		Accounts: []model.Account{{Key: "acc-0", AvailableBalance: decimal.NewFromInt(1000)}},
		Ticks: []model.Tick{
			{PoolPair: "AAA-BBB", Index: -60, LiquidityGross: decimal.NewFromInt(100), Initialized: true},
			{PoolPair: "AAA-BBB", Index: 60, LiquidityGross: decimal.NewFromInt(100), Initialized: true},
			{PoolPair: "AAA-BBB", Index: 120, Initialized: false},
		},
	}

	if err := Seed(ctx, s, state); err != nil {
		t.Fatalf("seed: %v", err)
	}

	bitmap, found, err := s.GetTickBitmap(ctx, "AAA-BBB")
	if err != nil || !found {
		t.Fatalf("bitmap after seed: found=%v err=%v", found, err)
	}
	if !bitmap.IsSet(-60) || !bitmap.IsSet(60) {
		t.Fatalf("initialized ticks missing from the derived bitmap")
	}
	if bitmap.IsSet(120) {
		t.Fatalf("uninitialized tick must not appear in the bitmap")
	}

	if _, found, _ := s.GetPool(ctx, "AAA-BBB"); !found {
		t.Fatalf("pool missing after seed")
	}
	if _, found, _ := s.GetAccount(ctx, "acc-0"); !found {
		t.Fatalf("account missing after seed")
	}
}

func TestSeedExplicitBitmapWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	explicit := model.NewTickBitmap("AAA-BBB")
	explicit.SetBit(999)

	state := SeedState{
		Ticks: []model.Tick{
			{PoolPair: "AAA-BBB", Index: 60, LiquidityGross: decimal.NewFromInt(100), Initialized: true},
		},
		Bitmaps: []model.TickBitmap{*explicit},
	}

	if err := Seed(ctx, s, state); err != nil {
		t.Fatalf("seed: %v", err)
	}

	bitmap, found, _ := s.GetTickBitmap(ctx, "AAA-BBB")
	if !found {
		t.Fatalf("bitmap missing after seed")
	}
	if !bitmap.IsSet(999) || bitmap.IsSet(60) {
		t.Fatalf("explicit bitmap must replace the derived one")
	}
}
