package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTickKey(t *testing.T) {
	if got := TickKey("AAA-BBB", -120); got != "AAA-BBB--120" {
		t.Fatalf("tick key: got %q", got)
	}
	tick := &Tick{PoolPair: "AAA-BBB", Index: 60}
	if got := tick.Key(); got != "AAA-BBB-60" {
		t.Fatalf("tick key: got %q", got)
	}
}

func TestTickCross(t *testing.T) {
	tick := &Tick{
		PoolPair:          "AAA-BBB",
		Index:             90,
		FeeGrowthOutside0: decimal.NewFromInt(2),
		FeeGrowthOutside1: decimal.NewFromInt(1),
	}
	global0 := decimal.NewFromInt(5)
	global1 := decimal.NewFromInt(3)

	tick.Cross(global0, global1)
	if !tick.FeeGrowthOutside0.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("outside0 after cross: got %s, want 3", tick.FeeGrowthOutside0)
	}
	if !tick.FeeGrowthOutside1.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("outside1 after cross: got %s, want 2", tick.FeeGrowthOutside1)
	}

	// Crossing back restores the original accumulators.
	tick.Cross(global0, global1)
	if !tick.FeeGrowthOutside0.Equal(decimal.NewFromInt(2)) || !tick.FeeGrowthOutside1.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("double cross must round trip, got %s/%s", tick.FeeGrowthOutside0, tick.FeeGrowthOutside1)
	}
}

func TestTickClone(t *testing.T) {
	tick := &Tick{PoolPair: "AAA-BBB", Index: 90, LiquidityNet: decimal.NewFromInt(200)}
	clone := tick.Clone()
	clone.LiquidityNet = decimal.NewFromInt(-5)
	if !tick.LiquidityNet.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("mutating the clone leaked into the original")
	}
}
