package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tick holds the per-tick state of a pool. Initialized is true exactly when
// LiquidityGross is non-zero; ticks are never physically deleted.
type Tick struct {
	PoolPair          string          `json:"pool_pair"`
	Index             int32           `json:"index"`
	LiquidityGross    decimal.Decimal `json:"liquidity_gross"`
	LiquidityNet      decimal.Decimal `json:"liquidity_net"`
	FeeGrowthOutside0 decimal.Decimal `json:"fee_growth_outside0"`
	FeeGrowthOutside1 decimal.Decimal `json:"fee_growth_outside1"`
	Initialized       bool            `json:"initialized"`
	InitializedAt     int64           `json:"initialized_at"`
}

// TickKey builds the store key for a tick, "<pair>-<index>".
func TickKey(poolPair string, index int32) string {
	return fmt.Sprintf("%s-%d", poolPair, index)
}

// Key returns the store key of this tick.
func (t *Tick) Key() string {
	return TickKey(t.PoolPair, t.Index)
}

// Cross flips the fee growth accumulators to the other side of the tick.
// Called when the pool price moves past this tick in either direction.
func (t *Tick) Cross(feeGrowthGlobal0, feeGrowthGlobal1 decimal.Decimal) {
	t.FeeGrowthOutside0 = feeGrowthGlobal0.Sub(t.FeeGrowthOutside0)
	t.FeeGrowthOutside1 = feeGrowthGlobal1.Sub(t.FeeGrowthOutside1)
}

// Clone returns an independent copy of the tick.
func (t *Tick) Clone() *Tick {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
