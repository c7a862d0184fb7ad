package engine

import (
	"github.com/shopspring/decimal"

	"swapcore/internal/model"
)

// swapState is the mutable working state of one tick-crossing loop. It is
// kept separate from the persisted entities; results are copied back into
// the pool and accounts only at commit time.
type swapState struct {
	amountRemaining  decimal.Decimal
	sqrtPrice        decimal.Decimal
	tick             int32
	liquidity        decimal.Decimal
	feeGrowthGlobal0 decimal.Decimal
	feeGrowthGlobal1 decimal.Decimal

	// running totals of token0/token1 moved by the swap, fees included
	// on the input side
	amount0 decimal.Decimal
	amount1 decimal.Decimal

	crossedTicks []*model.Tick
	tickBackups  []*model.Tick
}

func newSwapState(pool *model.AmmPool, amountSpecified decimal.Decimal) *swapState {
	return &swapState{
		amountRemaining:  amountSpecified,
		sqrtPrice:        pool.SqrtPrice,
		tick:             pool.CurrentTick,
		liquidity:        pool.Liquidity,
		feeGrowthGlobal0: pool.FeeGrowthGlobal0,
		feeGrowthGlobal1: pool.FeeGrowthGlobal1,
	}
}

// swapData is the set of entities loaded for one swap, together with the
// pre-swap snapshots written back on rollback.
type swapData struct {
	pool     *model.AmmPool
	account0 *model.Account
	account1 *model.Account
	bitmap   *model.TickBitmap

	backupPool     *model.AmmPool
	backupAccount0 *model.Account
	backupAccount1 *model.Account
	backupBitmap   *model.TickBitmap
}

func (d *swapData) snapshot() {
	d.backupPool = d.pool.Clone()
	d.backupAccount0 = d.account0.Clone()
	d.backupAccount1 = d.account1.Clone()
	d.backupBitmap = d.bitmap.Clone()
}
