package model

import (
	"github.com/shopspring/decimal"
)

// AmmPool represents a concentrated-liquidity pool record.
// SqrtPrice tracks TickMath.GetSqrtRatioAtTick(CurrentTick) after every
// committed swap; Liquidity is the in-range liquidity at the current price.
type AmmPool struct {
	Pair                   string          `json:"pair"`
	Token0                 string          `json:"token0"`
	Token1                 string          `json:"token1"`
	FeePercentage          decimal.Decimal `json:"fee_percentage"`
	FeeProtocolPercentage  decimal.Decimal `json:"fee_protocol_percentage"`
	TickSpacing            int32           `json:"tick_spacing"`
	CurrentTick            int32           `json:"current_tick"`
	SqrtPrice              decimal.Decimal `json:"sqrt_price"`
	Liquidity              decimal.Decimal `json:"liquidity"`
	TotalValueLockedToken0 decimal.Decimal `json:"total_value_locked_token0"`
	TotalValueLockedToken1 decimal.Decimal `json:"total_value_locked_token1"`
	FeeGrowthGlobal0       decimal.Decimal `json:"fee_growth_global0"`
	FeeGrowthGlobal1       decimal.Decimal `json:"fee_growth_global1"`
	Active                 bool            `json:"active"`
}

// Clone returns an independent copy of the pool.
func (p *AmmPool) Clone() *AmmPool {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
