package model

import (
	"github.com/shopspring/decimal"
)

// Position is a liquidity position over a tick range of one pool.
type Position struct {
	PoolPair           string          `json:"pool_pair"`
	Owner              string          `json:"owner"`
	TickLower          int32           `json:"tick_lower"`
	TickUpper          int32           `json:"tick_upper"`
	Liquidity          decimal.Decimal `json:"liquidity"`
	Amount0            decimal.Decimal `json:"amount0"`
	Amount1            decimal.Decimal `json:"amount1"`
	FeeGrowthInside0   decimal.Decimal `json:"fee_growth_inside0"`
	FeeGrowthInside1   decimal.Decimal `json:"fee_growth_inside1"`
	TokensOwed0        decimal.Decimal `json:"tokens_owed0"`
	TokensOwed1        decimal.Decimal `json:"tokens_owed1"`
	CreatedAt          int64           `json:"created_at"`
}

// Clone returns an independent copy of the position.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
