package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the processing state of an AmmOrder.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusSuccess    OrderStatus = "SUCCESS"
	OrderStatusError      OrderStatus = "ERROR"
)

// AmmOrder is one swap request against one pool. Identifier doubles as the
// idempotency key: a second order with the same identifier is rejected.
// Status only moves PENDING -> PROCESSING -> SUCCESS or ERROR; terminal
// states are never reopened.
type AmmOrder struct {
	Identifier       string              `json:"identifier"`
	PoolPair         string              `json:"pool_pair"`
	OwnerAccountKey0 string              `json:"owner_account_key0"`
	OwnerAccountKey1 string              `json:"owner_account_key1"`
	ZeroForOne       bool                `json:"zero_for_one"`
	AmountSpecified  decimal.Decimal     `json:"amount_specified"`
	Slippage         decimal.NullDecimal `json:"slippage"`
	Status           OrderStatus         `json:"status"`
	Amount0          decimal.Decimal     `json:"amount0"`
	Amount1          decimal.Decimal     `json:"amount1"`
	InitialTick      int32               `json:"initial_tick"`
	FinalTick        int32               `json:"final_tick"`
	FeeGrowthGlobal0 decimal.Decimal     `json:"fee_growth_global0"`
	FeeGrowthGlobal1 decimal.Decimal     `json:"fee_growth_global1"`
	ErrorMessage     string              `json:"error_message,omitempty"`
	CreatedAt        int64               `json:"created_at"`
	UpdatedAt        int64               `json:"updated_at"`
}

// NewAmmOrder builds a pending order from swap request fields.
func NewAmmOrder(identifier, poolPair, ownerKey0, ownerKey1 string, zeroForOne bool, amountSpecified decimal.Decimal, slippage decimal.NullDecimal) *AmmOrder {
	now := time.Now().UnixMilli()
	return &AmmOrder{
		Identifier:       identifier,
		PoolPair:         poolPair,
		OwnerAccountKey0: ownerKey0,
		OwnerAccountKey1: ownerKey1,
		ZeroForOne:       zeroForOne,
		AmountSpecified:  amountSpecified,
		Slippage:         slippage,
		Status:           OrderStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsExactInput reports whether the order fixes the input amount.
// A negative AmountSpecified fixes the desired output instead.
func (o *AmmOrder) IsExactInput() bool {
	return o.AmountSpecified.Sign() >= 0
}

// IsProcessing reports whether the order may be executed.
func (o *AmmOrder) IsProcessing() bool {
	return o.Status == OrderStatusProcessing
}

// MarkProcessing moves a pending order into the processing state.
func (o *AmmOrder) MarkProcessing() bool {
	if o.Status != OrderStatusPending {
		return false
	}
	o.Status = OrderStatusProcessing
	o.UpdatedAt = time.Now().UnixMilli()
	return true
}

// MarkSuccess moves a processing order into the terminal success state.
func (o *AmmOrder) MarkSuccess() bool {
	if o.Status != OrderStatusProcessing {
		return false
	}
	o.Status = OrderStatusSuccess
	o.UpdatedAt = time.Now().UnixMilli()
	return true
}

// MarkError moves the order into the terminal error state with a message.
// Terminal states are left untouched so the first failure wins.
func (o *AmmOrder) MarkError(message string) bool {
	if o.Status == OrderStatusSuccess || o.Status == OrderStatusError {
		return false
	}
	o.Status = OrderStatusError
	o.ErrorMessage = message
	o.UpdatedAt = time.Now().UnixMilli()
	return true
}

// UpdateAfterExecution records the settled amounts and tick movement of a
// completed swap loop. Returns false if the order is not processing.
func (o *AmmOrder) UpdateAfterExecution(amount0, amount1 decimal.Decimal, finalTick, initialTick int32, feeGrowthGlobal0, feeGrowthGlobal1 decimal.Decimal) bool {
	if !o.IsProcessing() {
		return false
	}
	o.Amount0 = amount0
	o.Amount1 = amount1
	o.FinalTick = finalTick
	o.InitialTick = initialTick
	o.FeeGrowthGlobal0 = feeGrowthGlobal0
	o.FeeGrowthGlobal1 = feeGrowthGlobal1
	o.UpdatedAt = time.Now().UnixMilli()
	return true
}

// Clone returns an independent copy of the order.
func (o *AmmOrder) Clone() *AmmOrder {
	if o == nil {
		return nil
	}
	cp := *o
	return &cp
}
