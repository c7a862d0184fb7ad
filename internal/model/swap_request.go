package model

import (
	"github.com/shopspring/decimal"
)

// SwapRequest is one incoming swap order as read from the ingestion feed.
// AmountSpecified is positive for exact-input and negative for exact-output;
// Slippage is null when the caller accepts any realized amount.
type SwapRequest struct {
	Identifier       string              `json:"identifier"`
	PoolPair         string              `json:"pool_pair"`
	OwnerAccountKey0 string              `json:"owner_account_key0"`
	OwnerAccountKey1 string              `json:"owner_account_key1"`
	ZeroForOne       bool                `json:"zero_for_one"`
	AmountSpecified  decimal.Decimal     `json:"amount_specified"`
	Slippage         decimal.NullDecimal `json:"slippage"`
}

// SwapResult carries the outcome of one processed swap request for
// downstream notification.
type SwapResult struct {
	Identifier   string    `json:"identifier"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Order        *AmmOrder `json:"order,omitempty"`
	Pool         *AmmPool  `json:"pool,omitempty"`
}
