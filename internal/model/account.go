package model

import (
	"github.com/shopspring/decimal"
)

// Account holds the spendable balance for one account key.
type Account struct {
	Key              string          `json:"key"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

// Clone returns an independent copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// Debit subtracts amount from the available balance.
func (a *Account) Debit(amount decimal.Decimal) {
	a.AvailableBalance = a.AvailableBalance.Sub(amount)
}

// Credit adds amount to the available balance.
func (a *Account) Credit(amount decimal.Decimal) {
	a.AvailableBalance = a.AvailableBalance.Add(amount)
}
