package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func newTestOrder() *AmmOrder {
	return NewAmmOrder("order-1", "AAA-BBB", "acc-0", "acc-1", true, decimal.NewFromInt(100), decimal.NullDecimal{})
}

func TestNewAmmOrder(t *testing.T) {
	order := newTestOrder()
	if order.Status != OrderStatusPending {
		t.Fatalf("new order status: got %s, want %s", order.Status, OrderStatusPending)
	}
	if !order.IsExactInput() {
		t.Fatalf("positive amount must be exact input")
	}
	if order.CreatedAt == 0 || order.UpdatedAt == 0 {
		t.Fatalf("timestamps not set")
	}

	exactOut := NewAmmOrder("order-2", "AAA-BBB", "acc-0", "acc-1", true, decimal.NewFromInt(-100), decimal.NullDecimal{})
	if exactOut.IsExactInput() {
		t.Fatalf("negative amount must be exact output")
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	order := newTestOrder()

	if order.MarkSuccess() {
		t.Fatalf("pending order must not jump to success")
	}
	if !order.MarkProcessing() {
		t.Fatalf("pending order must move to processing")
	}
	if order.MarkProcessing() {
		t.Fatalf("processing order must not be marked processing again")
	}
	if !order.IsProcessing() {
		t.Fatalf("order should be processing")
	}
	if !order.MarkSuccess() {
		t.Fatalf("processing order must move to success")
	}
	if order.MarkError("late failure") {
		t.Fatalf("terminal success must not be reopened")
	}
	if order.ErrorMessage != "" {
		t.Fatalf("error message set on a successful order: %q", order.ErrorMessage)
	}
}

func TestOrderMarkError(t *testing.T) {
	order := newTestOrder()
	if !order.MarkError("Pool not found: AAA-BBB") {
		t.Fatalf("pending order must accept an error")
	}
	if order.Status != OrderStatusError {
		t.Fatalf("status: got %s, want %s", order.Status, OrderStatusError)
	}
	if order.MarkError("second failure") {
		t.Fatalf("terminal error must not be overwritten")
	}
	if order.ErrorMessage != "Pool not found: AAA-BBB" {
		t.Fatalf("first failure must win, got %q", order.ErrorMessage)
	}
}

func TestOrderUpdateAfterExecution(t *testing.T) {
	order := newTestOrder()

	if order.UpdateAfterExecution(decimal.NewFromInt(1), decimal.NewFromInt(2), 5, 0, decimal.Zero, decimal.Zero) {
		t.Fatalf("non-processing order must reject execution results")
	}

	order.MarkProcessing()
	if !order.UpdateAfterExecution(decimal.NewFromInt(100), decimal.NewFromInt(99), -23, 0, decimal.NewFromInt(1), decimal.Zero) {
		t.Fatalf("processing order must accept execution results")
	}
	if !order.Amount0.Equal(decimal.NewFromInt(100)) || !order.Amount1.Equal(decimal.NewFromInt(99)) {
		t.Fatalf("amounts not recorded: %s/%s", order.Amount0, order.Amount1)
	}
	if order.FinalTick != -23 || order.InitialTick != 0 {
		t.Fatalf("ticks not recorded: %d/%d", order.FinalTick, order.InitialTick)
	}
}

func TestOrderClone(t *testing.T) {
	order := newTestOrder()
	clone := order.Clone()
	clone.MarkProcessing()
	if order.Status != OrderStatusPending {
		t.Fatalf("mutating the clone leaked into the original")
	}
}
