package ammmath

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

var sampleTicks = []int32{MinTick, -443636, -100000, -887, -256, -1, 0, 1, 100, 887, 100000, 443636, MaxTick}

func TestPriceToTickRoundTrip(t *testing.T) {
	for _, tick := range sampleTicks {
		price := TickToPriceExact(tick)
		got, err := PriceToTick(price)
		if err != nil {
			t.Fatalf("tick %d: unexpected error: %v", tick, err)
		}
		if got != tick {
			t.Fatalf("round trip mismatch: tick %d -> price %s -> tick %d", tick, price, got)
		}
	}
}

func TestPriceToTickInvalid(t *testing.T) {
	if _, err := PriceToTick(decimal.Zero); err == nil {
		t.Fatalf("expected error for zero price")
	}
	if _, err := PriceToTick(decimal.NewFromInt(-1)); err == nil {
		t.Fatalf("expected error for negative price")
	}
}

func TestTickToPriceKnownValues(t *testing.T) {
	if got := TickToPrice(0); !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("price at tick 0: got %s, want 1", got)
	}
	if got := TickToPrice(1); !got.Equal(decimal.RequireFromString("1.0001")) {
		t.Fatalf("price at tick 1: got %s, want 1.0001", got)
	}
	// 1.0001^2 = 1.00020001, rounded to 6 decimal places for display
	if got := TickToPrice(2); !got.Equal(decimal.RequireFromString("1.0002")) {
		t.Fatalf("price at tick 2: got %s, want 1.0002", got)
	}
	if got := TickToPriceExact(2); !got.Equal(decimal.RequireFromString("1.00020001")) {
		t.Fatalf("exact price at tick 2: got %s, want 1.00020001", got)
	}
}

func TestTickToPriceClamps(t *testing.T) {
	if got, want := TickToPriceExact(MaxTick+10), TickToPriceExact(MaxTick); !got.Equal(want) {
		t.Fatalf("above-range tick not clamped: got %s, want %s", got, want)
	}
	if got, want := TickToPriceExact(MinTick-10), TickToPriceExact(MinTick); !got.Equal(want) {
		t.Fatalf("below-range tick not clamped: got %s, want %s", got, want)
	}
}

func TestGetSqrtRatioAtTickMonotonic(t *testing.T) {
	for _, tick := range sampleTicks {
		if tick >= MaxTick {
			continue
		}
		lower := GetSqrtRatioAtTick(tick)
		upper := GetSqrtRatioAtTick(tick + 1)
		if !upper.GreaterThan(lower) {
			t.Fatalf("sqrt ratio not increasing at tick %d: %s >= %s", tick, lower, upper)
		}
	}
}

func TestGetSqrtRatioAtTickSquaresToPrice(t *testing.T) {
	tolerance := decimal.RequireFromString("0.0000000001")
	for _, tick := range []int32{-1000, -1, 0, 1, 1000} {
		sqrt := GetSqrtRatioAtTick(tick)
		price := TickToPriceExact(tick)
		diff := sqrt.Mul(sqrt).Sub(price).Abs()
		if diff.GreaterThan(tolerance.Mul(price)) {
			t.Fatalf("sqrt ratio at tick %d squares to %s, want %s", tick, sqrt.Mul(sqrt), price)
		}
	}
}

func TestGetTickAtSqrtRatioRoundTrip(t *testing.T) {
	for _, tick := range sampleTicks {
		sqrt := GetSqrtRatioAtTick(tick)
		got, err := GetTickAtSqrtRatio(sqrt)
		if err != nil {
			t.Fatalf("tick %d: unexpected error: %v", tick, err)
		}
		if got != tick {
			t.Fatalf("round trip mismatch: tick %d -> sqrt %s -> tick %d", tick, sqrt, got)
		}
	}
}

func TestGetTickAtSqrtRatioInvalid(t *testing.T) {
	if _, err := GetTickAtSqrtRatio(decimal.Zero); err == nil {
		t.Fatalf("expected error for zero sqrt price")
	}
}

func TestTickSpacingToMaxLiquidityPerTick(t *testing.T) {
	spacing := int32(10)
	maxLiquidity, err := TickSpacingToMaxLiquidityPerTick(spacing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if maxLiquidity.Sign() <= 0 {
		t.Fatalf("max liquidity must be positive, got %s", maxLiquidity)
	}

	// Fully loading every admissible tick must stay inside 128 bits.
	minTick := MinTick / spacing * spacing
	maxTick := MaxTick / spacing * spacing
	numTicks := decimal.NewFromInt(int64((maxTick-minTick)/spacing + 1))
	limit := decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), 0)

	if maxLiquidity.Mul(numTicks).GreaterThan(limit) {
		t.Fatalf("accumulated liquidity exceeds 128-bit range")
	}
	if maxLiquidity.Add(decimal.NewFromInt(1)).Mul(numTicks).LessThanOrEqual(limit) {
		t.Fatalf("max liquidity per tick is not tight")
	}
}

func TestTickSpacingToMaxLiquidityPerTickInvalid(t *testing.T) {
	if _, err := TickSpacingToMaxLiquidityPerTick(0); err == nil {
		t.Fatalf("expected error for zero spacing")
	}
	if _, err := TickSpacingToMaxLiquidityPerTick(-5); err == nil {
		t.Fatalf("expected error for negative spacing")
	}
	if _, err := TickSpacingToMaxLiquidityPerTick(MaxTick - MinTick + 1); err == nil {
		t.Fatalf("expected error for oversized spacing")
	}
}
