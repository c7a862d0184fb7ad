package ammmath

import (
	"errors"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Tick bounds, chosen so the price 1.0001^tick stays representable.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

var (
	ErrInvalidPrice       = errors.New("price must be greater than zero")
	ErrInvalidSqrtPrice   = errors.New("sqrt price must be greater than zero")
	ErrInvalidTickSpacing = errors.New("tick spacing out of range")

	maxUint128 = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), 0)
)

func clampTick(tick int32) int32 {
	if tick < MinTick {
		return MinTick
	}
	if tick > MaxTick {
		return MaxTick
	}
	return tick
}

// PriceToTick returns the largest tick whose price does not exceed the given
// price, clamped to [MinTick, MaxTick]. A float64 logarithm seeds the
// estimate; the result is corrected against exact decimal tick prices so the
// round trip with TickToPriceExact is precise.
func PriceToTick(price decimal.Decimal) (int32, error) {
	if price.Sign() <= 0 {
		return 0, ErrInvalidPrice
	}

	tick := estimateTick(price)
	for tick < MaxTick && !TickToPriceExact(tick+1).GreaterThan(price) {
		tick++
	}
	for tick > MinTick && TickToPriceExact(tick).GreaterThan(price) {
		tick--
	}
	return tick, nil
}

func estimateTick(price decimal.Decimal) int32 {
	f, _ := price.Float64()
	if f <= 0 {
		return MinTick
	}
	if math.IsInf(f, 1) {
		return MaxTick
	}
	est := math.Floor(math.Log(f) / math.Log(1.0001))
	if est < float64(MinTick) {
		return MinTick
	}
	if est > float64(MaxTick) {
		return MaxTick
	}
	return int32(est)
}

// TickToPrice returns 1.0001^tick rounded to 6 decimal places for display.
// Out-of-range ticks are silently clamped.
func TickToPrice(tick int32) decimal.Decimal {
	return TickToPriceExact(tick).Round(6)
}

// TickToPriceExact returns 1.0001^tick at full internal precision.
// Out-of-range ticks are silently clamped.
func TickToPriceExact(tick int32) decimal.Decimal {
	return floatToDecimal(powTick(clampTick(tick)), pricePrecision)
}

// GetSqrtRatioAtTick returns sqrt(1.0001^tick), i.e. 1.0001^(tick/2),
// clamped to the tick range. Strictly increasing in tick.
func GetSqrtRatioAtTick(tick int32) decimal.Decimal {
	f := powTick(clampTick(tick))
	return floatToDecimal(f.Sqrt(f), pricePrecision)
}

// GetTickAtSqrtRatio returns the largest tick whose sqrt ratio does not
// exceed sqrtPrice; the inverse of GetSqrtRatioAtTick.
func GetTickAtSqrtRatio(sqrtPrice decimal.Decimal) (int32, error) {
	if sqrtPrice.Sign() <= 0 {
		return 0, ErrInvalidSqrtPrice
	}

	tick := estimateTickFromSqrt(sqrtPrice)
	for tick < MaxTick && !GetSqrtRatioAtTick(tick+1).GreaterThan(sqrtPrice) {
		tick++
	}
	for tick > MinTick && GetSqrtRatioAtTick(tick).GreaterThan(sqrtPrice) {
		tick--
	}
	return tick, nil
}

func estimateTickFromSqrt(sqrtPrice decimal.Decimal) int32 {
	f, _ := sqrtPrice.Float64()
	if f <= 0 {
		return MinTick
	}
	if math.IsInf(f, 1) {
		return MaxTick
	}
	est := math.Floor(2 * math.Log(f) / math.Log(1.0001))
	if est < float64(MinTick) {
		return MinTick
	}
	if est > float64(MaxTick) {
		return MaxTick
	}
	return int32(est)
}

// TickSpacingToMaxLiquidityPerTick caps per-tick liquidity so that liquidity
// summed over every admissible tick stays within an unsigned 128-bit range.
func TickSpacingToMaxLiquidityPerTick(tickSpacing int32) (decimal.Decimal, error) {
	if tickSpacing <= 0 || tickSpacing > MaxTick-MinTick {
		return decimal.Zero, ErrInvalidTickSpacing
	}

	minTick := MinTick / tickSpacing * tickSpacing
	maxTick := MaxTick / tickSpacing * tickSpacing
	numTicks := (maxTick-minTick)/tickSpacing + 1

	return maxUint128.Div(decimal.NewFromInt(int64(numTicks))).Floor(), nil
}
