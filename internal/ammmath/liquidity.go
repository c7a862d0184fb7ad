package ammmath

import (
	"github.com/shopspring/decimal"

	"swapcore/internal/model"
)

// millisecondsPerYear prorates fee estimates over a time window.
var millisecondsPerYear = decimal.NewFromInt(365 * 24 * 60 * 60 * 1000)

// CalculateLiquidity sizes the liquidity of a position at the pool's current
// price. Returns zero on any malformed input rather than propagating.
func CalculateLiquidity(pool *model.AmmPool, position *model.Position) decimal.Decimal {
	if pool == nil || position == nil {
		return decimal.Zero
	}
	if pool.SqrtPrice.Sign() <= 0 {
		return decimal.Zero
	}

	sqrtLower := GetSqrtRatioAtTick(position.TickLower)
	sqrtUpper := GetSqrtRatioAtTick(position.TickUpper)
	return CalculateLiquidityForAmounts(pool.SqrtPrice, sqrtLower, sqrtUpper, position.Amount0, position.Amount1)
}

// CalculateLiquidityForAmounts computes the liquidity representable by the
// given token amounts over a sqrt-price range. Below the range only token0
// binds, above it only token1, inside it the smaller of the two.
func CalculateLiquidityForAmounts(sqrtCurrent, sqrtLower, sqrtUpper, amount0, amount1 decimal.Decimal) decimal.Decimal {
	if sqrtLower.GreaterThan(sqrtUpper) {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	if sqrtCurrent.Sign() <= 0 || sqrtLower.Sign() <= 0 || sqrtLower.Equal(sqrtUpper) {
		return decimal.Zero
	}

	switch {
	case !sqrtCurrent.GreaterThan(sqrtLower):
		return liquidityForAmount0(sqrtLower, sqrtUpper, amount0)
	case sqrtCurrent.GreaterThanOrEqual(sqrtUpper):
		return liquidityForAmount1(sqrtLower, sqrtUpper, amount1)
	default:
		liquidity0 := liquidityForAmount0(sqrtCurrent, sqrtUpper, amount0)
		liquidity1 := liquidityForAmount1(sqrtLower, sqrtCurrent, amount1)
		if liquidity0.LessThan(liquidity1) {
			return liquidity0
		}
		return liquidity1
	}
}

func liquidityForAmount0(sqrtA, sqrtB, amount0 decimal.Decimal) decimal.Decimal {
	diff := sqrtB.Sub(sqrtA)
	if diff.Sign() <= 0 {
		return decimal.Zero
	}
	return amount0.Mul(sqrtA.Mul(sqrtB)).Div(diff)
}

func liquidityForAmount1(sqrtA, sqrtB, amount1 decimal.Decimal) decimal.Decimal {
	diff := sqrtB.Sub(sqrtA)
	if diff.Sign() <= 0 {
		return decimal.Zero
	}
	return amount1.Div(diff)
}

// GetAmountsForLiquidity is the inverse of CalculateLiquidityForAmounts:
// the token amounts represented by liquidity over a sqrt-price range.
func GetAmountsForLiquidity(sqrtCurrent, sqrtLower, sqrtUpper, liquidity decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if sqrtLower.GreaterThan(sqrtUpper) {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	if sqrtCurrent.Sign() <= 0 || sqrtLower.Sign() <= 0 || sqrtLower.Equal(sqrtUpper) {
		return decimal.Zero, decimal.Zero
	}

	switch {
	case !sqrtCurrent.GreaterThan(sqrtLower):
		amount0 := liquidity.Mul(sqrtUpper.Sub(sqrtLower)).Div(sqrtLower.Mul(sqrtUpper))
		return amount0, decimal.Zero
	case sqrtCurrent.GreaterThanOrEqual(sqrtUpper):
		return decimal.Zero, liquidity.Mul(sqrtUpper.Sub(sqrtLower))
	default:
		amount0 := liquidity.Mul(sqrtUpper.Sub(sqrtCurrent)).Div(sqrtCurrent.Mul(sqrtUpper))
		amount1 := liquidity.Mul(sqrtCurrent.Sub(sqrtLower))
		return amount0, amount1
	}
}

// GetFeeGrowthInside computes the fee growth accumulated strictly inside a
// tick range, floored at zero to guard against accumulator reordering.
func GetFeeGrowthInside(lowerTick, upperTick *model.Tick, currentTick int32, feeGrowthGlobal0, feeGrowthGlobal1 decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if lowerTick == nil || upperTick == nil {
		return decimal.Zero, decimal.Zero
	}

	var below0, below1 decimal.Decimal
	if currentTick >= lowerTick.Index {
		below0 = lowerTick.FeeGrowthOutside0
		below1 = lowerTick.FeeGrowthOutside1
	} else {
		below0 = feeGrowthGlobal0.Sub(lowerTick.FeeGrowthOutside0)
		below1 = feeGrowthGlobal1.Sub(lowerTick.FeeGrowthOutside1)
	}

	var above0, above1 decimal.Decimal
	if currentTick < upperTick.Index {
		above0 = upperTick.FeeGrowthOutside0
		above1 = upperTick.FeeGrowthOutside1
	} else {
		above0 = feeGrowthGlobal0.Sub(upperTick.FeeGrowthOutside0)
		above1 = feeGrowthGlobal1.Sub(upperTick.FeeGrowthOutside1)
	}

	inside0 := feeGrowthGlobal0.Sub(below0).Sub(above0)
	inside1 := feeGrowthGlobal1.Sub(below1).Sub(above1)
	if inside0.Sign() < 0 {
		inside0 = decimal.Zero
	}
	if inside1.Sign() < 0 {
		inside1 = decimal.Zero
	}
	return inside0, inside1
}

// CalculateFeesOwed returns liquidity * (feeGrowthInside - feeGrowthInsideLast),
// floored at zero.
func CalculateFeesOwed(liquidity, feeGrowthInside, feeGrowthInsideLast decimal.Decimal) decimal.Decimal {
	if liquidity.Sign() <= 0 {
		return decimal.Zero
	}
	delta := feeGrowthInside.Sub(feeGrowthInsideLast)
	if delta.Sign() < 0 {
		return decimal.Zero
	}
	return liquidity.Mul(delta)
}

// CalculateFees estimates the fees a position earns over a time window,
// prorated against a year at the pool's fee rate.
func CalculateFees(position *model.Position, pool *model.AmmPool, timePeriodMs int64) (decimal.Decimal, decimal.Decimal) {
	if position == nil || pool == nil || timePeriodMs <= 0 {
		return decimal.Zero, decimal.Zero
	}
	if position.Liquidity.Sign() <= 0 || pool.SqrtPrice.Sign() <= 0 {
		return decimal.Zero, decimal.Zero
	}

	sqrtLower := GetSqrtRatioAtTick(position.TickLower)
	sqrtUpper := GetSqrtRatioAtTick(position.TickUpper)
	amount0, amount1 := GetAmountsForLiquidity(pool.SqrtPrice, sqrtLower, sqrtUpper, position.Liquidity)

	proportion := decimal.NewFromInt(timePeriodMs).Div(millisecondsPerYear)
	fee0 := amount0.Mul(pool.FeePercentage).Mul(proportion)
	fee1 := amount1.Mul(pool.FeePercentage).Mul(proportion)
	return fee0, fee1
}
