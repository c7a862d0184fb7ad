package ammmath

import (
	"github.com/shopspring/decimal"
)

// SwapStep is the result of simulating one swap step between two sqrt prices.
type SwapStep struct {
	SqrtPriceNext decimal.Decimal
	AmountIn      decimal.Decimal
	AmountOut     decimal.Decimal
	FeeAmount     decimal.Decimal
}

// ComputeSwapStep simulates swapping within [sqrtCurrent, sqrtTarget].
// Direction is implied by the ordering of the two prices. A non-negative
// amountRemaining is an exact-input budget; a negative one is the desired
// output with its sign flipped.
//
// When the step stops short of the target on exact input, the whole unspent
// budget is absorbed as the fee amount; this intentionally diverges from the
// proportional-rate formula applied on full steps.
func ComputeSwapStep(sqrtCurrent, sqrtTarget, liquidity, amountRemaining, feePercentage decimal.Decimal) (SwapStep, error) {
	zeroForOne := sqrtCurrent.GreaterThanOrEqual(sqrtTarget)
	exactIn := amountRemaining.Sign() >= 0
	oneMinusFee := one.Sub(feePercentage)

	var step SwapStep
	var err error

	if exactIn {
		amountRemainingLessFee := amountRemaining.Mul(oneMinusFee)
		if zeroForOne {
			step.AmountIn, err = GetAmount0Delta(sqrtTarget, sqrtCurrent, liquidity, true)
		} else {
			step.AmountIn, err = GetAmount1Delta(sqrtCurrent, sqrtTarget, liquidity, true)
		}
		if err != nil {
			return SwapStep{}, err
		}
		if amountRemainingLessFee.GreaterThanOrEqual(step.AmountIn) {
			step.SqrtPriceNext = sqrtTarget
		} else {
			step.SqrtPriceNext, err = GetNextSqrtPriceFromInput(sqrtCurrent, liquidity, amountRemainingLessFee, zeroForOne)
			if err != nil {
				return SwapStep{}, err
			}
		}
	} else {
		if zeroForOne {
			step.AmountOut, err = GetAmount1Delta(sqrtTarget, sqrtCurrent, liquidity, false)
		} else {
			step.AmountOut, err = GetAmount0Delta(sqrtCurrent, sqrtTarget, liquidity, false)
		}
		if err != nil {
			return SwapStep{}, err
		}
		if amountRemaining.Neg().GreaterThanOrEqual(step.AmountOut) {
			step.SqrtPriceNext = sqrtTarget
		} else {
			step.SqrtPriceNext, err = GetNextSqrtPriceFromOutput(sqrtCurrent, liquidity, amountRemaining.Neg(), zeroForOne)
			if err != nil {
				return SwapStep{}, err
			}
		}
	}

	reachedTarget := step.SqrtPriceNext.Equal(sqrtTarget)

	// Recompute amounts for the range actually covered.
	if zeroForOne {
		if !(reachedTarget && exactIn) {
			step.AmountIn, err = GetAmount0Delta(step.SqrtPriceNext, sqrtCurrent, liquidity, true)
			if err != nil {
				return SwapStep{}, err
			}
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut, err = GetAmount1Delta(step.SqrtPriceNext, sqrtCurrent, liquidity, false)
			if err != nil {
				return SwapStep{}, err
			}
		}
	} else {
		if !(reachedTarget && exactIn) {
			step.AmountIn, err = GetAmount1Delta(sqrtCurrent, step.SqrtPriceNext, liquidity, true)
			if err != nil {
				return SwapStep{}, err
			}
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut, err = GetAmount0Delta(sqrtCurrent, step.SqrtPriceNext, liquidity, false)
			if err != nil {
				return SwapStep{}, err
			}
		}
	}

	if !exactIn && step.AmountOut.GreaterThan(amountRemaining.Neg()) {
		step.AmountOut = amountRemaining.Neg()
	}

	if exactIn && !reachedTarget {
		// Stopped between ticks: the unspent budget becomes the fee.
		step.FeeAmount = amountRemaining.Sub(step.AmountIn)
	} else {
		step.FeeAmount = step.AmountIn.Mul(feePercentage).Div(oneMinusFee).RoundCeil(amountScale)
	}

	return step, nil
}

// CalculateEstimateAmount is a single-price approximation of the swap result
// used to derive slippage bounds before the full tick-crossing loop runs.
func CalculateEstimateAmount(amountSpecified, initialSqrtPrice, feePercentage decimal.Decimal, zeroForOne, exactInput bool) (decimal.Decimal, error) {
	if initialSqrtPrice.Sign() <= 0 {
		return decimal.Zero, ErrInvalidSqrtPrice
	}

	price := initialSqrtPrice.Mul(initialSqrtPrice)
	oneMinusFee := one.Sub(feePercentage)
	amount := amountSpecified.Abs()

	switch {
	case zeroForOne && exactInput:
		return amount.Mul(price).Mul(oneMinusFee), nil
	case zeroForOne && !exactInput:
		return amount.Div(price).Div(oneMinusFee), nil
	case !zeroForOne && exactInput:
		return amount.Div(price).Mul(oneMinusFee), nil
	default:
		return amount.Mul(price).Div(oneMinusFee), nil
	}
}

// CheckSlippage verifies the realized amounts against the pre-swap estimate.
// A null slippage disables the check; non-positive amounts always fail it.
func CheckSlippage(amount0, amount1, estimateAmount decimal.Decimal, zeroForOne, exactInput bool, slippage decimal.NullDecimal) bool {
	if !slippage.Valid {
		return true
	}
	if amount0.Sign() <= 0 || amount1.Sign() <= 0 || estimateAmount.Sign() <= 0 {
		return false
	}

	oneMinusSlippage := one.Sub(slippage.Decimal)

	if exactInput {
		realized := amount0
		if zeroForOne {
			realized = amount1
		}
		return realized.GreaterThanOrEqual(estimateAmount.Mul(oneMinusSlippage))
	}

	realized := amount1
	if zeroForOne {
		realized = amount0
	}
	if oneMinusSlippage.Sign() <= 0 {
		// tolerance of 100% or more leaves the input unbounded
		return true
	}
	return realized.LessThanOrEqual(estimateAmount.Div(oneMinusSlippage))
}
