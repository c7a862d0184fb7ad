package ammmath

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrZeroLiquidity  = errors.New("liquidity must be greater than zero")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrPriceExhausted = errors.New("output amount exceeds available range")
)

// GetAmount0Delta returns the token0 amount needed to move the price between
// two sqrt prices: liquidity * (sqrtMax - sqrtMin) / (sqrtMin * sqrtMax).
// The inputs may be passed in either order.
func GetAmount0Delta(sqrtA, sqrtB, liquidity decimal.Decimal, roundUp bool) (decimal.Decimal, error) {
	if sqrtA.Sign() <= 0 || sqrtB.Sign() <= 0 {
		return decimal.Zero, ErrInvalidSqrtPrice
	}
	if sqrtA.GreaterThan(sqrtB) {
		sqrtA, sqrtB = sqrtB, sqrtA
	}

	amount := liquidity.Mul(sqrtB.Sub(sqrtA)).Div(sqrtA.Mul(sqrtB))
	return roundAmount(amount, roundUp), nil
}

// GetAmount1Delta returns the token1 amount needed to move the price between
// two sqrt prices: liquidity * (sqrtMax - sqrtMin).
func GetAmount1Delta(sqrtA, sqrtB, liquidity decimal.Decimal, roundUp bool) (decimal.Decimal, error) {
	if sqrtA.Sign() <= 0 || sqrtB.Sign() <= 0 {
		return decimal.Zero, ErrInvalidSqrtPrice
	}
	if sqrtA.GreaterThan(sqrtB) {
		sqrtA, sqrtB = sqrtB, sqrtA
	}

	return roundAmount(liquidity.Mul(sqrtB.Sub(sqrtA)), roundUp), nil
}

// GetNextSqrtPriceFromInput returns the sqrt price after spending amountIn of
// the input token. Zero-for-one swaps push the price down, one-for-zero up.
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn decimal.Decimal, zeroForOne bool) (decimal.Decimal, error) {
	if liquidity.Sign() <= 0 {
		return decimal.Zero, ErrZeroLiquidity
	}
	if sqrtPrice.Sign() <= 0 {
		return decimal.Zero, ErrInvalidSqrtPrice
	}
	if amountIn.Sign() < 0 {
		return decimal.Zero, ErrNegativeAmount
	}

	if zeroForOne {
		denominator := liquidity.Add(amountIn.Mul(sqrtPrice))
		return liquidity.Mul(sqrtPrice).Div(denominator), nil
	}
	return sqrtPrice.Add(amountIn.Div(liquidity)), nil
}

// GetNextSqrtPriceFromOutput returns the sqrt price that yields amountOut of
// the output token; the inverse relation of GetNextSqrtPriceFromInput.
func GetNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut decimal.Decimal, zeroForOne bool) (decimal.Decimal, error) {
	if liquidity.Sign() <= 0 {
		return decimal.Zero, ErrZeroLiquidity
	}
	if sqrtPrice.Sign() <= 0 {
		return decimal.Zero, ErrInvalidSqrtPrice
	}
	if amountOut.Sign() < 0 {
		return decimal.Zero, ErrNegativeAmount
	}

	if zeroForOne {
		// output is token1, price moves down
		next := sqrtPrice.Sub(amountOut.Div(liquidity))
		if next.Sign() <= 0 {
			return decimal.Zero, ErrPriceExhausted
		}
		return next, nil
	}

	// output is token0, price moves up
	denominator := liquidity.Sub(amountOut.Mul(sqrtPrice))
	if denominator.Sign() <= 0 {
		return decimal.Zero, ErrPriceExhausted
	}
	return liquidity.Mul(sqrtPrice).Div(denominator), nil
}
