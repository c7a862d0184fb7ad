package ammmath

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// pricePrecision is the number of significant digits kept on exact
	// price and sqrt-price results.
	pricePrecision = 20

	// amountScale is the decimal-place scale at which token amounts are
	// rounded (ceil or floor per the caller's rounding contract).
	amountScale = 18

	// floatPrec is the mantissa precision, in bits, used for the internal
	// power and square-root evaluation.
	floatPrec = 256
)

var (
	one = decimal.NewFromInt(1)

	// tickBase is 1.0001 parsed at full internal precision; the float64
	// literal would already carry binary rounding error.
	tickBase *big.Float
)

func init() {
	tickBase, _, _ = big.ParseFloat("1.0001", 10, floatPrec, big.ToNearestEven)

	// Divisions across tick crossings must not lose settlement precision.
	if decimal.DivisionPrecision < 2*pricePrecision {
		decimal.DivisionPrecision = 2 * pricePrecision
	}
}

// powTick computes 1.0001^tick by binary exponentiation at floatPrec bits.
func powTick(tick int32) *big.Float {
	result := big.NewFloat(1).SetPrec(floatPrec)
	square := new(big.Float).Copy(tickBase)

	n := tick
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, square)
		}
		square.Mul(square, square)
		n >>= 1
	}
	if neg {
		result.Quo(big.NewFloat(1).SetPrec(floatPrec), result)
	}
	return result
}

// floatToDecimal converts a big.Float to a decimal with sigDigits
// significant digits.
func floatToDecimal(f *big.Float, sigDigits int) decimal.Decimal {
	d, err := decimal.NewFromString(f.Text('e', sigDigits-1))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// roundAmount applies the roundUp contract to a token amount.
func roundAmount(d decimal.Decimal, roundUp bool) decimal.Decimal {
	if roundUp {
		return d.RoundCeil(amountScale)
	}
	return d.RoundFloor(amountScale)
}
