package amounts

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	bigTen          = big.NewInt(10)
	percentageScale = big.NewInt(10_000)
	englishPrinter  = message.NewPrinter(language.English)
)

// Pow10 returns 10^n
func Pow10(n uint8) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

// NormalizeDecimals rescales balance from one decimal precision to another.
// Scaling down truncates the fractional remainder. The input is never modified.
func NormalizeDecimals(balance *big.Int, fromDecimals, toDecimals uint8) *big.Int {
	if balance == nil {
		return new(big.Int)
	}

	switch {
	case fromDecimals > toDecimals:
		return new(big.Int).Quo(balance, Pow10(fromDecimals-toDecimals))
	case fromDecimals < toDecimals:
		return new(big.Int).Mul(balance, Pow10(toDecimals-fromDecimals))
	default:
		return new(big.Int).Set(balance)
	}
}

// Percentage returns part/total*100 with two decimal places, computed in the integer domain. 0 when total is 0.
func Percentage(part, total *big.Int) float64 {
	if part == nil || total == nil || total.Sign() == 0 {
		return 0
	}

	scaled := new(big.Int).Mul(part, percentageScale)
	scaled.Quo(scaled, total)

	value, _ := new(big.Float).SetInt(scaled).Float64()

	return value / 100
}

// ToDecimal converts a fixed point balance into an exact decimal value
func ToDecimal(balance *big.Int, decimals uint8) decimal.Decimal {
	if balance == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(balance, -int32(decimals))
}

// FormatUsdValue renders a compact usd amount: $1.23B, $4.56M, $7.89K or $12.34
func FormatUsdValue(value float64) string {
	switch {
	case value >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", value/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("$%.2fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.2fK", value/1_000)
	default:
		return fmt.Sprintf("$%.2f", value)
	}
}

// groupThousands renders a non-negative integer with english thousands separators
func groupThousands(digits *big.Int) string {
	if digits.IsInt64() {
		return englishPrinter.Sprintf("%d", digits.Int64())
	}

	s := digits.String()

	var sb strings.Builder

	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}

		sb.WriteRune(ch)
	}

	return sb.String()
}
