package amounts

import (
	"math/big"
	"strings"
)

type FormatOptions struct {
	MinDecimals int
	MaxDecimals int
	Symbol      string
}

type FormatOption func(*FormatOptions)

func WithMinDecimals(minDecimals int) FormatOption {
	return func(o *FormatOptions) {
		o.MinDecimals = minDecimals
	}
}

func WithMaxDecimals(maxDecimals int) FormatOption {
	return func(o *FormatOptions) {
		o.MaxDecimals = maxDecimals
	}
}

func WithSymbol(symbol string) FormatOption {
	return func(o *FormatOptions) {
		o.Symbol = symbol
	}
}

// DefaultFormatOptions picks the displayed precision from the token decimals:
// stablecoins (<= 6) show 2 to 4 digits, 8 decimal tokens show 4 to 8 and everything else 4 to 6
func DefaultFormatOptions(decimals uint8) FormatOptions {
	switch {
	case decimals <= 6:
		return FormatOptions{MinDecimals: 2, MaxDecimals: 4}
	case decimals <= 8:
		return FormatOptions{MinDecimals: 4, MaxDecimals: 8}
	default:
		return FormatOptions{MinDecimals: 4, MaxDecimals: 6}
	}
}

// FormatBalance renders a fixed point balance with thousands separators.
// The fraction is truncated to MaxDecimals, stripped of trailing zeros and padded back to MinDecimals.
func FormatBalance(balance *big.Int, decimals uint8, opts ...FormatOption) string {
	options := DefaultFormatOptions(decimals)
	for _, opt := range opts {
		opt(&options)
	}

	options.MinDecimals = max(options.MinDecimals, 0)
	options.MaxDecimals = max(options.MaxDecimals, options.MinDecimals)

	if balance == nil {
		balance = new(big.Int)
	}

	sign := ""
	if balance.Sign() < 0 {
		sign = "-"
	}

	integerPart, fractionalPart := new(big.Int).QuoRem(new(big.Int).Abs(balance), Pow10(decimals), new(big.Int))

	fractionalStr := ""
	if decimals > 0 {
		fractionalStr = fractionalPart.String()
		fractionalStr = strings.Repeat("0", int(decimals)-len(fractionalStr)) + fractionalStr
	}

	if len(fractionalStr) > options.MaxDecimals {
		fractionalStr = fractionalStr[:options.MaxDecimals]
	}

	fractionalStr = strings.TrimRight(fractionalStr, "0")
	if len(fractionalStr) < options.MinDecimals {
		fractionalStr += strings.Repeat("0", options.MinDecimals-len(fractionalStr))
	}

	formatted := sign + groupThousands(integerPart)
	if fractionalStr != "" {
		formatted += "." + fractionalStr
	}

	if options.Symbol != "" {
		formatted += " " + options.Symbol
	}

	return formatted
}
