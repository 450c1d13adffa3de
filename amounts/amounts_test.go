package amounts

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()

	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)

	return v
}

func TestNormalizeDecimals(t *testing.T) {
	t.Run("scale up is exact", func(t *testing.T) {
		result := NormalizeDecimals(big.NewInt(1_000_000), 6, 18)
		assert.Equal(t, bigFromString(t, "1000000000000000000"), result)
	})

	t.Run("scale down truncates", func(t *testing.T) {
		result := NormalizeDecimals(bigFromString(t, "1234567890123456789"), 18, 6)
		assert.Equal(t, big.NewInt(1_234_567), result)
	})

	t.Run("same decimals returns equal copy", func(t *testing.T) {
		input := big.NewInt(42)
		result := NormalizeDecimals(input, 8, 8)

		assert.Equal(t, input, result)
		assert.NotSame(t, input, result)
	})

	t.Run("input is not modified", func(t *testing.T) {
		input := big.NewInt(123_456_789)
		_ = NormalizeDecimals(input, 8, 2)

		assert.Equal(t, big.NewInt(123_456_789), input)
	})

	t.Run("round trip up then down is identity", func(t *testing.T) {
		for _, value := range []int64{0, 1, 999_999, 123_456_789_012} {
			input := big.NewInt(value)
			assert.Equal(t, input, NormalizeDecimals(NormalizeDecimals(input, 6, 18), 18, 6))
		}
	})

	t.Run("round trip down then up rounds down to the lower precision", func(t *testing.T) {
		cases := []struct {
			value  string
			d1, d2 uint8
		}{
			{"1234567890123456789", 18, 6},
			{"999999999999", 18, 6},
			{"123456789", 8, 6},
			{"100000000", 8, 2},
			{"0", 18, 0},
			{"77", 6, 0},
		}

		for _, c := range cases {
			input := bigFromString(t, c.value)
			step := Pow10(c.d1 - c.d2)
			expected := new(big.Int).Sub(input, new(big.Int).Mod(input, step))

			result := NormalizeDecimals(NormalizeDecimals(input, c.d1, c.d2), c.d2, c.d1)
			assert.Equal(t, 0, expected.Cmp(result), "%s %d->%d", c.value, c.d1, c.d2)
		}

		assert.Equal(t, bigFromString(t, "1234567000000000000"),
			NormalizeDecimals(NormalizeDecimals(bigFromString(t, "1234567890123456789"), 18, 6), 6, 18))
	})

	t.Run("nil is zero", func(t *testing.T) {
		assert.Equal(t, 0, NormalizeDecimals(nil, 6, 18).Sign())
	})
}

func TestFormatBalance(t *testing.T) {
	cases := []struct {
		name     string
		balance  *big.Int
		decimals uint8
		opts     []FormatOption
		expected string
	}{
		{"stablecoin truncated", big.NewInt(1_234_567_890), 6, nil, "1,234.5678"},
		{"stablecoin trimmed", big.NewInt(1_234_560_000), 6, nil, "1,234.56"},
		{"stablecoin padded", big.NewInt(1_500_000), 6, nil, "1.50"},
		{"zero default", big.NewInt(0), 6, nil, "0.00"},
		{"zero without min decimals", big.NewInt(0), 6, []FormatOption{WithMinDecimals(0)}, "0"},
		{"eight decimals", big.NewInt(123_456_789), 8, nil, "1.23456789"},
		{"eight decimals padded", big.NewInt(100_000_000), 8, nil, "1.0000"},
		{"eighteen decimals truncated", bigFromString(t, "1000000000000000001"), 18, nil, "1.0000"},
		{"eighteen decimals", bigFromString(t, "2500000000000000000000"), 18, nil, "2,500.0000"},
		{"leading fractional zeros", big.NewInt(1_050_000), 6, nil, "1.05"},
		{"no decimals", big.NewInt(1_234_567), 0, []FormatOption{WithMinDecimals(0)}, "1,234,567"},
		{"custom max", big.NewInt(1_234_567), 6, []FormatOption{WithMaxDecimals(6)}, "1.234567"},
		{"symbol", big.NewInt(1_000_000), 6, []FormatOption{WithSymbol("USDT")}, "1.00 USDT"},
		{"nil", nil, 6, nil, "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatBalance(tc.balance, tc.decimals, tc.opts...))
		})
	}

	t.Run("integer part beyond int64", func(t *testing.T) {
		balance := bigFromString(t, "1"+strings.Repeat("0", 30))

		assert.Equal(t, "1"+strings.Repeat(",000", 8)+".00", FormatBalance(balance, 6))
	})
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 33.33, Percentage(big.NewInt(1), big.NewInt(3)))
	assert.Equal(t, 66.66, Percentage(big.NewInt(2), big.NewInt(3)))
	assert.Equal(t, 100.0, Percentage(big.NewInt(5), big.NewInt(5)))
	assert.Equal(t, 0.0, Percentage(big.NewInt(5), big.NewInt(0)))
	assert.Equal(t, 0.0, Percentage(nil, big.NewInt(10)))

	huge := bigFromString(t, "1"+strings.Repeat("0", 40))
	assert.Equal(t, 50.0, Percentage(new(big.Int).Quo(huge, big.NewInt(2)), huge))
}

func TestFormatUsdValue(t *testing.T) {
	assert.Equal(t, "$1.23B", FormatUsdValue(1_234_567_890))
	assert.Equal(t, "$4.56M", FormatUsdValue(4_560_000))
	assert.Equal(t, "$7.89K", FormatUsdValue(7_890))
	assert.Equal(t, "$12.34", FormatUsdValue(12.34))
	assert.Equal(t, "$0.00", FormatUsdValue(0))
}

func TestToDecimal(t *testing.T) {
	assert.Equal(t, "1.5", ToDecimal(big.NewInt(1_500_000), 6).String())
	assert.Equal(t, "0", ToDecimal(nil, 6).String())
	assert.Equal(t, "1000", ToDecimal(bigFromString(t, "1000000000000000000000"), 18).String())
}
