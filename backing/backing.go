package backing

import (
	"math"
	"math/big"

	"github.com/Ethernal-Tech/bridge-transparency/core"
)

const (
	FullyBackedThreshold = 0.9999
	OverBackedThreshold  = 1.0001
	ratioPrecision       = 18
)

var ratioScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(ratioPrecision), nil)

// CalculateBackingRatio returns totalLocked/totalMinted. The division is done on integers scaled by 10^18
// before converting to float. Nothing minted yields +Inf when something is locked and 1 otherwise.
func CalculateBackingRatio(totalLocked, totalMinted *big.Int) float64 {
	if totalLocked == nil {
		totalLocked = new(big.Int)
	}

	if totalMinted == nil || totalMinted.Sign() == 0 {
		if totalLocked.Sign() > 0 {
			return math.Inf(1)
		}

		return 1
	}

	scaled := new(big.Int).Mul(totalLocked, ratioScale)
	scaled.Quo(scaled, totalMinted)

	ratio, _ := new(big.Rat).SetFrac(scaled, ratioScale).Float64()

	return ratio
}

// GetBackingStatus classifies a ratio. Loading takes precedence over error, error over the ratio.
func GetBackingStatus(ratio float64, isLoading, isError bool) core.BackingStatus {
	switch {
	case isLoading:
		return core.BackingStatusLoading
	case isError:
		return core.BackingStatusError
	case ratio >= OverBackedThreshold:
		return core.BackingStatusOverBacked
	case ratio >= FullyBackedThreshold:
		return core.BackingStatusFullyBacked
	default:
		return core.BackingStatusUnderBacked
	}
}
