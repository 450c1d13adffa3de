package telemetry

import (
	"math"
	"time"

	"github.com/armon/go-metrics"
)

const (
	dashboardMetricsPrefix = "dashboard"
	tokenMetricsPrefix     = "token"

	SourceEvm       = "evm"
	SourceTron      = "tron"
	SourceKlever    = "klever"
	SourcePriceFeed = "price_feed"
)

// UpdateTokenBackingRatio reports the ratio of one token. An infinite ratio is reported as -1.
func UpdateTokenBackingRatio(tokenID string, ratio float64) {
	if math.IsInf(ratio, 0) {
		ratio = -1
	}

	metrics.SetGauge([]string{tokenMetricsPrefix, "backing_ratio", tokenID}, float32(ratio))
}

func UpdateTokenLocked(tokenID string, normalizedAmount float64) {
	metrics.SetGauge([]string{tokenMetricsPrefix, "locked", tokenID}, float32(normalizedAmount))
}

func UpdateTokenMinted(tokenID string, normalizedAmount float64) {
	metrics.SetGauge([]string{tokenMetricsPrefix, "minted", tokenID}, float32(normalizedAmount))
}

func UpdateTokenPrice(tokenID string, usd float64) {
	metrics.SetGauge([]string{tokenMetricsPrefix, "price_usd", tokenID}, float32(usd))
}

func UpdateTotalValueLocked(usd float64) {
	metrics.SetGauge([]string{dashboardMetricsPrefix, "tvl_usd"}, float32(usd))
}

func UpdateFetchFailures(source string) {
	metrics.IncrCounter([]string{dashboardMetricsPrefix, "fetch_failures", source}, 1)
}

func UpdateRefreshCycle(start time.Time, generation uint64) {
	metrics.MeasureSince([]string{dashboardMetricsPrefix, "refresh_cycle_duration"}, start)
	metrics.SetGauge([]string{dashboardMetricsPrefix, "generation"}, float32(generation))
}
