package aggregator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ethernal-Tech/bridge-transparency/amounts"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/Ethernal-Tech/bridge-transparency/portfolio"
	"github.com/Ethernal-Tech/bridge-transparency/telemetry"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// Dashboard refreshes every configured token and the prices on a fixed interval and keeps the latest snapshot.
// A cycle never waits for the previous one, results of a superseded cycle are discarded per key.
type Dashboard struct {
	assets          *core.BridgeAssetsConfig
	aggregator      *TokenAggregator
	priceFetcher    core.PriceFetcher
	cache           *RequestCache
	stablecoins     []string
	refreshInterval time.Duration
	store           *snapshotStore
	generation      atomic.Uint64
	inFlight        atomic.Int32
	cycles          sync.WaitGroup
	refreshCh       chan struct{}
	logger          hclog.Logger
}

var _ core.DashboardService = (*Dashboard)(nil)

func NewDashboard(
	assets *core.BridgeAssetsConfig,
	sourceReader core.SourceBalanceReader,
	assetFetcher core.AssetFetcher,
	priceFetcher core.PriceFetcher,
	stablecoins []string,
	refreshInterval time.Duration,
	logger hclog.Logger,
) *Dashboard {
	cache := NewRequestCache()
	loading := make([]core.TokenBalanceData, len(assets.BaseTokens))

	for i, token := range assets.BaseTokens {
		loading[i] = NewLoadingTokenBalanceData(token, assets.Chains)
	}

	return &Dashboard{
		assets:          assets,
		aggregator:      NewTokenAggregator(sourceReader, assetFetcher, cache, logger),
		priceFetcher:    priceFetcher,
		cache:           cache,
		stablecoins:     stablecoins,
		refreshInterval: refreshInterval,
		store:           newSnapshotStore(loading),
		refreshCh:       make(chan struct{}, 1),
		logger:          logger.Named("dashboard"),
	}
}

// Start runs a cycle immediately and then on every tick or Refresh call until ctx is done.
// It returns once every started cycle has finished.
func (d *Dashboard) Start(ctx context.Context) {
	d.logger.Info("Dashboard started", "tokens", len(d.assets.BaseTokens), "interval", d.refreshInterval)

	defer d.cycles.Wait()

	waitTime := time.Duration(0)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Dashboard stopped")

			return
		case <-time.After(waitTime):
		case <-d.refreshCh:
		}

		d.cycles.Add(1)

		go func() {
			defer d.cycles.Done()

			d.RunCycle(ctx)
		}()

		waitTime = d.refreshInterval
	}
}

// Refresh requests an immediate cycle. Requests made while one is pending are merged.
func (d *Dashboard) Refresh() {
	select {
	case d.refreshCh <- struct{}{}:
	default:
	}
}

// RunCycle fetches prices and every token concurrently under a new generation and stores the results.
// It returns the generation of the cycle.
func (d *Dashboard) RunCycle(ctx context.Context) uint64 {
	generation := d.generation.Add(1)
	start := time.Now()

	d.inFlight.Add(1)
	defer d.inFlight.Add(-1)

	d.cache.StartGeneration(generation)
	d.logger.Debug("Refresh cycle started", "generation", generation)

	var (
		hasErrors atomic.Bool
		wg        errgroup.Group
	)

	wg.Go(func() error {
		prices, err := Cached(ctx, d.cache,
			RequestKey{Entity: EntityPrices, Generation: generation},
			func(ctx context.Context) (core.TokenPrices, error) {
				return d.priceFetcher.FetchTokenPrices(ctx, d.assets.TokenIDs())
			})
		if err != nil {
			hasErrors.Store(true)
			d.logger.Warn("Failed to fetch prices", "generation", generation, "err", err)
		}

		if ctx.Err() == nil {
			d.store.storePrices(generation, prices, err)
		}

		return nil
	})

	for _, token := range d.assets.BaseTokens {
		wg.Go(func() error {
			data := d.aggregator.AggregateToken(ctx, generation, token)
			if data.IsError || len(data.Errors) > 0 {
				hasErrors.Store(true)
			}

			// a cancelled cycle would only overwrite the last results with errors
			if ctx.Err() == nil && !d.store.storeToken(generation, data) {
				d.logger.Debug("Discarded superseded token result", "token", token.ID, "generation", generation)
			}

			return nil
		})
	}

	_ = wg.Wait()

	if ctx.Err() != nil {
		return generation
	}

	d.store.completeCycle(generation, !hasErrors.Load(), time.Now())
	d.updateMetrics()
	telemetry.UpdateRefreshCycle(start, generation)

	d.logger.Info("Refresh cycle finished", "generation", generation,
		"duration", time.Since(start), "errors", hasErrors.Load())

	return generation
}

// Snapshot returns the latest stored token results with the portfolio derived from them.
// Before the first cycle finishes every token is in the loading state.
func (d *Dashboard) Snapshot() core.DashboardSnapshot {
	snapshot := d.store.snapshot()
	snapshot.Refreshing = d.inFlight.Load() > 0
	snapshot.Portfolio = portfolio.Compute(snapshot.Tokens, snapshot.Prices, d.stablecoins)

	return snapshot
}

// Token returns the latest stored result of one token
func (d *Dashboard) Token(tokenID string) (core.TokenBalanceData, bool) {
	for _, token := range d.store.snapshot().Tokens {
		if token.TokenID == tokenID {
			return token, true
		}
	}

	return core.TokenBalanceData{}, false
}

func (d *Dashboard) Chains() map[string]core.ChainConfig {
	return d.assets.Chains
}

func (d *Dashboard) updateMetrics() {
	snapshot := d.Snapshot()

	for _, token := range snapshot.Tokens {
		telemetry.UpdateTokenBackingRatio(token.TokenID, token.BackingRatio)
		telemetry.UpdateTokenLocked(token.TokenID, amounts.ToDecimal(token.TotalLocked, token.Decimals).InexactFloat64())
		telemetry.UpdateTokenMinted(token.TokenID, amounts.ToDecimal(token.KleverMinted, token.Decimals).InexactFloat64())
	}

	telemetry.UpdateTotalValueLocked(snapshot.Portfolio.TotalUsdLocked)
}
