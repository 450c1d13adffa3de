package ratefetcher

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Ethernal-Tech/bridge-transparency/common"
	appCore "github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/core"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/fetchers"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/model"
	"github.com/Ethernal-Tech/bridge-transparency/telemetry"
	"github.com/hashicorp/go-hclog"
)

const stablecoinFallbackPrice = 1.0

// PriceService maps token ids to price feed ids, fetches usd prices and applies the stablecoin fallback
type PriceService struct {
	config  *core.ExchangeRateServiceConfig
	fetcher core.ExchangeRateFetcher
	logger  hclog.Logger
}

var _ appCore.PriceFetcher = (*PriceService)(nil)

func NewPriceService(config *core.ExchangeRateServiceConfig, logger hclog.Logger) (*PriceService, error) {
	fetchersByProvider := map[core.ExchangeProvider]core.ExchangeRateFetcher{
		core.CoinGecko: fetchers.NewCoinGeckoFetcher(config),
		core.Binance:   fetchers.NewBinanceFetcher(config),
		core.Dummy:     fetchers.NewDummyFetcher(config),
	}

	fetcher, exists := fetchersByProvider[config.Provider]
	if !exists {
		return nil, fmt.Errorf("%w: %d", core.ErrUnsupportedProvider, config.Provider)
	}

	return NewPriceServiceWithFetcher(config, fetcher, logger), nil
}

func NewPriceServiceWithFetcher(
	config *core.ExchangeRateServiceConfig, fetcher core.ExchangeRateFetcher, logger hclog.Logger,
) *PriceService {
	return &PriceService{
		config:  config,
		fetcher: fetcher,
		logger:  logger.Named("price_service"),
	}
}

// FetchTokenPrices returns prices keyed by token id. Unmapped tokens are never requested.
// Stablecoins without a price are set to 1.0 even when the feed request fails, in which case
// the partial map is returned together with the error.
func (s *PriceService) FetchTokenPrices(ctx context.Context, tokenIDs []string) (appCore.TokenPrices, error) {
	result := make(appCore.TokenPrices, len(tokenIDs))
	tokensByFeed := map[string][]string{}

	for _, tokenID := range tokenIDs {
		if feedID, exists := s.config.FeedIDs[tokenID]; exists {
			tokensByFeed[feedID] = append(tokensByFeed[feedID], tokenID)
		}
	}

	var fetchErr error

	if len(tokensByFeed) > 0 {
		feedIDs := make([]string, 0, len(tokensByFeed))
		for feedID := range tokensByFeed {
			feedIDs = append(feedIDs, feedID)
		}

		sort.Strings(feedIDs)

		prices, err := common.ExecuteWithRetry(ctx, s.config.Retry,
			func(ctx context.Context) (map[string]model.FeedPrice, error) {
				return s.fetcher.FetchPrices(ctx, model.FetchPricesParams{FeedIDs: feedIDs})
			}, isRecoverablePriceFeedError)
		if err != nil {
			fetchErr = fmt.Errorf("failed to fetch prices from %s: %w", s.config.Provider, err)

			telemetry.UpdateFetchFailures(telemetry.SourcePriceFeed)
			s.logger.Warn("Failed to fetch token prices", "provider", s.config.Provider, "err", err)
		}

		for feedID, price := range prices {
			for _, tokenID := range tokensByFeed[feedID] {
				result[tokenID] = appCore.TokenPrice{
					USD:       price.USD,
					Change24h: price.Change24h,
				}
			}
		}
	}

	for _, tokenID := range tokenIDs {
		if _, exists := result[tokenID]; !exists && s.config.IsStablecoin(tokenID) {
			result[tokenID] = appCore.TokenPrice{USD: stablecoinFallbackPrice}
		}
	}

	for tokenID, price := range result {
		telemetry.UpdateTokenPrice(tokenID, price.USD)
	}

	return result, fetchErr
}

func isRecoverablePriceFeedError(err error) bool {
	if errors.Is(err, core.ErrPriceFeedSchema) {
		return false
	}

	return errors.Is(err, core.ErrPriceFeedTimeout) || common.IsRetryableHTTPError(err)
}
