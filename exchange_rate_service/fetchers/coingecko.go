package fetchers

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/core"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/model"
)

const coinGeckoAPIKeyHeader = "x-cg-demo-api-key"

type CoinGeckoFetcher struct {
	config *core.ExchangeRateServiceConfig
}

var _ core.ExchangeRateFetcher = (*CoinGeckoFetcher)(nil)

func NewCoinGeckoFetcher(config *core.ExchangeRateServiceConfig) *CoinGeckoFetcher {
	return &CoinGeckoFetcher{config: config}
}

func (f *CoinGeckoFetcher) FetchPrices(
	ctx context.Context, params model.FetchPricesParams,
) (map[string]model.FeedPrice, error) {
	result := make(map[string]model.FeedPrice, len(params.FeedIDs))
	if len(params.FeedIDs) == 0 {
		return result, nil
	}

	requestURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true",
		common.TrimURL(f.config.URL), url.QueryEscape(strings.Join(params.FeedIDs, ",")))

	opts := httpOptions(f.config)
	if f.config.APIKey != "" {
		opts = append(opts, common.WithHTTPHeader(coinGeckoAPIKeyHeader, f.config.APIKey))
	}

	response, err := common.HTTPGet[model.CoinGeckoResponse](ctx, requestURL, opts...)
	if err != nil {
		return nil, wrapFeedError(core.CoinGecko, err)
	}

	for _, feedID := range params.FeedIDs {
		entry, exists := response[feedID]
		if !exists {
			continue
		}

		if entry.USD == nil || math.IsNaN(*entry.USD) || *entry.USD < 0 {
			return nil, fmt.Errorf("%w: invalid usd price for %s", core.ErrPriceFeedSchema, feedID)
		}

		result[feedID] = model.FeedPrice{
			USD:       *entry.USD,
			Change24h: entry.USD24hChange,
		}
	}

	return result, nil
}
