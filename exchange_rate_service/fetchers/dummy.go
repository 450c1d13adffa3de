package fetchers

import (
	"context"

	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/core"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/model"
)

// DummyFetcher serves the static prices from config, keyed by feed id
type DummyFetcher struct {
	config *core.ExchangeRateServiceConfig
}

var _ core.ExchangeRateFetcher = (*DummyFetcher)(nil)

func NewDummyFetcher(config *core.ExchangeRateServiceConfig) *DummyFetcher {
	return &DummyFetcher{config: config}
}

func (d *DummyFetcher) FetchPrices(
	_ context.Context, params model.FetchPricesParams,
) (map[string]model.FeedPrice, error) {
	result := make(map[string]model.FeedPrice, len(params.FeedIDs))

	for _, feedID := range params.FeedIDs {
		if price, exists := d.config.StaticPrices[feedID]; exists {
			result[feedID] = model.FeedPrice{USD: price}
		}
	}

	return result, nil
}
