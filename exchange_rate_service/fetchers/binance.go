package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/core"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/model"
)

// BinanceFetcher reads 24h tickers. Feed ids are trading symbols quoted in a usd stablecoin, e.g. BTCUSDT.
type BinanceFetcher struct {
	config *core.ExchangeRateServiceConfig
}

var _ core.ExchangeRateFetcher = (*BinanceFetcher)(nil)

func NewBinanceFetcher(config *core.ExchangeRateServiceConfig) *BinanceFetcher {
	return &BinanceFetcher{config: config}
}

func (b *BinanceFetcher) FetchPrices(
	ctx context.Context, params model.FetchPricesParams,
) (map[string]model.FeedPrice, error) {
	result := make(map[string]model.FeedPrice, len(params.FeedIDs))
	if len(params.FeedIDs) == 0 {
		return result, nil
	}

	symbols, err := json.Marshal(params.FeedIDs)
	if err != nil {
		return nil, err
	}

	requestURL := fmt.Sprintf("%s/api/v3/ticker/24hr?symbols=%s",
		common.TrimURL(b.config.URL), url.QueryEscape(string(symbols)))

	tickers, err := common.HTTPGet[[]model.BinanceTickerResponse](ctx, requestURL, httpOptions(b.config)...)
	if err != nil {
		return nil, wrapFeedError(core.Binance, err)
	}

	for _, ticker := range tickers {
		price, err := strconv.ParseFloat(ticker.LastPrice, 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("%w: failed to convert price from Binance for %s", core.ErrPriceFeedSchema, ticker.Symbol)
		}

		feedPrice := model.FeedPrice{USD: price}

		if change, err := strconv.ParseFloat(ticker.PriceChangePercent, 64); err == nil {
			feedPrice.Change24h = &change
		}

		result[ticker.Symbol] = feedPrice
	}

	return result, nil
}
