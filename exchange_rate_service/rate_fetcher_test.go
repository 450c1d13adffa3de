package ratefetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ethernal-Tech/bridge-transparency/common"
	appCore "github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/core"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/model"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPriceService(fetcher core.ExchangeRateFetcher) *PriceService {
	config := &core.ExchangeRateServiceConfig{
		Retry: common.RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
		},
	}
	config.FillOut()

	return NewPriceServiceWithFetcher(config, fetcher, hclog.NewNullLogger())
}

func TestPriceService_FetchTokenPrices(t *testing.T) {
	change := 3.2
	allFeeds := model.FetchPricesParams{FeedIDs: []string{"bitcoin", "ethereum", "tether", "usd-coin"}}

	t.Run("maps feed prices to token ids", func(t *testing.T) {
		fetcher := &core.ExchangeRateFetcherMock{}
		fetcher.On("FetchPrices", mock.Anything, allFeeds).Return(map[string]model.FeedPrice{
			"bitcoin":  {USD: 65000, Change24h: &change},
			"ethereum": {USD: 3000},
			"tether":   {USD: 0.999},
			"usd-coin": {USD: 1.001},
		}, nil).Once()

		prices, err := newTestPriceService(fetcher).FetchTokenPrices(
			context.Background(), []string{"usdt", "usdc", "wbtc", "weth"})
		require.NoError(t, err)
		assert.Equal(t, appCore.TokenPrices{
			"usdt": {USD: 0.999},
			"usdc": {USD: 1.001},
			"wbtc": {USD: 65000, Change24h: &change},
			"weth": {USD: 3000},
		}, prices)
		fetcher.AssertExpectations(t)
	})

	t.Run("unmapped tokens are never requested", func(t *testing.T) {
		fetcher := &core.ExchangeRateFetcherMock{}

		prices, err := newTestPriceService(fetcher).FetchTokenPrices(context.Background(), []string{"foo"})
		require.NoError(t, err)
		assert.Empty(t, prices)
		fetcher.AssertNotCalled(t, "FetchPrices", mock.Anything, mock.Anything)
	})

	t.Run("stablecoin fallback when missing from response", func(t *testing.T) {
		fetcher := &core.ExchangeRateFetcherMock{}
		fetcher.On("FetchPrices", mock.Anything, mock.Anything).Return(map[string]model.FeedPrice{
			"bitcoin": {USD: 65000},
		}, nil).Once()

		prices, err := newTestPriceService(fetcher).FetchTokenPrices(
			context.Background(), []string{"usdt", "wbtc", "weth"})
		require.NoError(t, err)
		assert.Equal(t, 1.0, prices["usdt"].USD)
		assert.Equal(t, 65000.0, prices["wbtc"].USD)
		assert.NotContains(t, prices, "weth")
	})

	t.Run("timeout keeps only stablecoin fallbacks", func(t *testing.T) {
		fetcher := &core.ExchangeRateFetcherMock{}
		fetcher.On("FetchPrices", mock.Anything, allFeeds).Return(
			nil, fmt.Errorf("%w: CoinGecko", core.ErrPriceFeedTimeout)).Times(3)

		prices, err := newTestPriceService(fetcher).FetchTokenPrices(
			context.Background(), []string{"usdt", "usdc", "wbtc", "weth"})
		require.ErrorIs(t, err, core.ErrPriceFeedTimeout)
		assert.Equal(t, appCore.TokenPrices{
			"usdt": {USD: 1},
			"usdc": {USD: 1},
		}, prices)
		fetcher.AssertNumberOfCalls(t, "FetchPrices", 3)
	})

	t.Run("schema errors are not retried", func(t *testing.T) {
		fetcher := &core.ExchangeRateFetcherMock{}
		fetcher.On("FetchPrices", mock.Anything, mock.Anything).Return(
			nil, fmt.Errorf("%w: bad body", core.ErrPriceFeedSchema))

		_, err := newTestPriceService(fetcher).FetchTokenPrices(context.Background(), []string{"wbtc"})
		require.ErrorIs(t, err, core.ErrPriceFeedSchema)
		fetcher.AssertNumberOfCalls(t, "FetchPrices", 1)
	})

	t.Run("transient error then success", func(t *testing.T) {
		fetcher := &core.ExchangeRateFetcherMock{}
		fetcher.On("FetchPrices", mock.Anything, mock.Anything).Return(
			nil, &common.HTTPStatusError{StatusCode: 503}).Once()
		fetcher.On("FetchPrices", mock.Anything, mock.Anything).Return(
			map[string]model.FeedPrice{"bitcoin": {USD: 1}}, nil).Once()

		prices, err := newTestPriceService(fetcher).FetchTokenPrices(context.Background(), []string{"wbtc"})
		require.NoError(t, err)
		assert.Equal(t, 1.0, prices["wbtc"].USD)
		fetcher.AssertNumberOfCalls(t, "FetchPrices", 2)
	})
}

func TestPriceService_BinanceDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `["BTCUSDT","ETHUSDT"]`, r.URL.Query().Get("symbols"))

		_, _ = w.Write([]byte(`[
			{"symbol":"BTCUSDT","lastPrice":"65000","priceChangePercent":"1.5"},
			{"symbol":"ETHUSDT","lastPrice":"3000","priceChangePercent":"-0.5"}
		]`))
	}))
	defer server.Close()

	config := core.ExchangeRateServiceConfig{Provider: core.Binance, URL: server.URL}
	config.FillOut()
	require.NoError(t, config.Validate())

	service, err := NewPriceService(&config, hclog.NewNullLogger())
	require.NoError(t, err)

	prices, err := service.FetchTokenPrices(context.Background(), []string{"usdt", "wbtc", "weth"})
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Equal(t, 1.0, prices["usdt"].USD)
	assert.Equal(t, 65000.0, prices["wbtc"].USD)
	assert.Equal(t, 3000.0, prices["weth"].USD)
}

func TestNewPriceService(t *testing.T) {
	config := core.DefaultExchangeRateServiceConfig()

	service, err := NewPriceService(&config, hclog.NewNullLogger())
	require.NoError(t, err)
	require.NotNil(t, service)

	config.Provider = core.ExchangeProvider(42)

	_, err = NewPriceService(&config, hclog.NewNullLogger())
	require.True(t, errors.Is(err, core.ErrUnsupportedProvider))
}
