package core

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Ethernal-Tech/bridge-transparency/common"
)

const (
	DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"
	DefaultBinanceURL   = "https://api.binance.com"
)

var binanceSymbolRegex = regexp.MustCompile(`^[A-Z0-9]+USDT$`)

// DefaultFeedIDs returns the token id to feed id mapping of a provider.
// Binance maps no usd stablecoin, those get the stablecoin fallback price.
func DefaultFeedIDs(provider ExchangeProvider) map[string]string {
	switch provider {
	case Binance:
		return map[string]string{
			"wbtc": "BTCUSDT",
			"weth": "ETHUSDT",
		}
	default:
		return map[string]string{
			"usdt": "tether",
			"usdc": "usd-coin",
			"wbtc": "bitcoin",
			"weth": "ethereum",
		}
	}
}

type ExchangeRateServiceConfig struct {
	Provider     ExchangeProvider   `json:"exchangeProvider"`
	URL          string             `json:"url"`
	APIKey       string             `json:"apiKey,omitempty"`
	TimeoutMilis uint64             `json:"timeoutMilis"`
	FeedIDs      map[string]string  `json:"priceFeedIds"`
	Stablecoins  []string           `json:"stablecoins"`
	StaticPrices map[string]float64 `json:"staticPrices,omitempty"`
	Retry        common.RetryConfig `json:"retry"`
}

func DefaultExchangeRateServiceConfig() ExchangeRateServiceConfig {
	config := ExchangeRateServiceConfig{}
	config.FillOut()

	return config
}

// FillOut sets defaults for every field left empty
func (c *ExchangeRateServiceConfig) FillOut() {
	if c.URL == "" {
		switch c.Provider {
		case CoinGecko:
			c.URL = DefaultCoinGeckoURL
		case Binance:
			c.URL = DefaultBinanceURL
		}
	}

	if c.TimeoutMilis == 0 {
		c.TimeoutMilis = uint64(common.DefaultHTTPTimeout.Milliseconds())
	}

	if c.FeedIDs == nil {
		c.FeedIDs = DefaultFeedIDs(c.Provider)
	}

	if c.Stablecoins == nil {
		c.Stablecoins = []string{"usdt", "usdc"}
	}

	if c.Retry == (common.RetryConfig{}) {
		c.Retry = common.RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Second,
			MaxDelay:   10 * time.Second,
		}
	}
}

func (c *ExchangeRateServiceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMilis) * time.Millisecond
}

func (c *ExchangeRateServiceConfig) IsStablecoin(tokenID string) bool {
	for _, id := range c.Stablecoins {
		if id == tokenID {
			return true
		}
	}

	return false
}

func (c *ExchangeRateServiceConfig) Validate() error {
	switch c.Provider {
	case CoinGecko, Binance:
		if !common.IsValidURL(c.URL) {
			return fmt.Errorf("invalid price feed url: %s", c.URL)
		}
	case Dummy:
		if len(c.StaticPrices) == 0 {
			return errors.New("dummy price feed requires static prices")
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedProvider, c.Provider)
	}

	for tokenID, feedID := range c.FeedIDs {
		if feedID == "" {
			return fmt.Errorf("empty price feed id for token %s", tokenID)
		}

		if c.Provider == Binance && !binanceSymbolRegex.MatchString(feedID) {
			return fmt.Errorf("price feed id for token %s is not a binance usdt symbol: %s", tokenID, feedID)
		}
	}

	return nil
}
