package fetchers

import (
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/core"
)

// wrapFeedError maps transport level failures to price feed error kinds
func wrapFeedError(provider core.ExchangeProvider, err error) error {
	switch {
	case errors.Is(err, common.ErrRequestTimeout):
		return fmt.Errorf("%w: %s: %w", core.ErrPriceFeedTimeout, provider, err)
	case errors.Is(err, common.ErrInvalidResponse):
		return fmt.Errorf("%w: %s: %w", core.ErrPriceFeedSchema, provider, err)
	default:
		return fmt.Errorf("%s request failed: %w", provider, err)
	}
}

func httpOptions(config *core.ExchangeRateServiceConfig) []common.HTTPOption {
	return []common.HTTPOption{common.WithHTTPTimeout(config.Timeout())}
}
