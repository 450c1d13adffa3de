package core

import (
	"context"

	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/model"
)

// ExchangeRateFetcher returns usd prices keyed by feed id. Feed ids unknown to the provider are omitted.
type ExchangeRateFetcher interface {
	FetchPrices(ctx context.Context, params model.FetchPricesParams) (map[string]model.FeedPrice, error)
}
