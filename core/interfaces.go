package core

import (
	"context"
)

// ChainBalanceReader reads token balances held by accounts on a single network.
// It returns exactly one result per request, in request order, and never fails as a whole.
type ChainBalanceReader interface {
	ReadBalances(ctx context.Context, network string, requests []BalanceRequest) []BalanceResult
}

type SourceBalanceReader interface {
	ReadTokenBalances(ctx context.Context, token BaseTokenConfig) SourceBalances
}

type AssetFetcher interface {
	FetchAsset(ctx context.Context, assetID string) (*KleverAssetData, error)
	// FetchAssets omits every asset that failed
	FetchAssets(ctx context.Context, assetIDs []string) map[string]*KleverAssetData
}

// PriceFetcher returns usd prices per token id. Stablecoin fallbacks are returned even together with an error.
type PriceFetcher interface {
	FetchTokenPrices(ctx context.Context, tokenIDs []string) (TokenPrices, error)
}

// DashboardService serves the latest refreshed view model
type DashboardService interface {
	Snapshot() DashboardSnapshot
	Token(tokenID string) (TokenBalanceData, bool)
	Chains() map[string]ChainConfig
	Refresh()
}
