package core

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ChainBalanceReaderMock struct {
	mock.Mock
}

var _ ChainBalanceReader = (*ChainBalanceReaderMock)(nil)

func (m *ChainBalanceReaderMock) ReadBalances(
	ctx context.Context, network string, requests []BalanceRequest,
) []BalanceResult {
	args := m.Called(ctx, network, requests)
	arg0, _ := args.Get(0).([]BalanceResult)

	return arg0
}

type SourceBalanceReaderMock struct {
	mock.Mock
}

var _ SourceBalanceReader = (*SourceBalanceReaderMock)(nil)

func (m *SourceBalanceReaderMock) ReadTokenBalances(ctx context.Context, token BaseTokenConfig) SourceBalances {
	args := m.Called(ctx, token)
	arg0, _ := args.Get(0).(SourceBalances)

	return arg0
}

type AssetFetcherMock struct {
	mock.Mock
}

var _ AssetFetcher = (*AssetFetcherMock)(nil)

func (m *AssetFetcherMock) FetchAsset(ctx context.Context, assetID string) (*KleverAssetData, error) {
	args := m.Called(ctx, assetID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	arg0, _ := args.Get(0).(*KleverAssetData)

	return arg0, args.Error(1)
}

func (m *AssetFetcherMock) FetchAssets(ctx context.Context, assetIDs []string) map[string]*KleverAssetData {
	args := m.Called(ctx, assetIDs)
	arg0, _ := args.Get(0).(map[string]*KleverAssetData)

	return arg0
}

type PriceFetcherMock struct {
	mock.Mock
}

var _ PriceFetcher = (*PriceFetcherMock)(nil)

func (m *PriceFetcherMock) FetchTokenPrices(ctx context.Context, tokenIDs []string) (TokenPrices, error) {
	args := m.Called(ctx, tokenIDs)
	arg0, _ := args.Get(0).(TokenPrices)

	return arg0, args.Error(1)
}

type DashboardServiceMock struct {
	mock.Mock
}

var _ DashboardService = (*DashboardServiceMock)(nil)

func (m *DashboardServiceMock) Snapshot() DashboardSnapshot {
	args := m.Called()
	arg0, _ := args.Get(0).(DashboardSnapshot)

	return arg0
}

func (m *DashboardServiceMock) Token(tokenID string) (TokenBalanceData, bool) {
	args := m.Called(tokenID)
	arg0, _ := args.Get(0).(TokenBalanceData)

	return arg0, args.Bool(1)
}

func (m *DashboardServiceMock) Chains() map[string]ChainConfig {
	args := m.Called()
	arg0, _ := args.Get(0).(map[string]ChainConfig)

	return arg0
}

func (m *DashboardServiceMock) Refresh() {
	m.Called()
}
