package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/Ethernal-Tech/bridge-transparency/klever"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func newTestToken() core.BaseTokenConfig {
	return core.BaseTokenConfig{
		ID:       "usdt",
		Symbol:   "USDT",
		Name:     "Tether USD",
		Decimals: 6,
		Logo:     "/usdt.svg",
		KleverChain: core.KleverChainToken{
			BaseTokenID: "USDT-1A2B",
		},
		LiquidityTokens: []core.LiquidityToken{
			{ChainID: "ethereum", KdaID: "USDTE-3C4D", Description: "Ethereum liquidity"},
			{ChainID: "bsc", KdaID: "USDTB-5E6F"},
			{ChainID: "tron", KdaID: "USDTT-XXXX"},
		},
		SourceChains: []core.SourceChainConfig{
			{
				ChainID: "ethereum", ChainName: "Ethereum", EvmChainID: uint64Ptr(1),
				BridgeContract: "0xbridgeA", TokenContract: "0xtokenA", Decimals: 6, Enabled: true,
			},
			{
				ChainID: "bsc", ChainName: "BNB Smart Chain", EvmChainID: uint64Ptr(56),
				BridgeContract: "0xbridgeB", TokenContract: "0xtokenB", Decimals: 18, Enabled: true,
			},
		},
	}
}

var testChains = map[string]core.ChainConfig{
	"ethereum": {ID: "ethereum", Name: "Ethereum", Type: core.ChainTypeEVM, Logo: "/eth.svg"},
	"bsc":      {ID: "bsc", Name: "BNB Smart Chain", Type: core.ChainTypeEVM, Logo: "/bsc.svg"},
	"tron":     {ID: "tron", Name: "Tron", Type: core.ChainTypeTron, Logo: "/tron.svg"},
}

// chain A locked 1,000,000,000 while chain B failed to read
func newPartialSourceBalances() core.SourceBalances {
	return core.SourceBalances{
		Balances: []core.ChainBalance{
			{
				ChainID: "ethereum", Balance: big.NewInt(1_000_000_000),
				NormalizedBalance: big.NewInt(1_000_000_000), Decimals: 6, Percentage: 100,
			},
			{
				ChainID: "bsc", Balance: big.NewInt(0), NormalizedBalance: big.NewInt(0), Decimals: 18,
				IsError: true, Err: errors.New("rpc unavailable"),
			},
		},
		TotalLocked: big.NewInt(1_000_000_000),
	}
}

func newAsset(assetID string, supply int64, precision uint8) *core.KleverAssetData {
	return &core.KleverAssetData{
		AssetID:           assetID,
		CirculatingSupply: big.NewInt(supply),
		Precision:         precision,
		HoldersCount:      uint64Ptr(42),
	}
}

func TestBuildTokenBalanceData(t *testing.T) {
	token := newTestToken()

	t.Run("one failed source chain", func(t *testing.T) {
		data := BuildTokenBalanceData(token, TokenReads{
			Source:    newPartialSourceBalances(),
			Canonical: common.Success(newAsset("USDT-1A2B", 1_000_000_000, 6)),
			Liquidity: map[string]*core.KleverAssetData{},
		})

		assert.Equal(t, big.NewInt(1_000_000_000), data.TotalLocked)
		assert.Equal(t, big.NewInt(1_000_000_000), data.KleverMinted)
		assert.InDelta(t, 1.0, data.BackingRatio, 1e-9)
		assert.Equal(t, core.BackingStatusFullyBacked, data.BackingStatus)
		assert.False(t, data.IsError)
		assert.False(t, data.IsLoading)
		assert.Equal(t, "1,000.00", data.FormattedTotalLocked)
		assert.Equal(t, uint64Ptr(42), data.HoldersCount)

		require.Len(t, data.SourceChainBalances, 2)
		assert.Equal(t, 100.0, data.SourceChainBalances[0].Percentage)
		assert.True(t, data.SourceChainBalances[1].IsError)
		assert.Equal(t, 0.0, data.SourceChainBalances[1].Percentage)
		assert.Contains(t, data.Errors, "source chain bsc: rpc unavailable")
	})

	t.Run("malformed canonical asset", func(t *testing.T) {
		schemaErr := fmt.Errorf("%w: precision: field is missing", klever.ErrSchemaValidation)

		data := BuildTokenBalanceData(token, TokenReads{
			Source:    newPartialSourceBalances(),
			Canonical: common.Failure[*core.KleverAssetData](schemaErr),
		})

		assert.True(t, data.IsError)
		assert.Equal(t, core.BackingStatusError, data.BackingStatus)
		assert.Equal(t, big.NewInt(0), data.KleverMinted)
		assert.Contains(t, data.Errors, "asset USDT-1A2B: "+schemaErr.Error())
	})

	t.Run("liquidity shares of minted supply", func(t *testing.T) {
		data := BuildTokenBalanceData(token, TokenReads{
			Source:    newPartialSourceBalances(),
			Canonical: common.Success(newAsset("USDT-1A2B", 1_000_000_000, 6)),
			Liquidity: map[string]*core.KleverAssetData{
				"USDTE-3C4D": newAsset("USDTE-3C4D", 250_000_000, 6),
			},
		})

		require.Len(t, data.LiquidityBreakdown, 3)

		ethereum := data.LiquidityBreakdown[0]
		assert.Equal(t, "Ethereum liquidity", ethereum.Description)
		assert.Equal(t, big.NewInt(250_000_000), ethereum.Balance)
		assert.Equal(t, "250.00", ethereum.FormattedBalance)
		assert.Equal(t, 25.0, ethereum.Percentage)
		assert.False(t, ethereum.IsError)

		bsc := data.LiquidityBreakdown[1]
		assert.True(t, bsc.IsError)
		assert.Equal(t, 0.0, bsc.Percentage)

		tron := data.LiquidityBreakdown[2]
		assert.False(t, tron.IsError)
		assert.Equal(t, big.NewInt(0), tron.Balance)

		// a missing liquidity asset does not fail the token
		assert.False(t, data.IsError)
		assert.Len(t, data.Errors, 2)
	})

	t.Run("asset precision differs from token decimals", func(t *testing.T) {
		data := BuildTokenBalanceData(token, TokenReads{
			Source:    newPartialSourceBalances(),
			Canonical: common.Success(newAsset("USDT-1A2B", 5_000_000, 4)),
		})

		assert.Equal(t, big.NewInt(500_000_000), data.KleverMinted)
		assert.InDelta(t, 2.0, data.BackingRatio, 1e-9)
		assert.Equal(t, core.BackingStatusOverBacked, data.BackingStatus)
	})

	t.Run("canonical asset not deployed", func(t *testing.T) {
		data := BuildTokenBalanceData(token, TokenReads{
			Source:    newPartialSourceBalances(),
			Canonical: common.Success[*core.KleverAssetData](nil),
		})

		assert.False(t, data.IsError)
		assert.Equal(t, big.NewInt(0), data.KleverMinted)
		assert.True(t, math.IsInf(data.BackingRatio, 1))
		assert.Equal(t, core.BackingStatusOverBacked, data.BackingStatus)
	})

	t.Run("idempotent", func(t *testing.T) {
		reads := TokenReads{
			Source:    newPartialSourceBalances(),
			Canonical: common.Success(newAsset("USDT-1A2B", 1_234_560_000, 6)),
			Liquidity: map[string]*core.KleverAssetData{
				"USDTE-3C4D": newAsset("USDTE-3C4D", 333_333_333, 6),
			},
		}

		first := BuildTokenBalanceData(token, reads)
		second := BuildTokenBalanceData(token, reads)

		assert.Equal(t, first, second)
		assert.Equal(t, "1,234.56", first.FormattedKleverMinted)
	})
}

func TestNewLoadingTokenBalanceData(t *testing.T) {
	data := NewLoadingTokenBalanceData(newTestToken(), testChains)

	assert.True(t, data.IsLoading)
	assert.False(t, data.IsError)
	assert.Equal(t, core.BackingStatusLoading, data.BackingStatus)
	assert.Equal(t, big.NewInt(0), data.TotalLocked)
	assert.Equal(t, big.NewInt(0), data.KleverMinted)
	assert.Empty(t, data.Errors)

	require.Len(t, data.SourceChainBalances, 2)

	for _, balance := range data.SourceChainBalances {
		assert.True(t, balance.IsLoading)
	}

	require.Len(t, data.LiquidityBreakdown, 3)
	assert.True(t, data.LiquidityBreakdown[0].IsLoading)
	assert.False(t, data.LiquidityBreakdown[2].IsLoading)
}

func TestTokenAggregator_AggregateToken(t *testing.T) {
	ctx := context.Background()
	token := newTestToken()

	sourceReader := &core.SourceBalanceReaderMock{}
	sourceReader.On("ReadTokenBalances", mock.Anything, token).Return(newPartialSourceBalances())

	assetFetcher := &core.AssetFetcherMock{}
	assetFetcher.On("FetchAsset", mock.Anything, "USDT-1A2B").
		Return(newAsset("USDT-1A2B", 2_000_000_000, 6), nil)
	assetFetcher.On("FetchAssets", mock.Anything, []string{"USDTE-3C4D", "USDTB-5E6F"}).
		Return(map[string]*core.KleverAssetData{
			"USDTE-3C4D": newAsset("USDTE-3C4D", 500_000_000, 6),
			"USDTB-5E6F": newAsset("USDTB-5E6F", 500_000_000, 6),
		})

	cache := NewRequestCache()
	aggregator := NewTokenAggregator(sourceReader, assetFetcher, cache, hclog.NewNullLogger())

	cache.StartGeneration(1)

	data := aggregator.AggregateToken(ctx, 1, token)

	assert.InDelta(t, 0.5, data.BackingRatio, 1e-9)
	assert.Equal(t, core.BackingStatusUnderBacked, data.BackingStatus)
	require.Len(t, data.LiquidityBreakdown, 3)
	assert.Equal(t, 25.0, data.LiquidityBreakdown[0].Percentage)
	assert.Equal(t, 25.0, data.LiquidityBreakdown[1].Percentage)

	// the same generation is served from the cache
	assert.Equal(t, data, aggregator.AggregateToken(ctx, 1, token))

	sourceReader.AssertNumberOfCalls(t, "ReadTokenBalances", 1)
	assetFetcher.AssertNumberOfCalls(t, "FetchAsset", 1)
	assetFetcher.AssertNumberOfCalls(t, "FetchAssets", 1)

	cache.StartGeneration(2)
	aggregator.AggregateToken(ctx, 2, token)

	sourceReader.AssertNumberOfCalls(t, "ReadTokenBalances", 2)
	assetFetcher.AssertNumberOfCalls(t, "FetchAsset", 2)
	assetFetcher.AssertNumberOfCalls(t, "FetchAssets", 2)
}
