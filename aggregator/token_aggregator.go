package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Ethernal-Tech/bridge-transparency/amounts"
	"github.com/Ethernal-Tech/bridge-transparency/backing"
	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/Ethernal-Tech/bridge-transparency/sourcechain"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

var ErrLiquidityAssetUnavailable = errors.New("liquidity asset unavailable")

// TokenReads holds the settled upstream reads of one token
type TokenReads struct {
	Source core.SourceBalances
	// Canonical holds a nil value when the canonical asset is not deployed yet
	Canonical        common.Result[*core.KleverAssetData]
	CanonicalLoading bool
	// Liquidity omits assets that failed
	Liquidity        map[string]*core.KleverAssetData
	LiquidityLoading bool
}

type TokenAggregator struct {
	sourceReader core.SourceBalanceReader
	assetFetcher core.AssetFetcher
	cache        *RequestCache
	logger       hclog.Logger
}

func NewTokenAggregator(
	sourceReader core.SourceBalanceReader,
	assetFetcher core.AssetFetcher,
	cache *RequestCache,
	logger hclog.Logger,
) *TokenAggregator {
	return &TokenAggregator{
		sourceReader: sourceReader,
		assetFetcher: assetFetcher,
		cache:        cache,
		logger:       logger.Named("token_aggregator"),
	}
}

// AggregateToken reads source balances, the canonical asset and the liquidity assets of the token concurrently
// and joins them once all three reads settled
func (a *TokenAggregator) AggregateToken(
	ctx context.Context, generation uint64, token core.BaseTokenConfig,
) core.TokenBalanceData {
	var (
		reads TokenReads
		wg    errgroup.Group
	)

	wg.Go(func() error {
		reads.Source, _ = Cached(ctx, a.cache,
			RequestKey{Entity: EntitySourceBalances, ID: token.ID, Generation: generation},
			func(ctx context.Context) (core.SourceBalances, error) {
				return a.sourceReader.ReadTokenBalances(ctx, token), nil
			})

		return nil
	})

	wg.Go(func() error {
		reads.Canonical = a.readCanonical(ctx, generation, token.KleverChain.BaseTokenID)

		return nil
	})

	wg.Go(func() error {
		reads.Liquidity = a.readLiquidity(ctx, generation, token)

		return nil
	})

	_ = wg.Wait()

	data := BuildTokenBalanceData(token, reads)

	a.logger.Debug("Token aggregated", "token", token.ID, "generation", generation,
		"status", data.BackingStatus, "errors", len(data.Errors))

	return data
}

func (a *TokenAggregator) readCanonical(
	ctx context.Context, generation uint64, assetID string,
) common.Result[*core.KleverAssetData] {
	if core.IsPlaceholderAssetID(assetID) {
		return common.Success[*core.KleverAssetData](nil)
	}

	asset, err := Cached(ctx, a.cache,
		RequestKey{Entity: EntityAsset, ID: assetID, Generation: generation},
		func(ctx context.Context) (*core.KleverAssetData, error) {
			return a.assetFetcher.FetchAsset(ctx, assetID)
		})

	return common.NewResult(asset, err)
}

func (a *TokenAggregator) readLiquidity(
	ctx context.Context, generation uint64, token core.BaseTokenConfig,
) map[string]*core.KleverAssetData {
	assetIDs := make([]string, 0, len(token.LiquidityTokens))

	for _, lt := range token.LiquidityTokens {
		if !core.IsPlaceholderAssetID(lt.KdaID) {
			assetIDs = append(assetIDs, lt.KdaID)
		}
	}

	if len(assetIDs) == 0 {
		return map[string]*core.KleverAssetData{}
	}

	assets, _ := Cached(ctx, a.cache,
		RequestKey{Entity: EntityLiquidity, ID: token.ID, Generation: generation},
		func(ctx context.Context) (map[string]*core.KleverAssetData, error) {
			return a.assetFetcher.FetchAssets(ctx, assetIDs), nil
		})

	return assets
}

// BuildTokenBalanceData joins the upstream reads of one token into a freshly built view model.
// Minted and liquidity supplies are rescaled from the asset precision to the token decimals.
func BuildTokenBalanceData(token core.BaseTokenConfig, reads TokenReads) core.TokenBalanceData {
	data := core.TokenBalanceData{
		TokenID:             token.ID,
		Symbol:              token.Symbol,
		Name:                token.Name,
		Logo:                token.Logo,
		Decimals:            token.Decimals,
		BaseTokenID:         token.KleverChain.BaseTokenID,
		KleverMinted:        new(big.Int),
		SourceChainBalances: reads.Source.Balances,
		IsLoading:           reads.Source.IsLoading || reads.CanonicalLoading,
		IsError:             reads.Source.IsError,
		Errors:              []string{},
	}

	if data.SourceChainBalances == nil {
		data.SourceChainBalances = []core.ChainBalance{}
	}

	data.TotalLocked = new(big.Int)
	if reads.Source.TotalLocked != nil {
		data.TotalLocked.Set(reads.Source.TotalLocked)
	}

	for _, balance := range data.SourceChainBalances {
		if balance.IsError && balance.Err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("source chain %s: %v", balance.ChainID, balance.Err))
		}
	}

	if !reads.CanonicalLoading {
		if reads.Canonical.IsSuccess() {
			if asset := reads.Canonical.Value; asset != nil {
				data.KleverMinted = amounts.NormalizeDecimals(asset.CirculatingSupply, asset.Precision, token.Decimals)
				data.HoldersCount = asset.HoldersCount
				data.TransactionsCount = asset.TransactionsCount
			}
		} else {
			data.IsError = true
			data.Errors = append(data.Errors,
				fmt.Sprintf("asset %s: %v", token.KleverChain.BaseTokenID, reads.Canonical.Err))
		}
	}

	data.FormattedKleverMinted = amounts.FormatBalance(data.KleverMinted, token.Decimals)
	data.FormattedTotalLocked = amounts.FormatBalance(data.TotalLocked, token.Decimals)
	data.BackingRatio = backing.CalculateBackingRatio(data.TotalLocked, data.KleverMinted)
	data.BackingStatus = backing.GetBackingStatus(data.BackingRatio, data.IsLoading, data.IsError)
	data.LiquidityBreakdown = buildLiquidityBreakdown(token, reads, data.KleverMinted, &data.Errors)

	return data
}

// liquidity shares are taken against the minted supply, not against the sum of liquidity balances
func buildLiquidityBreakdown(
	token core.BaseTokenConfig, reads TokenReads, minted *big.Int, errs *[]string,
) []core.LiquidityBreakdown {
	breakdown := make([]core.LiquidityBreakdown, len(token.LiquidityTokens))

	for i, lt := range token.LiquidityTokens {
		entry := core.LiquidityBreakdown{
			ChainID:     lt.ChainID,
			KdaID:       lt.KdaID,
			Description: lt.Description,
			Balance:     new(big.Int),
		}

		switch asset, exists := reads.Liquidity[lt.KdaID]; {
		case core.IsPlaceholderAssetID(lt.KdaID):
		case exists && asset != nil:
			entry.Balance = amounts.NormalizeDecimals(asset.CirculatingSupply, asset.Precision, token.Decimals)
		case reads.LiquidityLoading:
			entry.IsLoading = true
		default:
			entry.IsError = true
			*errs = append(*errs, fmt.Sprintf("%v: %s", ErrLiquidityAssetUnavailable, lt.KdaID))
		}

		entry.FormattedBalance = amounts.FormatBalance(entry.Balance, token.Decimals)
		entry.Percentage = amounts.Percentage(entry.Balance, minted)
		breakdown[i] = entry
	}

	return breakdown
}

// NewLoadingTokenBalanceData returns the zero valued view model shown before the first reads settle
func NewLoadingTokenBalanceData(token core.BaseTokenConfig, chains map[string]core.ChainConfig) core.TokenBalanceData {
	return BuildTokenBalanceData(token, TokenReads{
		Source:           sourcechain.NewLoadingSourceBalances(token, chains),
		CanonicalLoading: true,
		LiquidityLoading: true,
	})
}
