package sourcechain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Ethernal-Tech/bridge-transparency/amounts"
	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/Ethernal-Tech/bridge-transparency/telemetry"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnsupportedChainType = errors.New("no balance reader for chain type")
	ErrMissingResult        = errors.New("balance reader returned no result")
)

// Reader reads the collateral locked in bridge contracts on every enabled source chain of a token.
// Chains sharing a network are read in one call of the chain type reader, networks are read concurrently.
type Reader struct {
	readers map[core.ChainType]core.ChainBalanceReader
	chains  map[string]core.ChainConfig
	logger  hclog.Logger
}

var _ core.SourceBalanceReader = (*Reader)(nil)

func NewReader(
	readers map[core.ChainType]core.ChainBalanceReader, chains map[string]core.ChainConfig, logger hclog.Logger,
) *Reader {
	return &Reader{
		readers: readers,
		chains:  chains,
		logger:  logger.Named("source_chain_reader"),
	}
}

type networkGroup struct {
	chainType core.ChainType
	network   string
	indices   []int
}

func (r *Reader) ReadTokenBalances(ctx context.Context, token core.BaseTokenConfig) core.SourceBalances {
	sourceChains := token.EnabledSourceChains()
	results := make([]core.BalanceResult, len(sourceChains))

	var wg errgroup.Group

	for _, group := range groupByNetwork(sourceChains) {
		wg.Go(func() error {
			groupResults := r.readGroup(ctx, group, sourceChains)
			for j, idx := range group.indices {
				results[idx] = groupResults[j]
			}

			return nil
		})
	}

	_ = wg.Wait()

	return r.buildSourceBalances(token, sourceChains, results)
}

func (r *Reader) readGroup(
	ctx context.Context, group *networkGroup, sourceChains []core.SourceChainConfig,
) []core.BalanceResult {
	results := make([]core.BalanceResult, len(group.indices))

	reader, exists := r.readers[group.chainType]
	if !exists {
		err := fmt.Errorf("%w: %s", ErrUnsupportedChainType, group.chainType)
		for j := range results {
			results[j] = common.Failure[*big.Int](err)
		}

		return results
	}

	requests := make([]core.BalanceRequest, len(group.indices))
	for j, idx := range group.indices {
		requests[j] = core.BalanceRequest{
			TokenContract: sourceChains[idx].TokenContract,
			Account:       sourceChains[idx].BridgeContract,
		}
	}

	readResults := reader.ReadBalances(ctx, group.network, requests)

	for j := range results {
		if j < len(readResults) {
			results[j] = readResults[j]
		} else {
			results[j] = common.Failure[*big.Int](ErrMissingResult)
		}
	}

	return results
}

func (r *Reader) buildSourceBalances(
	token core.BaseTokenConfig, sourceChains []core.SourceChainConfig, results []core.BalanceResult,
) core.SourceBalances {
	balances := make([]core.ChainBalance, len(sourceChains))
	totalLocked := new(big.Int)
	failedCnt := 0

	for i, sc := range sourceChains {
		balance := core.ChainBalance{
			ChainID:   sc.ChainID,
			ChainName: sc.ChainName,
			Logo:      r.chains[sc.ChainID].Logo,
			Decimals:  sc.Decimals,
		}

		if result := results[i]; result.IsSuccess() && result.Value != nil {
			balance.Balance = new(big.Int).Set(result.Value)
			balance.NormalizedBalance = amounts.NormalizeDecimals(result.Value, sc.Decimals, token.Decimals)
		} else {
			err := result.Err
			if err == nil {
				err = ErrMissingResult
			}

			failedCnt++
			balance.Balance = new(big.Int)
			balance.NormalizedBalance = new(big.Int)
			balance.IsError = true
			balance.Err = err

			chainType, network, _ := sc.Network()

			telemetry.UpdateFetchFailures(string(chainType))
			r.logger.Warn("failed to read locked balance", "token", token.ID,
				"chain", sc.ChainID, "network", network, "err", err)
		}

		balance.FormattedBalance = amounts.FormatBalance(balance.NormalizedBalance, token.Decimals)
		totalLocked.Add(totalLocked, balance.NormalizedBalance)
		balances[i] = balance
	}

	for i := range balances {
		balances[i].Percentage = amounts.Percentage(balances[i].NormalizedBalance, totalLocked)
	}

	return core.SourceBalances{
		Balances:             balances,
		TotalLocked:          totalLocked,
		FormattedTotalLocked: amounts.FormatBalance(totalLocked, token.Decimals),
		IsError:              len(sourceChains) > 0 && failedCnt == len(sourceChains),
	}
}

func groupByNetwork(sourceChains []core.SourceChainConfig) []*networkGroup {
	groups := []*networkGroup{}
	groupsByKey := map[string]*networkGroup{}

	for i, sc := range sourceChains {
		chainType, network, _ := sc.Network()
		key := string(chainType) + "/" + network

		group, exists := groupsByKey[key]
		if !exists {
			group = &networkGroup{chainType: chainType, network: network}
			groupsByKey[key] = group
			groups = append(groups, group)
		}

		group.indices = append(group.indices, i)
	}

	return groups
}

// NewLoadingSourceBalances returns zero balances flagged as loading for every enabled source chain
func NewLoadingSourceBalances(token core.BaseTokenConfig, chains map[string]core.ChainConfig) core.SourceBalances {
	sourceChains := token.EnabledSourceChains()
	balances := make([]core.ChainBalance, len(sourceChains))

	for i, sc := range sourceChains {
		balances[i] = core.ChainBalance{
			ChainID:           sc.ChainID,
			ChainName:         sc.ChainName,
			Logo:              chains[sc.ChainID].Logo,
			Decimals:          sc.Decimals,
			Balance:           new(big.Int),
			NormalizedBalance: new(big.Int),
			FormattedBalance:  amounts.FormatBalance(nil, token.Decimals),
			IsLoading:         true,
		}
	}

	return core.SourceBalances{
		Balances:             balances,
		TotalLocked:          new(big.Int),
		FormattedTotalLocked: amounts.FormatBalance(nil, token.Decimals),
		IsLoading:            true,
	}
}
