package portfolio

import (
	"sort"

	"github.com/Ethernal-Tech/bridge-transparency/amounts"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/shopspring/decimal"
)

var (
	hundred            = decimal.NewFromInt(100)
	stablecoinFallback = decimal.NewFromInt(1)
)

type chainAccumulator struct {
	chainID   string
	chainName string
	logo      string
	usdValue  decimal.Decimal
	tokens    []core.TokenFlow
	tokenUsd  map[string]decimal.Decimal
}

// Compute derives the usd denominated portfolio from token view models and prices.
// Unpriced stablecoins count as $1, other unpriced tokens contribute nothing.
// Chains and the tokens within a chain are ordered by descending usd value, ties keep first seen order.
func Compute(tokens []core.TokenBalanceData, prices core.TokenPrices, stablecoins []string) core.PortfolioSnapshot {
	isStablecoin := make(map[string]bool, len(stablecoins))
	for _, id := range stablecoins {
		isStablecoin[id] = true
	}

	totalLocked := decimal.Zero
	totalMinted := decimal.Zero
	tokenTotals := make([]core.TokenTotal, 0, len(tokens))
	chains := []*chainAccumulator{}
	chainsByID := map[string]*chainAccumulator{}

	for _, token := range tokens {
		price, isPriced := tokenPrice(token.TokenID, prices, isStablecoin)

		lockedUsd := amounts.ToDecimal(token.TotalLocked, token.Decimals).Mul(price)
		mintedUsd := amounts.ToDecimal(token.KleverMinted, token.Decimals).Mul(price)

		totalLocked = totalLocked.Add(lockedUsd)
		totalMinted = totalMinted.Add(mintedUsd)

		tokenTotals = append(tokenTotals, core.TokenTotal{
			TokenID:   token.TokenID,
			Symbol:    token.Symbol,
			Name:      token.Name,
			Logo:      token.Logo,
			UsdLocked: lockedUsd.InexactFloat64(),
			UsdMinted: mintedUsd.InexactFloat64(),
			IsPriced:  isPriced,
		})

		for _, balance := range token.SourceChainBalances {
			chainUsd := amounts.ToDecimal(balance.NormalizedBalance, token.Decimals).Mul(price)

			chain, exists := chainsByID[balance.ChainID]
			if !exists {
				chain = &chainAccumulator{
					chainID:   balance.ChainID,
					chainName: balance.ChainName,
					logo:      balance.Logo,
					usdValue:  decimal.Zero,
					tokenUsd:  map[string]decimal.Decimal{},
				}
				chainsByID[balance.ChainID] = chain
				chains = append(chains, chain)
			}

			chain.usdValue = chain.usdValue.Add(chainUsd)

			if _, exists := chain.tokenUsd[token.TokenID]; !exists {
				chain.tokens = append(chain.tokens, core.TokenFlow{
					TokenID: token.TokenID,
					Symbol:  token.Symbol,
					Name:    token.Name,
					Logo:    token.Logo,
				})
			}

			chain.tokenUsd[token.TokenID] = chain.tokenUsd[token.TokenID].Add(chainUsd)
		}
	}

	sort.SliceStable(chains, func(i, j int) bool {
		return chains[i].usdValue.GreaterThan(chains[j].usdValue)
	})

	backingRatio := hundred
	if totalMinted.IsPositive() {
		backingRatio = totalLocked.Div(totalMinted).Mul(hundred)
	}

	distribution, activeChains := buildChainDistribution(chains, totalLocked)

	return core.PortfolioSnapshot{
		TotalUsdLocked:    totalLocked.InexactFloat64(),
		TotalUsdMinted:    totalMinted.InexactFloat64(),
		ChainDistribution: distribution,
		ChainFlows:        buildChainFlows(chains),
		TokenTotals:       tokenTotals,
		BackingRatio:      backingRatio.InexactFloat64(),
		TotalTokens:       len(tokens),
		ActiveChains:      activeChains,
	}
}

func tokenPrice(tokenID string, prices core.TokenPrices, isStablecoin map[string]bool) (decimal.Decimal, bool) {
	if price, exists := prices[tokenID]; exists {
		return decimal.NewFromFloat(price.USD), true
	}

	if isStablecoin[tokenID] {
		return stablecoinFallback, true
	}

	return decimal.Zero, false
}

func buildChainDistribution(
	chains []*chainAccumulator, totalLocked decimal.Decimal,
) (distribution []core.ChainDistribution, activeChains int) {
	distribution = make([]core.ChainDistribution, len(chains))

	for i, chain := range chains {
		distribution[i] = core.ChainDistribution{
			ChainID:    chain.chainID,
			ChainName:  chain.chainName,
			Logo:       chain.logo,
			UsdValue:   chain.usdValue.InexactFloat64(),
			Percentage: percentageOf(chain.usdValue, totalLocked),
		}

		if chain.usdValue.IsPositive() {
			activeChains++
		}
	}

	return distribution, activeChains
}

func buildChainFlows(chains []*chainAccumulator) []core.ChainFlow {
	total := decimal.Zero
	for _, chain := range chains {
		total = total.Add(chain.usdValue)
	}

	flows := make([]core.ChainFlow, 0, len(chains))

	for _, chain := range chains {
		if !chain.usdValue.IsPositive() {
			continue
		}

		tokens := make([]core.TokenFlow, 0, len(chain.tokens))

		for _, token := range chain.tokens {
			value := chain.tokenUsd[token.TokenID]
			if !value.IsPositive() {
				continue
			}

			token.UsdValue = value.InexactFloat64()
			token.Percentage = percentageOf(value, chain.usdValue)
			tokens = append(tokens, token)
		}

		sort.SliceStable(tokens, func(i, j int) bool {
			return tokens[i].UsdValue > tokens[j].UsdValue
		})

		flows = append(flows, core.ChainFlow{
			ChainID:    chain.chainID,
			ChainName:  chain.chainName,
			Logo:       chain.logo,
			UsdValue:   chain.usdValue.InexactFloat64(),
			Percentage: percentageOf(chain.usdValue, total),
			Tokens:     tokens,
		})
	}

	return flows
}

func percentageOf(part, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}

	return part.Div(total).Mul(hundred).InexactFloat64()
}
