package response

import (
	"github.com/Ethernal-Tech/bridge-transparency/amounts"
	"github.com/Ethernal-Tech/bridge-transparency/core"
)

type ChainDistributionResponse struct {
	ChainID    string  `json:"chainId"`
	ChainName  string  `json:"chainName"`
	Logo       string  `json:"logo"`
	UsdValue   float64 `json:"usdValue"`
	Percentage float64 `json:"percentage"`
}

type TokenFlowResponse struct {
	TokenID    string  `json:"tokenId"`
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Logo       string  `json:"logo"`
	UsdValue   float64 `json:"usdValue"`
	Percentage float64 `json:"percentage"`
}

type ChainFlowResponse struct {
	ChainDistributionResponse
	Tokens []TokenFlowResponse `json:"tokens"`
}

type TokenTotalResponse struct {
	TokenID   string  `json:"tokenId"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Logo      string  `json:"logo"`
	UsdLocked float64 `json:"usdLocked"`
	UsdMinted float64 `json:"usdMinted"`
	IsPriced  bool    `json:"isPriced"`
}

type PortfolioResponse struct {
	DashboardStatusResponse
	TotalUsdLocked     float64                     `json:"totalUsdLocked"`
	TotalUsdMinted     float64                     `json:"totalUsdMinted"`
	FormattedUsdLocked string                      `json:"formattedUsdLocked"`
	FormattedUsdMinted string                      `json:"formattedUsdMinted"`
	BackingRatio       float64                     `json:"backingRatio"`
	TotalTokens        int                         `json:"totalTokens"`
	ActiveChains       int                         `json:"activeChains"`
	ChainDistribution  []ChainDistributionResponse `json:"chainDistribution"`
	ChainFlows         []ChainFlowResponse         `json:"chainFlows"`
	TokenTotals        []TokenTotalResponse        `json:"tokenTotals"`
	PricesError        string                      `json:"pricesError,omitempty"`
}

func NewPortfolioResponse(snapshot core.DashboardSnapshot) *PortfolioResponse {
	portfolio := snapshot.Portfolio
	result := &PortfolioResponse{
		DashboardStatusResponse: NewDashboardStatusResponse(snapshot),
		TotalUsdLocked:          portfolio.TotalUsdLocked,
		TotalUsdMinted:          portfolio.TotalUsdMinted,
		FormattedUsdLocked:      amounts.FormatUsdValue(portfolio.TotalUsdLocked),
		FormattedUsdMinted:      amounts.FormatUsdValue(portfolio.TotalUsdMinted),
		BackingRatio:            portfolio.BackingRatio,
		TotalTokens:             portfolio.TotalTokens,
		ActiveChains:            portfolio.ActiveChains,
		ChainDistribution:       make([]ChainDistributionResponse, len(portfolio.ChainDistribution)),
		ChainFlows:              make([]ChainFlowResponse, len(portfolio.ChainFlows)),
		TokenTotals:             make([]TokenTotalResponse, len(portfolio.TokenTotals)),
		PricesError:             snapshot.PricesError,
	}

	for i, chain := range portfolio.ChainDistribution {
		result.ChainDistribution[i] = ChainDistributionResponse(chain)
	}

	for i, flow := range portfolio.ChainFlows {
		tokens := make([]TokenFlowResponse, len(flow.Tokens))
		for j, token := range flow.Tokens {
			tokens[j] = TokenFlowResponse(token)
		}

		result.ChainFlows[i] = ChainFlowResponse{
			ChainDistributionResponse: ChainDistributionResponse{
				ChainID:    flow.ChainID,
				ChainName:  flow.ChainName,
				Logo:       flow.Logo,
				UsdValue:   flow.UsdValue,
				Percentage: flow.Percentage,
			},
			Tokens: tokens,
		}
	}

	for i, total := range portfolio.TokenTotals {
		result.TokenTotals[i] = TokenTotalResponse(total)
	}

	return result
}
