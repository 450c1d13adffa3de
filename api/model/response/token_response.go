package response

import (
	"math"
	"math/big"
	"time"

	"github.com/Ethernal-Tech/bridge-transparency/core"
)

type ChainBalanceResponse struct {
	ChainID           string  `json:"chainId"`
	ChainName         string  `json:"chainName"`
	Logo              string  `json:"logo"`
	Balance           string  `json:"balance"`
	NormalizedBalance string  `json:"normalizedBalance"`
	FormattedBalance  string  `json:"formattedBalance"`
	Decimals          uint8   `json:"decimals"`
	Percentage        float64 `json:"percentage"`
	IsLoading         bool    `json:"isLoading"`
	IsError           bool    `json:"isError"`
	Error             string  `json:"error,omitempty"`
}

type LiquidityBreakdownResponse struct {
	ChainID          string  `json:"chainId"`
	KdaID            string  `json:"kdaId"`
	Description      string  `json:"description,omitempty"`
	Balance          string  `json:"balance"`
	FormattedBalance string  `json:"formattedBalance"`
	Percentage       float64 `json:"percentage"`
	IsLoading        bool    `json:"isLoading"`
	IsError          bool    `json:"isError"`
}

type TokenBalanceResponse struct {
	TokenID               string                       `json:"tokenId"`
	Symbol                string                       `json:"symbol"`
	Name                  string                       `json:"name"`
	Logo                  string                       `json:"logo"`
	Decimals              uint8                        `json:"decimals"`
	BaseTokenID           string                       `json:"baseTokenId"`
	KleverMinted          string                       `json:"kleverMinted"`
	FormattedKleverMinted string                       `json:"formattedKleverMinted"`
	TotalLocked           string                       `json:"totalLocked"`
	FormattedTotalLocked  string                       `json:"formattedTotalLocked"`
	SourceChainBalances   []ChainBalanceResponse       `json:"sourceChainBalances"`
	LiquidityBreakdown    []LiquidityBreakdownResponse `json:"liquidityBreakdown"`
	// BackingRatio is null when nothing is minted while something is locked
	BackingRatio         *float64           `json:"backingRatio"`
	BackingRatioInfinite bool               `json:"backingRatioInfinite"`
	BackingStatus        core.BackingStatus `json:"backingStatus"`
	HoldersCount         *uint64            `json:"holdersCount"`
	TransactionsCount    *uint64            `json:"transactionsCount"`
	IsLoading            bool               `json:"isLoading"`
	IsError              bool               `json:"isError"`
	Errors               []string           `json:"errors"`
}

func NewTokenBalanceResponse(data core.TokenBalanceData) *TokenBalanceResponse {
	result := &TokenBalanceResponse{
		TokenID:               data.TokenID,
		Symbol:                data.Symbol,
		Name:                  data.Name,
		Logo:                  data.Logo,
		Decimals:              data.Decimals,
		BaseTokenID:           data.BaseTokenID,
		KleverMinted:          bigString(data.KleverMinted),
		FormattedKleverMinted: data.FormattedKleverMinted,
		TotalLocked:           bigString(data.TotalLocked),
		FormattedTotalLocked:  data.FormattedTotalLocked,
		SourceChainBalances:   make([]ChainBalanceResponse, len(data.SourceChainBalances)),
		LiquidityBreakdown:    make([]LiquidityBreakdownResponse, len(data.LiquidityBreakdown)),
		BackingStatus:         data.BackingStatus,
		HoldersCount:          data.HoldersCount,
		TransactionsCount:     data.TransactionsCount,
		IsLoading:             data.IsLoading,
		IsError:               data.IsError,
		Errors:                data.Errors,
	}

	if math.IsInf(data.BackingRatio, 1) {
		result.BackingRatioInfinite = true
	} else {
		ratio := data.BackingRatio
		result.BackingRatio = &ratio
	}

	if result.Errors == nil {
		result.Errors = []string{}
	}

	for i, balance := range data.SourceChainBalances {
		result.SourceChainBalances[i] = ChainBalanceResponse{
			ChainID:           balance.ChainID,
			ChainName:         balance.ChainName,
			Logo:              balance.Logo,
			Balance:           bigString(balance.Balance),
			NormalizedBalance: bigString(balance.NormalizedBalance),
			FormattedBalance:  balance.FormattedBalance,
			Decimals:          balance.Decimals,
			Percentage:        balance.Percentage,
			IsLoading:         balance.IsLoading,
			IsError:           balance.IsError,
		}

		if balance.Err != nil {
			result.SourceChainBalances[i].Error = balance.Err.Error()
		}
	}

	for i, liquidity := range data.LiquidityBreakdown {
		result.LiquidityBreakdown[i] = LiquidityBreakdownResponse{
			ChainID:          liquidity.ChainID,
			KdaID:            liquidity.KdaID,
			Description:      liquidity.Description,
			Balance:          bigString(liquidity.Balance),
			FormattedBalance: liquidity.FormattedBalance,
			Percentage:       liquidity.Percentage,
			IsLoading:        liquidity.IsLoading,
			IsError:          liquidity.IsError,
		}
	}

	return result
}

// DashboardStatusResponse describes the freshness of the served data
type DashboardStatusResponse struct {
	Generation           uint64     `json:"generation"`
	IsLoading            bool       `json:"isLoading"`
	IsError              bool       `json:"isError"`
	Refreshing           bool       `json:"refreshing"`
	UpdatedAt            *time.Time `json:"updatedAt"`
	LastSuccessfulUpdate *time.Time `json:"lastSuccessfulUpdate"`
}

func NewDashboardStatusResponse(snapshot core.DashboardSnapshot) DashboardStatusResponse {
	return DashboardStatusResponse{
		Generation:           snapshot.Generation,
		IsLoading:            snapshot.IsLoading,
		IsError:              snapshot.IsError,
		Refreshing:           snapshot.Refreshing,
		UpdatedAt:            timePtr(snapshot.UpdatedAt),
		LastSuccessfulUpdate: timePtr(snapshot.LastSuccessfulUpdate),
	}
}

type TokensResponse struct {
	DashboardStatusResponse
	Tokens []*TokenBalanceResponse `json:"tokens"`
}

func NewTokensResponse(snapshot core.DashboardSnapshot) *TokensResponse {
	tokens := make([]*TokenBalanceResponse, len(snapshot.Tokens))
	for i, token := range snapshot.Tokens {
		tokens[i] = NewTokenBalanceResponse(token)
	}

	return &TokensResponse{
		DashboardStatusResponse: NewDashboardStatusResponse(snapshot),
		Tokens:                  tokens,
	}
}

func bigString(value *big.Int) string {
	if value == nil {
		return "0"
	}

	return value.String()
}

func timePtr(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}

	return &value
}
