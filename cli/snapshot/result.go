package clisnapshot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Ethernal-Tech/bridge-transparency/amounts"
	"github.com/Ethernal-Tech/bridge-transparency/api/model/response"
	"github.com/Ethernal-Tech/bridge-transparency/common"
)

type snapshotResult struct {
	Tokens    *response.TokensResponse    `json:"tokens"`
	Portfolio *response.PortfolioResponse `json:"portfolio"`
}

func (r *snapshotResult) GetOutput() string {
	var buffer bytes.Buffer

	rows := make([]string, 0, len(r.Tokens.Tokens)+1)
	rows = append(rows, "Token|Locked|Minted|Ratio|Status|Holders")

	for _, token := range r.Tokens.Tokens {
		rows = append(rows, fmt.Sprintf("%s|%s|%s|%s|%s|%s",
			token.Symbol, token.FormattedTotalLocked, token.FormattedKleverMinted,
			formatRatio(token), token.BackingStatus, formatCount(token.HoldersCount)))
	}

	common.WriteSection(&buffer, "Tokens", common.FormatList(rows))

	for _, token := range r.Tokens.Tokens {
		chainRows := []string{"Chain|Locked|Share|Error"}

		for _, balance := range token.SourceChainBalances {
			chainRows = append(chainRows, fmt.Sprintf("%s|%s|%.2f%%|%s",
				balance.ChainName, balance.FormattedBalance, balance.Percentage, balance.Error))
		}

		for _, liquidity := range token.LiquidityBreakdown {
			chainRows = append(chainRows, fmt.Sprintf("%s (%s)|%s|%.2f%%|",
				liquidity.ChainID, liquidity.KdaID, liquidity.FormattedBalance, liquidity.Percentage))
		}

		common.WriteSection(&buffer, token.Symbol+" breakdown", common.FormatList(chainRows))

		if len(token.Errors) > 0 {
			common.WriteSection(&buffer, token.Symbol+" errors", strings.Join(token.Errors, "\n"))
		}
	}

	common.WriteSection(&buffer, "Portfolio", common.FormatKV([]string{
		fmt.Sprintf("Total value locked|%s", r.Portfolio.FormattedUsdLocked),
		fmt.Sprintf("Total value minted|%s", r.Portfolio.FormattedUsdMinted),
		fmt.Sprintf("Backing ratio|%.2f%%", r.Portfolio.BackingRatio),
		fmt.Sprintf("Active chains|%d", r.Portfolio.ActiveChains),
	}))

	distributionRows := []string{"Chain|Value|Share"}
	for _, chain := range r.Portfolio.ChainDistribution {
		distributionRows = append(distributionRows, fmt.Sprintf("%s|%s|%.2f%%",
			chain.ChainName, amounts.FormatUsdValue(chain.UsdValue), chain.Percentage))
	}

	common.WriteSection(&buffer, "Chain distribution", common.FormatList(distributionRows))

	return buffer.String()
}

func formatRatio(token *response.TokenBalanceResponse) string {
	switch {
	case token.BackingRatioInfinite:
		return "inf"
	case token.BackingRatio == nil:
		return "-"
	default:
		return fmt.Sprintf("%.4f", *token.BackingRatio)
	}
}

func formatCount(count *uint64) string {
	if count == nil {
		return "-"
	}

	return fmt.Sprintf("%d", *count)
}
