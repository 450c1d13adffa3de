package core

import (
	"math/big"
	"time"

	"github.com/Ethernal-Tech/bridge-transparency/common"
)

type BackingStatus string

const (
	BackingStatusFullyBacked BackingStatus = "fully-backed"
	BackingStatusOverBacked  BackingStatus = "over-backed"
	BackingStatusUnderBacked BackingStatus = "under-backed"
	BackingStatusLoading     BackingStatus = "loading"
	BackingStatusError       BackingStatus = "error"
)

// BalanceRequest asks for the TokenContract balance held by Account
type BalanceRequest struct {
	TokenContract string
	Account       string
}

type BalanceResult = common.Result[*big.Int]

// ChainBalance is the locked balance of one token on one source chain
type ChainBalance struct {
	ChainID   string
	ChainName string
	Logo      string
	// Balance is expressed in the chain native decimals
	Balance *big.Int
	// NormalizedBalance is Balance expressed in the token canonical decimals
	NormalizedBalance *big.Int
	FormattedBalance  string
	Decimals          uint8
	Percentage        float64
	IsLoading         bool
	IsError           bool
	Err               error
}

// SourceBalances is the outcome of reading every enabled source chain of one token
type SourceBalances struct {
	Balances             []ChainBalance
	TotalLocked          *big.Int
	FormattedTotalLocked string
	IsLoading            bool
	// IsError is set only when every enabled chain failed
	IsError bool
}

// KleverAssetData is a snapshot of one destination chain asset
type KleverAssetData struct {
	AssetID                    string
	Name                       string
	Ticker                     string
	CirculatingSupply          *big.Int
	MaxSupply                  *big.Int
	FormattedCirculatingSupply string
	Precision                  uint8
	// nil means the count is unknown
	HoldersCount      *uint64
	TransactionsCount *uint64
}

type LiquidityBreakdown struct {
	ChainID          string
	KdaID            string
	Description      string
	Balance          *big.Int
	FormattedBalance string
	Percentage       float64
	IsLoading        bool
	IsError          bool
}

// TokenBalanceData is the per token view model. It is rebuilt on every refresh, never patched.
type TokenBalanceData struct {
	TokenID  string
	Symbol   string
	Name     string
	Logo     string
	Decimals uint8

	BaseTokenID           string
	KleverMinted          *big.Int
	FormattedKleverMinted string

	TotalLocked          *big.Int
	FormattedTotalLocked string

	SourceChainBalances []ChainBalance
	LiquidityBreakdown  []LiquidityBreakdown

	BackingRatio  float64
	BackingStatus BackingStatus

	HoldersCount      *uint64
	TransactionsCount *uint64

	IsLoading bool
	IsError   bool
	// Errors holds diagnostic messages of failed upstream reads
	Errors []string
}

type TokenPrice struct {
	USD       float64
	Change24h *float64
}

// TokenPrices is keyed by token id. A missing key means the token is unpriced.
type TokenPrices map[string]TokenPrice

type ChainDistribution struct {
	ChainID    string
	ChainName  string
	Logo       string
	UsdValue   float64
	Percentage float64
}

type TokenFlow struct {
	TokenID    string
	Symbol     string
	Name       string
	Logo       string
	UsdValue   float64
	Percentage float64
}

// ChainFlow is the USD value flowing from one source chain, split per token
type ChainFlow struct {
	ChainID    string
	ChainName  string
	Logo       string
	UsdValue   float64
	Percentage float64
	Tokens     []TokenFlow
}

type TokenTotal struct {
	TokenID   string
	Symbol    string
	Name      string
	Logo      string
	UsdLocked float64
	UsdMinted float64
	IsPriced  bool
}

type PortfolioSnapshot struct {
	TotalUsdLocked    float64
	TotalUsdMinted    float64
	ChainDistribution []ChainDistribution
	ChainFlows        []ChainFlow
	TokenTotals       []TokenTotal
	// BackingRatio is expressed in percent
	BackingRatio float64
	TotalTokens  int
	ActiveChains int
}

type DashboardSnapshot struct {
	Generation           uint64
	Tokens               []TokenBalanceData
	Prices               TokenPrices
	PricesError          string
	Portfolio            PortfolioSnapshot
	IsLoading            bool
	IsError              bool
	Refreshing           bool
	UpdatedAt            time.Time
	LastSuccessfulUpdate time.Time
}
