package controllers

import (
	"context"
	"encoding/json"
	"math"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ethernal-Tech/bridge-transparency/api"
	apiCore "github.com/Ethernal-Tech/bridge-transparency/api/core"
	"github.com/Ethernal-Tech/bridge-transparency/api/model/response"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

func newTestSnapshot() core.DashboardSnapshot {
	change := -1.5

	return core.DashboardSnapshot{
		Generation: 3,
		UpdatedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Tokens: []core.TokenBalanceData{
			{
				TokenID:       "usdt",
				Symbol:        "USDT",
				Decimals:      6,
				KleverMinted:  new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil),
				TotalLocked:   big.NewInt(1_000_000_000),
				BackingRatio:  0.5,
				BackingStatus: core.BackingStatusUnderBacked,
				SourceChainBalances: []core.ChainBalance{
					{ChainID: "ethereum", Balance: big.NewInt(1_000_000_000), NormalizedBalance: big.NewInt(1_000_000_000)},
				},
			},
			{
				TokenID:       "wbtc",
				KleverMinted:  big.NewInt(0),
				TotalLocked:   big.NewInt(5),
				BackingRatio:  math.Inf(1),
				BackingStatus: core.BackingStatusOverBacked,
			},
		},
		Prices: core.TokenPrices{
			"usdt": {USD: 1, Change24h: &change},
		},
		Portfolio: core.PortfolioSnapshot{
			TotalUsdLocked: 1_500_000,
			BackingRatio:   100,
			TotalTokens:    2,
			ChainFlows: []core.ChainFlow{
				{ChainID: "ethereum", UsdValue: 1_500_000, Percentage: 100, Tokens: []core.TokenFlow{
					{TokenID: "usdt", UsdValue: 1_500_000, Percentage: 100},
				}},
			},
		},
	}
}

func newTestHandler(t *testing.T, dashboard core.DashboardService) http.Handler {
	t.Helper()

	apiConfig := apiCore.APIConfig{APIKeys: []string{testAPIKey}}
	apiConfig.FillOut()

	apiObj, err := api.NewAPI(context.Background(), apiConfig,
		[]apiCore.APIController{NewDashboardController(dashboard, hclog.NewNullLogger())}, hclog.NewNullLogger())
	require.NoError(t, err)

	return apiObj.Handler()
}

func doRequest(handler http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestDashboardController(t *testing.T) {
	snapshot := newTestSnapshot()

	dashboard := &core.DashboardServiceMock{}
	dashboard.On("Snapshot").Return(snapshot)
	dashboard.On("Token", "usdt").Return(snapshot.Tokens[0], true)
	dashboard.On("Token", "unknown").Return(core.TokenBalanceData{}, false)
	dashboard.On("Chains").Return(map[string]core.ChainConfig{
		"ethereum": {ID: "ethereum", Name: "Ethereum", Type: core.ChainTypeEVM},
	})
	dashboard.On("Refresh").Return()

	handler := newTestHandler(t, dashboard)

	t.Run("tokens", func(t *testing.T) {
		rec := doRequest(handler, http.MethodGet, "/api/Dashboard/Tokens", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result response.TokensResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

		assert.Equal(t, uint64(3), result.Generation)
		require.NotNil(t, result.UpdatedAt)
		assert.Nil(t, result.LastSuccessfulUpdate)
		require.Len(t, result.Tokens, 2)

		usdt := result.Tokens[0]
		assert.Equal(t, "1000000000000000000000000000000", usdt.KleverMinted)
		assert.Equal(t, "1000000000", usdt.TotalLocked)
		require.NotNil(t, usdt.BackingRatio)
		assert.Equal(t, 0.5, *usdt.BackingRatio)
		assert.False(t, usdt.BackingRatioInfinite)
		assert.Equal(t, "1000000000", usdt.SourceChainBalances[0].NormalizedBalance)
		assert.Equal(t, []string{}, usdt.Errors)

		wbtc := result.Tokens[1]
		assert.Nil(t, wbtc.BackingRatio)
		assert.True(t, wbtc.BackingRatioInfinite)
		assert.Equal(t, core.BackingStatusOverBacked, wbtc.BackingStatus)
	})

	t.Run("infinite ratio is encoded as null", func(t *testing.T) {
		rec := doRequest(handler, http.MethodGet, "/api/Dashboard/Tokens", nil)

		assert.Contains(t, rec.Body.String(), `"backingRatio":null,"backingRatioInfinite":true`)
	})

	t.Run("token", func(t *testing.T) {
		rec := doRequest(handler, http.MethodGet, "/api/Dashboard/Token/usdt", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result response.TokenBalanceResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "usdt", result.TokenID)

		rec = doRequest(handler, http.MethodGet, "/api/Dashboard/Token/unknown", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		var errResult response.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResult))
		assert.Equal(t, "unknown token: unknown", errResult.Err)
	})

	t.Run("portfolio", func(t *testing.T) {
		rec := doRequest(handler, http.MethodGet, "/api/Dashboard/Portfolio", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result response.PortfolioResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

		assert.Equal(t, 1_500_000.0, result.TotalUsdLocked)
		assert.Equal(t, "$1.50M", result.FormattedUsdLocked)
		assert.Equal(t, 2, result.TotalTokens)
		require.Len(t, result.ChainFlows, 1)
		assert.Equal(t, "ethereum", result.ChainFlows[0].ChainID)
		require.Len(t, result.ChainFlows[0].Tokens, 1)
		assert.Equal(t, "usdt", result.ChainFlows[0].Tokens[0].TokenID)
	})

	t.Run("prices", func(t *testing.T) {
		rec := doRequest(handler, http.MethodGet, "/api/Dashboard/Prices", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result response.PricesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

		require.Contains(t, result.Prices, "usdt")
		assert.Equal(t, 1.0, result.Prices["usdt"].USD)
		require.NotNil(t, result.Prices["usdt"].Change24h)
		assert.Equal(t, -1.5, *result.Prices["usdt"].Change24h)
	})

	t.Run("chains", func(t *testing.T) {
		rec := doRequest(handler, http.MethodGet, "/api/Dashboard/Chains", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result response.ChainsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "Ethereum", result.Chains["ethereum"].Name)
	})

	t.Run("refresh requires api key", func(t *testing.T) {
		rec := doRequest(handler, http.MethodPost, "/api/Dashboard/Refresh", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = doRequest(handler, http.MethodPost, "/api/Dashboard/Refresh",
			map[string]string{apiCore.DefaultAPIKeyHeader: "wrong"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		dashboard.AssertNotCalled(t, "Refresh")

		rec = doRequest(handler, http.MethodPost, "/api/Dashboard/Refresh",
			map[string]string{apiCore.DefaultAPIKeyHeader: testAPIKey})
		require.Equal(t, http.StatusAccepted, rec.Code)

		dashboard.AssertNumberOfCalls(t, "Refresh", 1)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := doRequest(handler, http.MethodGet, "/api/Dashboard/Refresh", nil)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
