package controllers

import (
	"fmt"
	"net/http"

	apiCore "github.com/Ethernal-Tech/bridge-transparency/api/core"
	"github.com/Ethernal-Tech/bridge-transparency/api/model/response"
	apiUtils "github.com/Ethernal-Tech/bridge-transparency/api/utils"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
)

type DashboardControllerImpl struct {
	dashboard core.DashboardService
	logger    hclog.Logger
}

var _ apiCore.APIController = (*DashboardControllerImpl)(nil)

func NewDashboardController(
	dashboard core.DashboardService,
	logger hclog.Logger,
) *DashboardControllerImpl {
	return &DashboardControllerImpl{
		dashboard: dashboard,
		logger:    logger,
	}
}

func (*DashboardControllerImpl) GetPathPrefix() string {
	return "Dashboard"
}

func (c *DashboardControllerImpl) GetEndpoints() []*apiCore.APIEndpoint {
	return []*apiCore.APIEndpoint{
		{Path: "Tokens", Method: http.MethodGet, Handler: c.getTokens},
		{Path: "Token/{tokenId}", Method: http.MethodGet, Handler: c.getToken},
		{Path: "Portfolio", Method: http.MethodGet, Handler: c.getPortfolio},
		{Path: "Prices", Method: http.MethodGet, Handler: c.getPrices},
		{Path: "Chains", Method: http.MethodGet, Handler: c.getChains},
		{Path: "Refresh", Method: http.MethodPost, Handler: c.refresh, APIKeyAuth: true},
	}
}

// @Summary Get the backing of every configured token
// @Description Returns locked balances per source chain, minted supply, liquidity breakdown and backing status of every token. Big integers are decimal strings.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.TokensResponse "OK - Returns every token."
// @Router /Dashboard/Tokens [get]
func (c *DashboardControllerImpl) getTokens(w http.ResponseWriter, r *http.Request) {
	apiUtils.WriteResponse(w, r, http.StatusOK, response.NewTokensResponse(c.dashboard.Snapshot()), c.logger)
}

// @Summary Get the backing of one token
// @Tags Dashboard
// @Produce json
// @Param tokenId path string true "Token id"
// @Success 200 {object} response.TokenBalanceResponse "OK - Returns the token."
// @Failure 404 {object} response.ErrorResponse "Not Found - Unknown token id."
// @Router /Dashboard/Token/{tokenId} [get]
func (c *DashboardControllerImpl) getToken(w http.ResponseWriter, r *http.Request) {
	tokenID := mux.Vars(r)["tokenId"]

	token, exists := c.dashboard.Token(tokenID)
	if !exists {
		apiUtils.WriteNotFoundResponse(w, r, fmt.Errorf("unknown token: %s", tokenID), c.logger)

		return
	}

	apiUtils.WriteResponse(w, r, http.StatusOK, response.NewTokenBalanceResponse(token), c.logger)
}

// @Summary Get the usd denominated portfolio
// @Description Returns total value locked and minted, the overall backing ratio, distribution per chain and flows from chains to tokens. Unpriced tokens do not contribute.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.PortfolioResponse "OK - Returns the portfolio."
// @Router /Dashboard/Portfolio [get]
func (c *DashboardControllerImpl) getPortfolio(w http.ResponseWriter, r *http.Request) {
	apiUtils.WriteResponse(w, r, http.StatusOK, response.NewPortfolioResponse(c.dashboard.Snapshot()), c.logger)
}

// @Summary Get token prices
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.PricesResponse "OK - Returns usd prices per token id."
// @Router /Dashboard/Prices [get]
func (c *DashboardControllerImpl) getPrices(w http.ResponseWriter, r *http.Request) {
	snapshot := c.dashboard.Snapshot()

	apiUtils.WriteResponse(w, r, http.StatusOK,
		response.NewPricesResponse(snapshot.Prices, snapshot.PricesError), c.logger)
}

// @Summary Get chain display metadata
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.ChainsResponse "OK - Returns chains by id."
// @Router /Dashboard/Chains [get]
func (c *DashboardControllerImpl) getChains(w http.ResponseWriter, r *http.Request) {
	apiUtils.WriteResponse(w, r, http.StatusOK, response.NewChainsResponse(c.dashboard.Chains()), c.logger)
}

// @Summary Trigger a refresh
// @Description Starts a refresh cycle without waiting for it. Previous data stays visible while it runs.
// @Tags Dashboard
// @Produce json
// @Success 202 {object} response.RefreshResponse "Accepted - Refresh scheduled."
// @Failure 401 {object} response.ErrorResponse "Unauthorized - API key missing or invalid."
// @Security ApiKeyAuth
// @Router /Dashboard/Refresh [post]
func (c *DashboardControllerImpl) refresh(w http.ResponseWriter, r *http.Request) {
	c.dashboard.Refresh()

	apiUtils.WriteResponse(w, r, http.StatusAccepted, &response.RefreshResponse{Accepted: true}, c.logger)
}
