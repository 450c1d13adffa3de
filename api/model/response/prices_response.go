package response

import "github.com/Ethernal-Tech/bridge-transparency/core"

type TokenPriceResponse struct {
	USD       float64  `json:"usd"`
	Change24h *float64 `json:"usd24hChange"`
}

type PricesResponse struct {
	Prices map[string]TokenPriceResponse `json:"prices"`
	Error  string                        `json:"error,omitempty"`
}

func NewPricesResponse(prices core.TokenPrices, pricesError string) *PricesResponse {
	result := &PricesResponse{
		Prices: make(map[string]TokenPriceResponse, len(prices)),
		Error:  pricesError,
	}

	for tokenID, price := range prices {
		result.Prices[tokenID] = TokenPriceResponse(price)
	}

	return result
}
