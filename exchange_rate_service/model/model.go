package model

type FetchPricesParams struct {
	FeedIDs []string
}

type FeedPrice struct {
	USD       float64
	Change24h *float64
}

// CoinGeckoPrice is one entry of the simple/price response
type CoinGeckoPrice struct {
	USD          *float64 `json:"usd"`
	USD24hChange *float64 `json:"usd_24h_change"`
}

type CoinGeckoResponse map[string]CoinGeckoPrice

type BinanceTickerResponse struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
}
