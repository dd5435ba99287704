package dto

import (
	"github.com/shopspring/decimal"
)

// CoinGeckoCoinResponse is the subset of GET /coins/{id} the assistant reads.
type CoinGeckoCoinResponse struct {
	ID            string               `json:"id"`
	Symbol        string               `json:"symbol"`
	Name          string               `json:"name"`
	MarketCapRank *int                 `json:"market_cap_rank"`
	MarketData    *CoinGeckoMarketData `json:"market_data"`
}

// CoinGeckoMarketData holds per-currency market figures.
type CoinGeckoMarketData struct {
	CurrentPrice             map[string]decimal.Decimal `json:"current_price"`
	MarketCap                map[string]decimal.Decimal `json:"market_cap"`
	TotalVolume              map[string]decimal.Decimal `json:"total_volume"`
	PriceChangePercentage24h decimal.NullDecimal        `json:"price_change_percentage_24h"`
	CirculatingSupply        decimal.NullDecimal        `json:"circulating_supply"`
	MaxSupply                decimal.NullDecimal        `json:"max_supply"`
	MarketCapRank            *int                       `json:"market_cap_rank"`
}

// CoinGeckoErrorResponse is returned on rate limiting and unknown ids.
type CoinGeckoErrorResponse struct {
	Error  string `json:"error"`
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}
