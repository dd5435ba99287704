package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is the 24h ticker of one asset on the exchange.
type PriceSnapshot struct {
	Symbol           string          `json:"symbol"`
	LastPrice        decimal.Decimal `json:"last_price"`
	ChangePercent24h decimal.Decimal `json:"change_percent_24h"`
	High24h          decimal.Decimal `json:"high_24h"`
	Low24h           decimal.Decimal `json:"low_24h"`
	Volume24h        decimal.Decimal `json:"volume_24h"`
	FetchedAt        time.Time       `json:"fetched_at"`
}

// MarketSnapshot holds market-wide statistics of one asset.
type MarketSnapshot struct {
	MarketCap         decimal.Decimal  `json:"market_cap"`
	Volume24h         decimal.Decimal  `json:"volume_24h"`
	Rank              int              `json:"rank"`
	CirculatingSupply decimal.Decimal  `json:"circulating_supply"`
	MaxSupply         *decimal.Decimal `json:"max_supply,omitempty"`
	ChangePercent24h  decimal.Decimal  `json:"change_percent_24h"`
	FetchedAt         time.Time        `json:"fetched_at"`
}

// TurnoverRatio is the 24h volume divided by market cap, zero when the cap is unknown.
func (m *MarketSnapshot) TurnoverRatio() decimal.Decimal {
	if m == nil || m.MarketCap.IsZero() {
		return decimal.Zero
	}
	return m.Volume24h.Div(m.MarketCap)
}
