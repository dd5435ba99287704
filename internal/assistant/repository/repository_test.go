package repository

import (
	"testing"
	"time"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Binance.MaxRequestPerMinute = 6000
	cfg.CoinGecko.MaxRequestPerMinute = 6000
	cfg.CryptoPanic.MaxRequestPerMinute = 6000
	cfg.AI = config.AI{
		Provider:            "ollama",
		Model:               "llama2",
		Timeout:             5 * time.Second,
		MaxTokens:           500,
		Temperature:         "0.7",
		MaxRequestPerMinute: 6000,
	}
	cfg.RSS.CacheTTL = time.Minute
	return cfg
}

func bitcoin() entity.AssetIdentifier {
	return entity.AssetIdentifier{
		ID:             "bitcoin",
		Name:           "Bitcoin",
		Ticker:         "BTC",
		ExchangeSymbol: "BTCUSDT",
		MarketDataID:   "bitcoin",
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
